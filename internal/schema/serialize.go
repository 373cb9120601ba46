package schema

import (
	"encoding/json"
	"fmt"

	"github.com/tiendc/go-deepcopy"
)

// MarshalJSON emits measurements as an explicit empty array when the slice is
// nil. The document form requires the field and never carries null.
func (v Variant) MarshalJSON() ([]byte, error) {
	type variant Variant
	out := variant(v)
	if out.Measurements == nil {
		out.Measurements = []Measurement{}
	}
	return json.Marshal(out)
}

// MarshalJSON emits variants as an explicit empty array when the slice is nil,
// for the same reason as Variant.MarshalJSON.
func (r ExtractionResult) MarshalJSON() ([]byte, error) {
	type extractionResult ExtractionResult
	out := extractionResult(r)
	if out.Variants == nil {
		out.Variants = []Variant{}
	}
	return json.Marshal(out)
}

// MarshalIndent serializes the graph back to its document form, indented for
// human readability. ParseResult(MarshalIndent(r)) reproduces an equal graph.
func (r *ExtractionResult) MarshalIndent() ([]byte, error) {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal extraction result: %w", err)
	}
	return b, nil
}

// Clone returns a deep copy of the graph. The orchestrator's graph is treated
// as immutable; interactive edit surfaces and other mutating consumers work on
// a clone.
func (r *ExtractionResult) Clone() (*ExtractionResult, error) {
	var out ExtractionResult
	if err := deepcopy.Copy(&out, r); err != nil {
		return nil, fmt.Errorf("clone extraction result: %w", err)
	}
	return &out, nil
}
