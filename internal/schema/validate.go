package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/deep-enzyme/kinetics-audit/internal/common"
)

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		b, err := json.Marshal(BuildExtractionSchema())
		if err != nil {
			compileErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("extraction.json", bytes.NewReader(b)); err != nil {
			compileErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiled, compileErr = compiler.Compile("extraction.json")
	})
	return compiled, compileErr
}

// ParseResult validates data against the extraction schema and decodes it into
// the typed graph. Any structural mismatch fails with a SCHEMA_VIOLATION error
// naming the offending instance location; nothing is coerced or dropped.
func ParseResult(data []byte) (*ExtractionResult, error) {
	s, err := compiledSchema()
	if err != nil {
		return nil, err
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, common.NewExtractionError(common.KindSchemaViolation, "document is not valid JSON", err)
	}
	if err := s.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return nil, common.NewExtractionError(common.KindSchemaViolation, violationDetail(ve), err)
		}
		return nil, common.NewExtractionError(common.KindSchemaViolation, "document does not match schema", err)
	}

	var out ExtractionResult
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, common.NewExtractionError(common.KindSchemaViolation, "decode validated document", err)
	}
	return &out, nil
}

// violationDetail walks to the deepest cause so the error names the leaf field
// path instead of the root "doesn't validate" summary.
func violationDetail(ve *jsonschema.ValidationError) string {
	leaf := ve
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}
	loc := leaf.InstanceLocation
	if loc == "" {
		loc = "/"
	}
	return fmt.Sprintf("%s: %s", loc, leaf.Message)
}
