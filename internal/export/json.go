package export

import "github.com/deep-enzyme/kinetics-audit/internal/schema"

// ResultJSON returns the structured export: the graph's document form,
// indented, round-trippable through schema.ParseResult.
func ResultJSON(r *schema.ExtractionResult) ([]byte, error) {
	return r.MarshalIndent()
}
