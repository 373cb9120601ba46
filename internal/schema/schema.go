package schema

import "github.com/deep-enzyme/kinetics-audit/constants"

// BuildExtractionSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. We pass this to the extraction service as a structured output
// constraint and also use it locally to validate the response.
func BuildExtractionSchema() map[string]any {
	evidence := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"raw_text_snippet": map[string]any{"type": "string"},
			"page_number":      map[string]any{"type": "integer", "minimum": 0},
			"location_type":    map[string]any{"type": "string"},
			"confidence_score": map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
		},
		"required": []string{"raw_text_snippet", "page_number", "location_type", "confidence_score"},
	}

	kineticParameter := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"type":               map[string]any{"type": "string", "enum": constants.MetricTypes},
			"value":              map[string]any{"type": "number"},
			"unit":               map[string]any{"type": "string"},
			"standard_deviation": map[string]any{"type": "number"},
		},
		"required": []string{"type", "value", "unit"},
	}

	measurement := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"time_h":                      map[string]any{"type": "number"},
			"temperature_c":               map[string]any{"type": "number"},
			"ph":                          map[string]any{"type": "number"},
			"reaction_volume_ml":          map[string]any{"type": "number"},
			"enzyme_loading_value":        map[string]any{"type": "number"},
			"enzyme_loading_unit":         map[string]any{"type": "string"},
			"substrate_name":              map[string]any{"type": "string"},
			"substrate_morphology":        map[string]any{"type": "string"},
			"substrate_crystallinity_pct": map[string]any{"type": "number"},
			"substrate_amount_value":      map[string]any{"type": "number"},
			"substrate_amount_unit":       map[string]any{"type": "string"},
			"product_yield_raw":           map[string]any{"type": "string"},
			"product_yield_unit":          map[string]any{"type": "string"},
			// May legitimately be empty: a measurement without metrics is
			// incomplete, not invalid.
			"reported_metrics": map[string]any{"type": "array", "items": kineticParameter},
			"evidence":         evidence,
		},
		"required": []string{"evidence"},
	}

	variant := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"sample_id":        map[string]any{"type": "string", "minLength": 1},
			"seq_aa":           map[string]any{"type": "string"},
			"seq_nuc":          map[string]any{"type": "string"},
			"expression_value": map[string]any{"type": "number"},
			"expression_unit":  map[string]any{"type": "string"},
			"tm_c":             map[string]any{"type": "number"},
			"measurements":     map[string]any{"type": "array", "items": measurement},
		},
		"required": []string{"sample_id", "measurements"},
	}

	figure := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"figure_id":            map[string]any{"type": "string"},
			"page_number":          map[string]any{"type": "integer", "minimum": 0},
			"description":          map[string]any{"type": "string"},
			"data_type":            map[string]any{"type": "string", "enum": constants.FigureDataTypes},
			"why_relevant":         map[string]any{"type": "string"},
			"estimated_datapoints": map[string]any{"type": "integer", "minimum": 0},
		},
		"required": []string{"figure_id", "page_number", "description", "data_type", "why_relevant"},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"paper_doi":                      map[string]any{"type": "string"},
			"variants":                       map[string]any{"type": "array", "items": variant},
			"figures_requiring_digitization": map[string]any{"type": "array", "items": figure},
		},
		"required": []string{"variants"},
	}
}
