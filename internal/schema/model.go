// Package schema defines the typed extraction-result graph and its strict
// structural validation. The JSON form is the contract with the extraction
// service: validation never coerces or drops data, and serialization
// round-trips losslessly.
package schema

// Evidence is the forensic provenance record attached to every measurement:
// a literal snippet of the source material plus where it was found.
type Evidence struct {
	RawTextSnippet  string  `json:"raw_text_snippet"`
	PageNumber      int     `json:"page_number"` // 0 means a non-paginated source (sheet, image)
	LocationType    string  `json:"location_type"`
	ConfidenceScore float64 `json:"confidence_score"` // informational only, never gates inclusion
}

// KineticParameter is one reported kinetic value. Type is one of
// constants.MetricTypes; Unit is kept verbatim as reported, never converted.
type KineticParameter struct {
	Type              string   `json:"type"`
	Value             float64  `json:"value"`
	Unit              string   `json:"unit"`
	StandardDeviation *float64 `json:"standard_deviation,omitempty"`
}

// Measurement is one activity experiment under a variant. Everything except
// the evidence is optional; a measurement with no metrics is incomplete but
// valid, since absence of data is itself a signal.
type Measurement struct {
	TimeH        *float64 `json:"time_h,omitempty"`
	TemperatureC *float64 `json:"temperature_c,omitempty"`
	PH           *float64 `json:"ph,omitempty"`

	ReactionVolumeML   *float64 `json:"reaction_volume_ml,omitempty"`
	EnzymeLoadingValue *float64 `json:"enzyme_loading_value,omitempty"`
	EnzymeLoadingUnit  *string  `json:"enzyme_loading_unit,omitempty"`

	SubstrateName             *string  `json:"substrate_name,omitempty"`
	SubstrateMorphology       *string  `json:"substrate_morphology,omitempty"`
	SubstrateCrystallinityPct *float64 `json:"substrate_crystallinity_pct,omitempty"`
	SubstrateAmountValue      *float64 `json:"substrate_amount_value,omitempty"`
	SubstrateAmountUnit       *string  `json:"substrate_amount_unit,omitempty"`

	ProductYieldRaw  *string `json:"product_yield_raw,omitempty"`
	ProductYieldUnit *string `json:"product_yield_unit,omitempty"`

	// omitzero, not omitempty: an empty list must survive serialization as
	// [], while an absent one stays absent.
	ReportedMetrics []KineticParameter `json:"reported_metrics,omitzero"`

	Evidence Evidence `json:"evidence"`
}

// Variant is one enzyme variant. SampleID is the only mandatory identity
// field in the whole graph; measurement order is insertion order from the
// source and preserved for audit.
type Variant struct {
	SampleID string `json:"sample_id"`

	SeqAA  *string `json:"seq_aa,omitempty"`
	SeqNuc *string `json:"seq_nuc,omitempty"`

	ExpressionValue *float64 `json:"expression_value,omitempty"`
	ExpressionUnit  *string  `json:"expression_unit,omitempty"`

	TmC *float64 `json:"tm_c,omitempty"`

	Measurements []Measurement `json:"measurements"`
}

// UnextractedFigure flags a figure the extraction service could not confidently
// read, pointing a human at where to digitize manually.
type UnextractedFigure struct {
	FigureID            string `json:"figure_id"`
	PageNumber          int    `json:"page_number"`
	Description         string `json:"description"`
	DataType            string `json:"data_type"`
	WhyRelevant         string `json:"why_relevant"`
	EstimatedDatapoints *int   `json:"estimated_datapoints,omitempty"`
}

// ExtractionResult is the root of the graph: everything extracted from one
// research artifact.
type ExtractionResult struct {
	PaperDOI                     *string             `json:"paper_doi,omitempty"`
	Variants                     []Variant           `json:"variants"`
	FiguresRequiringDigitization []UnextractedFigure `json:"figures_requiring_digitization,omitzero"`
}
