package flatten

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deep-enzyme/kinetics-audit/internal/schema"
)

func f64(v float64) *float64 { return &v }
func str(s string) *string   { return &s }

func evidence(snippet string, page int) schema.Evidence {
	return schema.Evidence{
		RawTextSnippet:  snippet,
		PageNumber:      page,
		LocationType:    "text",
		ConfidenceScore: 0.9,
	}
}

func TestFlattenBasic(t *testing.T) {
	res := &schema.ExtractionResult{
		Variants: []schema.Variant{
			{
				SampleID: "LCC-ICCG",
				TmC:      f64(94.5),
				SeqAA:    str("MDGV"),
				Measurements: []schema.Measurement{
					{
						TimeH:        f64(24),
						TemperatureC: f64(72),
						ReportedMetrics: []schema.KineticParameter{
							{Type: "kcat", Value: 5.2, Unit: "min-1", StandardDeviation: f64(0.3)},
						},
						Evidence: evidence("kcat of 5.2", 4),
					},
				},
			},
		},
	}

	tbl := Flatten(res)
	require.Len(t, tbl.Rows, 1)

	row := tbl.Rows[0]
	assert.Equal(t, "LCC-ICCG", row["sample_id"])
	assert.Equal(t, 24.0, row["time_h"])
	assert.Equal(t, 5.2, row["kcat"])
	assert.Equal(t, "min-1", row["kcat_unit"])
	assert.Equal(t, 0.3, row["kcat_std"])
	assert.Equal(t, 94.5, row["tm_c"])
	assert.Equal(t, "kcat of 5.2", row["snippet"])
	assert.Equal(t, 4, row["page"])

	// Preferred prefix ordering: identity first, provenance last.
	require.NotEmpty(t, tbl.Columns)
	assert.Equal(t, "sample_id", tbl.Columns[0])
	assert.Equal(t, "snippet", tbl.Columns[len(tbl.Columns)-1])
}

func TestFlattenDeterminism(t *testing.T) {
	res := &schema.ExtractionResult{
		Variants: []schema.Variant{
			{
				SampleID: "A",
				Measurements: []schema.Measurement{
					{
						ReportedMetrics: []schema.KineticParameter{
							{Type: "Km", Value: 1.1, Unit: "mM"},
							{Type: "kcat", Value: 2.0, Unit: "s-1"},
						},
						Evidence: evidence("a", 1),
					},
					{
						ReportedMetrics: []schema.KineticParameter{
							{Type: "Conversion", Value: 90, Unit: "%"},
						},
						Evidence: evidence("b", 2),
					},
				},
			},
		},
	}

	first := Flatten(res)
	second := Flatten(res)
	assert.Equal(t, first.Columns, second.Columns)
	assert.Equal(t, first.Rows, second.Rows)
}

func TestFlattenTieBreakLastWriteWins(t *testing.T) {
	res := &schema.ExtractionResult{
		Variants: []schema.Variant{
			{
				SampleID: "A",
				Measurements: []schema.Measurement{
					{
						ReportedMetrics: []schema.KineticParameter{
							{Type: "kcat", Value: 1.0, Unit: "min-1"},
							{Type: "kcat", Value: 2.0, Unit: "s-1"},
						},
						Evidence: evidence("twice", 3),
					},
				},
			},
		},
	}

	tbl := Flatten(res)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, 2.0, tbl.Rows[0]["kcat"])
	assert.Equal(t, "s-1", tbl.Rows[0]["kcat_unit"])

	// A single kcat column, not one per occurrence.
	count := 0
	for _, c := range tbl.Columns {
		if c == "kcat" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestFlattenRaggedColumns(t *testing.T) {
	res := &schema.ExtractionResult{
		Variants: []schema.Variant{
			{
				SampleID: "A",
				Measurements: []schema.Measurement{
					{
						ReportedMetrics: []schema.KineticParameter{{Type: "Km", Value: 1.1, Unit: "mM"}},
						Evidence:        evidence("km row", 1),
					},
					{
						ReportedMetrics: []schema.KineticParameter{{Type: "kcat", Value: 2.0, Unit: "s-1"}},
						Evidence:        evidence("kcat row", 2),
					},
				},
			},
		},
	}

	tbl := Flatten(res)
	require.Len(t, tbl.Rows, 2)
	assert.Contains(t, tbl.Columns, "Km")
	assert.Contains(t, tbl.Columns, "Km_unit")
	assert.Contains(t, tbl.Columns, "kcat")
	assert.Contains(t, tbl.Columns, "kcat_unit")

	// Non-applicable cells are simply absent and render empty.
	assert.Nil(t, tbl.Rows[0]["kcat"])
	assert.Nil(t, tbl.Rows[1]["Km"])
	assert.Equal(t, "", FormatCell(tbl.Rows[0]["kcat"]))
}

func TestFlattenStdZeroIsPresent(t *testing.T) {
	res := &schema.ExtractionResult{
		Variants: []schema.Variant{
			{
				SampleID: "A",
				Measurements: []schema.Measurement{
					{
						ReportedMetrics: []schema.KineticParameter{
							{Type: "Vmax", Value: 3.0, Unit: "U/mg", StandardDeviation: f64(0)},
						},
						Evidence: evidence("sd zero", 1),
					},
				},
			},
		},
	}

	tbl := Flatten(res)
	require.Len(t, tbl.Rows, 1)
	v, ok := tbl.Rows[0]["Vmax_std"]
	require.True(t, ok)
	assert.Equal(t, 0.0, v)
}

func TestFlattenZeroMeasurementVariant(t *testing.T) {
	res := &schema.ExtractionResult{
		Variants: []schema.Variant{
			{SampleID: "empty", Measurements: []schema.Measurement{}},
			{
				SampleID: "full",
				Measurements: []schema.Measurement{
					{Evidence: evidence("only row", 1)},
				},
			},
		},
	}

	tbl := Flatten(res)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "full", tbl.Rows[0]["sample_id"])
}

func TestFlattenEmptyResult(t *testing.T) {
	tbl := Flatten(&schema.ExtractionResult{Variants: []schema.Variant{}})
	assert.Empty(t, tbl.Rows)
	assert.Empty(t, tbl.Columns)
}

func TestFlattenUnknownColumnsAfterPreferred(t *testing.T) {
	// Measurement with only evidence: provenance columns exist; then tag adds
	// a column outside the preferred list via Tag/Resolve.
	res := &schema.ExtractionResult{
		Variants: []schema.Variant{
			{
				SampleID: "A",
				Measurements: []schema.Measurement{
					{Evidence: evidence("x", 1)},
				},
			},
		},
	}

	tbl := Flatten(res)
	tbl.Tag("article", "paper-1")
	tbl.Resolve("article")

	require.NotEmpty(t, tbl.Columns)
	assert.Equal(t, "article", tbl.Columns[0])
	assert.Equal(t, "sample_id", tbl.Columns[1])
	for _, r := range tbl.Rows {
		assert.Equal(t, "paper-1", r["article"])
	}
}

func TestTableAppendUnionsColumns(t *testing.T) {
	a := Table{Columns: []string{"sample_id", "Km"}, Rows: []Row{{"sample_id": "a", "Km": 1.0}}}
	b := Table{Columns: []string{"sample_id", "kcat"}, Rows: []Row{{"sample_id": "b", "kcat": 2.0}}}

	a.Append(b)
	assert.Equal(t, []string{"sample_id", "Km", "kcat"}, a.Columns)
	require.Len(t, a.Rows, 2)
}
