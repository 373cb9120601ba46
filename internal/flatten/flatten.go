// Package flatten converts a validated extraction graph into a wide tabular
// row set: one row per measurement, with every distinct metric type pivoted
// into its own value/unit/std column triplet.
package flatten

import (
	"strconv"

	"github.com/deep-enzyme/kinetics-audit/constants"
	"github.com/deep-enzyme/kinetics-audit/internal/schema"
)

// Row is one flattened measurement. Cells hold string, int or float64 values;
// a column absent from a row renders as an empty cell.
type Row map[string]any

// Table is a resolved row set: Columns is the deterministic export order over
// the ragged union of all row cells.
type Table struct {
	Columns []string
	Rows    []Row
}

// cell pairs a column name with a value, preserving write order while rows
// are assembled (map iteration order would not be deterministic).
type cell struct {
	col string
	val any
}

// preferredColumns is the fixed prefix order: identity, conditions, substrate,
// reaction metadata, yield, the known metric triplets, enzyme-level fields,
// sequences, provenance last. Columns outside this list follow in first-seen
// order, so unanticipated metric types still surface.
func preferredColumns() []string {
	cols := []string{
		"sample_id",
		"time_h", "temperature_c", "ph",
		"substrate_name", "substrate_morphology", "substrate_crystallinity_pct",
		"substrate_amount_value", "substrate_amount_unit",
		"reaction_volume_ml",
		"enzyme_loading_value", "enzyme_loading_unit",
		"product_yield_raw", "product_yield_unit",
	}
	for _, t := range constants.MetricTypes {
		cols = append(cols, t, t+"_unit", t+"_std")
	}
	cols = append(cols,
		"expression_value", "expression_unit", "tm_c",
		"seq_aa", "seq_nuc",
		"confidence", "page", "location_type", "snippet",
	)
	return cols
}

// Flatten maps one extraction graph to a table. The graph is borrowed
// read-only. Running Flatten twice on the same graph yields identical rows
// and column order. A variant with zero measurements contributes zero rows;
// a result with zero variants yields an empty table with no columns.
func Flatten(res *schema.ExtractionResult) Table {
	var rows []Row
	var firstSeen []string
	seen := map[string]struct{}{}

	touch := func(col string) {
		if _, ok := seen[col]; !ok {
			seen[col] = struct{}{}
			firstSeen = append(firstSeen, col)
		}
	}

	for _, v := range res.Variants {
		// Common fields, computed once per variant, repeated on every row.
		common := []cell{{"sample_id", v.SampleID}}
		if v.SeqAA != nil {
			common = append(common, cell{"seq_aa", *v.SeqAA})
		}
		if v.SeqNuc != nil {
			common = append(common, cell{"seq_nuc", *v.SeqNuc})
		}
		if v.ExpressionValue != nil {
			common = append(common, cell{"expression_value", *v.ExpressionValue})
		}
		if v.ExpressionUnit != nil {
			common = append(common, cell{"expression_unit", *v.ExpressionUnit})
		}
		if v.TmC != nil {
			common = append(common, cell{"tm_c", *v.TmC})
		}

		for _, m := range v.Measurements {
			row := Row{}
			for _, c := range common {
				row[c.col] = c.val
				touch(c.col)
			}

			set := func(col string, val any) {
				row[col] = val
				touch(col)
			}
			if m.TimeH != nil {
				set("time_h", *m.TimeH)
			}
			if m.TemperatureC != nil {
				set("temperature_c", *m.TemperatureC)
			}
			if m.PH != nil {
				set("ph", *m.PH)
			}
			if m.SubstrateName != nil {
				set("substrate_name", *m.SubstrateName)
			}
			if m.SubstrateMorphology != nil {
				set("substrate_morphology", *m.SubstrateMorphology)
			}
			if m.SubstrateCrystallinityPct != nil {
				set("substrate_crystallinity_pct", *m.SubstrateCrystallinityPct)
			}
			if m.SubstrateAmountValue != nil {
				set("substrate_amount_value", *m.SubstrateAmountValue)
			}
			if m.SubstrateAmountUnit != nil {
				set("substrate_amount_unit", *m.SubstrateAmountUnit)
			}
			if m.ReactionVolumeML != nil {
				set("reaction_volume_ml", *m.ReactionVolumeML)
			}
			if m.EnzymeLoadingValue != nil {
				set("enzyme_loading_value", *m.EnzymeLoadingValue)
			}
			if m.EnzymeLoadingUnit != nil {
				set("enzyme_loading_unit", *m.EnzymeLoadingUnit)
			}
			if m.ProductYieldRaw != nil {
				set("product_yield_raw", *m.ProductYieldRaw)
			}
			if m.ProductYieldUnit != nil {
				set("product_yield_unit", *m.ProductYieldUnit)
			}

			// Pivot: one value/unit/std triplet per metric type. A repeated
			// type overwrites the earlier cells; last write wins.
			for _, p := range m.ReportedMetrics {
				set(p.Type, p.Value)
				set(p.Type+"_unit", p.Unit)
				if p.StandardDeviation != nil {
					// 0.0 counts as present; absence is a nil pointer only.
					set(p.Type+"_std", *p.StandardDeviation)
				}
			}

			set("snippet", m.Evidence.RawTextSnippet)
			set("page", m.Evidence.PageNumber)
			set("location_type", m.Evidence.LocationType)
			set("confidence", m.Evidence.ConfidenceScore)

			rows = append(rows, row)
		}
	}

	return Table{Columns: resolveColumns(firstSeen), Rows: rows}
}

// resolveColumns orders the ragged union: preferred columns that actually
// occur keep the fixed prefix order, everything else follows in first-seen
// order.
func resolveColumns(firstSeen []string) []string {
	if len(firstSeen) == 0 {
		return nil
	}
	present := map[string]struct{}{}
	for _, c := range firstSeen {
		present[c] = struct{}{}
	}

	var out []string
	taken := map[string]struct{}{}
	for _, c := range preferredColumns() {
		if _, ok := present[c]; ok {
			out = append(out, c)
			taken[c] = struct{}{}
		}
	}
	for _, c := range firstSeen {
		if _, ok := taken[c]; !ok {
			out = append(out, c)
		}
	}
	return out
}

// Tag sets column to value on every row and moves it to the front of the
// column order. The batch runner uses it to stamp each row with its bundle
// name.
func (t *Table) Tag(column, value string) {
	for _, r := range t.Rows {
		r[column] = value
	}
	cols := make([]string, 0, len(t.Columns)+1)
	cols = append(cols, column)
	for _, c := range t.Columns {
		if c != column {
			cols = append(cols, c)
		}
	}
	if len(t.Rows) == 0 {
		// No rows means no cells; keep the empty-table contract.
		return
	}
	t.Columns = cols
}

// Append merges other into t: rows are concatenated, columns are unioned
// keeping t's order first and other's unseen columns after, in order.
func (t *Table) Append(other Table) {
	t.Rows = append(t.Rows, other.Rows...)
	have := map[string]struct{}{}
	for _, c := range t.Columns {
		have[c] = struct{}{}
	}
	for _, c := range other.Columns {
		if _, ok := have[c]; !ok {
			t.Columns = append(t.Columns, c)
			have[c] = struct{}{}
		}
	}
}

// Resolve reorders t.Columns back into the preferred-prefix order, keeping
// any lead columns (e.g. the bundle tag) in front. Append concatenates column
// unions in arrival order; a merged table calls Resolve once at the end so
// the combined export keeps the same stable ordering as a single-bundle one.
func (t *Table) Resolve(lead ...string) {
	if len(t.Columns) == 0 {
		return
	}
	rest := make([]string, 0, len(t.Columns))
	isLead := map[string]struct{}{}
	for _, c := range lead {
		isLead[c] = struct{}{}
	}
	for _, c := range t.Columns {
		if _, ok := isLead[c]; !ok {
			rest = append(rest, c)
		}
	}
	cols := make([]string, 0, len(t.Columns))
	for _, c := range lead {
		cols = append(cols, c)
	}
	t.Columns = append(cols, resolveColumns(rest)...)
}

// FormatCell renders a cell value for delimited export; nil renders as the
// empty cell.
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	default:
		return ""
	}
}
