// Package export renders the flattened table, the error ledger and the typed
// graph into their on-disk forms: CSV, XLSX and indented JSON.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/deep-enzyme/kinetics-audit/internal/batch"
	"github.com/deep-enzyme/kinetics-audit/internal/flatten"
)

// WriteTableCSV writes the table as UTF-8 CSV: header row from the resolved
// column set, one record per row, empty cells where a column does not apply.
func WriteTableCSV(w io.Writer, t flatten.Table) error {
	cw := csv.NewWriter(w)
	if len(t.Columns) > 0 {
		if err := cw.Write(t.Columns); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	record := make([]string, len(t.Columns))
	for i, row := range t.Rows {
		for j, col := range t.Columns {
			record[j] = flatten.FormatCell(row[col])
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteLedgerCSV writes the batch error ledger.
func WriteLedgerCSV(w io.Writer, entries []batch.LedgerEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"article", "file_count", "error_kind", "error_message"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, e := range entries {
		rec := []string{e.Bundle, strconv.Itoa(e.FileCount), e.Kind, e.Message}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write ledger entry for %s: %w", e.Bundle, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
