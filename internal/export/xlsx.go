package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/deep-enzyme/kinetics-audit/internal/flatten"
)

// TableXLSX returns the table as an XLSX workbook with a single sheet.
func TableXLSX(t flatten.Table) ([]byte, error) {
	f := excelize.NewFile()
	const sheet = "Measurements"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	if index, _ := f.GetSheetIndex("Sheet1"); index != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	for i, col := range t.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, col)
	}
	for r, row := range t.Rows {
		for c, col := range t.Columns {
			v := row[col]
			if v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	// Widen the identity and provenance columns
	for i, col := range t.Columns {
		name, _ := excelize.ColumnNumberToName(i + 1)
		switch col {
		case "sample_id":
			_ = f.SetColWidth(sheet, name, name, 22)
		case "snippet":
			_ = f.SetColWidth(sheet, name, name, 60)
		case "seq_aa", "seq_nuc":
			_ = f.SetColWidth(sheet, name, name, 40)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
