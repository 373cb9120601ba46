package remote

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// ConvertSpreadsheet renders every sheet of a workbook into one delimited text
// file under cacheDir, one section per sheet with the sheet name as a header
// line. Returns the path of the conversion artifact; the caller owns deleting
// it.
func ConvertSpreadsheet(path, cacheDir string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("open spreadsheet: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("create artifact cache dir: %w", err)
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	outPath := filepath.Join(cacheDir, fmt.Sprintf("%s-%s.csv", stem, uuid.New().String()[:8]))
	out, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("create conversion artifact: %w", err)
	}

	w := csv.NewWriter(out)
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			_ = out.Close()
			_ = os.Remove(outPath)
			return "", fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		if err := w.Write([]string{"### Sheet: " + sheet}); err != nil {
			_ = out.Close()
			_ = os.Remove(outPath)
			return "", fmt.Errorf("write sheet header: %w", err)
		}
		for _, row := range rows {
			if err := w.Write(row); err != nil {
				_ = out.Close()
				_ = os.Remove(outPath)
				return "", fmt.Errorf("write sheet %q row: %w", sheet, err)
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = out.Close()
		_ = os.Remove(outPath)
		return "", fmt.Errorf("flush conversion artifact: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(outPath)
		return "", fmt.Errorf("close conversion artifact: %w", err)
	}
	return outPath, nil
}
