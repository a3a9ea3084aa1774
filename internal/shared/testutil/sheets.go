package testutil

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// MaintenanceHeader is the header of a minimal malfunction export
var MaintenanceHeader = []string{
	"Location",
	"Description",
	"Functional Location",
	"Malfunction Start",
	"Malfunction End",
}

// MaintenanceRows returns three records that exercise the classifiers,
// the track-switch rule and a literal negative location.
func MaintenanceRows() [][]string {
	return [][]string{
		{"YM12-03", "Guide tire worn, checklist done", "YM-RST-TR12-MC1-902-01", "08/03/2024", ""},
		{"-12", "SW3 point machine stuck", "YM-RST", "07/03/2024", "07/03/2024 16:00"},
		{"YM04", "Replaced brake pad", "YM-RST-TR12-MC1-916-02", "14/03/2024", "15/03/2024"},
	}
}

// WorkbookBytes builds an xlsx file in memory with header on row 1
func WorkbookBytes(t *testing.T, sheet string, header []string, rows [][]string) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheet != "" && sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			t.Fatalf("rename sheet: %v", err)
		}
	} else {
		sheet = "Sheet1"
	}

	put := func(rowNum int, values []string) {
		for i, v := range values {
			if v == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(i+1, rowNum)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetCellStr(sheet, cell, v); err != nil {
				t.Fatalf("set %s: %v", cell, err)
			}
		}
	}
	put(1, header)
	for i, r := range rows {
		put(i+2, r)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

// CSVBytes renders header and rows as CSV
func CSVBytes(t *testing.T, header []string, rows [][]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		t.Fatalf("write header: %v", err)
	}
	if err := w.WriteAll(rows); err != nil {
		t.Fatalf("write rows: %v", err)
	}
	return buf.Bytes()
}

// WriteFile stores data under dir and returns the full path
func WriteFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
