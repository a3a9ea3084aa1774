package dataprocessing

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"ymreport/pkg/contracts/domain"
)

// ReadOptions controls how an input file is read into a table.
type ReadOptions struct {
	// SheetName selects the worksheet; the first sheet is used when empty.
	SheetName string
}

// SupportedExtensions lists the input extensions ReadFile accepts.
var SupportedExtensions = []string{".xlsx", ".xlsm", ".csv"}

// utf8BOM is stripped from the start of CSV input.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadFile dispatches on the file name's extension. .xlsx and .xlsm are read
// as workbooks, .csv as comma separated text. Legacy .xls is rejected.
func ReadFile(r io.Reader, name string, opts ReadOptions) (*domain.Table, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return ReadWorkbook(r, opts)
	case ".csv":
		return ReadCSV(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(name))
	}
}

// ReadWorkbook reads one worksheet. Row 1 is the header. Numeric cells
// (including dates, which arrive as serial numbers) become float64, text
// cells stay strings and empty cells are nil. Blank rows are skipped.
func ReadWorkbook(r io.Reader, opts ReadOptions) (*domain.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open workbook: %v", ErrUnsupportedFormat, err)
	}
	defer f.Close()

	sheet := opts.SheetName
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrEmptyInput
		}
		sheet = sheets[0]
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("worksheet %q not found", sheet)
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read worksheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyInput
	}

	table := domain.NewTable(headerNames(rows[0])...)
	for i, raw := range rows[1:] {
		if blankRow(raw) {
			continue
		}
		row := make(domain.Row, len(table.Columns))
		for j := 0; j < len(raw) && j < len(row); j++ {
			if raw[j] == "" {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			row[j] = workbookCell(f, sheet, cell, raw[j])
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func workbookCell(f *excelize.File, sheet, cell, raw string) any {
	typ, err := f.GetCellType(sheet, cell)
	if err != nil {
		return raw
	}
	switch typ {
	case excelize.CellTypeUnset, excelize.CellTypeNumber, excelize.CellTypeDate:
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	}
	return raw
}

// ReadCSV reads comma separated text with a header row. Every non-empty
// cell is kept as a string.
func ReadCSV(r io.Reader) (*domain.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: malformed csv: %v", ErrUnsupportedFormat, err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyInput
	}

	table := domain.NewTable(headerNames(records[0])...)
	for _, rec := range records[1:] {
		if blankRow(rec) {
			continue
		}
		row := make(domain.Row, len(table.Columns))
		for j := 0; j < len(rec) && j < len(row); j++ {
			if rec[j] != "" {
				row[j] = rec[j]
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// headerNames trims surrounding whitespace from each header cell.
func headerNames(header []string) []string {
	names := make([]string, len(header))
	for i, h := range header {
		names[i] = strings.TrimSpace(h)
	}
	return names
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
