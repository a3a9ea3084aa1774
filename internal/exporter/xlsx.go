package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"ymreport/pkg/contracts/domain"
)

const (
	// maxColumnWidth is the widest column Excel accepts.
	maxColumnWidth = 255
	// textNumFmt is the built-in "@" text number format.
	textNumFmt = 49
	dateNumFmt = "dd/mm/yyyy"
)

// WorkbookOptions names the parts of a generated workbook.
type WorkbookOptions struct {
	SheetName  string
	TableName  string
	TableStyle string
}

// DefaultWorkbookOptions returns the standard report workbook options
func DefaultWorkbookOptions() WorkbookOptions {
	return WorkbookOptions{
		SheetName:  "Processed Data",
		TableName:  "ProcessedTable",
		TableStyle: "TableStyleMedium9",
	}
}

// WorkbookWriter writes a table to a single-sheet .xlsx workbook formatted
// as an Excel table with banded rows.
type WorkbookWriter struct {
	opts WorkbookOptions
}

// NewWorkbookWriter creates a workbook writer; empty options take defaults.
func NewWorkbookWriter(opts WorkbookOptions) *WorkbookWriter {
	def := DefaultWorkbookOptions()
	if opts.SheetName == "" {
		opts.SheetName = def.SheetName
	}
	if opts.TableName == "" {
		opts.TableName = def.TableName
	}
	if opts.TableStyle == "" {
		opts.TableStyle = def.TableStyle
	}
	return &WorkbookWriter{opts: opts}
}

// Format implements Writer
func (x *WorkbookWriter) Format() domain.ReportFormat {
	return domain.ReportFormatExcel
}

// Write renders t and streams the workbook to w.
func (x *WorkbookWriter) Write(w io.Writer, t *domain.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := x.opts.SheetName
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	dateFmt := dateNumFmt
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	if err != nil {
		return fmt.Errorf("failed to create date style: %w", err)
	}
	textStyle, err := f.NewStyle(&excelize.Style{NumFmt: textNumFmt})
	if err != nil {
		return fmt.Errorf("failed to create text style: %w", err)
	}

	widths := make([]int, len(t.Columns))
	header := make([]any, len(t.Columns))
	for j, c := range t.Columns {
		header[j] = c
		widths[j] = utf8.RuneCountInString(c)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range t.Rows {
		r := i + 2
		for j := range t.Columns {
			if j >= len(row) || row[j] == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, r)
			if err != nil {
				return err
			}
			if err := x.writeCell(f, sheet, cell, row[j], dateStyle, textStyle); err != nil {
				return fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
			if n := utf8.RuneCountInString(formatCell(row[j])); n > widths[j] {
				widths[j] = n
			}
		}
	}

	for j, width := range widths {
		col, err := excelize.ColumnNumberToName(j + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, float64(min(width+2, maxColumnWidth))); err != nil {
			return fmt.Errorf("failed to size column %s: %w", col, err)
		}
	}

	if err := x.addTable(f, t); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func (x *WorkbookWriter) writeCell(f *excelize.File, sheet, cell string, v any, dateStyle, textStyle int) error {
	switch val := v.(type) {
	case domain.LiteralText:
		if err := f.SetCellStr(sheet, cell, string(val)); err != nil {
			return err
		}
		return f.SetCellStyle(sheet, cell, cell, textStyle)
	case time.Time:
		if err := f.SetCellValue(sheet, cell, val); err != nil {
			return err
		}
		return f.SetCellStyle(sheet, cell, cell, dateStyle)
	default:
		return f.SetCellValue(sheet, cell, val)
	}
}

// addTable formats the written range as an Excel table. A table needs at
// least one data row and unique, non-empty header names; otherwise the
// sheet is left as a plain range.
func (x *WorkbookWriter) addTable(f *excelize.File, t *domain.Table) error {
	if len(t.Rows) == 0 || len(t.Columns) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		if c == "" || seen[c] {
			slog.Warn("header is not usable as an Excel table, writing plain range",
				slog.String("column", c))
			return nil
		}
		seen[c] = true
	}

	last, err := excelize.CoordinatesToCellName(len(t.Columns), len(t.Rows)+1)
	if err != nil {
		return err
	}
	stripes := true
	if err := f.AddTable(x.opts.SheetName, &excelize.Table{
		Range:          "A1:" + last,
		Name:           x.opts.TableName,
		StyleName:      x.opts.TableStyle,
		ShowRowStripes: &stripes,
	}); err != nil {
		return fmt.Errorf("failed to add table: %w", err)
	}
	return nil
}
