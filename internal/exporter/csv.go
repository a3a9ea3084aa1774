package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"ymreport/pkg/contracts/domain"
)

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	// BOMPrefix adds a UTF-8 BOM for Excel compatibility.
	BOMPrefix bool
}

// NewCSVWriter creates a CSV writer that emits a BOM
func NewCSVWriter() *CSVWriter {
	return &CSVWriter{BOMPrefix: true}
}

// Format implements Writer
func (c *CSVWriter) Format() domain.ReportFormat {
	return domain.ReportFormatCSV
}

// Write writes the header and every row. Dates are rendered DD/MM/YYYY,
// empty cells as empty fields and LiteralText as a ="..." text formula.
func (c *CSVWriter) Write(w io.Writer, t *domain.Table) error {
	if c.BOMPrefix {
		if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(t.Columns); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	record := make([]string, len(t.Columns))
	for i, row := range t.Rows {
		for j := range record {
			record[j] = ""
			if j < len(row) {
				record[j] = csvCell(row[j])
			}
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// csvCell renders a cell for CSV. Spreadsheet applications read "-12" as a
// number, so LiteralText is written as ="-12", which they keep as text.
func csvCell(v any) string {
	if lit, ok := v.(domain.LiteralText); ok {
		return `="` + strings.ReplaceAll(string(lit), `"`, `""`) + `"`
	}
	return formatCell(v)
}
