package exporter

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"ymreport/pkg/contracts/domain"
)

// dateLayout renders dates as DD/MM/YYYY in text outputs.
const dateLayout = "02/01/2006"

// formatCell renders a cell as text for CSV output and column sizing.
func formatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case domain.LiteralText:
		return string(val)
	case time.Time:
		return val.Format(dateLayout)
	case *time.Time:
		if val == nil {
			return ""
		}
		return val.Format(dateLayout)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprint(val)
	}
}

// OutputName returns the download name of a processed file: prefix plus the
// source's base name, with the extension replaced by the format's.
func OutputName(prefix, source string, format domain.ReportFormat) string {
	base := filepath.Base(strings.ReplaceAll(source, "\\", "/"))
	if base == "." || base == "/" {
		base = "report"
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" {
		base = "report"
	}
	return prefix + base + format.Extension()
}

// TextRows renders every cell of t the way the CSV writer does. Rows are
// padded to the header width.
func TextRows(t *domain.Table) [][]string {
	out := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		row := make([]string, len(t.Columns))
		for j := range row {
			if j < len(r) {
				row[j] = formatCell(r[j])
			}
		}
		out = append(out, row)
	}
	return out
}
