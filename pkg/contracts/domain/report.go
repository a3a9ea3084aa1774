package domain

import (
	"time"
)

// ReportMode selects the output layout of a transform run
type ReportMode string

const (
	// ReportModeBasic adds System, Week, Problem and the functional-location
	// subsystem and renders malfunction dates as DD/MM/YYYY text.
	ReportModeBasic ReportMode = "basic"
	// ReportModeExtended keeps only the current reporting week, adds the Type
	// classification and the manual-entry placeholder columns, and keeps
	// malfunction dates as real dates.
	ReportModeExtended ReportMode = "extended"
)

// Valid reports whether m is a known mode
func (m ReportMode) Valid() bool {
	return m == ReportModeBasic || m == ReportModeExtended
}

// ReportFormat defines the format of a generated report file
type ReportFormat string

const (
	ReportFormatExcel ReportFormat = "xlsx"
	ReportFormatCSV   ReportFormat = "csv"
)

// Extension returns the file extension for the format, including the dot.
func (f ReportFormat) Extension() string {
	switch f {
	case ReportFormatCSV:
		return ".csv"
	default:
		return ".xlsx"
	}
}

// ContentType returns the MIME type served for the format.
func (f ReportFormat) ContentType() string {
	switch f {
	case ReportFormatCSV:
		return "text/csv; charset=utf-8"
	default:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
}

// Report describes one completed transform run
type Report struct {
	ID          string         `json:"id"`
	SourceName  string         `json:"source_name"`
	FileName    string         `json:"file_name"`
	Mode        ReportMode     `json:"mode"`
	Format      ReportFormat   `json:"format"`
	Metadata    ReportMetadata `json:"metadata"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// ReportMetadata contains metadata about a report
type ReportMetadata struct {
	RecordsIn           int           `json:"records_in"`
	RecordsOut          int           `json:"records_out"`
	RecordsFiltered     int           `json:"records_filtered"`
	UnclassifiedProblem int           `json:"unclassified_problem"`
	UnclassifiedType    int           `json:"unclassified_type"`
	ProcessingTime      time.Duration `json:"processing_time"`
	WeekStart           *time.Time    `json:"week_start,omitempty"`
	WeekEnd             *time.Time    `json:"week_end,omitempty"`
}
