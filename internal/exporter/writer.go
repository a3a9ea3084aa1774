package exporter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"ymreport/pkg/contracts/domain"
)

// Writer serializes a processed table in one output format.
type Writer interface {
	Write(w io.Writer, t *domain.Table) error
	Format() domain.ReportFormat
}

// New returns the writer for a report format.
func New(format domain.ReportFormat, opts WorkbookOptions) (Writer, error) {
	switch format {
	case domain.ReportFormatExcel:
		return NewWorkbookWriter(opts), nil
	case domain.ReportFormatCSV:
		return NewCSVWriter(), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}

// WriteFile writes t to path, creating parent directories as needed. The
// file is written to a temporary name first and renamed into place, so a
// failed write never leaves a partial report behind.
func WriteFile(w Writer, path string, t *domain.Table) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*"+filepath.Ext(path))
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := w.Write(tmp, t); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move file into place: %w", err)
	}
	return nil
}
