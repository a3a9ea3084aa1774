package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"ymreport/internal/dataprocessing"
)

// FileValidator checks input sheets and working directories for the CLI,
// the scheduler and the upload handler.
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateInputDirectory validates that dir exists and is a directory
func (v *FileValidator) ValidateInputDirectory(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		v.logger.Error("Input directory does not exist",
			slog.String("directory", dir))
		return fmt.Errorf("input directory %s does not exist", dir)
	}
	if err != nil {
		v.logger.Error("Failed to stat input directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		v.logger.Error("Input path is not a directory",
			slog.String("path", dir))
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	// Probe writability up front so a batch fails before any work is done.
	probe, err := os.CreateTemp(dir, ".write_test_*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	probe.Close()
	os.Remove(probe.Name())

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}

// ValidateFile checks if a specific file exists and is readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateSheetName checks a bare file name without touching the disk.
// Unsupported extensions wrap dataprocessing.ErrUnsupportedFormat.
func ValidateSheetName(name string) error {
	base := filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	if base == "" || base == "." || base == "/" {
		return fmt.Errorf("file name is empty")
	}
	if IsLockFile(base) {
		return fmt.Errorf("%s is an office lock file", base)
	}

	ext := strings.ToLower(filepath.Ext(base))
	if !slices.Contains(dataprocessing.SupportedExtensions, ext) {
		return fmt.Errorf("%w: %s (accepted: %s)",
			dataprocessing.ErrUnsupportedFormat, base, strings.Join(dataprocessing.SupportedExtensions, ", "))
	}
	return nil
}

// ValidateSheetFile checks that path is a readable spreadsheet or CSV input
func (v *FileValidator) ValidateSheetFile(path string) error {
	if err := ValidateSheetName(path); err != nil {
		v.logger.Warn("Rejected input file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return err
	}
	return v.ValidateFile(path)
}

// ListSheetFiles returns the input files in dir in name order. Lock files,
// hidden files and names starting with skipPrefix are left out.
func (v *FileValidator) ListSheetFiles(dir, skipPrefix string) ([]string, error) {
	if err := v.ValidateInputDirectory(dir); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if skipPrefix != "" && strings.HasPrefix(name, skipPrefix) {
			continue
		}
		if ValidateSheetName(name) != nil {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)

	v.logger.Debug("Input files listed",
		slog.String("directory", dir),
		slog.Int("count", len(files)))
	return files, nil
}

// IsLockFile reports whether name is an office owner/lock file ("~$book.xlsx")
func IsLockFile(name string) bool {
	return strings.HasPrefix(filepath.Base(name), "~$")
}
