package dataprocessing

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDate is matched by every *InvalidDateError via errors.Is
	ErrInvalidDate = errors.New("invalid date")
	// ErrMissingColumn is matched by every *MissingColumnError via errors.Is
	ErrMissingColumn = errors.New("missing column")
	// ErrUnsupportedFormat is returned for input files the reader cannot decode
	ErrUnsupportedFormat = errors.New("unsupported input format")
	// ErrEmptyInput is returned when the input has no header row
	ErrEmptyInput = errors.New("input has no header row")
)

// InvalidDateError reports a malfunction date cell that cannot be read as a
// calendar date. It aborts the whole run.
type InvalidDateError struct {
	// Row is the 0-based data row index, or -1 when the value was not read from a table.
	Row    int
	Column string
	Value  any
	Err    error
}

// Error implements the error interface
func (e *InvalidDateError) Error() string {
	where := ""
	if e.Column != "" {
		where = fmt.Sprintf(" in column %q", e.Column)
	}
	if e.Row >= 0 {
		// Spreadsheet row numbers are 1-based and row 1 is the header.
		where += fmt.Sprintf(" at row %d", e.Row+2)
	}
	msg := fmt.Sprintf("invalid date %q%s", fmt.Sprint(e.Value), where)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying parse error
func (e *InvalidDateError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrInvalidDate) true
func (e *InvalidDateError) Is(target error) bool {
	return target == ErrInvalidDate
}

// MissingColumnError reports a required input column absent from the header.
type MissingColumnError struct {
	Column string
}

// Error implements the error interface
func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("required column %q is missing", e.Column)
}

// Is makes errors.Is(err, ErrMissingColumn) true
func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingColumn
}
