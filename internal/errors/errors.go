package errors

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// ValidationError represents validation errors
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New creates a new APIError with the given parameters
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Error codes surfaced to API clients
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeMissingParameter = "MISSING_PARAMETER"
	CodeInvalidParameter = "INVALID_PARAMETER"
	CodeNotFound         = "NOT_FOUND"
	CodePayloadTooLarge  = "PAYLOAD_TOO_LARGE"
	CodeUnsupportedFile  = "UNSUPPORTED_FILE"
	CodeMissingColumn    = "MISSING_COLUMN"
	CodeInvalidDate      = "INVALID_DATE"
	CodeEmptyInput       = "EMPTY_INPUT"
	CodeRateLimited      = "RATE_LIMIT_EXCEEDED"
	CodeTimeout          = "TIMEOUT"
	CodeInternal         = "INTERNAL_SERVER_ERROR"
	CodeReportFailed     = "REPORT_FAILED"
	CodeUnavailable      = "SERVICE_UNAVAILABLE"
)

// Predefined error types for common scenarios
var (
	// 400 Bad Request
	ErrInvalidRequest   = New(http.StatusBadRequest, CodeInvalidRequest, "Invalid request format")
	ErrValidationFailed = New(http.StatusBadRequest, CodeValidationFailed, "Request validation failed")
	ErrMissingParameter = New(http.StatusBadRequest, CodeMissingParameter, "Required parameter is missing")
	ErrInvalidParameter = New(http.StatusBadRequest, CodeInvalidParameter, "Invalid parameter value")

	// 404 Not Found
	ErrNotFound = New(http.StatusNotFound, CodeNotFound, "Resource not found")

	// 413 Payload Too Large
	ErrPayloadTooLarge = New(http.StatusRequestEntityTooLarge, CodePayloadTooLarge, "Uploaded file exceeds the maximum allowed size")

	// 415 Unsupported Media Type
	ErrUnsupportedFile = New(http.StatusUnsupportedMediaType, CodeUnsupportedFile, "Only .xlsx, .xlsm and .csv files are accepted")

	// 422 Unprocessable Entity
	ErrEmptyInput = New(http.StatusUnprocessableEntity, CodeEmptyInput, "The uploaded sheet has no header row")

	// 429 Too Many Requests
	ErrRateLimitExceeded = New(http.StatusTooManyRequests, CodeRateLimited, "Rate limit exceeded")

	// 500 Internal Server Error
	ErrInternalServer = New(http.StatusInternalServerError, CodeInternal, "Internal server error")
	ErrReportFailed   = New(http.StatusInternalServerError, CodeReportFailed, "Report generation failed")

	// 503 Service Unavailable
	ErrServiceUnavailable = New(http.StatusServiceUnavailable, CodeUnavailable, "Service temporarily unavailable")
)

// InvalidRequestWithError creates an invalid request error with details
func InvalidRequestWithError(err error) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeInvalidRequest, "Invalid request format", err.Error())
}

// ErrValidation creates a validation error with field details
func ErrValidation(field, message string) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeValidationFailed, "Request validation failed", ValidationError{
		Field:   field,
		Message: message,
	})
}

// MissingColumnError tells the caller which required header is absent.
func MissingColumnError(column string) *APIError {
	return NewWithDetails(
		http.StatusUnprocessableEntity,
		CodeMissingColumn,
		fmt.Sprintf("Required column %q is missing from the sheet", column),
		map[string]string{"column": column},
	)
}

// InvalidDateError tells the caller which cell holds an unreadable date.
// sheetRow is the 1-based spreadsheet row (header is row 1), 0 when unknown.
func InvalidDateError(column string, sheetRow int, value string) *APIError {
	details := map[string]interface{}{
		"column": column,
		"value":  value,
	}
	msg := fmt.Sprintf("Column %q holds a value that is not a date: %q", column, value)
	if sheetRow > 0 {
		details["row"] = sheetRow
		msg = fmt.Sprintf("Row %d, column %q holds a value that is not a date: %q", sheetRow, column, value)
	}
	return NewWithDetails(http.StatusUnprocessableEntity, CodeInvalidDate, msg, details)
}

// PayloadTooLargeError reports the upload limit that was exceeded
func PayloadTooLargeError(limit int64) *APIError {
	return NewWithDetails(
		http.StatusRequestEntityTooLarge,
		CodePayloadTooLarge,
		"Uploaded file exceeds the maximum allowed size",
		map[string]int64{"max_bytes": limit},
	)
}

// ValidationErrors represents multiple validation errors
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// NewValidationErrors creates validation errors from multiple fields
func NewValidationErrors(errors []ValidationError) *APIError {
	return NewWithDetails(
		http.StatusBadRequest,
		CodeValidationFailed,
		"Request validation failed",
		ValidationErrors{Errors: errors},
	)
}
