package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_Error(t *testing.T) {
	assert.Equal(t, "Invalid request format", ErrInvalidRequest.Error())
	assert.Equal(t, "", (&APIError{}).Error())
}

func TestAPIError_Render(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	err := render.Render(w, r, ErrUnsupportedFile)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	var body APIError
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, CodeUnsupportedFile, body.ErrorCode)
}

func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *APIError
		wantStatus int
		wantCode   string
	}{
		{"invalid request", ErrInvalidRequest, http.StatusBadRequest, CodeInvalidRequest},
		{"invalid parameter", ErrInvalidParameter, http.StatusBadRequest, CodeInvalidParameter},
		{"missing parameter", ErrMissingParameter, http.StatusBadRequest, CodeMissingParameter},
		{"not found", ErrNotFound, http.StatusNotFound, CodeNotFound},
		{"payload too large", ErrPayloadTooLarge, http.StatusRequestEntityTooLarge, CodePayloadTooLarge},
		{"unsupported file", ErrUnsupportedFile, http.StatusUnsupportedMediaType, CodeUnsupportedFile},
		{"empty input", ErrEmptyInput, http.StatusUnprocessableEntity, CodeEmptyInput},
		{"rate limit", ErrRateLimitExceeded, http.StatusTooManyRequests, CodeRateLimited},
		{"report failed", ErrReportFailed, http.StatusInternalServerError, CodeReportFailed},
		{"unavailable", ErrServiceUnavailable, http.StatusServiceUnavailable, CodeUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.err.StatusCode)
			assert.Equal(t, tt.wantCode, tt.err.ErrorCode)
			assert.NotEmpty(t, tt.err.Message)
		})
	}
}

func TestMissingColumnError(t *testing.T) {
	err := MissingColumnError("Malfunction Start")

	assert.Equal(t, http.StatusUnprocessableEntity, err.StatusCode)
	assert.Equal(t, CodeMissingColumn, err.ErrorCode)
	assert.Contains(t, err.Message, `"Malfunction Start"`)
	assert.Equal(t, map[string]string{"column": "Malfunction Start"}, err.Details)
}

func TestInvalidDateError(t *testing.T) {
	tests := []struct {
		name        string
		row         int
		wantRow     bool
		wantMessage string
	}{
		{
			name:        "known row",
			row:         7,
			wantRow:     true,
			wantMessage: `Row 7, column "Malfunction Start" holds a value that is not a date: "soon"`,
		},
		{
			name:        "unknown row",
			row:         0,
			wantMessage: `Column "Malfunction Start" holds a value that is not a date: "soon"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := InvalidDateError("Malfunction Start", tt.row, "soon")

			assert.Equal(t, CodeInvalidDate, err.ErrorCode)
			assert.Equal(t, tt.wantMessage, err.Message)
			details, ok := err.Details.(map[string]interface{})
			require.True(t, ok)
			assert.Equal(t, "Malfunction Start", details["column"])
			_, hasRow := details["row"]
			assert.Equal(t, tt.wantRow, hasRow)
		})
	}
}

func TestPayloadTooLargeError(t *testing.T) {
	err := PayloadTooLargeError(1024)
	assert.Equal(t, http.StatusRequestEntityTooLarge, err.StatusCode)
	assert.Equal(t, map[string]int64{"max_bytes": 1024}, err.Details)
}

func TestHelpersCarryCause(t *testing.T) {
	cause := errors.New("disk full")

	assert.Equal(t, "disk full", InvalidRequestWithError(cause).Details)
	assert.Equal(t, ValidationError{Field: "mode", Message: "unknown"}, ErrValidation("mode", "unknown").Details)
}

func TestNewValidationErrors(t *testing.T) {
	fields := []ValidationError{
		{Field: "mode", Message: "must be one of basic extended"},
		{Field: "format", Message: "must be one of xlsx csv"},
	}

	err := NewValidationErrors(fields)

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, ValidationErrors{Errors: fields}, err.Details)
}
