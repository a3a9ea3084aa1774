package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "ymreport/internal/errors"
	"ymreport/internal/shared/testutil"
)

type uploadParams struct {
	Mode     string `query:"mode" validate:"omitempty,oneof=basic extended"`
	Format   string `query:"format" validate:"omitempty,oneof=xlsx csv"`
	Filename string `json:"filename" validate:"required,filename,sheetfile"`
}

func newValidation(t *testing.T) *ValidationMiddleware {
	logger, _ := testutil.NewTestLogger(t)
	return NewValidationMiddleware(logger, apierrors.NewErrorHandler(logger, false))
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name       string
		in         uploadParams
		wantFields []string
	}{
		{
			name: "valid",
			in:   uploadParams{Mode: "extended", Format: "csv", Filename: "week 11.xlsx"},
		},
		{
			name:       "bad enums",
			in:         uploadParams{Mode: "weekly", Format: "pdf", Filename: "a.xlsx"},
			wantFields: []string{"mode", "format"},
		},
		{
			name:       "path traversal",
			in:         uploadParams{Filename: "../etc/passwd.csv"},
			wantFields: []string{"filename"},
		},
		{
			name:       "legacy workbook",
			in:         uploadParams{Filename: "report.xls"},
			wantFields: []string{"filename"},
		},
	}

	v := newValidation(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateStruct(tt.in)
			if tt.wantFields == nil {
				assert.NoError(t, err)
				return
			}

			var apiErr *apierrors.APIError
			require.ErrorAs(t, err, &apiErr)
			details, ok := apiErr.Details.(apierrors.ValidationErrors)
			require.True(t, ok)

			var fields []string
			for _, e := range details.Errors {
				fields = append(fields, e.Field)
				assert.NotEmpty(t, e.Message)
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

func TestValidateStruct_Messages(t *testing.T) {
	err := newValidation(t).ValidateStruct(uploadParams{Mode: "weekly", Filename: "a.csv"})

	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	msg := apiErr.Details.(apierrors.ValidationErrors).Errors[0].Message
	assert.Equal(t, "mode must be one of: basic, extended", msg)
}

func TestContentTypeValidator(t *testing.T) {
	h := newValidation(t).ContentTypeValidator("multipart/form-data")(okHandler)

	tests := []struct {
		name        string
		method      string
		contentType string
		want        int
	}{
		{"multipart", http.MethodPost, "multipart/form-data; boundary=x", http.StatusOK},
		{"missing", http.MethodPost, "", http.StatusBadRequest},
		{"json", http.MethodPost, "application/json", http.StatusUnsupportedMediaType},
		{"get skips check", http.MethodGet, "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(tt.method, "/", nil)
			if tt.contentType != "" {
				r.Header.Set("Content-Type", tt.contentType)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestQueryParamValidator(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	v := NewQueryParamValidator(logger, apierrors.NewErrorHandler(logger, false))

	t.Run("int range", func(t *testing.T) {
		w := httptest.NewRecorder()
		got, ok := v.ValidateInt(w, httptest.NewRequest(http.MethodGet, "/?rows=20", nil), "rows", 1, 100, 5)
		assert.True(t, ok)
		assert.Equal(t, 20, got)

		w = httptest.NewRecorder()
		_, ok = v.ValidateInt(w, httptest.NewRequest(http.MethodGet, "/?rows=500", nil), "rows", 1, 100, 5)
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = httptest.NewRecorder()
		_, ok = v.ValidateInt(w, httptest.NewRequest(http.MethodGet, "/?rows=abc", nil), "rows", 1, 100, 5)
		assert.False(t, ok)
	})
}
