package http

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"ymreport/pkg/contracts"
)

//go:embed templates/upload.html
var uploadPageSource string

var uploadPage = template.Must(template.New("upload").Parse(uploadPageSource))

// uploadPageData fills the upload form
type uploadPageData struct {
	Product     string
	Version     string
	MaxMB       int64
	PreviewRows int
	DefaultMode string
	Nonce       string
}

// uploadPageCSP allows only the page's own nonce-tagged script and style
const uploadPageCSP = "default-src 'none'; script-src 'nonce-%[1]s'; style-src 'nonce-%[1]s'; " +
	"connect-src 'self'; img-src 'self'; form-action 'self'; frame-ancestors 'none'; base-uri 'none'"

// ServeUploadPage serves the browser upload form at /
func ServeUploadPage(maxBytes int64, previewRows int, defaultMode string, logger *slog.Logger) http.HandlerFunc {
	data := uploadPageData{
		Product:     contracts.ProductName,
		Version:     contracts.Version,
		MaxMB:       maxBytes >> 20,
		PreviewRows: previewRows,
		DefaultMode: defaultMode,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		page := data
		page.Nonce = uuid.NewString()

		var buf bytes.Buffer
		if err := uploadPage.Execute(&buf, page); err != nil {
			logger.ErrorContext(r.Context(), "failed to render upload page", slog.String("error", err.Error()))
			http.Error(w, "Error rendering page", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Content-Security-Policy", fmt.Sprintf(uploadPageCSP, page.Nonce))
		w.Write(buf.Bytes())
	}
}
