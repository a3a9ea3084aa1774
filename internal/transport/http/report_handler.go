package http

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"ymreport/internal/config"
	"ymreport/internal/dataprocessing"
	apierrors "ymreport/internal/errors"
	customMiddleware "ymreport/internal/middleware"
	"ymreport/internal/services"
	"ymreport/internal/validation"
	"ymreport/pkg/contracts/domain"
)

// UploadField is the multipart field carrying the spreadsheet
const UploadField = "file"

// multipartMemory is how much of an upload is held in memory before
// spilling to a temporary file.
const multipartMemory = 8 << 20

// reportParams are the query parameters shared by process and preview
type reportParams struct {
	Mode   string `query:"mode" validate:"omitempty,oneof=basic extended"`
	Format string `query:"format" validate:"omitempty,oneof=xlsx csv"`
}

// ReportHandler accepts spreadsheet uploads and returns processed reports
type ReportHandler struct {
	service      ReportService
	validator    *customMiddleware.ValidationMiddleware
	queries      *customMiddleware.QueryParamValidator
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
	maxBytes     int64
	previewRows  int
}

// NewReportHandler creates a report handler limited by cfg
func NewReportHandler(service ReportService, cfg config.UploadConfig, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ReportHandler {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = config.DefaultMaxUploadBytes
	}
	if cfg.PreviewRows <= 0 {
		cfg.PreviewRows = config.PreviewRows
	}
	return &ReportHandler{
		service:      service,
		validator:    customMiddleware.NewValidationMiddleware(logger, errorHandler),
		queries:      customMiddleware.NewQueryParamValidator(logger, errorHandler),
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("handler", "report")),
		maxBytes:     cfg.MaxBytes,
		previewRows:  cfg.PreviewRows,
	}
}

// Routes mounts under /api/reports
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(customMiddleware.UploadLimit(h.maxBytes))
	r.Use(h.validator.ContentTypeValidator("multipart/form-data"))

	r.Post("/process", h.Process)
	r.Post("/preview", h.Preview)
	return r
}

// Process handles POST /api/reports/process. The report is built in memory
// so that a failed run is answered with a problem document, never with a
// truncated file.
func (h *ReportHandler) Process(w http.ResponseWriter, r *http.Request) {
	params, ok := h.params(w, r)
	if !ok {
		return
	}

	file, name, err := h.upload(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	defer file.Close()

	var buf bytes.Buffer
	result, err := h.service.Process(r.Context(), file, services.ReportRequest{
		SourceName: name,
		Mode:       domain.ReportMode(params.Mode),
		Format:     domain.ReportFormat(params.Format),
		Origin:     services.OriginHTTP,
	}, &buf)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	meta := result.Report.Metadata
	header := w.Header()
	header.Set("Content-Type", result.Report.Format.ContentType())
	header.Set("Content-Disposition", contentDisposition(result.Report.FileName))
	header.Set("Content-Length", strconv.Itoa(buf.Len()))
	header.Set("X-Report-ID", result.Report.ID)
	header.Set("X-Records-In", strconv.Itoa(meta.RecordsIn))
	header.Set("X-Records-Out", strconv.Itoa(meta.RecordsOut))
	w.WriteHeader(http.StatusOK)

	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "report download interrupted",
			slog.String("file_name", result.Report.FileName),
			slog.String("error", err.Error()))
	}
}

// Preview handles POST /api/reports/preview?rows=N
func (h *ReportHandler) Preview(w http.ResponseWriter, r *http.Request) {
	params, ok := h.params(w, r)
	if !ok {
		return
	}
	rows, ok := h.queries.ValidateInt(w, r, "rows", 1, config.MaxPreviewRows, h.previewRows)
	if !ok {
		return
	}

	file, name, err := h.upload(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	defer file.Close()

	preview, err := h.service.Preview(r.Context(), file, services.ReportRequest{
		SourceName: name,
		Mode:       domain.ReportMode(params.Mode),
		Format:     domain.ReportFormat(params.Format),
		Origin:     services.OriginHTTP,
	}, rows)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, preview)
}

// params reads and validates mode and format
func (h *ReportHandler) params(w http.ResponseWriter, r *http.Request) (reportParams, bool) {
	q := r.URL.Query()
	params := reportParams{
		Mode:   strings.ToLower(strings.TrimSpace(q.Get("mode"))),
		Format: strings.ToLower(strings.TrimPrefix(strings.TrimSpace(q.Get("format")), ".")),
	}
	if err := h.validator.ValidateStruct(params); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return params, false
	}
	return params, true
}

// upload returns the uploaded spreadsheet and its base name
func (h *ReportHandler) upload(r *http.Request) (multipart.File, string, error) {
	if r.ContentLength > h.maxBytes {
		return nil, "", apierrors.PayloadTooLargeError(h.maxBytes)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			return nil, "", apierrors.PayloadTooLargeError(h.maxBytes)
		}
		return nil, "", apierrors.InvalidRequestWithError(fmt.Errorf("expected a multipart form: %w", err))
	}

	file, fh, err := r.FormFile(UploadField)
	if err != nil {
		return nil, "", apierrors.ErrValidation(UploadField, fmt.Sprintf("multipart field %q is required", UploadField))
	}

	name := uploadName(fh.Filename)
	if err := validation.ValidateSheetName(name); err != nil {
		file.Close()
		if errors.Is(err, dataprocessing.ErrUnsupportedFormat) {
			return nil, "", apierrors.NewWithDetails(
				http.StatusUnsupportedMediaType,
				apierrors.CodeUnsupportedFile,
				fmt.Sprintf("%s cannot be processed; upload an .xlsx, .xlsm or .csv file", name),
				map[string]interface{}{
					"file_name": name,
					"accepted":  dataprocessing.SupportedExtensions,
				},
			)
		}
		return nil, "", apierrors.ErrValidation(UploadField, err.Error())
	}

	h.logger.DebugContext(r.Context(), "upload received",
		slog.String("file_name", name),
		slog.Int64("size", fh.Size))
	return file, name, nil
}

// uploadName strips any client-side directory from a multipart file name
func uploadName(name string) string {
	return filepath.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
}

// contentDisposition quotes plain ASCII names and falls back to RFC 2231
// encoding for anything else.
func contentDisposition(name string) string {
	for _, r := range name {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			return mime.FormatMediaType("attachment", map[string]string{"filename": name})
		}
	}
	return `attachment; filename="` + name + `"`
}
