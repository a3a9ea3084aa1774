package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ymreport/internal/config"
	"ymreport/internal/dataprocessing"
	apierrors "ymreport/internal/errors"
	"ymreport/internal/exporter"
	"ymreport/internal/infrastructure"
	"ymreport/pkg/contracts/domain"
)

// TracerName scopes the spans of report runs
const TracerName = "ymreport.report"

// Run origins, recorded on logs and metrics
const (
	OriginHTTP      = "http"
	OriginCLI       = "cli"
	OriginScheduler = "scheduler"
)

// ReportRequest describes one transform run. Empty Mode and Format fall
// back to the configured defaults.
type ReportRequest struct {
	SourceName string
	Mode       domain.ReportMode
	Format     domain.ReportFormat
	Origin     string
}

// ReportResult is the outcome of a successful run
type ReportResult struct {
	Report  domain.Report
	Table   *domain.Table
	Summary dataprocessing.Summary
	// Path is set when the report was written to disk
	Path string
}

// Preview is the JSON body of a preview request
type Preview struct {
	Report  domain.Report          `json:"report"`
	Columns []string               `json:"columns"`
	Rows    [][]string             `json:"rows"`
	Summary dataprocessing.Summary `json:"summary"`
}

// ReportOption customizes a ReportService
type ReportOption func(*ReportService)

// WithClock replaces the processing clock used by the week filter and
// report timestamps.
func WithClock(now func() time.Time) ReportOption {
	return func(s *ReportService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithMetrics records every run on m
func WithMetrics(m *infrastructure.BusinessMetrics) ReportOption {
	return func(s *ReportService) { s.metrics = m }
}

// WithTracer replaces the global tracer
func WithTracer(t trace.Tracer) ReportOption {
	return func(s *ReportService) {
		if t != nil {
			s.tracer = t
		}
	}
}

// ReportService reads a malfunction export, transforms it and writes the
// processed report. It is safe for concurrent use.
type ReportService struct {
	readOpts      dataprocessing.ReadOptions
	transformers  map[domain.ReportMode]*dataprocessing.Transformer
	workbook      exporter.WorkbookOptions
	filePrefix    string
	defaultMode   domain.ReportMode
	defaultFormat domain.ReportFormat
	now           func() time.Time
	metrics       *infrastructure.BusinessMetrics
	tracer        trace.Tracer
	logger        *slog.Logger
}

// NewReportService builds a transformer for every mode from cfg
func NewReportService(cfg *config.Config, logger *slog.Logger, opts ...ReportOption) (*ReportService, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, apierrors.NewConfigError("load pipeline timezone", err)
	}

	s := &ReportService{
		readOpts: dataprocessing.ReadOptions{SheetName: cfg.Pipeline.SheetName},
		workbook: exporter.WorkbookOptions{
			SheetName:  cfg.Output.SheetName,
			TableName:  cfg.Output.TableName,
			TableStyle: cfg.Output.TableStyle,
		},
		filePrefix:    cfg.Output.FilePrefix,
		defaultMode:   domain.ReportMode(cfg.Pipeline.Mode),
		defaultFormat: domain.ReportFormat(cfg.Output.Format),
		now:           time.Now,
		tracer:        otel.Tracer(TracerName),
		logger:        logger.With(slog.String("component", "report_service")),
	}
	if !s.defaultMode.Valid() {
		s.defaultMode = domain.ReportModeBasic
	}
	if s.defaultFormat != domain.ReportFormatCSV {
		s.defaultFormat = domain.ReportFormatExcel
	}
	for _, opt := range opts {
		opt(s)
	}

	locationCodes := mergeLocationCodes(cfg.Pipeline.LocationCodes)
	s.transformers = make(map[domain.ReportMode]*dataprocessing.Transformer, 2)
	for _, mode := range []domain.ReportMode{domain.ReportModeBasic, domain.ReportModeExtended} {
		t, err := dataprocessing.NewTransformer(dataprocessing.ProcessingOptions{
			Mode:     mode,
			Location: loc,
			Now:      s.now,
			Codes:    locationCodes,
			Logger:   logger,
		})
		if err != nil {
			return nil, apierrors.NewConfigError(fmt.Sprintf("build %s transformer", mode), err)
		}
		s.transformers[mode] = t
	}

	s.logger.Info("ReportService initialized",
		slog.String("default_mode", string(s.defaultMode)),
		slog.String("default_format", string(s.defaultFormat)),
		slog.String("timezone", loc.String()),
		slog.Int("location_codes", len(locationCodes)))

	return s, nil
}

// mergeLocationCodes overlays configured subsystem codes on the built-in table
func mergeLocationCodes(extra map[string]string) dataprocessing.LocationCodeTable {
	codes := make(dataprocessing.LocationCodeTable, len(dataprocessing.DefaultLocationCodes)+len(extra))
	for k, v := range dataprocessing.DefaultLocationCodes {
		codes[k] = v
	}
	for k, v := range extra {
		codes[strings.TrimSpace(k)] = v
	}
	return codes
}

// DefaultMode returns the mode used when a request names none
func (s *ReportService) DefaultMode() domain.ReportMode { return s.defaultMode }

// DefaultFormat returns the format used when a request names none
func (s *ReportService) DefaultFormat() domain.ReportFormat { return s.defaultFormat }

// FilePrefix returns the prefix of generated file names
func (s *ReportService) FilePrefix() string { return s.filePrefix }

// normalize fills defaults and rejects unknown modes and formats
func (s *ReportService) normalize(req ReportRequest) (ReportRequest, error) {
	req.SourceName = strings.TrimSpace(req.SourceName)
	if req.SourceName == "" {
		return req, apierrors.ErrValidation("file", "file name is required")
	}

	req.Mode = domain.ReportMode(strings.ToLower(strings.TrimSpace(string(req.Mode))))
	if req.Mode == "" {
		req.Mode = s.defaultMode
	}
	if !req.Mode.Valid() {
		return req, apierrors.ErrValidation("mode", "mode must be one of: basic, extended")
	}

	req.Format = domain.ReportFormat(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(string(req.Format)), ".")))
	if req.Format == "" {
		req.Format = s.defaultFormat
	}
	if req.Format != domain.ReportFormatExcel && req.Format != domain.ReportFormatCSV {
		return req, apierrors.ErrValidation("format", "format must be one of: xlsx, csv")
	}

	if req.Origin == "" {
		req.Origin = OriginCLI
	}
	return req, nil
}

// Build reads and transforms a spreadsheet without serializing the result
func (s *ReportService) Build(ctx context.Context, r io.Reader, req ReportRequest) (*ReportResult, error) {
	req, err := s.normalize(req)
	if err != nil {
		return nil, err
	}
	return s.build(ctx, r, req)
}

func (s *ReportService) build(ctx context.Context, r io.Reader, req ReportRequest) (*ReportResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	counted := &countingReader{r: r}
	table, err := s.read(ctx, counted, req)
	s.metrics.RecordUpload(ctx, counted.n)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, meta, err := s.transform(ctx, table, req)
	if err != nil {
		return nil, err
	}

	return &ReportResult{
		Report: domain.Report{
			ID:          uuid.NewString(),
			SourceName:  req.SourceName,
			FileName:    exporter.OutputName(s.filePrefix, req.SourceName, req.Format),
			Mode:        req.Mode,
			Format:      req.Format,
			Metadata:    meta,
			GeneratedAt: s.now(),
		},
		Table:   out,
		Summary: dataprocessing.Summarize(out),
	}, nil
}

func (s *ReportService) read(ctx context.Context, r io.Reader, req ReportRequest) (_ *domain.Table, err error) {
	ctx, span := s.tracer.Start(ctx, "report.read",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("report.source", req.SourceName)))
	defer func() { endSpan(span, err) }()

	table, err := dataprocessing.ReadFile(r, req.SourceName, s.readOpts)
	if err != nil {
		return nil, apierrors.NewInputError(req.SourceName, err)
	}
	span.SetAttributes(
		attribute.Int("report.columns", len(table.Columns)),
		attribute.Int("report.records_in", len(table.Rows)))

	s.logger.DebugContext(ctx, "input read",
		slog.String("source", req.SourceName),
		slog.Int("columns", len(table.Columns)),
		slog.Int("records", len(table.Rows)))
	return table, nil
}

func (s *ReportService) transform(ctx context.Context, in *domain.Table, req ReportRequest) (_ *domain.Table, _ domain.ReportMetadata, err error) {
	ctx, span := s.tracer.Start(ctx, "report.transform",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("report.mode", string(req.Mode))))
	defer func() { endSpan(span, err) }()

	out, meta, err := s.transformers[req.Mode].Transform(ctx, in)
	if err != nil {
		return nil, meta, apierrors.NewTransformError(req.SourceName, err)
	}
	span.SetAttributes(
		attribute.Int("report.records_out", meta.RecordsOut),
		attribute.Int("report.records_filtered", meta.RecordsFiltered),
		attribute.Int("report.unclassified_problem", meta.UnclassifiedProblem),
		attribute.Int("report.unclassified_type", meta.UnclassifiedType))
	return out, meta, nil
}

func (s *ReportService) write(ctx context.Context, result *ReportResult, emit func(exporter.Writer) error) (err error) {
	_, span := s.tracer.Start(ctx, "report.write",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("report.format", string(result.Report.Format)),
			attribute.String("report.file", result.Report.FileName)))
	defer func() { endSpan(span, err) }()

	w, err := exporter.New(result.Report.Format, s.workbook)
	if err != nil {
		return apierrors.NewOutputError(result.Report.FileName, err)
	}
	if err := emit(w); err != nil {
		return apierrors.NewOutputError(result.Report.FileName, err)
	}
	return nil
}

// Process runs the whole pipeline and streams the report into w. Nothing is
// written to w when reading or transforming fails.
func (s *ReportService) Process(ctx context.Context, r io.Reader, req ReportRequest, w io.Writer) (*ReportResult, error) {
	req, err := s.normalize(req)
	if err != nil {
		return nil, err
	}

	ctx, span := s.startRun(ctx, req)
	started := time.Now()

	result, err := s.build(ctx, r, req)
	if err == nil {
		err = s.write(ctx, result, func(ew exporter.Writer) error {
			return ew.Write(w, result.Table)
		})
	}

	s.finish(ctx, req, result, time.Since(started), err)
	endSpan(span, err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ProcessFile transforms the file at inPath and writes the report into
// outDir, which defaults to the input's directory. The report is moved into
// place only once fully written.
func (s *ReportService) ProcessFile(ctx context.Context, inPath, outDir string, req ReportRequest) (*ReportResult, error) {
	if req.SourceName == "" {
		req.SourceName = filepath.Base(inPath)
	}
	req, err := s.normalize(req)
	if err != nil {
		return nil, err
	}
	if outDir == "" {
		outDir = filepath.Dir(inPath)
	}

	ctx, span := s.startRun(ctx, req)
	started := time.Now()

	result, err := s.processFile(ctx, inPath, outDir, req)

	s.finish(ctx, req, result, time.Since(started), err)
	endSpan(span, err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *ReportService) processFile(ctx context.Context, inPath, outDir string, req ReportRequest) (*ReportResult, error) {
	f, err := os.Open(inPath)
	if err != nil {
		return nil, apierrors.NewInputError(inPath, err)
	}
	defer f.Close()

	result, err := s.build(ctx, f, req)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(outDir, result.Report.FileName)
	err = s.write(ctx, result, func(w exporter.Writer) error {
		return exporter.WriteFile(w, path, result.Table)
	})
	if err != nil {
		return nil, err
	}
	result.Path = path
	return result, nil
}

// Preview transforms the upload and returns its first rows as text, with a
// summary of the whole processed table. rows is clamped to
// [1, config.MaxPreviewRows]; zero selects config.PreviewRows.
func (s *ReportService) Preview(ctx context.Context, r io.Reader, req ReportRequest, rows int) (*Preview, error) {
	req, err := s.normalize(req)
	if err != nil {
		return nil, err
	}

	switch {
	case rows <= 0:
		rows = config.PreviewRows
	case rows > config.MaxPreviewRows:
		rows = config.MaxPreviewRows
	}

	ctx, span := s.tracer.Start(ctx, "report.preview",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("report.source", req.SourceName),
			attribute.String("report.mode", string(req.Mode)),
			attribute.Int("report.preview_rows", rows)))

	result, err := s.build(ctx, r, req)
	endSpan(span, err)
	if err != nil {
		s.logFailure(ctx, req, err)
		return nil, err
	}

	head := result.Table.Head(rows)
	s.logger.DebugContext(ctx, "preview built",
		slog.String("source", req.SourceName),
		slog.Int("rows", len(head.Rows)),
		slog.Int("records_out", result.Report.Metadata.RecordsOut))

	return &Preview{
		Report:  result.Report,
		Columns: head.Columns,
		Rows:    exporter.TextRows(head),
		Summary: result.Summary,
	}, nil
}

func (s *ReportService) startRun(ctx context.Context, req ReportRequest) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "report.process",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("report.source", req.SourceName),
			attribute.String("report.mode", string(req.Mode)),
			attribute.String("report.format", string(req.Format)),
			attribute.String("report.origin", req.Origin)))
}

// finish logs the run and records its metrics
func (s *ReportService) finish(ctx context.Context, req ReportRequest, result *ReportResult, elapsed time.Duration, err error) {
	obs := infrastructure.RunObservation{
		Source:   req.Origin,
		Mode:     string(req.Mode),
		Format:   string(req.Format),
		Duration: elapsed,
		Success:  err == nil,
	}

	if err != nil {
		obs.ErrorCode = ErrorCode(err)
		s.logFailure(ctx, req, err)
	} else {
		meta := result.Report.Metadata
		obs.RecordsOut = meta.RecordsOut
		obs.Filtered = meta.RecordsFiltered
		obs.NoProblem = meta.UnclassifiedProblem
		obs.NoType = meta.UnclassifiedType

		s.logger.InfoContext(ctx, "report run completed",
			slog.String("report_id", result.Report.ID),
			slog.String("source", req.SourceName),
			slog.String("file_name", result.Report.FileName),
			slog.String("origin", req.Origin),
			slog.String("mode", string(req.Mode)),
			slog.String("format", string(req.Format)),
			slog.Int("records_in", meta.RecordsIn),
			slog.Int("records_out", meta.RecordsOut),
			slog.Int("records_filtered", meta.RecordsFiltered),
			slog.Duration("duration", elapsed))
	}

	s.metrics.RecordRun(ctx, obs)
}

// logFailure logs input problems at warn level and everything else at error
func (s *ReportService) logFailure(ctx context.Context, req ReportRequest, err error) {
	level := slog.LevelError
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) || apierrors.FromDomainError(err) != nil {
		level = slog.LevelWarn
	}
	s.logger.LogAttrs(ctx, level, "report run failed",
		slog.String("source", req.SourceName),
		slog.String("origin", req.Origin),
		slog.String("mode", string(req.Mode)),
		slog.String("error", err.Error()),
		slog.String("error_code", ErrorCode(err)))
}

// ErrorCode returns the API error code err maps to
func ErrorCode(err error) string {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apierrors.CodeTimeout
	}
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode
	}
	if mapped := apierrors.FromDomainError(err); mapped != nil {
		return mapped.ErrorCode
	}
	return apierrors.CodeReportFailed
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// countingReader counts the bytes consumed from an input
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
