package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Run outcomes recorded on the status attribute
const (
	RunStatusSuccess = "success"
	RunStatusFailure = "failure"
)

// BusinessMetrics holds the report pipeline and HTTP instruments
type BusinessMetrics struct {
	// HTTP metrics
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram

	// Pipeline metrics
	RunsTotal           metric.Int64Counter
	RunDuration         metric.Float64Histogram
	RecordsProcessed    metric.Int64Counter
	RecordsFiltered     metric.Int64Counter
	UnclassifiedRecords metric.Int64Counter
	UploadBytes         metric.Int64Counter
}

// RunObservation describes one finished transform run
type RunObservation struct {
	Source     string // "http", "cli" or "scheduler"
	Mode       string
	Format     string
	Duration   time.Duration
	RecordsOut int
	Filtered   int
	NoProblem  int
	NoType     int
	ErrorCode  string
	Success    bool
}

// CreateBusinessMetrics creates application-specific metrics
func CreateBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	httpRequestsTotal, err := meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	httpRequestDuration, err := meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	runsTotal, err := meter.Int64Counter(
		"report_runs_total",
		metric.WithDescription("Total number of report transform runs"),
	)
	if err != nil {
		return nil, err
	}

	runDuration, err := meter.Float64Histogram(
		"report_run_duration_seconds",
		metric.WithDescription("Report transform run duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	recordsProcessed, err := meter.Int64Counter(
		"report_records_processed_total",
		metric.WithDescription("Total number of records written to reports"),
	)
	if err != nil {
		return nil, err
	}

	recordsFiltered, err := meter.Int64Counter(
		"report_records_filtered_total",
		metric.WithDescription("Total number of records dropped by the week filter"),
	)
	if err != nil {
		return nil, err
	}

	unclassified, err := meter.Int64Counter(
		"report_records_unclassified_total",
		metric.WithDescription("Total number of records no classification rule matched"),
	)
	if err != nil {
		return nil, err
	}

	uploadBytes, err := meter.Int64Counter(
		"report_upload_bytes_total",
		metric.WithDescription("Total bytes of spreadsheets received"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	return &BusinessMetrics{
		HTTPRequestsTotal:   httpRequestsTotal,
		HTTPRequestDuration: httpRequestDuration,
		RunsTotal:           runsTotal,
		RunDuration:         runDuration,
		RecordsProcessed:    recordsProcessed,
		RecordsFiltered:     recordsFiltered,
		UnclassifiedRecords: unclassified,
		UploadBytes:         uploadBytes,
	}, nil
}

// RecordRun records the counters and duration of one run. A nil receiver
// records nothing.
func (m *BusinessMetrics) RecordRun(ctx context.Context, obs RunObservation) {
	if m == nil {
		return
	}

	status := RunStatusSuccess
	if !obs.Success {
		status = RunStatusFailure
	}
	attrs := []attribute.KeyValue{
		attribute.String("source", obs.Source),
		attribute.String("mode", obs.Mode),
		attribute.String("format", obs.Format),
	}

	runAttrs := append(append([]attribute.KeyValue(nil), attrs...), attribute.String("status", status))
	if obs.ErrorCode != "" {
		runAttrs = append(runAttrs, attribute.String("error.code", obs.ErrorCode))
	}
	m.RunsTotal.Add(ctx, 1, metric.WithAttributes(runAttrs...))
	m.RunDuration.Record(ctx, obs.Duration.Seconds(), metric.WithAttributes(runAttrs...))

	if !obs.Success {
		return
	}

	m.RecordsProcessed.Add(ctx, int64(obs.RecordsOut), metric.WithAttributes(attrs...))
	if obs.Filtered > 0 {
		m.RecordsFiltered.Add(ctx, int64(obs.Filtered), metric.WithAttributes(attrs...))
	}
	if obs.NoProblem > 0 {
		m.UnclassifiedRecords.Add(ctx, int64(obs.NoProblem),
			metric.WithAttributes(append(attrs, attribute.String("classifier", "problem"))...))
	}
	if obs.NoType > 0 {
		m.UnclassifiedRecords.Add(ctx, int64(obs.NoType),
			metric.WithAttributes(append(attrs, attribute.String("classifier", "type"))...))
	}
}

// RecordUpload counts received upload bytes
func (m *BusinessMetrics) RecordUpload(ctx context.Context, size int64) {
	if m == nil || size <= 0 {
		return
	}
	m.UploadBytes.Add(ctx, size)
}

// RecordHTTPRequest records one served request
func (m *BusinessMetrics) RecordHTTPRequest(ctx context.Context, method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.status_code", status),
	)
	m.HTTPRequestsTotal.Add(ctx, 1, attrs)
	m.HTTPRequestDuration.Record(ctx, duration.Seconds(), attrs)
}
