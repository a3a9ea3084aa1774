package infrastructure

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ymreport/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func scrape(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestOTelInitialization(t *testing.T) {
	providers, err := InitializeOTel(nil, discardLogger())
	require.NoError(t, err)
	require.NotNil(t, providers)

	assert.Nil(t, providers.TracerProvider, "tracing is off by default")
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.PrometheusHTTP)

	body := scrape(t, providers.PrometheusHTTP)
	assert.Contains(t, body, "system_goroutines")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, providers.Shutdown(ctx))
}

func TestOTelDisabled(t *testing.T) {
	providers, err := InitializeOTel(&OTelConfig{ServiceName: "test"}, discardLogger())
	require.NoError(t, err)

	assert.Nil(t, providers.MeterProvider)
	assert.Nil(t, providers.PrometheusHTTP)

	metrics, err := CreateBusinessMetrics(providers.Meter)
	require.NoError(t, err, "no-op meter still yields instruments")
	metrics.RecordRun(context.Background(), RunObservation{Success: true, RecordsOut: 1})
	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestTraceCorrelation(t *testing.T) {
	cfg := DefaultOTelConfig()
	cfg.EnableTracing = true
	cfg.EnableMetrics = false
	cfg.TraceExporter = "none"

	providers, err := InitializeOTel(cfg, discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	assert.Empty(t, TraceIDFromContext(context.Background()))

	cfg.TraceExporter = "stdout"
	providers, err = InitializeOTel(cfg, discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	ctx, span := providers.Tracer.Start(context.Background(), "test-operation")
	defer span.End()
	assert.Len(t, TraceIDFromContext(ctx), 32)

	RecordError(ctx, errors.New("boom"))
}

func TestOTelUnsupportedExporter(t *testing.T) {
	cfg := DefaultOTelConfig()
	cfg.EnableTracing = true
	cfg.TraceExporter = "jaeger"

	_, err := InitializeOTel(cfg, discardLogger())
	assert.Error(t, err)
}

func TestOTelConfigFrom(t *testing.T) {
	cfg := OTelConfigFrom(config.TelemetryConfig{
		ServiceName:    "ymreport-test",
		Environment:    "staging",
		MetricsEnabled: true,
		TracingEnabled: true,
	})
	assert.Equal(t, "ymreport-test", cfg.ServiceName)
	assert.Equal(t, "staging", cfg.Environment)
	assert.True(t, cfg.EnableMetrics)
	assert.True(t, cfg.EnableTracing)
	assert.Equal(t, config.AppVersion, cfg.ServiceVersion)
}

func TestBusinessMetrics_RecordRun(t *testing.T) {
	providers, err := InitializeOTel(nil, discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := CreateBusinessMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordRun(ctx, RunObservation{
		Source: "cli", Mode: "extended", Format: "xlsx",
		Duration: 250 * time.Millisecond, RecordsOut: 12, Filtered: 3, NoProblem: 2, NoType: 1,
		Success: true,
	})
	metrics.RecordRun(ctx, RunObservation{Source: "http", Mode: "basic", Format: "csv", ErrorCode: "MISSING_COLUMN"})
	metrics.RecordUpload(ctx, 2048)
	metrics.RecordHTTPRequest(ctx, http.MethodPost, "/api/reports/process", http.StatusOK, time.Second)

	body := scrape(t, providers.PrometheusHTTP)
	for _, name := range []string{
		"report_runs_total",
		"report_run_duration_seconds",
		"report_records_processed_total",
		"report_records_filtered_total",
		"report_records_unclassified_total",
		"report_upload_bytes_total",
		"http_requests_total",
	} {
		assert.Contains(t, body, name)
	}
	assert.Contains(t, body, `error_code="MISSING_COLUMN"`)

	var nilMetrics *BusinessMetrics
	nilMetrics.RecordRun(ctx, RunObservation{})
	nilMetrics.RecordUpload(ctx, 1)
	nilMetrics.RecordHTTPRequest(ctx, http.MethodGet, "/", http.StatusOK, time.Millisecond)
}
