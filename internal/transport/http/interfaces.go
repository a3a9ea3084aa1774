package http

import (
	"context"
	"io"

	"ymreport/internal/services"
)

// ReportService is the part of services.ReportService the report handler uses
type ReportService interface {
	Process(ctx context.Context, r io.Reader, req services.ReportRequest, w io.Writer) (*services.ReportResult, error)
	Preview(ctx context.Context, r io.Reader, req services.ReportRequest, rows int) (*services.Preview, error)
}

// HealthService reports process health and build information
type HealthService interface {
	HealthCheck(ctx context.Context) services.HealthStatus
	ReadinessCheck(ctx context.Context) services.HealthStatus
	LivenessCheck(ctx context.Context) services.HealthStatus
	Version() map[string]interface{}
}
