package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"ymreport/internal/config"
	"ymreport/pkg/contracts"
)

// Health states
const (
	StatusOK       = "ok"
	StatusReady    = "ready"
	StatusNotReady = "not_ready"
	StatusAlive    = "alive"
)

// HealthService reports process health and build information
type HealthService struct {
	paths     *config.Paths
	schedule  config.ScheduleConfig
	reports   *ReportService
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Runtime   map[string]interface{}   `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthService creates a health service. paths may be nil when no
// scheduled inbox processing is configured.
func NewHealthService(paths *config.Paths, schedule config.ScheduleConfig, reports *ReportService, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		paths:     paths,
		schedule:  schedule,
		reports:   reports,
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.DebugContext(ctx, "health check",
		slog.Duration("uptime", time.Since(hs.startTime)))

	return HealthStatus{
		Status:    StatusOK,
		Timestamp: time.Now(),
		Version:   contracts.Version,
	}
}

// ReadinessCheck reports whether the pipeline and, when scheduling is
// enabled, the inbox and outbox directories are usable.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    StatusReady,
		Timestamp: time.Now(),
		Version:   contracts.Version,
		Services: map[string]ServiceHealth{
			"pipeline": hs.checkPipeline(),
		},
	}

	if hs.schedule.Enabled {
		status.Services["scheduler"] = hs.checkDirectories()
	}

	for name, svc := range status.Services {
		if svc.Status != StatusReady {
			status.Status = StatusNotReady
			hs.logger.WarnContext(ctx, "service not ready",
				slog.String("service", name),
				slog.String("message", svc.Message))
		}
	}
	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    StatusAlive,
		Timestamp: time.Now(),
		Version:   contracts.Version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	info := contracts.GetVersionInfo()
	return map[string]interface{}{
		"name":           contracts.ProductName,
		"version":        info.Version,
		"build_time":     info.BuildTime,
		"git_commit":     info.GitCommit,
		"go_version":     info.GoVersion,
		"os":             info.OS,
		"arch":           info.Architecture,
		"layout_version": info.LayoutVersion,
		"api_version":    info.APIVersion,
		"uptime":         time.Since(hs.startTime).Seconds(),
		"start_time":     hs.startTime.Format(time.RFC3339),
	}
}

func (hs *HealthService) checkPipeline() ServiceHealth {
	if hs.reports == nil {
		return ServiceHealth{Status: StatusNotReady, Message: "report service not initialized"}
	}
	return ServiceHealth{
		Status:  StatusReady,
		Message: fmt.Sprintf("default mode %s, format %s", hs.reports.DefaultMode(), hs.reports.DefaultFormat()),
	}
}

func (hs *HealthService) checkDirectories() ServiceHealth {
	if hs.paths == nil {
		return ServiceHealth{Status: StatusNotReady, Message: "paths not resolved"}
	}
	for _, dir := range []string{hs.paths.InboxDir, hs.paths.OutboxDir} {
		info, err := os.Stat(dir)
		if err != nil {
			return ServiceHealth{Status: StatusNotReady, Message: fmt.Sprintf("directory unavailable: %s", dir)}
		}
		if !info.IsDir() {
			return ServiceHealth{Status: StatusNotReady, Message: fmt.Sprintf("not a directory: %s", dir)}
		}
	}
	return ServiceHealth{Status: StatusReady, Message: "inbox and outbox available"}
}
