package config

import (
	"time"

	"ymreport/pkg/contracts"
)

// Application constants
const (
	// Application Info
	AppName    = contracts.ProductName
	AppVersion = contracts.Version

	// EnvPrefix namespaces every environment variable (YMR_SERVER_PORT, ...)
	EnvPrefix = "YMR"

	// Upload limits
	DefaultMaxUploadBytes = 20 << 20 // 20MB
	PreviewRows           = 5
	MaxPreviewRows        = 100

	// Output naming
	DefaultFilePrefix = "processed_"
	DefaultSheetName  = "Processed Data"
	DefaultTableName  = "ProcessedTable"
	DefaultTableStyle = "TableStyleMedium9"

	// Scheduling
	DefaultSchedule   = "0 7 * * 5" // Fridays 07:00
	DefaultRunTimeout = 10 * time.Minute

	// API Endpoints
	APIBasePath     = "/api"
	ReportsEndpoint = "/api/reports"
	HealthEndpoint  = "/api/health"
	VersionEndpoint = "/api/version"
	MetricsEndpoint = "/metrics"
)
