// Package services implements the business logic layer between the
// transport and the record pipeline.
//
// # Available Services
//
//	- ReportService: reads a malfunction export, transforms it in basic or
//	  extended mode and writes the processed workbook or CSV
//	- HealthService: health, readiness, liveness and version information
//
// # Report runs
//
// A run is read, transform, write. Each stage gets its own span under a
// report.process span, and every run is recorded on the pipeline metrics
// with its origin (http, cli or scheduler). A failure at any stage aborts
// the run: HTTP callers receive no bytes and file runs leave no output file.
//
//	svc, err := services.NewReportService(cfg, logger, services.WithMetrics(m))
//	result, err := svc.ProcessFile(ctx, "inbox/export.xlsx", "outbox", services.ReportRequest{
//	    Mode: domain.ReportModeExtended,
//	})
//
// # Error Handling
//
// Input and transform failures are wrapped in *errors.AppError; the
// underlying *dataprocessing.MissingColumnError or InvalidDateError stays
// reachable through errors.As so handlers can map it to a 422 response.
package services
