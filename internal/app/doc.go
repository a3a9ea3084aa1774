// Package app wires the web service together: configuration, logging,
// OpenTelemetry, the report and health services, the optional inbox
// scheduler and the chi router.
//
// # Routes
//
//	GET  /                      browser upload form
//	POST /api/reports/process   upload a sheet, download the processed report
//	POST /api/reports/preview   upload a sheet, get the first rows as JSON
//	GET  /api/health[/ready|/live]
//	GET  /api/version
//	GET  /metrics               Prometheus exposition
//
// # Lifecycle
//
// Run serves HTTP and, when schedule.enabled is set, runs the cron scheduler
// in the same errgroup. Cancelling the context passed to Run (cmd/web does
// this on SIGINT and SIGTERM) shuts the server down gracefully, stops the
// scheduler after any file it is working on, and flushes telemetry.
//
//	a, err := app.NewApplication()
//	if err != nil {
//	    return err
//	}
//	return a.Run(ctx)
//
// Initialization errors are returned to the caller; the package never calls
// os.Exit.
package app
