// Package http implements the HTTP handlers of the report service. Handlers
// stay thin: they parse and validate the request, call a service and turn
// failures into RFC 7807 problem documents through errors.ErrorHandler.
//
// # Endpoints
//
//	POST /api/reports/process?mode=basic|extended&format=xlsx|csv
//	     multipart field "file"; answers with the processed file as an
//	     attachment named processed_<name>
//	POST /api/reports/preview?mode=...&rows=N
//	     same upload; answers with the first N processed rows as JSON
//	GET  /api/health, /api/health/ready, /api/health/live
//	GET  /api/version
//	GET  /metrics
//	GET  /  browser upload form
//
// # Errors
//
// A spreadsheet the pipeline cannot use is answered with 422 and names the
// offending column, and the sheet row when there is one:
//
//	{
//	  "type": "/errors/report/invalid-date",
//	  "title": "Unprocessable Entity",
//	  "status": 422,
//	  "detail": "Row 7, column \"Malfunction Start\" holds a value that is not a date: \"tbd\"",
//	  "error_code": "INVALID_DATE",
//	  "details": {"column": "Malfunction Start", "row": 7, "value": "tbd"}
//	}
//
// Unsupported uploads get 415 and oversized ones 413.
//
// # Testing
//
// Handlers depend on the ReportService and HealthService interfaces so
// tests can substitute testify mocks.
package http
