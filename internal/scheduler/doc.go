// Package scheduler runs the unattended weekly report: on every activation
// of a cron expression (Fridays 07:00 by default) each spreadsheet in the
// inbox is transformed into the outbox.
//
// Files are processed one at a time in name order. Each file is its own
// run, so a malformed export is logged and skipped without affecting the
// rest of the batch. Inputs are never moved or deleted.
package scheduler
