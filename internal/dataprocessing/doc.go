// Package dataprocessing turns raw maintenance malfunction records into the
// weekly yard maintenance report.
//
// # Pipeline
//
// A run reads one worksheet into a domain.Table, derives the report columns
// for every record and reorders the header:
//
//	Reader → (WeekFilter) → Transformer → Table → exporter
//
// Each record gets:
//
//   - System: "Track switch" when the description mentions a switch,
//     otherwise "YM" plus the last two characters of the location.
//   - Week: the Friday-anchored week holding the malfunction start.
//   - Problem: the first AND-substring rule whose keywords all occur.
//   - Type: the first OR-whole-word rule with a matching keyword (extended only).
//   - Sub-system: the 3-character code inside the functional location.
//
// # Modes
//
// BasicLayout keeps every record and renders dates as DD/MM/YYYY text.
// ExtendedLayout keeps only the records of the current reporting week, adds
// empty columns for the engineer to fill in and keeps dates as timestamps.
//
// # Usage
//
//	table, err := dataprocessing.ReadFile(f, "export.xlsx", dataprocessing.ReadOptions{})
//	if err != nil {
//	    return err
//	}
//	tr, err := dataprocessing.NewTransformer(dataprocessing.ProcessingOptions{Mode: domain.ReportModeExtended})
//	if err != nil {
//	    return err
//	}
//	out, meta, err := tr.Transform(ctx, table)
//
// # Error Handling
//
// A missing required column returns a *MissingColumnError and an unreadable
// malfunction date returns an *InvalidDateError. Both abort the run; use
// errors.Is with ErrMissingColumn or ErrInvalidDate to test for them.
package dataprocessing
