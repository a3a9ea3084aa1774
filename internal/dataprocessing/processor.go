package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"ymreport/pkg/contracts/domain"
)

// Transformer derives the report columns for every record of a table and
// emits them in the column order of its layout. It holds only read-only
// configuration, so one Transformer may serve concurrent runs.
type Transformer struct {
	layout   Layout
	location *time.Location
	codes    LocationCodeTable
	problem  *Classifier
	kind     *Classifier
	filter   *WeekFilter
	logger   *slog.Logger
}

// NewTransformer creates a transformer for the configured mode
func NewTransformer(opts ProcessingOptions) (*Transformer, error) {
	if opts.Mode == "" {
		opts.Mode = domain.ReportModeBasic
	}
	layout, err := LayoutFor(opts.Mode)
	if err != nil {
		return nil, err
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Codes == nil {
		opts.Codes = DefaultLocationCodes
	}
	if opts.ProblemRules == nil {
		opts.ProblemRules = ProblemClassifier()
	}
	if opts.TypeRules == nil {
		opts.TypeRules = TypeClassifier()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Transformer{
		layout:   layout,
		location: opts.Location,
		codes:    opts.Codes,
		problem:  opts.ProblemRules,
		kind:     opts.TypeRules,
		filter:   NewWeekFilter(opts.Now, opts.Location),
		logger:   opts.Logger.With(slog.String("component", "transformer"), slog.String("mode", string(layout.Mode))),
	}, nil
}

// Layout returns the transformer's layout
func (t *Transformer) Layout() Layout {
	return t.layout
}

// Transform returns a new table holding the derived, reordered records.
// The input table is not modified. Any failure aborts the run and no
// partial table is returned.
func (t *Transformer) Transform(ctx context.Context, in *domain.Table) (*domain.Table, domain.ReportMetadata, error) {
	started := time.Now()
	meta := domain.ReportMetadata{RecordsIn: len(in.Rows)}

	for _, name := range RequiredColumns {
		if !in.HasColumn(name) {
			return nil, meta, &MissingColumnError{Column: name}
		}
	}

	selected := make([]int, len(in.Rows))
	for i := range selected {
		selected[i] = i
	}
	if t.layout.FilterWeek {
		keep, window, err := t.filter.selectRows(in)
		if err != nil {
			return nil, meta, err
		}
		selected = keep
		start, end := window.Start, window.End
		meta.WeekStart, meta.WeekEnd = &start, &end
		meta.RecordsFiltered = len(in.Rows) - len(keep)
		t.logger.DebugContext(ctx, "week filter applied",
			slog.String("week", window.Label()),
			slog.Int("kept", len(keep)),
			slog.Int("dropped", meta.RecordsFiltered))
	}

	columns := append([]string(nil), in.Columns...)
	for _, name := range t.layout.Derived {
		if indexOf(columns, name) < 0 {
			columns = append(columns, name)
		}
	}
	idx := func(name string) int { return indexOf(columns, name) }
	locationCol := idx(ColumnLocation)
	descCol := idx(ColumnDescription)
	flCol := idx(ColumnFunctionalLocation)
	startCol := idx(ColumnMalfunctionStart)
	endCol := idx(ColumnMalfunctionEnd)
	systemCol := idx(ColumnSystem)
	weekCol := idx(ColumnWeek)
	problemCol := idx(ColumnProblem)
	subsystemCol := idx(ColumnSubsystemFunctional)

	typeCol := -1
	var placeholders []int
	if t.layout.has(ColumnType) {
		typeCol = idx(ColumnType)
	}
	for _, name := range []string{ColumnSubsystemRevised, ColumnRootCause, ColumnCorrectiveAction, ColumnAdditionalAction} {
		if t.layout.has(name) {
			placeholders = append(placeholders, idx(name))
		}
	}

	rows := make([]domain.Row, 0, len(selected))
	for n, src := range selected {
		if n%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, meta, err
			}
		}
		row := make(domain.Row, len(columns))
		copy(row, in.Rows[src])

		location := cellString(row[locationCol])
		description := cellString(row[descCol])
		if NeedsLiteralText(location) {
			row[locationCol] = domain.LiteralText(location)
		}
		row[systemCol] = DeriveSystem(location, description)

		start, err := parseDateValue(row[startCol], t.location)
		if err != nil {
			return nil, meta, &InvalidDateError{Row: src, Column: ColumnMalfunctionStart, Value: row[startCol], Err: err}
		}
		row[weekCol] = WeekWindowFor(start).Label()

		var end *time.Time
		if !isBlank(row[endCol]) {
			e, err := parseDateValue(row[endCol], t.location)
			if err != nil {
				return nil, meta, &InvalidDateError{Row: src, Column: ColumnMalfunctionEnd, Value: row[endCol], Err: err}
			}
			end = &e
		}
		if t.layout.KeepDates {
			row[startCol] = start
			row[endCol] = nil
			if end != nil {
				row[endCol] = *end
			}
		} else {
			row[startCol] = FormatDate(start)
			row[endCol] = nil
			if end != nil {
				row[endCol] = FormatDate(*end)
			}
		}

		problem := t.problem.Classify(row[descCol])
		if problem == "" {
			meta.UnclassifiedProblem++
		}
		row[problemCol] = problem
		if typeCol >= 0 {
			kind := t.kind.Classify(row[descCol])
			if kind == "" {
				meta.UnclassifiedType++
			}
			row[typeCol] = kind
		}
		row[subsystemCol] = t.codes.Resolve(cellString(row[flCol]))
		for _, c := range placeholders {
			row[c] = ""
		}
		rows = append(rows, row)
	}

	order := Reorder(columns, t.layout.Moves)
	out := &domain.Table{Columns: make([]string, len(order)), Rows: make([]domain.Row, len(rows))}
	for i, pos := range order {
		out.Columns[i] = columns[pos]
	}
	for r, row := range rows {
		reordered := make(domain.Row, len(order))
		for i, pos := range order {
			reordered[i] = row[pos]
		}
		out.Rows[r] = reordered
	}

	meta.RecordsOut = len(out.Rows)
	meta.ProcessingTime = time.Since(started)
	t.logger.InfoContext(ctx, "records transformed",
		slog.Int("records_in", meta.RecordsIn),
		slog.Int("records_out", meta.RecordsOut),
		slog.Int("unclassified_problem", meta.UnclassifiedProblem),
		slog.Int("unclassified_type", meta.UnclassifiedType),
		slog.Duration("duration", meta.ProcessingTime))

	return out, meta, nil
}

func indexOf(columns []string, name string) int {
	for i, c := range columns {
		if c == name {
			return i
		}
	}
	return -1
}

func cellAt(row domain.Row, col int) any {
	if col < 0 || col >= len(row) {
		return nil
	}
	return row[col]
}

// cellString renders a cell as text; empty cells become "".
func cellString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case domain.LiteralText:
		return string(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case time.Time:
		return FormatDate(val)
	default:
		return fmt.Sprint(val)
	}
}

func isBlank(v any) bool {
	s, ok := cellText(v)
	if !ok {
		return true
	}
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}
