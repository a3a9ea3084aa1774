package dataprocessing

import (
	"time"

	"ymreport/pkg/contracts/domain"
)

// WeekFilter keeps only rows whose malfunction start falls inside the
// reporting week containing the processing date.
type WeekFilter struct {
	now      func() time.Time
	location *time.Location
}

// NewWeekFilter creates a filter. now defaults to time.Now and loc to UTC.
func NewWeekFilter(now func() time.Time, loc *time.Location) *WeekFilter {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &WeekFilter{now: now, location: loc}
}

// Window returns the current reporting week.
func (f *WeekFilter) Window() WeekWindow {
	return WeekWindowFor(f.now().In(f.location))
}

// Apply returns the rows of t that fall in the current reporting week, in
// their original order. t is not modified. An unreadable malfunction start
// aborts with an *InvalidDateError.
func (f *WeekFilter) Apply(t *domain.Table) ([]domain.Row, WeekWindow, error) {
	keep, window, err := f.selectRows(t)
	if err != nil {
		return nil, window, err
	}
	rows := make([]domain.Row, len(keep))
	for i, idx := range keep {
		rows[i] = t.Rows[idx]
	}
	return rows, window, nil
}

// selectRows returns the indices of the rows inside the current window.
func (f *WeekFilter) selectRows(t *domain.Table) ([]int, WeekWindow, error) {
	window := f.Window()
	col := t.ColumnIndex(ColumnMalfunctionStart)
	if col < 0 {
		return nil, window, &MissingColumnError{Column: ColumnMalfunctionStart}
	}

	keep := make([]int, 0, len(t.Rows))
	for i, row := range t.Rows {
		cell := cellAt(row, col)
		start, err := parseDateValue(cell, f.location)
		if err != nil {
			return nil, window, &InvalidDateError{Row: i, Column: ColumnMalfunctionStart, Value: cell, Err: err}
		}
		if window.Contains(start) {
			keep = append(keep, i)
		}
	}
	return keep, window, nil
}
