package dataprocessing

import (
	"fmt"

	"ymreport/pkg/contracts/domain"
)

// Move repositions one column: the first column with that name is removed
// and reinserted at Index. Index is applied to the list as it stands after
// the previous moves; an Index past the end appends.
type Move struct {
	Column string
	Index  int
}

// Layout describes what a report mode derives and how it orders columns.
type Layout struct {
	Mode domain.ReportMode
	// Derived columns are appended in this order when the input lacks them.
	Derived []string
	// Moves are applied in order after derivation.
	Moves []Move
	// FilterWeek keeps only rows in the current reporting week.
	FilterWeek bool
	// KeepDates leaves malfunction dates as time values for the writer to
	// style; otherwise they are rendered as DD/MM/YYYY text.
	KeepDates bool
}

// BasicLayout reproduces the original report's insert sequence exactly.
var BasicLayout = Layout{
	Mode: domain.ReportModeBasic,
	Derived: []string{
		ColumnSystem,
		ColumnWeek,
		ColumnProblem,
		ColumnSubsystemFunctional,
	},
	Moves: []Move{
		{Column: ColumnSystem, Index: 5},
		{Column: ColumnWeek, Index: 11},
		{Column: ColumnSubsystemFunctional, Index: 6},
		{Column: ColumnProblem, Index: 7},
	},
}

// ExtendedLayout is the weekly report with manual-entry columns.
var ExtendedLayout = Layout{
	Mode: domain.ReportModeExtended,
	Derived: []string{
		ColumnSystem,
		ColumnSubsystemFunctional,
		ColumnSubsystemRevised,
		ColumnType,
		ColumnProblem,
		ColumnRootCause,
		ColumnCorrectiveAction,
		ColumnAdditionalAction,
		ColumnWeek,
	},
	Moves: []Move{
		{Column: ColumnSystem, Index: 5},
		{Column: ColumnSubsystemFunctional, Index: 6},
		{Column: ColumnSubsystemRevised, Index: 7},
		{Column: ColumnType, Index: 8},
		{Column: ColumnProblem, Index: 9},
		{Column: ColumnRootCause, Index: 10},
		{Column: ColumnCorrectiveAction, Index: 11},
		{Column: ColumnAdditionalAction, Index: 12},
		{Column: ColumnWeek, Index: 17},
	},
	FilterWeek: true,
	KeepDates:  true,
}

// LayoutFor returns the layout of a report mode.
func LayoutFor(mode domain.ReportMode) (Layout, error) {
	switch mode {
	case domain.ReportModeBasic:
		return BasicLayout, nil
	case domain.ReportModeExtended:
		return ExtendedLayout, nil
	default:
		return Layout{}, fmt.Errorf("unknown report mode %q", mode)
	}
}

// has reports whether the layout derives the named column
func (l Layout) has(column string) bool {
	for _, c := range l.Derived {
		if c == column {
			return true
		}
	}
	return false
}

// Reorder applies moves to a column list and returns the resulting order as
// positions into columns. Each move pops the first column with its name and
// inserts it at the move's index, clamped to the list length. Moves naming
// an absent column are skipped.
func Reorder(columns []string, moves []Move) []int {
	order := make([]int, len(columns))
	for i := range order {
		order[i] = i
	}
	for _, m := range moves {
		from := -1
		for i, pos := range order {
			if columns[pos] == m.Column {
				from = i
				break
			}
		}
		if from < 0 {
			continue
		}
		pos := order[from]
		order = append(order[:from], order[from+1:]...)

		to := m.Index
		if to < 0 {
			to = 0
		}
		if to > len(order) {
			to = len(order)
		}
		order = append(order, 0)
		copy(order[to+1:], order[to:])
		order[to] = pos
	}
	return order
}
