package dataprocessing

import (
	"sort"

	"ymreport/pkg/contracts/domain"
)

// Unclassified labels records whose category cell is empty in a Summary.
const Unclassified = "(unclassified)"

// CategoryCount is the number of records sharing one category value.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Summary tallies a transformed table by its derived categories.
type Summary struct {
	Records   int             `json:"records"`
	BySystem  []CategoryCount `json:"by_system"`
	ByProblem []CategoryCount `json:"by_problem"`
	ByType    []CategoryCount `json:"by_type,omitempty"`
	ByWeek    []CategoryCount `json:"by_week"`
}

// Summarize counts the records of a transformed table per System, Problem,
// Type and Week. Columns absent from the table are left out. Each list is
// ordered by descending count, then by category name.
func Summarize(t *domain.Table) Summary {
	return Summary{
		Records:   len(t.Rows),
		BySystem:  countColumn(t, ColumnSystem),
		ByProblem: countColumn(t, ColumnProblem),
		ByType:    countColumn(t, ColumnType),
		ByWeek:    countColumn(t, ColumnWeek),
	}
}

func countColumn(t *domain.Table, column string) []CategoryCount {
	col := t.ColumnIndex(column)
	if col < 0 {
		return nil
	}

	counts := make(map[string]int)
	for _, row := range t.Rows {
		key := cellString(cellAt(row, col))
		if key == "" {
			key = Unclassified
		}
		counts[key]++
	}

	out := make([]CategoryCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, CategoryCount{Category: k, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	return out
}
