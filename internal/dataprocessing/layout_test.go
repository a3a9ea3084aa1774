package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ymreport/pkg/contracts/domain"
)

func reorderNames(columns []string, moves []Move) []string {
	order := Reorder(columns, moves)
	out := make([]string, len(order))
	for i, pos := range order {
		out[i] = columns[pos]
	}
	return out
}

func TestReorder(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		moves   []Move
		want    []string
	}{
		{
			name:    "basic sequence on a minimal export",
			columns: append(append([]string(nil), RequiredColumns...), BasicLayout.Derived...),
			moves:   BasicLayout.Moves,
			want: []string{
				ColumnLocation, ColumnDescription, ColumnFunctionalLocation,
				ColumnMalfunctionStart, ColumnMalfunctionEnd,
				ColumnSystem, ColumnSubsystemFunctional, ColumnProblem, ColumnWeek,
			},
		},
		{
			name: "basic sequence with extra columns",
			columns: []string{
				"Notification", ColumnLocation, ColumnDescription, ColumnFunctionalLocation,
				ColumnMalfunctionStart, ColumnMalfunctionEnd, "Priority", "Reported By",
				ColumnSystem, ColumnWeek, ColumnProblem, ColumnSubsystemFunctional,
			},
			moves: BasicLayout.Moves,
			want: []string{
				"Notification", ColumnLocation, ColumnDescription, ColumnFunctionalLocation,
				ColumnMalfunctionStart, ColumnSystem, ColumnSubsystemFunctional, ColumnProblem,
				ColumnMalfunctionEnd, "Priority", "Reported By", ColumnWeek,
			},
		},
		{
			name:    "index past the end appends",
			columns: []string{"a", "b", "c"},
			moves:   []Move{{Column: "a", Index: 10}},
			want:    []string{"b", "c", "a"},
		},
		{
			name:    "negative index inserts first",
			columns: []string{"a", "b", "c"},
			moves:   []Move{{Column: "c", Index: -1}},
			want:    []string{"c", "a", "b"},
		},
		{
			name:    "absent column is skipped",
			columns: []string{"a", "b"},
			moves:   []Move{{Column: "z", Index: 0}, {Column: "b", Index: 0}},
			want:    []string{"b", "a"},
		},
		{
			name:    "only the first duplicate moves",
			columns: []string{"a", "x", "b", "x"},
			moves:   []Move{{Column: "x", Index: 0}},
			want:    []string{"x", "a", "b", "x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reorderNames(tt.columns, tt.moves))
		})
	}
}

func TestReorder_Positions(t *testing.T) {
	assert.Equal(t, []int{1, 2, 0}, Reorder([]string{"a", "b", "c"}, []Move{{Column: "a", Index: 2}}))
}

func TestLayoutFor(t *testing.T) {
	basic, err := LayoutFor(domain.ReportModeBasic)
	require.NoError(t, err)
	assert.False(t, basic.FilterWeek)
	assert.False(t, basic.has(ColumnType))

	extended, err := LayoutFor(domain.ReportModeExtended)
	require.NoError(t, err)
	assert.True(t, extended.FilterWeek)
	assert.True(t, extended.KeepDates)
	assert.True(t, extended.has(ColumnType))

	_, err = LayoutFor("weekly")
	assert.Error(t, err)
}
