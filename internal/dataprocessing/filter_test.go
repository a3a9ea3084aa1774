package dataprocessing

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ymreport/pkg/contracts/domain"
)

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestWeekFilter_Apply(t *testing.T) {
	table := domain.NewTable(ColumnLocation, ColumnMalfunctionStart)
	table.AppendRow("friday", "08/03/2024")
	table.AppendRow("thursday before", "07/03/2024")
	table.AppendRow("thursday late", "14/03/2024 23:00")
	table.AppendRow("next friday", 45366.0)
	table.AppendRow("serial inside", 45361.0)

	f := NewWeekFilter(fixedNow(time.Date(2024, time.March, 12, 9, 0, 0, 0, time.UTC)), time.UTC)
	rows, window, err := f.Apply(table)
	require.NoError(t, err)

	assert.Equal(t, "08 March - 14 March", window.Label())
	require.Len(t, rows, 3)
	assert.Equal(t, "friday", rows[0][0])
	assert.Equal(t, "thursday late", rows[1][0])
	assert.Equal(t, "serial inside", rows[2][0])
	assert.Len(t, table.Rows, 5, "input is not modified")
}

func TestWeekFilter_NowIsFriday(t *testing.T) {
	table := domain.NewTable(ColumnMalfunctionStart)
	table.AppendRow("08/03/2024")
	table.AppendRow("07/03/2024")

	f := NewWeekFilter(fixedNow(time.Date(2024, time.March, 8, 7, 0, 0, 0, time.UTC)), nil)
	rows, _, err := f.Apply(table)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestWeekFilter_Errors(t *testing.T) {
	f := NewWeekFilter(fixedNow(date(2024, time.March, 12)), time.UTC)

	_, _, err := f.Apply(domain.NewTable(ColumnLocation))
	assert.ErrorIs(t, err, ErrMissingColumn)

	table := domain.NewTable(ColumnMalfunctionStart)
	table.AppendRow("08/03/2024")
	table.AppendRow(nil)
	_, _, err = f.Apply(table)
	require.ErrorIs(t, err, ErrInvalidDate)

	var dateErr *InvalidDateError
	require.True(t, errors.As(err, &dateErr))
	assert.Equal(t, 1, dateErr.Row)
	assert.Equal(t, ColumnMalfunctionStart, dateErr.Column)
}
