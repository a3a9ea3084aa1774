package dataprocessing

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  time.Time
	}{
		{name: "excel serial", value: 45359.5, want: time.Date(2024, time.March, 8, 12, 0, 0, 0, time.UTC)},
		{name: "serial as text", value: "45359", want: date(2024, time.March, 8)},
		{name: "integer serial", value: 45359, want: date(2024, time.March, 8)},
		{name: "day first", value: "08/03/2024", want: date(2024, time.March, 8)},
		{name: "day first without padding", value: "8/3/2024", want: date(2024, time.March, 8)},
		{name: "day first with time", value: "08/03/2024 14:30", want: time.Date(2024, time.March, 8, 14, 30, 0, 0, time.UTC)},
		{name: "iso", value: "2024-03-08", want: date(2024, time.March, 8)},
		{name: "iso with time", value: " 2024-03-08 14:30:00 ", want: time.Date(2024, time.March, 8, 14, 30, 0, 0, time.UTC)},
		{name: "time value", value: date(2024, time.March, 8), want: date(2024, time.March, 8)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.value, time.UTC)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %v, got %v", tt.want, got)
		})
	}
}

func TestParseDate_Location(t *testing.T) {
	loc := time.FixedZone("AST", 3*60*60)
	got, err := ParseDate(45359.25, loc)
	require.NoError(t, err)
	assert.Equal(t, 6, got.Hour(), "wall clock is kept")
	assert.Equal(t, loc, got.Location())
}

func TestParseDate_ZonedTextUsesPipelineZone(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*60*60)

	got, err := ParseDate("2024-03-14T20:00:00Z", loc)
	require.NoError(t, err)
	assert.Equal(t, loc, got.Location())
	assert.Equal(t, 15, got.Day())

	label, err := WeekLabel("2024-03-14T20:00:00Z", loc)
	require.NoError(t, err)
	assert.Equal(t, "15 March - 21 March", label)
}

func TestParseDate_Invalid(t *testing.T) {
	for _, v := range []any{nil, "", "next week", "31/02/2024", true, -3.0} {
		_, err := ParseDate(v, time.UTC)
		require.Error(t, err, "value %v", v)
		assert.ErrorIs(t, err, ErrInvalidDate)

		var dateErr *InvalidDateError
		require.True(t, errors.As(err, &dateErr))
		assert.Equal(t, -1, dateErr.Row)
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "08/03/2024", FormatDate(time.Date(2024, time.March, 8, 16, 0, 0, 0, time.UTC)))
}
