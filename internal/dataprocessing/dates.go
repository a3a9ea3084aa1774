package dataprocessing

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"ymreport/pkg/contracts/domain"
)

// OutputDateLayout renders malfunction dates as DD/MM/YYYY.
const OutputDateLayout = "02/01/2006"

// dateLayouts are tried in order for text cells. Slash and dot dates are
// day-first, matching the DD/MM/YYYY convention of the exports.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2/1/2006",
	"2.1.2006 15:04:05",
	"2.1.2006 15:04",
	"2.1.2006",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"02-Jan-2006",
	"2 January 2006",
}

var errEmptyDate = errors.New("value is empty")

// ParseDate converts a cell into a timestamp. It accepts time.Time values,
// Excel serial numbers (numeric or numeric text) and text in the layouts
// listed in dateLayouts. Text without a zone is read in loc (UTC when nil);
// zoned text and time values are converted to loc, so the calendar date is
// always the one seen in loc.
func ParseDate(v any, loc *time.Location) (time.Time, error) {
	t, err := parseDateValue(v, loc)
	if err != nil {
		return time.Time{}, &InvalidDateError{Row: -1, Value: v, Err: err}
	}
	return t, nil
}

func parseDateValue(v any, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := parseCell(v, loc)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(loc), nil
}

func parseCell(v any, loc *time.Location) (time.Time, error) {
	switch val := v.(type) {
	case nil:
		return time.Time{}, errEmptyDate
	case time.Time:
		if val.IsZero() {
			return time.Time{}, errEmptyDate
		}
		return val, nil
	case *time.Time:
		if val == nil || val.IsZero() {
			return time.Time{}, errEmptyDate
		}
		return *val, nil
	case float64:
		return serialToTime(val, loc)
	case float32:
		return serialToTime(float64(val), loc)
	case int:
		return serialToTime(float64(val), loc)
	case int64:
		return serialToTime(float64(val), loc)
	case domain.LiteralText:
		return parseDateText(string(val), loc)
	case string:
		return parseDateText(val, loc)
	default:
		return time.Time{}, fmt.Errorf("unsupported cell type %T", v)
	}
}

func parseDateText(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errEmptyDate
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return serialToTime(f, loc)
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date format")
}

// serialToTime converts an Excel 1900-system serial date. excelize returns the
// wall-clock time as UTC; it is re-anchored in loc without shifting the clock.
func serialToTime(serial float64, loc *time.Location) (time.Time, error) {
	if serial <= 0 {
		return time.Time{}, fmt.Errorf("serial date %v out of range", serial)
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc), nil
}

// calendarDate drops the time of day, keeping the timestamp's own location.
func calendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// FormatDate renders t as DD/MM/YYYY
func FormatDate(t time.Time) string {
	return t.Format(OutputDateLayout)
}
