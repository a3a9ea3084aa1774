package dataprocessing

import (
	"fmt"
	"time"
)

// WeekWindow is a Friday-to-Thursday reporting week. Start is the most recent
// Friday on or before the bucketed date and End is Start plus six days; both
// are calendar dates (midnight).
type WeekWindow struct {
	Start time.Time
	End   time.Time
}

// WeekWindowFor returns the window containing t's calendar date.
func WeekWindowFor(t time.Time) WeekWindow {
	day := calendarDate(t)
	sinceFriday := (int(day.Weekday()) - int(time.Friday) + 7) % 7
	start := day.AddDate(0, 0, -sinceFriday)
	return WeekWindow{Start: start, End: start.AddDate(0, 0, 6)}
}

// Label renders the window as "DD Month - DD Month", each endpoint with its
// own month name.
func (w WeekWindow) Label() string {
	return fmt.Sprintf("%02d %s - %02d %s", w.Start.Day(), w.Start.Month(), w.End.Day(), w.End.Month())
}

// Contains reports whether t's calendar date lies within the window, bounds included.
func (w WeekWindow) Contains(t time.Time) bool {
	day := calendarDate(t.In(w.Start.Location()))
	return !day.Before(w.Start) && !day.After(w.End)
}

// WeekLabel parses a malfunction date cell and returns its week label.
func WeekLabel(v any, loc *time.Location) (string, error) {
	t, err := ParseDate(v, loc)
	if err != nil {
		return "", err
	}
	return WeekWindowFor(t).Label(), nil
}
