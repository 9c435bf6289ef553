package models

import (
	"fmt"
	"time"
)

// Layouts for the ISO-8601 date and clock-time forms used at every boundary.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// TimeWindow is the query and validation unit for bookings: one calendar
// date plus a half-open [start, end) clock-time interval. Dates and times
// travel as ISO-8601 strings; zero-padded HH:MM:SS values order correctly
// under plain string comparison, which keeps this predicate aligned with
// the SQL time comparisons in the repository layer.
type TimeWindow struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// NewTimeWindow normalises and validates a window. Clock values may arrive
// as HH:MM from form inputs; they are padded to HH:MM:SS.
func NewTimeWindow(date, start, end string) (TimeWindow, error) {
	w := TimeWindow{
		Date:      date,
		StartTime: normalizeClock(start),
		EndTime:   normalizeClock(end),
	}
	if err := w.Validate(); err != nil {
		return TimeWindow{}, err
	}
	return w, nil
}

// Validate checks the ISO forms and the start < end invariant.
func (w TimeWindow) Validate() error {
	if _, err := time.Parse(DateLayout, w.Date); err != nil {
		return fmt.Errorf("invalid date %q: %w", w.Date, err)
	}
	start, err := time.Parse(TimeLayout, w.StartTime)
	if err != nil {
		return fmt.Errorf("invalid start_time %q: %w", w.StartTime, err)
	}
	end, err := time.Parse(TimeLayout, w.EndTime)
	if err != nil {
		return fmt.Errorf("invalid end_time %q: %w", w.EndTime, err)
	}
	if !start.Before(end) {
		return fmt.Errorf("start_time %s must be before end_time %s", w.StartTime, w.EndTime)
	}
	return nil
}

// Hours returns the wall-clock span of the window in hours.
func (w TimeWindow) Hours() float64 {
	start, err := time.Parse(TimeLayout, w.StartTime)
	if err != nil {
		return 0
	}
	end, err := time.Parse(TimeLayout, w.EndTime)
	if err != nil {
		return 0
	}
	return end.Sub(start).Hours()
}

// Overlaps reports whether two windows share at least one instant.
// Half-open semantics: a window ending at T never overlaps one starting
// at T. Both arguments are assumed validated.
func Overlaps(a, b TimeWindow) bool {
	return a.Date == b.Date && a.StartTime < b.EndTime && b.StartTime < a.EndTime
}

func normalizeClock(v string) string {
	if len(v) == len("15:04") {
		return v + ":00"
	}
	return v
}
