package services

import (
	"fmt"
	"time"
)

// Timezone handling. Offsets arrive in minutes in the JavaScript
// Date.getTimezoneOffset convention, where the arithmetic sign is inverted:
// local time is UTC + (-offset). An offset of -480 means UTC+8.

// ResolveLocation picks the zone for a request: the request offset if
// supplied, then the configured fallback offset if nonzero, then UTC.
func ResolveLocation(offset *int, defaultOffset int) *time.Location {
	switch {
	case offset != nil:
		return fixedZone(*offset)
	case defaultOffset != 0:
		return fixedZone(defaultOffset)
	default:
		return time.UTC
	}
}

func fixedZone(offsetMinutes int) *time.Location {
	seconds := -offsetMinutes * 60
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	if minutes < 0 {
		minutes = -minutes
	}
	return time.FixedZone(fmt.Sprintf("UTC%+03d:%02d", hours, minutes), seconds)
}

// DayWindow is the absolute-instant span of one local calendar day,
// half-open: Start is local midnight, End is the next local midnight.
// Stored timestamps are always compared against these two instants, never
// against local wall-clock fields.
type DayWindow struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w DayWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// WindowForDate computes the day window for the calendar date of d in loc.
// Only d's year, month and day are read.
func WindowForDate(d time.Time, loc *time.Location) DayWindow {
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	return DayWindow{Start: start, End: start.AddDate(0, 0, 1)}
}

// windowBounds returns the window endpoints in UTC for range queries.
// Timestamps are stored in UTC, and normalizing the bounds keeps text-collated
// engines (sqlite) chronological.
func (w DayWindow) windowBounds() (time.Time, time.Time) {
	return w.Start.UTC(), w.End.UTC()
}

// localDate formats the calendar date of t in its own location.
func localDate(t time.Time) string {
	return t.Format("2006-01-02")
}
