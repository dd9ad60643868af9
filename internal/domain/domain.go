package domain

import "time"

// DateLayout is the only accepted calendar date format for form input.
const DateLayout = "2006-01-02"

// Today is the calendar date of t in t's own location, as midnight UTC so it
// compares directly with stored dates. Callers pick the zone by passing t.In(loc).
func Today(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
