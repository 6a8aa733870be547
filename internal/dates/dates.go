// Package dates holds the date-only helpers shared by the generator and the views.
// All comparisons drop the time of day; a "day" is a calendar day in the
// location of the reference time.
package dates

import (
	"fmt"
	"time"
)

const isoLayout = "2006-01-02"

// Midnight returns t truncated to 00:00 of its calendar day, in t's location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameCalendarDay reports whether a and b fall on the same calendar day,
// as seen from a's location.
func SameCalendarDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// NotAfter reports whether the day of a is on or before the day of b.
func NotAfter(a, b time.Time) bool {
	a = Midnight(a.In(b.Location()))
	return !a.After(Midnight(b))
}

// ISO formats the calendar day as YYYY-MM-DD.
func ISO(t time.Time) string { return t.Format(isoLayout) }

// ParseISO reads a YYYY-MM-DD day as local midnight.
func ParseISO(s string) (time.Time, error) {
	t, err := time.ParseInLocation(isoLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be YYYY-MM-DD: %q", s)
	}
	return t, nil
}

// Long is the header form, e.g. "10 January 2024".
func Long(t time.Time) string { return t.Format("02 January 2006") }

// MonthDays returns how many days month has in year.
func MonthDays(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
