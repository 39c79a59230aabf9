package domain

import "time"

const secondsPerDay = 24 * 60 * 60

// CalendarDaysBetween counts whole calendar days from `from` to `to`, using the
// calendar of to's location. Partial days do not round up: a `from` 23 hours
// before `to` counts as 0. The result is negative when `from` is after `to`.
//
// Days are stepped with AddDate rather than divided out of a Duration, so a day
// that is 23 or 25 hours long across a DST switch still counts as one day.
func CalendarDaysBetween(from, to time.Time) int {
	from = from.In(to.Location())

	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()

	// Date-only difference on UTC civil days; Unix seconds do not saturate
	// like time.Duration does past ~292 years
	days := int((time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC).Unix() -
		time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC).Unix()) / secondsPerDay)

	// Drop the last day when the time of day has not been reached yet
	if days > 0 && from.AddDate(0, 0, days).After(to) {
		days--
	}
	if days < 0 && from.AddDate(0, 0, days).Before(to) {
		days++
	}

	return days
}

// StartOfDay returns local midnight of t's calendar day
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// NextMidnight returns the start of the calendar day following t
func NextMidnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
}
