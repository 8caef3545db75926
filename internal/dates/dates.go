// Package dates provides the calendar helpers used by flow keyboards and
// analytics ranges: month edges, recent-date lists and month enumeration.
package dates

import "time"

// Layouts shared across flows. Buttons and patterns always use ISO order.
const (
	LayoutFull    = "2006-01-02"
	LayoutMonthly = "2006-01"
	LayoutDaily   = "02"
)

// MonthRange returns the first and last calendar day of a month.
func MonthRange(year int, month time.Month) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first, last
}

// ThisMonth returns the edges of the month containing today.
func ThisMonth(today time.Time) (time.Time, time.Time) {
	return MonthRange(today.Year(), today.Month())
}

// PreviousMonth returns the edges of the month before the one containing
// today.
func PreviousMonth(today time.Time) (time.Time, time.Time) {
	prev := today.AddDate(0, 0, -today.Day())
	return MonthRange(prev.Year(), prev.Month())
}

// LastDates lists the amount most recent dates, today first, formatted
// with LayoutFull. Used to build date-selection keyboards.
func LastDates(today time.Time, amount int) []string {
	out := make([]string, 0, amount)
	for i := 0; i < amount; i++ {
		out = append(out, today.AddDate(0, 0, -i).Format(LayoutFull))
	}
	return out
}

// MonthsBetween enumerates months newest-first from last down to first,
// formatted with LayoutMonthly. At most limit entries are returned when
// limit is positive.
func MonthsBetween(first, last time.Time, limit int) []string {
	var out []string
	cursor := time.Date(last.Year(), last.Month(), 1, 0, 0, 0, 0, time.UTC)
	floor := time.Date(first.Year(), first.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cursor.Before(floor) {
		out = append(out, cursor.Format(LayoutMonthly))
		if limit > 0 && len(out) >= limit {
			break
		}
		cursor = cursor.AddDate(0, -1, 0)
	}
	return out
}
