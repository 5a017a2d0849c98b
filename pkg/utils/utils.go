package utils

import (
	"fmt"
	"strings"
	"time"
)

// ISODate is the layout used for day-granularity dates on the wire.
const ISODate = "2006-01-02"

// Normalize strips the time of day, keeping the calendar date in t's location.
func Normalize(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// DaysInMonth returns the number of days in the given month.
// day=0 of the following month is the last day of month.
func DaysInMonth(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

// DateOnDay builds a midnight date on day of the given month, clamping day to
// the last day of that month. Month overflow (13, 0, -1...) is normalized first.
func DateOnDay(year int, month time.Month, day int, loc *time.Location) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	last := DaysInMonth(first.Year(), first.Month(), loc)
	if day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, loc)
}

// AddMonths adds months to t keeping its day of month, clamped at month end
// (Jan 31 + 1 month = Feb 28/29, never Mar 3).
func AddMonths(t time.Time, months int) time.Time {
	return AddMonthsOnDay(t, months, t.Day())
}

// AddMonthsOnDay moves t by months and lands on targetDay, clamped at month
// end. Anchoring on targetDay keeps a clamped date (Feb 28 for day 31) from
// drifting in the following months.
func AddMonthsOnDay(t time.Time, months, targetDay int) time.Time {
	year, month, _ := t.Date()
	return DateOnDay(year, month+time.Month(months), targetDay, t.Location())
}

// MonthsBetween returns the number of calendar months from a to b, ignoring days.
func MonthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

// DaysBetween returns the number of calendar days from a to b. Both dates are
// compared on their calendar date only, so DST transitions do not skew it.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

// ParseDate accepts an ISO-8601 calendar date or an RFC3339 timestamp and
// returns the normalized date in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if loc == nil {
		loc = time.Local
	}

	if t, err := time.ParseInLocation(ISODate, value, loc); err == nil {
		return t, nil
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected %s or RFC3339: %w", ISODate, err)
	}
	return Normalize(t.In(loc)), nil
}

// FormatDate renders t as an ISO-8601 calendar date.
func FormatDate(t time.Time) string {
	return t.Format(ISODate)
}

// ClampPercent bounds a percentage to [0, 100].
func ClampPercent(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
