package ledger

import (
	"math"
	"time"
)

// DayFormat is the calendar-day key used for attendance maps, expense
// dates and workspace session dates.
const DayFormat = "2006-01-02"

// DateKey returns the calendar-day key for t.
func DateKey(t time.Time) string {
	return t.Format(DayFormat)
}

// ParseDay parses a YYYY-MM-DD key in local time.
func ParseDay(s string) (time.Time, error) {
	return time.ParseInLocation(DayFormat, s, time.Local)
}

// DateInRange reports whether target lies in [start, end]. A nil bound
// does not constrain that side; start is widened to start-of-day and
// end to end-of-day, both inclusive.
func DateInRange(target time.Time, start, end *time.Time) bool {
	if start == nil && end == nil {
		return true
	}
	if start != nil {
		s := startOfDay(*start)
		if target.Before(s) {
			return false
		}
	}
	if end != nil {
		e := endOfDay(*end)
		if target.After(e) {
			return false
		}
	}
	return true
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// MinutesBetween returns whole minutes from a to b, rounded to the
// nearest minute and clamped to zero.
func MinutesBetween(a, b time.Time) int {
	mins := math.Round(b.Sub(a).Minutes())
	return int(math.Max(0, mins))
}

// SessionCost bills a workspace visit at hourlyRate per hour with
// minute granularity. An open session (no checkout yet) costs nothing.
func SessionCost(checkIn time.Time, checkOut *time.Time, hourlyRate float64) float64 {
	if checkOut == nil {
		return 0
	}
	mins := MinutesBetween(checkIn, *checkOut)
	return Round(float64(mins) / 60 * hourlyRate)
}
