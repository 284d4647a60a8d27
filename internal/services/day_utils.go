package services

import "time"

const dayKeyLayout = "2006-01-02"

// DateOnly truncates a timestamp to midnight UTC. Every date the engine
// compares goes through this, so equality and ordering are calendar-level.
func DateOnly(value time.Time) time.Time {
	year, month, day := value.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateAtLocation resolves the calendar date of a timestamp in the given
// location, returned as midnight UTC.
func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	year, month, day := value.In(location).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the signed number of calendar days from a to b
// (half-open: DaysBetween(d, d.AddDate(0, 0, 1)) == 1).
func DaysBetween(a time.Time, b time.Time) int {
	return int(DateOnly(b).Sub(DateOnly(a)).Hours() / 24)
}

func dayKey(value time.Time) string {
	return DateOnly(value).Format(dayKeyLayout)
}

func earlierOf(a time.Time, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}

func laterOf(a time.Time, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}
