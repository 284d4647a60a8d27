package services

import (
	"errors"
	"sort"
	"time"
)

// ErrInvalidMonth rejects a month selector that does not parse as YYYY-MM.
var ErrInvalidMonth = errors.New("month must look like YYYY-MM")

// CalendarView is one month of recorded events, both slices ascending and
// disjoint. Events are filtered by the month window only, not by the habit's
// start or end bounds: whatever was recorded in the month shows up.
type CalendarView struct {
	Marked  []time.Time `json:"marked"`
	Skipped []time.Time `json:"skipped"`
}

// MonthWindow returns the half-open window [first of month, first of next
// month) as midnight-UTC dates.
func MonthWindow(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// ParseMonthWindow parses a YYYY-MM selector into its month window.
func ParseMonthWindow(value string) (time.Time, time.Time, error) {
	parsed, err := time.ParseInLocation("2006-01", value, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidMonth
	}
	start, end := MonthWindow(parsed.Year(), parsed.Month())
	return start, end, nil
}

// ProjectMonth restricts the event sets to [monthStart, monthEnd).
func ProjectMonth(checkins []time.Time, skips []time.Time, monthStart time.Time, monthEnd time.Time) CalendarView {
	return CalendarView{
		Marked:  filterWindow(checkins, monthStart, monthEnd),
		Skipped: filterWindow(skips, monthStart, monthEnd),
	}
}

func filterWindow(days []time.Time, from time.Time, to time.Time) []time.Time {
	filtered := make([]time.Time, 0, len(days))
	for _, day := range days {
		day = DateOnly(day)
		if !day.Before(from) && day.Before(to) {
			filtered = append(filtered, day)
		}
	}
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].Before(filtered[j])
	})
	return filtered
}
