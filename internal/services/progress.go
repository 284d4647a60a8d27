package services

import (
	"math"
	"time"
)

// ProgressSnapshot is the derived view of one habit's event log. It is
// recomputed on every request; nothing here is persisted.
type ProgressSnapshot struct {
	TotalCheckins      int `json:"total_checkins"`
	ElapsedDays        int `json:"elapsed_days"`
	EffectiveDays      int `json:"effective_days"`
	CompletionPct      int `json:"completion_pct"`
	MonthCompletionPct int `json:"month_completion_pct"`
	CurrentStreak      int `json:"current_streak"`
}

// ComputeProgress derives lifetime and current-month completion for a habit
// from its bounds and event dates, as of today.
//
// The accounting window runs from start to min(today, end) inclusive. Skip
// days inside the window shrink the denominator ("effective days") instead of
// counting as misses. TotalCheckins is the lifetime count and is not clipped
// to the window, so the lifetime percentage can exceed 100 when checkins were
// recorded outside the habit's active range; that follows the recorded
// behavior of the stats this replaces and is kept until product says
// otherwise.
func ComputeProgress(start time.Time, end *time.Time, checkins []time.Time, skips []time.Time, today time.Time) ProgressSnapshot {
	start = DateOnly(start)
	today = DateOnly(today)

	effectiveEnd := today
	if end != nil {
		effectiveEnd = earlierOf(today, DateOnly(*end))
	}

	elapsedDays := DaysBetween(start, effectiveEnd) + 1
	if elapsedDays < 0 {
		elapsedDays = 0
	}

	skippedInRange := 0
	for _, day := range skips {
		day = DateOnly(day)
		if !day.Before(start) && !day.After(effectiveEnd) {
			skippedInRange++
		}
	}

	effectiveDays := elapsedDays - skippedInRange
	if effectiveDays < 0 {
		effectiveDays = 0
	}

	monthStart, monthEnd := MonthWindow(today.Year(), today.Month())
	monthDays := DaysBetween(laterOf(monthStart, start), earlierOf(monthEnd, effectiveEnd))
	if monthDays < 0 {
		monthDays = 0
	}

	skippedMonth := countInWindow(skips, monthStart, monthEnd)
	monthEffective := monthDays - skippedMonth
	if monthEffective < 0 {
		monthEffective = 0
	}
	monthCheckins := countInWindow(checkins, monthStart, monthEnd)

	return ProgressSnapshot{
		TotalCheckins:      len(checkins),
		ElapsedDays:        elapsedDays,
		EffectiveDays:      effectiveDays,
		CompletionPct:      roundedPercent(len(checkins), effectiveDays),
		MonthCompletionPct: roundedPercent(monthCheckins, monthEffective),
		CurrentStreak:      CurrentStreak(checkins, today),
	}
}

// CurrentStreak counts consecutive checked-in days ending at today, walking
// backward until the first day without a checkin. A skip day carries no
// checkin and therefore ends the streak like any missed day.
func CurrentStreak(checkins []time.Time, today time.Time) int {
	if len(checkins) == 0 {
		return 0
	}

	byDay := make(map[string]bool, len(checkins))
	for _, day := range checkins {
		byDay[dayKey(day)] = true
	}

	streak := 0
	for cursor := DateOnly(today); byDay[dayKey(cursor)]; cursor = cursor.AddDate(0, 0, -1) {
		streak++
	}
	return streak
}

// countInWindow counts dates inside the half-open window [from, to).
func countInWindow(days []time.Time, from time.Time, to time.Time) int {
	count := 0
	for _, day := range days {
		day = DateOnly(day)
		if !day.Before(from) && day.Before(to) {
			count++
		}
	}
	return count
}

// roundedPercent rounds half away from zero and guards an empty denominator.
func roundedPercent(numerator int, denominator int) int {
	if denominator <= 0 {
		return 0
	}
	return int(math.Round(float64(numerator) / float64(denominator) * 100))
}
