package services

import (
	"errors"
	"sort"
	"time"
)

var (
	// ErrAlreadyCheckedIn rejects a repeated checkin for the same day.
	ErrAlreadyCheckedIn = errors.New("day already checked in")
	// ErrAlreadySkipped rejects a repeated skip for the same day.
	ErrAlreadySkipped = errors.New("day already skipped")
	// ErrSkipConflictsWithCheckin rejects skipping a day that was completed.
	ErrSkipConflictsWithCheckin = errors.New("day already checked in, skip not allowed")
	// ErrAlreadyMember rejects joining a challenge twice.
	ErrAlreadyMember = errors.New("already a challenge member")
	// ErrAlreadyShared rejects granting the same viewer access twice.
	ErrAlreadyShared = errors.New("habit already shared with this user")
)

// IsAdmissionRejection reports whether err is one of the expected admission
// outcomes rather than a system failure. Callers surface these as
// informational responses.
func IsAdmissionRejection(err error) bool {
	return errors.Is(err, ErrAlreadyCheckedIn) ||
		errors.Is(err, ErrAlreadySkipped) ||
		errors.Is(err, ErrSkipConflictsWithCheckin) ||
		errors.Is(err, ErrAlreadyMember) ||
		errors.Is(err, ErrAlreadyShared)
}

// EventSet holds one habit's checkin and skip days and applies the admission
// rule that keeps them mutually exclusive: a checkin displaces a prior skip
// for the same day, a skip never displaces a checkin.
type EventSet struct {
	checkins map[string]time.Time
	skips    map[string]time.Time
}

func NewEventSet(checkins []time.Time, skips []time.Time) *EventSet {
	set := &EventSet{
		checkins: make(map[string]time.Time, len(checkins)),
		skips:    make(map[string]time.Time, len(skips)),
	}
	for _, day := range checkins {
		day = DateOnly(day)
		set.checkins[dayKey(day)] = day
	}
	for _, day := range skips {
		day = DateOnly(day)
		set.skips[dayKey(day)] = day
	}
	return set
}

// AdmitCheckin records day as completed. A prior skip for the same day is
// removed. Rejections leave the set unchanged.
func (set *EventSet) AdmitCheckin(day time.Time) error {
	day = DateOnly(day)
	key := dayKey(day)
	if _, exists := set.checkins[key]; exists {
		return ErrAlreadyCheckedIn
	}
	delete(set.skips, key)
	set.checkins[key] = day
	return nil
}

// AdmitSkip excuses day from accounting. A completed day cannot be skipped.
func (set *EventSet) AdmitSkip(day time.Time) error {
	day = DateOnly(day)
	key := dayKey(day)
	if _, exists := set.checkins[key]; exists {
		return ErrSkipConflictsWithCheckin
	}
	if _, exists := set.skips[key]; exists {
		return ErrAlreadySkipped
	}
	set.skips[key] = day
	return nil
}

func (set *EventSet) HasCheckin(day time.Time) bool {
	_, exists := set.checkins[dayKey(day)]
	return exists
}

func (set *EventSet) HasSkip(day time.Time) bool {
	_, exists := set.skips[dayKey(day)]
	return exists
}

// Checkins returns the checkin days in ascending order.
func (set *EventSet) Checkins() []time.Time {
	return sortedDays(set.checkins)
}

// Skips returns the skip days in ascending order.
func (set *EventSet) Skips() []time.Time {
	return sortedDays(set.skips)
}

func sortedDays(byKey map[string]time.Time) []time.Time {
	days := make([]time.Time, 0, len(byKey))
	for _, day := range byKey {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Before(days[j])
	})
	return days
}
