package services

import (
	"errors"
	"testing"
	"time"
)

func TestAdmitCheckinDisplacesSkip(t *testing.T) {
	target := day(2025, time.January, 5)
	set := NewEventSet(nil, []time.Time{target})

	if err := set.AdmitCheckin(target); err != nil {
		t.Fatalf("expected checkin to displace the skip, got %v", err)
	}
	if !set.HasCheckin(target) {
		t.Fatal("expected day in checkins")
	}
	if set.HasSkip(target) {
		t.Fatal("expected skip removed by the checkin")
	}
}

func TestAdmitCheckinRejectsRepeat(t *testing.T) {
	target := day(2025, time.January, 5)
	set := NewEventSet(nil, nil)

	if err := set.AdmitCheckin(target); err != nil {
		t.Fatalf("first checkin failed: %v", err)
	}
	err := set.AdmitCheckin(target)
	if !errors.Is(err, ErrAlreadyCheckedIn) {
		t.Fatalf("expected ErrAlreadyCheckedIn, got %v", err)
	}
	if len(set.Checkins()) != 1 {
		t.Fatalf("expected sets unchanged after rejection, got %d checkins", len(set.Checkins()))
	}
}

func TestAdmitSkipCannotOverrideCheckin(t *testing.T) {
	target := day(2025, time.January, 5)
	set := NewEventSet([]time.Time{target}, nil)

	err := set.AdmitSkip(target)
	if !errors.Is(err, ErrSkipConflictsWithCheckin) {
		t.Fatalf("expected ErrSkipConflictsWithCheckin, got %v", err)
	}
	if !set.HasCheckin(target) {
		t.Fatal("expected checkin untouched by the rejected skip")
	}
	if len(set.Skips()) != 0 {
		t.Fatalf("expected no skips, got %d", len(set.Skips()))
	}
}

func TestAdmitSkipRejectsRepeat(t *testing.T) {
	target := day(2025, time.January, 5)
	set := NewEventSet(nil, nil)

	if err := set.AdmitSkip(target); err != nil {
		t.Fatalf("first skip failed: %v", err)
	}
	err := set.AdmitSkip(target)
	if !errors.Is(err, ErrAlreadySkipped) {
		t.Fatalf("expected ErrAlreadySkipped, got %v", err)
	}
	if len(set.Skips()) != 1 {
		t.Fatalf("expected sets unchanged after rejection, got %d skips", len(set.Skips()))
	}
}

func TestAdmissionKeepsSetsDisjoint(t *testing.T) {
	set := NewEventSet(nil, nil)
	base := day(2025, time.March, 1)

	// Interleave admissions and rejections over a week of days.
	for offset := 0; offset < 7; offset++ {
		target := base.AddDate(0, 0, offset)
		if offset%2 == 0 {
			_ = set.AdmitSkip(target)
			_ = set.AdmitCheckin(target)
			_ = set.AdmitSkip(target)
		} else {
			_ = set.AdmitCheckin(target)
			_ = set.AdmitSkip(target)
			_ = set.AdmitCheckin(target)
		}
	}

	skipped := make(map[string]bool)
	for _, skipDay := range set.Skips() {
		skipped[dayKey(skipDay)] = true
	}
	for _, checkinDay := range set.Checkins() {
		if skipped[dayKey(checkinDay)] {
			t.Fatalf("day %s present in both sets", dayKey(checkinDay))
		}
	}
	if len(set.Checkins()) != 7 {
		t.Fatalf("expected every day to end as a checkin, got %d", len(set.Checkins()))
	}
	if len(set.Skips()) != 0 {
		t.Fatalf("expected no surviving skips, got %d", len(set.Skips()))
	}
}

func TestEventSetReturnsAscendingDays(t *testing.T) {
	set := NewEventSet(
		[]time.Time{day(2025, time.May, 3), day(2025, time.May, 1), day(2025, time.May, 2)},
		nil,
	)

	checkins := set.Checkins()
	for index := 1; index < len(checkins); index++ {
		if !checkins[index-1].Before(checkins[index]) {
			t.Fatalf("expected ascending order, got %v", checkins)
		}
	}
}

func TestIsAdmissionRejection(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "already checked in", err: ErrAlreadyCheckedIn, want: true},
		{name: "already skipped", err: ErrAlreadySkipped, want: true},
		{name: "conflict", err: ErrSkipConflictsWithCheckin, want: true},
		{name: "other error", err: errors.New("database gone"), want: false},
		{name: "nil", err: nil, want: false},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			if got := IsAdmissionRejection(testCase.err); got != testCase.want {
				t.Fatalf("expected %v, got %v", testCase.want, got)
			}
		})
	}
}
