package services

import (
	"testing"
	"time"
)

func TestDateOnly(t *testing.T) {
	value := time.Date(2025, time.March, 5, 23, 59, 30, 0, time.UTC)
	truncated := DateOnly(value)
	if !truncated.Equal(day(2025, time.March, 5)) {
		t.Fatalf("expected midnight UTC, got %v", truncated)
	}
}

func TestDateAtLocation(t *testing.T) {
	behindUTC := time.FixedZone("UTC-5", -5*3600)
	// 02:00 UTC on the 5th is still the 4th at UTC-5.
	value := time.Date(2025, time.March, 5, 2, 0, 0, 0, time.UTC)

	local := DateAtLocation(value, behindUTC)
	if !local.Equal(day(2025, time.March, 4)) {
		t.Fatalf("expected 2025-03-04, got %v", local)
	}

	if got := DateAtLocation(value, nil); !got.Equal(day(2025, time.March, 5)) {
		t.Fatalf("nil location should fall back to UTC, got %v", got)
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		a    time.Time
		b    time.Time
		want int
	}{
		{name: "same day", a: day(2025, time.January, 1), b: day(2025, time.January, 1), want: 0},
		{name: "next day", a: day(2025, time.January, 1), b: day(2025, time.January, 2), want: 1},
		{name: "reversed", a: day(2025, time.January, 10), b: day(2025, time.January, 1), want: -9},
		{name: "across month", a: day(2025, time.January, 31), b: day(2025, time.February, 2), want: 2},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			if got := DaysBetween(testCase.a, testCase.b); got != testCase.want {
				t.Fatalf("expected %d, got %d", testCase.want, got)
			}
		})
	}
}
