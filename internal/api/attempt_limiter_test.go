package api

import (
	"testing"
	"time"
)

func TestAttemptLimiterBlocksAfterLimit(t *testing.T) {
	t.Parallel()

	limiter := newAttemptLimiter()
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	for attempt := 0; attempt < 3; attempt++ {
		if limiter.tooManyRecent("key", now, 3, time.Minute) {
			t.Fatalf("limiter blocked after %d failures, limit is 3", attempt)
		}
		limiter.addFailure("key", now, time.Minute)
	}

	if !limiter.tooManyRecent("key", now, 3, time.Minute) {
		t.Fatal("limiter should block after 3 failures")
	}
}

func TestAttemptLimiterForgetsOldFailures(t *testing.T) {
	t.Parallel()

	limiter := newAttemptLimiter()
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	for attempt := 0; attempt < 3; attempt++ {
		limiter.addFailure("key", now, time.Minute)
	}

	later := now.Add(2 * time.Minute)
	if limiter.tooManyRecent("key", later, 3, time.Minute) {
		t.Fatal("failures outside the window should not count")
	}
}

func TestAttemptLimiterResetClearsKey(t *testing.T) {
	t.Parallel()

	limiter := newAttemptLimiter()
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	for attempt := 0; attempt < 3; attempt++ {
		limiter.addFailure("key", now, time.Minute)
	}
	limiter.reset("key")

	if limiter.tooManyRecent("key", now, 3, time.Minute) {
		t.Fatal("reset should clear recorded failures")
	}
}

func TestAttemptLimiterKeysAreIndependent(t *testing.T) {
	t.Parallel()

	limiter := newAttemptLimiter()
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	for attempt := 0; attempt < 3; attempt++ {
		limiter.addFailure("first", now, time.Minute)
	}

	if limiter.tooManyRecent("second", now, 3, time.Minute) {
		t.Fatal("failures under one key should not block another")
	}
}
