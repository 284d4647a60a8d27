package db

import (
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/antropov/habitd/internal/models"
)

func TestFindVisibleAdmitsOwnerAndShareViewer(t *testing.T) {
	database := openTestDatabase(t)
	repositories := NewRepositories(database)
	seedUser(t, repositories, 100)
	seedUser(t, repositories, 200)
	seedUser(t, repositories, 300)
	habit := seedHabit(t, repositories, 100, "reading", utcDay(2026, time.March, 1))

	share := models.Share{HabitID: habit.ID, OwnerID: 100, ViewerID: 200}
	if err := repositories.Shares.Create(&share); err != nil {
		t.Fatalf("create share: %v", err)
	}

	if _, err := repositories.Habits.FindVisible(habit.ID, 100); err != nil {
		t.Fatalf("owner FindVisible returned error: %v", err)
	}
	if _, err := repositories.Habits.FindVisible(habit.ID, 200); err != nil {
		t.Fatalf("viewer FindVisible returned error: %v", err)
	}
	if _, err := repositories.Habits.FindVisible(habit.ID, 300); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("stranger FindVisible error = %v, want ErrRecordNotFound", err)
	}
}

func TestFindOwnedRejectsViewer(t *testing.T) {
	database := openTestDatabase(t)
	repositories := NewRepositories(database)
	seedUser(t, repositories, 100)
	seedUser(t, repositories, 200)
	habit := seedHabit(t, repositories, 100, "reading", utcDay(2026, time.March, 1))

	share := models.Share{HabitID: habit.ID, OwnerID: 100, ViewerID: 200}
	if err := repositories.Shares.Create(&share); err != nil {
		t.Fatalf("create share: %v", err)
	}

	if _, err := repositories.Habits.FindOwned(habit.ID, 200); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("viewer FindOwned error = %v, want ErrRecordNotFound", err)
	}
}

func TestDeactivateHidesHabit(t *testing.T) {
	database := openTestDatabase(t)
	repositories := NewRepositories(database)
	seedUser(t, repositories, 100)
	habit := seedHabit(t, repositories, 100, "reading", utcDay(2026, time.March, 1))

	if err := repositories.Habits.Deactivate(habit.ID, 100); err != nil {
		t.Fatalf("Deactivate returned error: %v", err)
	}

	if _, err := repositories.Habits.FindOwned(habit.ID, 100); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("FindOwned after deactivate error = %v, want ErrRecordNotFound", err)
	}

	count, err := repositories.Habits.CountActiveByOwner(100)
	if err != nil {
		t.Fatalf("CountActiveByOwner returned error: %v", err)
	}
	if count != 0 {
		t.Fatalf("CountActiveByOwner = %d, want 0", count)
	}
}

func TestListReminderCandidatesJoinsOwnerOffset(t *testing.T) {
	database := openTestDatabase(t)
	repositories := NewRepositories(database)
	seedUser(t, repositories, 100)
	if err := repositories.Users.SetTZOffset(100, 180); err != nil {
		t.Fatalf("SetTZOffset returned error: %v", err)
	}

	withReminder := seedHabit(t, repositories, 100, "reading", utcDay(2026, time.March, 1))
	if err := repositories.Habits.SetReminder(withReminder.ID, 100, "21:30"); err != nil {
		t.Fatalf("SetReminder returned error: %v", err)
	}
	seedHabit(t, repositories, 100, "running", utcDay(2026, time.March, 1))

	candidates, err := repositories.Habits.ListReminderCandidates()
	if err != nil {
		t.Fatalf("ListReminderCandidates returned error: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("candidates len = %d, want 1", len(candidates))
	}

	candidate := candidates[0]
	if candidate.HabitID != withReminder.ID {
		t.Fatalf("candidate habit = %d, want %d", candidate.HabitID, withReminder.ID)
	}
	if candidate.OwnerID != 100 {
		t.Fatalf("candidate owner = %d, want 100", candidate.OwnerID)
	}
	if candidate.ReminderTime != "21:30" {
		t.Fatalf("candidate reminder = %q, want 21:30", candidate.ReminderTime)
	}
	if candidate.TZOffsetMinutes != 180 {
		t.Fatalf("candidate offset = %d, want 180", candidate.TZOffsetMinutes)
	}
}

func TestUpsertKeepsTZOffset(t *testing.T) {
	database := openTestDatabase(t)
	repositories := NewRepositories(database)
	seedUser(t, repositories, 100)
	if err := repositories.Users.SetTZOffset(100, -120); err != nil {
		t.Fatalf("SetTZOffset returned error: %v", err)
	}

	refreshed := models.User{TelegramID: 100, Username: "renamed", FirstName: "Renamed"}
	if err := repositories.Users.Upsert(&refreshed); err != nil {
		t.Fatalf("second Upsert returned error: %v", err)
	}

	user, err := repositories.Users.FindByID(100)
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if user.Username != "renamed" {
		t.Fatalf("username = %q, want renamed", user.Username)
	}
	if user.TZOffsetMinutes != -120 {
		t.Fatalf("tz offset = %d, want -120", user.TZOffsetMinutes)
	}
}

func TestFindVisibleKeepsDeactivatedHabit(t *testing.T) {
	database := openTestDatabase(t)
	repositories := NewRepositories(database)
	seedUser(t, repositories, 100)
	habit := seedHabit(t, repositories, 100, "reading", utcDay(2026, time.March, 1))

	if err := repositories.Habits.Deactivate(habit.ID, 100); err != nil {
		t.Fatalf("Deactivate returned error: %v", err)
	}

	found, err := repositories.Habits.FindVisible(habit.ID, 100)
	if err != nil {
		t.Fatalf("FindVisible after deactivate returned error: %v", err)
	}
	if found.Active {
		t.Fatal("deactivated habit still reported active")
	}
}
