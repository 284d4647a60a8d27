package db

import (
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/antropov/habitd/internal/models"
)

func openTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "habitd-test.db")
	database, err := OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return database
}

func seedUser(t *testing.T, repositories *Repositories, telegramID int64) {
	t.Helper()

	user := models.User{TelegramID: telegramID, Username: "user", FirstName: "User"}
	if err := repositories.Users.Upsert(&user); err != nil {
		t.Fatalf("seed user %d: %v", telegramID, err)
	}
}

func seedHabit(t *testing.T, repositories *Repositories, ownerID int64, name string, start time.Time) models.Habit {
	t.Helper()

	habit := models.Habit{
		UserID:    ownerID,
		Name:      name,
		StartDate: start,
		Active:    true,
	}
	if err := repositories.Habits.Create(&habit); err != nil {
		t.Fatalf("seed habit %q: %v", name, err)
	}
	return habit
}

func loadMigrationRecords(t *testing.T, database *gorm.DB) []string {
	t.Helper()

	records := make([]string, 0)
	if err := database.
		Table("schema_migrations").
		Order("version ASC").
		Pluck("version", &records).Error; err != nil {
		t.Fatalf("load migration records: %v", err)
	}
	return records
}

func utcDay(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func formatDays(days []time.Time) []string {
	formatted := make([]string, 0, len(days))
	for _, value := range days {
		formatted = append(formatted, value.UTC().Format("2006-01-02"))
	}
	return formatted
}
