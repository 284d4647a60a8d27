package db

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/antropov/habitd/internal/models"
	"github.com/antropov/habitd/internal/services"
)

type EventRepository struct {
	database *gorm.DB
}

func NewEventRepository(database *gorm.DB) *EventRepository {
	return &EventRepository{database: database}
}

func (repo *EventRepository) ListCheckinDates(habitID uint) ([]time.Time, error) {
	return repo.listDates(&models.Checkin{}, habitID)
}

func (repo *EventRepository) ListSkipDates(habitID uint) ([]time.Time, error) {
	return repo.listDates(&models.Skip{}, habitID)
}

func (repo *EventRepository) listDates(model any, habitID uint) ([]time.Time, error) {
	dates := make([]time.Time, 0)
	if err := repo.database.Model(model).
		Where("habit_id = ?", habitID).
		Order("date ASC").
		Pluck("date", &dates).Error; err != nil {
		return nil, err
	}
	return dates, nil
}

func (repo *EventRepository) CountOwnerCheckinsOn(ownerID int64, day time.Time) (int, error) {
	return repo.countOwnerOn("checkins", ownerID, day)
}

func (repo *EventRepository) CountOwnerSkipsOn(ownerID int64, day time.Time) (int, error) {
	return repo.countOwnerOn("habit_skips", ownerID, day)
}

func (repo *EventRepository) countOwnerOn(table string, ownerID int64, day time.Time) (int, error) {
	var count int64
	if err := repo.database.Table(table).
		Joins("JOIN habits ON habits.id = "+table+".habit_id").
		Where("habits.user_id = ? AND habits.active = ? AND "+table+".date = ?", ownerID, true, day).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

// SaveCheckin removes a same-day skip and inserts the checkin atomically. The
// unique index turns a concurrent duplicate into ErrAlreadyCheckedIn.
func (repo *EventRepository) SaveCheckin(habitID uint, day time.Time) error {
	err := repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("habit_id = ? AND date = ?", habitID, day).
			Delete(&models.Skip{}).Error; err != nil {
			return err
		}
		return tx.Create(&models.Checkin{HabitID: habitID, Date: day}).Error
	})
	if isUniqueViolation(err) {
		return services.ErrAlreadyCheckedIn
	}
	return err
}

// SaveSkip inserts the skip if no checkin holds the day. The existence check
// runs in the same transaction as the insert.
func (repo *EventRepository) SaveSkip(habitID uint, day time.Time) error {
	err := repo.database.Transaction(func(tx *gorm.DB) error {
		var checkins int64
		if err := tx.Model(&models.Checkin{}).
			Where("habit_id = ? AND date = ?", habitID, day).
			Count(&checkins).Error; err != nil {
			return err
		}
		if checkins > 0 {
			return services.ErrSkipConflictsWithCheckin
		}
		return tx.Create(&models.Skip{HabitID: habitID, Date: day}).Error
	})
	if isUniqueViolation(err) {
		return services.ErrAlreadySkipped
	}
	return err
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
