package db

import (
	"gorm.io/gorm"

	"github.com/antropov/habitd/internal/models"
	"github.com/antropov/habitd/internal/services"
)

type HabitRepository struct {
	database *gorm.DB
}

func NewHabitRepository(database *gorm.DB) *HabitRepository {
	return &HabitRepository{database: database}
}

func (repo *HabitRepository) Create(habit *models.Habit) error {
	return repo.database.Create(habit).Error
}

func (repo *HabitRepository) ListActiveByOwner(ownerID int64) ([]models.Habit, error) {
	habits := make([]models.Habit, 0)
	if err := repo.database.
		Where("user_id = ? AND active = ?", ownerID, true).
		Order("created_at DESC, id DESC").
		Find(&habits).Error; err != nil {
		return nil, err
	}
	return habits, nil
}

func (repo *HabitRepository) FindOwned(habitID uint, ownerID int64) (models.Habit, error) {
	var habit models.Habit
	if err := repo.database.
		First(&habit, "id = ? AND user_id = ? AND active = ?", habitID, ownerID, true).Error; err != nil {
		return models.Habit{}, err
	}
	return habit, nil
}

// FindVisible admits the owner and anyone holding a share for the habit.
// Deactivated habits stay visible here so their stats remain readable.
func (repo *HabitRepository) FindVisible(habitID uint, viewerID int64) (models.Habit, error) {
	var habit models.Habit
	if err := repo.database.
		Where("id = ?", habitID).
		Where("user_id = ? OR id IN (?)", viewerID,
			repo.database.Model(&models.Share{}).Select("habit_id").Where("viewer_id = ?", viewerID)).
		First(&habit).Error; err != nil {
		return models.Habit{}, err
	}
	return habit, nil
}

func (repo *HabitRepository) CountActiveByOwner(ownerID int64) (int, error) {
	var count int64
	if err := repo.database.Model(&models.Habit{}).
		Where("user_id = ? AND active = ?", ownerID, true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (repo *HabitRepository) Rename(habitID uint, ownerID int64, name string) error {
	return repo.updateOwned(habitID, ownerID, map[string]any{"name": name})
}

func (repo *HabitRepository) SetReminder(habitID uint, ownerID int64, reminderTime string) error {
	return repo.updateOwned(habitID, ownerID, map[string]any{"reminder_time": reminderTime})
}

// Deactivate hides the habit from lists and stats. Events stay in place so a
// reactivated habit picks up its history.
func (repo *HabitRepository) Deactivate(habitID uint, ownerID int64) error {
	return repo.updateOwned(habitID, ownerID, map[string]any{"active": false})
}

func (repo *HabitRepository) updateOwned(habitID uint, ownerID int64, fields map[string]any) error {
	result := repo.database.Model(&models.Habit{}).
		Where("id = ? AND user_id = ? AND active = ?", habitID, ownerID, true).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListReminderCandidates joins active habits carrying a reminder time with
// their owner's timezone offset.
func (repo *HabitRepository) ListReminderCandidates() ([]services.ReminderCandidate, error) {
	candidates := make([]services.ReminderCandidate, 0)
	err := repo.database.Model(&models.Habit{}).
		Select("habits.id AS habit_id, habits.name AS habit_name, habits.user_id AS owner_id, habits.reminder_time AS reminder_time, users.tz_offset_minutes AS tz_offset_minutes").
		Joins("JOIN users ON users.telegram_id = habits.user_id").
		Where("habits.active = ? AND habits.reminder_time <> ''", true).
		Scan(&candidates).Error
	if err != nil {
		return nil, err
	}
	return candidates, nil
}
