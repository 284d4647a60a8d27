package db

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/antropov/habitd/internal/models"
)

type UserRepository struct {
	database *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{database: database}
}

// Upsert creates the user or refreshes username and first name, keeping the
// stored timezone offset.
func (repo *UserRepository) Upsert(user *models.User) error {
	return repo.database.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "telegram_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "first_name"}),
	}).Create(user).Error
}

func (repo *UserRepository) FindByID(telegramID int64) (models.User, error) {
	var user models.User
	if err := repo.database.First(&user, "telegram_id = ?", telegramID).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (repo *UserRepository) FindByUsername(username string) (models.User, error) {
	var user models.User
	if err := repo.database.First(&user, "username = ?", username).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (repo *UserRepository) SetTZOffset(telegramID int64, offsetMinutes int) error {
	result := repo.database.Model(&models.User{}).
		Where("telegram_id = ?", telegramID).
		Update("tz_offset_minutes", offsetMinutes)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
