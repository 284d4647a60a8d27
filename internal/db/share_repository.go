package db

import (
	"gorm.io/gorm"

	"github.com/antropov/habitd/internal/models"
	"github.com/antropov/habitd/internal/services"
)

type ShareRepository struct {
	database *gorm.DB
}

func NewShareRepository(database *gorm.DB) *ShareRepository {
	return &ShareRepository{database: database}
}

func (repo *ShareRepository) Create(share *models.Share) error {
	err := repo.database.Create(share).Error
	if isUniqueViolation(err) {
		return services.ErrAlreadyShared
	}
	return err
}

func (repo *ShareRepository) ListByViewer(viewerID int64) ([]models.Share, error) {
	shares := make([]models.Share, 0)
	if err := repo.database.
		Where("viewer_id = ?", viewerID).
		Order("created_at DESC, id DESC").
		Find(&shares).Error; err != nil {
		return nil, err
	}
	return shares, nil
}

func (repo *ShareRepository) ListByHabit(habitID uint, ownerID int64) ([]models.Share, error) {
	shares := make([]models.Share, 0)
	if err := repo.database.
		Where("habit_id = ? AND owner_id = ?", habitID, ownerID).
		Order("created_at ASC, id ASC").
		Find(&shares).Error; err != nil {
		return nil, err
	}
	return shares, nil
}

// Revoke is owner-scoped so a viewer cannot drop another viewer's access.
func (repo *ShareRepository) Revoke(habitID uint, ownerID int64, viewerID int64) error {
	result := repo.database.
		Where("habit_id = ? AND owner_id = ? AND viewer_id = ?", habitID, ownerID, viewerID).
		Delete(&models.Share{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
