package db

import (
	"time"

	"gorm.io/gorm"

	"github.com/antropov/habitd/internal/models"
)

type WebUserRepository struct {
	database *gorm.DB
}

func NewWebUserRepository(database *gorm.DB) *WebUserRepository {
	return &WebUserRepository{database: database}
}

func (repo *WebUserRepository) Create(user *models.WebUser) error {
	return repo.database.Create(user).Error
}

func (repo *WebUserRepository) FindByEmail(email string) (models.WebUser, bool, error) {
	user := models.WebUser{}
	result := repo.database.Where("email = ?", email).Limit(1).Find(&user)
	if result.Error != nil {
		return models.WebUser{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.WebUser{}, false, nil
	}
	return user, true, nil
}

func (repo *WebUserRepository) FindByID(webUserID uint) (models.WebUser, error) {
	var user models.WebUser
	if err := repo.database.First(&user, "id = ?", webUserID).Error; err != nil {
		return models.WebUser{}, err
	}
	return user, nil
}

func (repo *WebUserRepository) CreateSession(session *models.Session) error {
	return repo.database.Create(session).Error
}

// ConsumeSession deletes the session for tokenID and returns it. A missing or
// expired row means the refresh token was already rotated or revoked.
func (repo *WebUserRepository) ConsumeSession(tokenID string, now time.Time) (models.Session, error) {
	var session models.Session
	err := repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&session, "token_id = ?", tokenID).Error; err != nil {
			return err
		}
		if session.ExpiresAt.Before(now) {
			if err := tx.Delete(&models.Session{}, session.ID).Error; err != nil {
				return err
			}
			return gorm.ErrRecordNotFound
		}
		return tx.Delete(&models.Session{}, session.ID).Error
	})
	if err != nil {
		return models.Session{}, err
	}
	return session, nil
}

func (repo *WebUserRepository) DeleteSession(tokenID string) error {
	return repo.database.Where("token_id = ?", tokenID).Delete(&models.Session{}).Error
}

func (repo *WebUserRepository) DeleteSessionsForUser(webUserID uint) error {
	return repo.database.Where("web_user_id = ?", webUserID).Delete(&models.Session{}).Error
}

func (repo *WebUserRepository) PurgeExpiredSessions(now time.Time) error {
	return repo.database.Where("expires_at < ?", now).Delete(&models.Session{}).Error
}
