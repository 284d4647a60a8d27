package db

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/antropov/habitd/internal/models"
)

type LinkRepository struct {
	database *gorm.DB
}

func NewLinkRepository(database *gorm.DB) *LinkRepository {
	return &LinkRepository{database: database}
}

// IssueCode stores a fresh one-time code for telegramID, replacing any code
// issued earlier under the same value.
func (repo *LinkRepository) IssueCode(code string, telegramID int64, expiresAt time.Time) error {
	return repo.database.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"telegram_id", "expires_at", "used"}),
	}).Create(&models.LinkCode{
		Code:       code,
		TelegramID: telegramID,
		ExpiresAt:  expiresAt,
	}).Error
}

// ClaimCode consumes a valid code and binds the web user to the Telegram
// identity behind it. Expired or already used codes report
// gorm.ErrRecordNotFound.
func (repo *LinkRepository) ClaimCode(code string, webUserID uint, now time.Time) (int64, error) {
	var telegramID int64
	err := repo.database.Transaction(func(tx *gorm.DB) error {
		var linkCode models.LinkCode
		if err := tx.First(&linkCode, "code = ? AND used = ?", code, false).Error; err != nil {
			return err
		}
		if linkCode.ExpiresAt.Before(now) {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Model(&models.LinkCode{}).
			Where("code = ?", code).
			Update("used", true).Error; err != nil {
			return err
		}

		telegramID = linkCode.TelegramID
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "web_user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"telegram_id"}),
		}).Create(&models.UserLink{
			WebUserID:  webUserID,
			TelegramID: linkCode.TelegramID,
		}).Error
	})
	if err != nil {
		return 0, err
	}
	return telegramID, nil
}

func (repo *LinkRepository) FindLink(webUserID uint) (models.UserLink, bool, error) {
	link := models.UserLink{}
	result := repo.database.Where("web_user_id = ?", webUserID).Limit(1).Find(&link)
	if result.Error != nil {
		return models.UserLink{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.UserLink{}, false, nil
	}
	return link, true, nil
}

func (repo *LinkRepository) PurgeExpiredCodes(now time.Time) error {
	return repo.database.Where("expires_at < ? OR used = ?", now, true).Delete(&models.LinkCode{}).Error
}
