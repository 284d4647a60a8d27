package db

import (
	"time"

	"gorm.io/gorm"

	"github.com/antropov/habitd/internal/models"
	"github.com/antropov/habitd/internal/services"
)

type ChallengeRepository struct {
	database *gorm.DB
}

// ChallengeStanding is one member's total over the challenge leaderboard.
type ChallengeStanding struct {
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	Total     int    `json:"total"`
}

func NewChallengeRepository(database *gorm.DB) *ChallengeRepository {
	return &ChallengeRepository{database: database}
}

// Create inserts the challenge and enrolls the owner as its first member.
func (repo *ChallengeRepository) Create(challenge *models.Challenge) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(challenge).Error; err != nil {
			return err
		}
		return tx.Create(&models.ChallengeMember{
			ChallengeID: challenge.ID,
			UserID:      challenge.OwnerID,
			Role:        models.ChallengeRoleOwner,
		}).Error
	})
}

func (repo *ChallengeRepository) FindActive(challengeID uint) (models.Challenge, error) {
	var challenge models.Challenge
	if err := repo.database.
		First(&challenge, "id = ? AND active = ?", challengeID, true).Error; err != nil {
		return models.Challenge{}, err
	}
	return challenge, nil
}

func (repo *ChallengeRepository) ListForMember(userID int64) ([]models.Challenge, error) {
	challenges := make([]models.Challenge, 0)
	if err := repo.database.Model(&models.Challenge{}).
		Joins("JOIN challenge_members ON challenge_members.challenge_id = challenges.id").
		Where("challenge_members.user_id = ? AND challenges.active = ?", userID, true).
		Order("challenges.created_at DESC, challenges.id DESC").
		Find(&challenges).Error; err != nil {
		return nil, err
	}
	return challenges, nil
}

func (repo *ChallengeRepository) Join(challengeID uint, userID int64) error {
	err := repo.database.Create(&models.ChallengeMember{
		ChallengeID: challengeID,
		UserID:      userID,
		Role:        models.ChallengeRoleMember,
	}).Error
	if isUniqueViolation(err) {
		return services.ErrAlreadyMember
	}
	return err
}

func (repo *ChallengeRepository) IsMember(challengeID uint, userID int64) (bool, error) {
	var count int64
	if err := repo.database.Model(&models.ChallengeMember{}).
		Where("challenge_id = ? AND user_id = ?", challengeID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// RecordCheckin marks the member's day. One per (challenge, user, date).
func (repo *ChallengeRepository) RecordCheckin(challengeID uint, userID int64, day time.Time) error {
	err := repo.database.Create(&models.ChallengeCheckin{
		ChallengeID: challengeID,
		UserID:      userID,
		Date:        day,
	}).Error
	if isUniqueViolation(err) {
		return services.ErrAlreadyCheckedIn
	}
	return err
}

// MemberStandings counts checkins per member, best first. Members without a
// checkin yet still appear with a zero total.
func (repo *ChallengeRepository) MemberStandings(challengeID uint) ([]ChallengeStanding, error) {
	standings := make([]ChallengeStanding, 0)
	err := repo.database.Model(&models.ChallengeMember{}).
		Select("challenge_members.user_id AS user_id, users.username AS username, users.first_name AS first_name, COUNT(challenge_checkins.id) AS total").
		Joins("JOIN users ON users.telegram_id = challenge_members.user_id").
		Joins("LEFT JOIN challenge_checkins ON challenge_checkins.challenge_id = challenge_members.challenge_id AND challenge_checkins.user_id = challenge_members.user_id").
		Where("challenge_members.challenge_id = ?", challengeID).
		Group("challenge_members.user_id, users.username, users.first_name").
		Order("total DESC, challenge_members.user_id ASC").
		Scan(&standings).Error
	if err != nil {
		return nil, err
	}
	return standings, nil
}

func (repo *ChallengeRepository) Deactivate(challengeID uint, ownerID int64) error {
	result := repo.database.Model(&models.Challenge{}).
		Where("id = ? AND owner_id = ? AND active = ?", challengeID, ownerID, true).
		Update("active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
