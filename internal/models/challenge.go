package models

import "time"

const (
	ChallengeRoleOwner  = "owner"
	ChallengeRoleMember = "member"
)

// Challenge is a shared habit several users check into together.
// GoalPerMember is a target day count per participant, 0 = no target.
type Challenge struct {
	ID            uint       `gorm:"primaryKey"`
	OwnerID       int64      `gorm:"not null;index"`
	Name          string     `gorm:"not null"`
	StartDate     time.Time  `gorm:"type:date;not null"`
	EndDate       *time.Time `gorm:"type:date"`
	GoalPerMember int        `gorm:"not null;default:0"`
	Active        bool       `gorm:"not null;default:true"`
	CreatedAt     time.Time
}

type ChallengeMember struct {
	ID          uint   `gorm:"primaryKey"`
	ChallengeID uint   `gorm:"not null;uniqueIndex:uidx_member_challenge_user"`
	UserID      int64  `gorm:"not null;uniqueIndex:uidx_member_challenge_user"`
	Role        string `gorm:"not null;default:member"`
	CreatedAt   time.Time
}

type ChallengeCheckin struct {
	ID          uint      `gorm:"primaryKey"`
	ChallengeID uint      `gorm:"not null;uniqueIndex:uidx_chckin_challenge_user_date"`
	UserID      int64     `gorm:"not null;uniqueIndex:uidx_chckin_challenge_user_date"`
	Date        time.Time `gorm:"type:date;not null;uniqueIndex:uidx_chckin_challenge_user_date"`
	CreatedAt   time.Time
}
