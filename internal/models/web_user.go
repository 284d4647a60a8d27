package models

import "time"

// WebUser is an email/password account for the web API. Habit data belongs to
// Telegram identities; a WebUser reaches it through a UserLink.
type WebUser struct {
	ID           uint      `gorm:"primaryKey"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`
}

// Session is one issued refresh token, keyed by its jti claim. Rotated on
// every refresh, deleted on logout.
type Session struct {
	ID        uint      `gorm:"primaryKey"`
	WebUserID uint      `gorm:"not null;index"`
	TokenID   string    `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null"`
}

// UserLink connects a web account to a Telegram account.
type UserLink struct {
	WebUserID  uint  `gorm:"primaryKey;autoIncrement:false"`
	TelegramID int64 `gorm:"not null"`
}

// LinkCode is a short one-time code the bot hands out so a web user can claim
// a Telegram identity.
type LinkCode struct {
	Code       string    `gorm:"primaryKey"`
	TelegramID int64     `gorm:"not null"`
	ExpiresAt  time.Time `gorm:"not null"`
	Used       bool      `gorm:"not null;default:false"`
}
