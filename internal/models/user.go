package models

import "time"

// User is a Telegram account known to the service. TZOffsetMinutes is the
// offset the user reported; reminder delivery adds it to UTC to get local time.
type User struct {
	TelegramID      int64  `gorm:"primaryKey;autoIncrement:false"`
	Username        string `gorm:"index"`
	FirstName       string
	TZOffsetMinutes int       `gorm:"not null;default:0"`
	CreatedAt       time.Time `gorm:"not null"`
}
