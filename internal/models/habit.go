package models

import "time"

// Habit is a daily activity tracked by its owner. EndDate is optional and
// inclusive. Habits are never deleted physically: deactivation keeps the
// event history available for stats.
type Habit struct {
	ID           uint       `gorm:"primaryKey"`
	UserID       int64      `gorm:"not null;index"`
	Name         string     `gorm:"not null"`
	StartDate    time.Time  `gorm:"type:date;not null"`
	EndDate      *time.Time `gorm:"type:date"`
	ReminderTime string     // "HH:MM" in the owner's local time, empty = off
	Active       bool       `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
