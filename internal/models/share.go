package models

import "time"

// Share grants a viewer read access to another user's habit (stats and
// calendar only, no event recording).
type Share struct {
	ID        uint  `gorm:"primaryKey"`
	HabitID   uint  `gorm:"not null;uniqueIndex:uidx_share_habit_viewer"`
	OwnerID   int64 `gorm:"not null"`
	ViewerID  int64 `gorm:"not null;uniqueIndex:uidx_share_habit_viewer"`
	CreatedAt time.Time
}
