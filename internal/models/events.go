package models

import "time"

// Checkin records that a habit was performed on Date. At most one per
// (habit, date); the unique index backs the admission rule.
type Checkin struct {
	ID        uint      `gorm:"primaryKey"`
	HabitID   uint      `gorm:"not null;uniqueIndex:uidx_checkin_habit_date"`
	Date      time.Time `gorm:"type:date;not null;uniqueIndex:uidx_checkin_habit_date"`
	CreatedAt time.Time
}

// Skip excuses Date from completion accounting. Mutually exclusive with a
// Checkin for the same (habit, date); storage enforces this atomically.
type Skip struct {
	ID        uint      `gorm:"primaryKey"`
	HabitID   uint      `gorm:"not null;uniqueIndex:uidx_skip_habit_date"`
	Date      time.Time `gorm:"type:date;not null;uniqueIndex:uidx_skip_habit_date"`
	CreatedAt time.Time
}

func (Skip) TableName() string {
	return "habit_skips"
}
