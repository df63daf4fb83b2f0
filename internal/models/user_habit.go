package models

import "time"

const (
	HabitStatusActive    = "active"
	HabitStatusCompleted = "completed"
	HabitStatusPaused    = "paused"
	HabitStatusCancelled = "cancelled"
)

// UserHabit tracks one named habit for a user, independent of any single
// intervention period. Periods reference habits by name, not by foreign key,
// so a rename silently breaks the link.
type UserHabit struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;uniqueIndex:uidx_habit_user_name"`
	Name      string    `gorm:"not null;uniqueIndex:uidx_habit_user_name"`
	Status    string    `gorm:"not null;default:active"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
