package models

import "time"

const (
	PeriodStatusActive    = "active"
	PeriodStatusCompleted = "completed"
	PeriodStatusPaused    = "paused"
	PeriodStatusAbandoned = "abandoned"
)

// InterventionPeriod is one user's time-boxed enrollment in a named habit
// program. ActualEndDate is set exactly when Status becomes completed.
type InterventionPeriod struct {
	ID               string     `gorm:"primaryKey"`
	UserID           uint       `gorm:"not null;index"`
	InterventionName string     `gorm:"not null"`
	SelectedHabits   []string   `gorm:"serializer:json"`
	StartDate        time.Time  `gorm:"type:date;not null"`
	PlannedEndDate   time.Time  `gorm:"type:date;not null;index"`
	ActualEndDate    *time.Time `gorm:"type:date"`
	Status           string     `gorm:"not null;default:active;index"`
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
