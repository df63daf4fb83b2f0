package models

import "time"

const (
	MoodScoreMin = 1
	MoodScoreMax = 5
)

// DailySummary holds one day of habit tracking for a user. PeriodID links the
// row to the intervention period that covered the date; rows written before
// period links existed carry an empty string.
type DailySummary struct {
	ID              uint      `gorm:"primaryKey"`
	UserID          uint      `gorm:"not null;uniqueIndex:uidx_summary_user_date"`
	Date            time.Time `gorm:"type:date;not null;uniqueIndex:uidx_summary_user_date"`
	HabitsTotal     int       `gorm:"not null;default:0"`
	HabitsCompleted int       `gorm:"not null;default:0"`
	CompletionPct   float64   `gorm:"not null;default:0"`
	PeriodID        string    `gorm:"not null;default:'';index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DailyMoodEntry holds one day's mood score (1-5) for a user.
type DailyMoodEntry struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;uniqueIndex:uidx_mood_user_date"`
	Date      time.Time `gorm:"type:date;not null;uniqueIndex:uidx_mood_user_date"`
	Score     int       `gorm:"not null"`
	PeriodID  string    `gorm:"not null;default:'';index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
