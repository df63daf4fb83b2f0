package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	MoodTrendImproved = "improved"
	MoodTrendDeclined = "declined"
	MoodTrendStable   = "stable"
)

// CompletionSummary is the derived adherence/mood record written once when a
// period completes. Breakdown carries the day counts, streaks and the raw
// per-day series the headline numbers were computed from.
type CompletionSummary struct {
	ID            uint    `gorm:"primaryKey"`
	PeriodID      string  `gorm:"not null;uniqueIndex"`
	UserID        uint    `gorm:"not null;index"`
	AdherenceRate float64 `gorm:"not null;default:0"`
	AverageMood   *float64
	MoodTrend     string `gorm:"not null;default:stable"`
	Breakdown     datatypes.JSON
	CreatedAt     time.Time
}
