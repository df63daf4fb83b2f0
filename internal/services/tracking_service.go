package services

import (
	"errors"
	"log"
	"time"

	"github.com/VerenaSchrama/Decode-sub000/internal/models"
)

var (
	ErrInvalidTrackingInput = errors.New("invalid tracking input")
	ErrTrackingWriteFailed  = errors.New("tracking write failed")
)

type TrackingWriter interface {
	UpsertSummary(entry *models.DailySummary) error
	UpsertMood(entry *models.DailyMoodEntry) error
}

type ActivePeriodFinder interface {
	FindActiveCovering(userID uint, day time.Time) (models.InterventionPeriod, bool, error)
}

type DailySummaryInput struct {
	Date            time.Time
	HabitsTotal     int
	HabitsCompleted int
}

type TrackingService struct {
	tracking TrackingWriter
	periods  ActivePeriodFinder
	location *time.Location
}

func NewTrackingService(tracking TrackingWriter, periods ActivePeriodFinder, location *time.Location) *TrackingService {
	if location == nil {
		location = time.UTC
	}
	return &TrackingService{
		tracking: tracking,
		periods:  periods,
		location: location,
	}
}

// RecordDailySummary upserts the day's habit counters and derives the
// completion percentage. The row links to the active period covering the day
// when one exists.
func (service *TrackingService) RecordDailySummary(userID uint, input DailySummaryInput) (models.DailySummary, error) {
	if input.HabitsTotal < 0 || input.HabitsCompleted < 0 || input.HabitsCompleted > input.HabitsTotal {
		return models.DailySummary{}, ErrInvalidTrackingInput
	}

	day := DateAtLocation(input.Date, service.location)
	completionPct := 0.0
	if input.HabitsTotal > 0 {
		completionPct = float64(input.HabitsCompleted) / float64(input.HabitsTotal) * 100
	}

	entry := models.DailySummary{
		UserID:          userID,
		Date:            day,
		HabitsTotal:     input.HabitsTotal,
		HabitsCompleted: input.HabitsCompleted,
		CompletionPct:   completionPct,
		PeriodID:        service.linkedPeriodID(userID, day),
	}
	if err := service.tracking.UpsertSummary(&entry); err != nil {
		return models.DailySummary{}, ErrTrackingWriteFailed
	}
	return entry, nil
}

// RecordMood upserts the day's mood score on the 1..5 scale.
func (service *TrackingService) RecordMood(userID uint, day time.Time, score int) (models.DailyMoodEntry, error) {
	if score < models.MoodScoreMin || score > models.MoodScoreMax {
		return models.DailyMoodEntry{}, ErrInvalidTrackingInput
	}

	normalized := DateAtLocation(day, service.location)
	entry := models.DailyMoodEntry{
		UserID:   userID,
		Date:     normalized,
		Score:    score,
		PeriodID: service.linkedPeriodID(userID, normalized),
	}
	if err := service.tracking.UpsertMood(&entry); err != nil {
		return models.DailyMoodEntry{}, ErrTrackingWriteFailed
	}
	return entry, nil
}

func (service *TrackingService) linkedPeriodID(userID uint, day time.Time) string {
	period, found, err := service.periods.FindActiveCovering(userID, day)
	if err != nil {
		log.Printf("tracking: resolve active period for user %d failed: %v", userID, err)
		return ""
	}
	if !found {
		return ""
	}
	return period.ID
}
