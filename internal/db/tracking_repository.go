package db

import (
	"time"

	"github.com/VerenaSchrama/Decode-sub000/internal/models"
	"gorm.io/gorm"
)

type TrackingRepository struct {
	database *gorm.DB
}

func NewTrackingRepository(database *gorm.DB) *TrackingRepository {
	return &TrackingRepository{database: database}
}

// UpsertSummary writes the single daily summary row for (user, date),
// replacing the counters when the day was already tracked.
func (repo *TrackingRepository) UpsertSummary(entry *models.DailySummary) error {
	dayStart, dayEnd := dayBounds(entry.Date)
	return repo.database.Transaction(func(tx *gorm.DB) error {
		var existing models.DailySummary
		result := tx.
			Where("user_id = ? AND date >= ? AND date < ?", entry.UserID, dayStart, dayEnd).
			Limit(1).
			Find(&existing)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return tx.Create(entry).Error
		}

		entry.ID = existing.ID
		return tx.Model(&existing).Updates(map[string]any{
			"habits_total":     entry.HabitsTotal,
			"habits_completed": entry.HabitsCompleted,
			"completion_pct":   entry.CompletionPct,
			"period_id":        entry.PeriodID,
		}).Error
	})
}

// UpsertMood writes the single mood entry for (user, date).
func (repo *TrackingRepository) UpsertMood(entry *models.DailyMoodEntry) error {
	dayStart, dayEnd := dayBounds(entry.Date)
	return repo.database.Transaction(func(tx *gorm.DB) error {
		var existing models.DailyMoodEntry
		result := tx.
			Where("user_id = ? AND date >= ? AND date < ?", entry.UserID, dayStart, dayEnd).
			Limit(1).
			Find(&existing)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return tx.Create(entry).Error
		}

		entry.ID = existing.ID
		return tx.Model(&existing).Updates(map[string]any{
			"score":     entry.Score,
			"period_id": entry.PeriodID,
		}).Error
	})
}

// ListSummariesForPeriod returns summaries in [dayStart, dayEnd) that are
// linked to the period. Rows written before period linking existed carry an
// empty period_id and are matched too.
func (repo *TrackingRepository) ListSummariesForPeriod(userID uint, periodID string, dayStart time.Time, dayEnd time.Time) ([]models.DailySummary, error) {
	summaries := make([]models.DailySummary, 0)
	if err := repo.database.
		Where("user_id = ? AND (period_id = ? OR period_id = '') AND date >= ? AND date < ?",
			userID, periodID, dayStart, dayEnd).
		Order("date ASC, id ASC").
		Find(&summaries).Error; err != nil {
		return nil, err
	}
	return summaries, nil
}

func (repo *TrackingRepository) ListMoodsForPeriod(userID uint, periodID string, dayStart time.Time, dayEnd time.Time) ([]models.DailyMoodEntry, error) {
	moods := make([]models.DailyMoodEntry, 0)
	if err := repo.database.
		Where("user_id = ? AND (period_id = ? OR period_id = '') AND date >= ? AND date < ?",
			userID, periodID, dayStart, dayEnd).
		Order("date ASC, id ASC").
		Find(&moods).Error; err != nil {
		return nil, err
	}
	return moods, nil
}

func dayBounds(day time.Time) (time.Time, time.Time) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return dayStart, dayStart.AddDate(0, 0, 1)
}
