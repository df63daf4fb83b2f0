package db

import (
	"time"

	"github.com/VerenaSchrama/Decode-sub000/internal/models"
	"gorm.io/gorm"
)

type PeriodRepository struct {
	database *gorm.DB
}

func NewPeriodRepository(database *gorm.DB) *PeriodRepository {
	return &PeriodRepository{database: database}
}

func (repo *PeriodRepository) Create(period *models.InterventionPeriod) error {
	return repo.database.Create(period).Error
}

func (repo *PeriodRepository) FindByID(periodID string) (models.InterventionPeriod, bool, error) {
	period := models.InterventionPeriod{}
	result := repo.database.
		Where("id = ?", periodID).
		Limit(1).
		Find(&period)
	if result.Error != nil {
		return models.InterventionPeriod{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.InterventionPeriod{}, false, nil
	}
	return period, true, nil
}

func (repo *PeriodRepository) ListByUser(userID uint, status string) ([]models.InterventionPeriod, error) {
	query := repo.database.Model(&models.InterventionPeriod{}).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	periods := make([]models.InterventionPeriod, 0)
	if err := query.Order("start_date DESC, id DESC").Find(&periods).Error; err != nil {
		return nil, err
	}
	return periods, nil
}

// CompleteIfStatus flips the period to completed only when its stored status
// still equals expectedStatus. The returned count is 0 when another writer got
// there first.
func (repo *PeriodRepository) CompleteIfStatus(periodID string, expectedStatus string, completedAt time.Time, notes string) (int64, error) {
	result := repo.database.Model(&models.InterventionPeriod{}).
		Where("id = ? AND status = ?", periodID, expectedStatus).
		Updates(map[string]any{
			"status":          models.PeriodStatusCompleted,
			"actual_end_date": completedAt,
			"notes":           notes,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (repo *PeriodRepository) ListActiveEndingBy(cutoff time.Time) ([]models.InterventionPeriod, error) {
	periods := make([]models.InterventionPeriod, 0)
	if err := repo.database.
		Where("status = ? AND planned_end_date <= ?", models.PeriodStatusActive, cutoff).
		Order("planned_end_date ASC, id ASC").
		Find(&periods).Error; err != nil {
		return nil, err
	}
	return periods, nil
}

func (repo *PeriodRepository) FindActiveCovering(userID uint, day time.Time) (models.InterventionPeriod, bool, error) {
	period := models.InterventionPeriod{}
	result := repo.database.
		Where("user_id = ? AND status = ? AND start_date <= ? AND planned_end_date >= ?",
			userID, models.PeriodStatusActive, day, day).
		Order("start_date DESC, id DESC").
		Limit(1).
		Find(&period)
	if result.Error != nil {
		return models.InterventionPeriod{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.InterventionPeriod{}, false, nil
	}
	return period, true, nil
}
