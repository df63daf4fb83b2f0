package db

import (
	"github.com/VerenaSchrama/Decode-sub000/internal/models"
	"gorm.io/gorm"
)

type SummaryRepository struct {
	database *gorm.DB
}

func NewSummaryRepository(database *gorm.DB) *SummaryRepository {
	return &SummaryRepository{database: database}
}

func (repo *SummaryRepository) Insert(summary *models.CompletionSummary) error {
	return repo.database.Create(summary).Error
}

func (repo *SummaryRepository) FindByPeriodID(periodID string) (models.CompletionSummary, bool, error) {
	summary := models.CompletionSummary{}
	result := repo.database.
		Where("period_id = ?", periodID).
		Limit(1).
		Find(&summary)
	if result.Error != nil {
		return models.CompletionSummary{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.CompletionSummary{}, false, nil
	}
	return summary, true, nil
}
