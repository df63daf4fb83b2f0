package db

import (
	"errors"

	"github.com/VerenaSchrama/Decode-sub000/internal/models"
	"gorm.io/gorm"
)

type HabitRepository struct {
	database *gorm.DB
}

func NewHabitRepository(database *gorm.DB) *HabitRepository {
	return &HabitRepository{database: database}
}

func (repo *HabitRepository) ListByUser(userID uint) ([]models.UserHabit, error) {
	habits := make([]models.UserHabit, 0)
	if err := repo.database.Where("user_id = ?", userID).Order("name ASC, id ASC").Find(&habits).Error; err != nil {
		return nil, err
	}
	return habits, nil
}

// EnsureActive creates the habit row for (user, name) or reactivates an
// existing one.
func (repo *HabitRepository) EnsureActive(userID uint, name string) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		var habit models.UserHabit
		result := tx.Where("user_id = ? AND name = ?", userID, name).First(&habit)
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			habit = models.UserHabit{
				UserID: userID,
				Name:   name,
				Status: models.HabitStatusActive,
			}
			return tx.Create(&habit).Error
		}
		if result.Error != nil {
			return result.Error
		}

		if habit.Status == models.HabitStatusActive {
			return nil
		}
		return tx.Model(&habit).Update("status", models.HabitStatusActive).Error
	})
}

func (repo *HabitRepository) CompleteActiveByName(userID uint, name string) (int64, error) {
	result := repo.database.Model(&models.UserHabit{}).
		Where("user_id = ? AND name = ? AND status = ?", userID, name, models.HabitStatusActive).
		Update("status", models.HabitStatusCompleted)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
