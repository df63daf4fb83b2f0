package db

import (
	"github.com/VerenaSchrama/Decode-sub000/internal/models"
	"gorm.io/gorm"
)

type NotificationRepository struct {
	database *gorm.DB
}

func NewNotificationRepository(database *gorm.DB) *NotificationRepository {
	return &NotificationRepository{database: database}
}

func (repo *NotificationRepository) Insert(notification *models.Notification) error {
	return repo.database.Create(notification).Error
}

func (repo *NotificationRepository) ListByUser(userID uint) ([]models.Notification, error) {
	notifications := make([]models.Notification, 0)
	if err := repo.database.
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

func (repo *NotificationRepository) CountUnread(userID uint) (int64, error) {
	var count int64
	if err := repo.database.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// MarkRead flips the read flag for the user's own notification. The returned
// count is 0 when the id does not exist or belongs to someone else.
func (repo *NotificationRepository) MarkRead(notificationID uint, userID uint) (int64, error) {
	result := repo.database.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
