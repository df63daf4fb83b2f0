package models

import (
	"time"

	"gorm.io/datatypes"
)

const NotificationTypeInterventionCompleted = "intervention_completed"

type Notification struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"not null;index"`
	Type      string `gorm:"not null"`
	Title     string `gorm:"not null"`
	Body      string `gorm:"not null"`
	Payload   datatypes.JSON
	Read      bool `gorm:"not null;default:false"`
	CreatedAt time.Time
}
