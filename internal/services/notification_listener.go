package services

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/VerenaSchrama/Decode-sub000/internal/events"
	"github.com/VerenaSchrama/Decode-sub000/internal/models"
	"gorm.io/datatypes"
)

type NotificationWriter interface {
	Insert(notification *models.Notification) error
}

type NotificationOutcome struct {
	Title     string
	Body      string
	Persisted bool
	Warning   string
}

type NotificationListener struct {
	notifications NotificationWriter
}

func NewNotificationListener(notifications NotificationWriter) *NotificationListener {
	return &NotificationListener{notifications: notifications}
}

func (listener *NotificationListener) Name() string { return "notifications" }

// Handle writes the in-app completion notice. Delivery is best-effort: a
// storage failure downgrades to a warning so the completion flow never fails
// on a missing notice.
func (listener *NotificationListener) Handle(event events.Event) (any, error) {
	payload, ok := event.Payload.(events.PeriodCompletedPayload)
	if !ok {
		return nil, fmt.Errorf("unexpected payload type %T", event.Payload)
	}

	title, body := completionMessage(payload)

	blob, err := json.Marshal(map[string]any{
		"period_id":         payload.PeriodID,
		"intervention_name": payload.InterventionName,
		"auto_completed":    payload.AutoCompleted,
	})
	if err != nil {
		return nil, fmt.Errorf("encode notification payload: %w", err)
	}

	notification := models.Notification{
		UserID:  payload.UserID,
		Type:    models.NotificationTypeInterventionCompleted,
		Title:   title,
		Body:    body,
		Payload: datatypes.JSON(blob),
	}
	if err := listener.notifications.Insert(&notification); err != nil {
		log.Printf("notifications: persist completion notice for user %d failed: %v", payload.UserID, err)
		return NotificationOutcome{Title: title, Body: body, Warning: "notification not stored"}, nil
	}

	return NotificationOutcome{Title: title, Body: body, Persisted: true}, nil
}

func completionMessage(payload events.PeriodCompletedPayload) (string, string) {
	if payload.AutoCompleted {
		return "Intervention Period Ended",
			fmt.Sprintf("Your %s intervention period has ended.", payload.InterventionName)
	}
	return "Intervention Completed 🎉",
		fmt.Sprintf("You completed your %s intervention. Great work!", payload.InterventionName)
}
