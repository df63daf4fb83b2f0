package api

import (
	"github.com/VerenaSchrama/Decode-sub000/internal/models"
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) ListNotifications(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	notifications, err := handler.repositories.Notifications.ListByUser(user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch notifications")
	}
	unread, err := handler.repositories.Notifications.CountUnread(user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch notifications")
	}

	views := make([]fiber.Map, 0, len(notifications))
	for index := range notifications {
		views = append(views, notificationJSON(&notifications[index]))
	}
	return c.JSON(fiber.Map{
		"notifications": views,
		"unread":        unread,
	})
}

func (handler *Handler) MarkNotificationRead(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	notificationID, err := c.ParamsInt("id")
	if err != nil || notificationID <= 0 {
		return apiError(c, fiber.StatusBadRequest, "invalid notification id")
	}

	affected, err := handler.repositories.Notifications.MarkRead(uint(notificationID), user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to update notification")
	}
	if affected == 0 {
		return apiError(c, fiber.StatusNotFound, "notification not found")
	}

	return c.JSON(fiber.Map{"ok": true})
}

func notificationJSON(notification *models.Notification) fiber.Map {
	return fiber.Map{
		"id":         notification.ID,
		"type":       notification.Type,
		"title":      notification.Title,
		"body":       notification.Body,
		"payload":    notification.Payload,
		"read":       notification.Read,
		"created_at": notification.CreatedAt,
	}
}
