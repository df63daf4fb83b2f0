package api

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const dateParamLayout = "2006-01-02"

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

func parseDateField(value string, location *time.Location) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, errors.New("empty date")
	}
	day, err := time.ParseInLocation(dateParamLayout, trimmed, location)
	if err != nil {
		return time.Time{}, err
	}
	return day, nil
}
