package api

import (
	"github.com/VerenaSchrama/Decode-sub000/internal/models"
	"github.com/gofiber/fiber/v2"
)

const contextUserKey = "current_user"

func currentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(contextUserKey).(*models.User)
	return user, ok
}
