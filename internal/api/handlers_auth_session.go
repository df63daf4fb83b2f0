package api

import (
	"errors"

	"github.com/VerenaSchrama/Decode-sub000/internal/models"
	"github.com/VerenaSchrama/Decode-sub000/internal/services"
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) Register(c *fiber.Ctx) error {
	credentials := credentialsInput{}
	if err := c.BodyParser(&credentials); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	user, err := handler.authService.Register(credentials.Email, credentials.Password, credentials.DisplayName)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAuthCredentialsInvalid):
			return apiError(c, fiber.StatusBadRequest, "invalid input")
		case errors.Is(err, services.ErrWeakPassword):
			return apiError(c, fiber.StatusBadRequest, "weak password")
		case errors.Is(err, services.ErrEmailTaken):
			return apiError(c, fiber.StatusConflict, "email already exists")
		default:
			return apiError(c, fiber.StatusInternalServerError, "failed to create account")
		}
	}

	token, err := handler.buildToken(&user, defaultAuthTokenTTL)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user":  userJSON(&user),
	})
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	credentials := credentialsInput{}
	if err := c.BodyParser(&credentials); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	user, err := handler.authService.Authenticate(credentials.Email, credentials.Password)
	if err != nil {
		return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
	}

	token, err := handler.buildToken(&user, defaultAuthTokenTTL)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  userJSON(&user),
	})
}

func userJSON(user *models.User) fiber.Map {
	return fiber.Map{
		"id":           user.ID,
		"email":        user.Email,
		"display_name": user.DisplayName,
	}
}
