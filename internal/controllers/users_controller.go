package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/coursehub/backend/internal/apperrors"
	"github.com/coursehub/backend/internal/middleware"
	"github.com/coursehub/backend/internal/store"
	"github.com/coursehub/backend/internal/utils"
)

type UsersController struct {
	Users *store.UserStore
}

func NewUsersController(users *store.UserStore) *UsersController {
	return &UsersController{Users: users}
}

func (uc *UsersController) GetProfile(c *fiber.Ctx) error {
	user, err := uc.Users.Get(c.Context(), middleware.UserID(c))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

func (uc *UsersController) UpdateProfile(c *fiber.Ctx) error {
	var input struct {
		Name      string `json:"name" validate:"omitempty,max=100"`
		Bio       string `json:"bio" validate:"omitempty,max=2000"`
		AvatarURL string `json:"avatar_url" validate:"omitempty,url"`
	}

	if err := c.BodyParser(&input); err != nil {
		return apperrors.Validation("Cannot parse JSON")
	}
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}

	user, err := uc.Users.Get(c.Context(), middleware.UserID(c))
	if err != nil {
		return err
	}

	if input.Name != "" {
		user.Name = utils.SanitizeText(input.Name)
	}
	if input.Bio != "" {
		user.Bio = utils.SanitizeText(input.Bio)
	}
	if input.AvatarURL != "" {
		user.AvatarURL = input.AvatarURL
	}

	if err := uc.Users.Update(c.Context(), user); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

// ListUsers is admin-only reporting.
func (uc *UsersController) ListUsers(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	users, total, err := uc.Users.List(c.Context(), page, limit)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"users":   users,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}
