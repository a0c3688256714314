package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/coursehub/backend/internal/apperrors"
	"github.com/coursehub/backend/internal/config"
	"github.com/coursehub/backend/internal/utils"
)

const (
	LocalUserID = "user_id"
	LocalRole   = "role"
)

// AuthMiddleware validates the bearer token and stores the identity in
// request locals for the handlers downstream.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := utils.ExtractClaims(c, cfg)
		if err != nil {
			return err
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalRole, claims.Role)
		return c.Next()
	}
}

// RequireRoles gates a route to the given roles. Must run after
// AuthMiddleware.
func RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals(LocalRole).(string)
		for _, r := range roles {
			if role == r {
				return c.Next()
			}
		}
		return apperrors.Forbidden("Insufficient permissions")
	}
}

// UserID reads the authenticated user id from locals.
func UserID(c *fiber.Ctx) uint {
	id, _ := c.Locals(LocalUserID).(uint)
	return id
}

// Role reads the authenticated role from locals.
func Role(c *fiber.Ctx) string {
	role, _ := c.Locals(LocalRole).(string)
	return role
}
