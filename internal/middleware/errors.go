package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/coursehub/backend/internal/apperrors"
)

// ErrorHandler renders every error as the {success:false, message} envelope.
// Domain errors carry their own status; anything else becomes a 500 with a
// generic message while the raw cause is logged server-side only.
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var ae *apperrors.Error
		if errors.As(err, &ae) {
			if ae.Kind == apperrors.KindInternal {
				log.Error().Err(ae.Unwrap()).Str("path", c.Path()).Msg(ae.Message)
				return c.Status(ae.Status()).JSON(fiber.Map{
					"success": false,
					"message": "Internal server error",
				})
			}
			return c.Status(ae.Status()).JSON(fiber.Map{
				"success": false,
				"message": ae.Message,
			})
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{
				"success": false,
				"message": fe.Message,
			})
		}

		log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Internal server error",
		})
	}
}
