package utils

import (
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/coursehub/backend/internal/apperrors"
)

var validate = validator.New()

// ValidateStruct runs validator tags over a request body struct and folds
// the first failure into a ValidationError with a readable message.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		fe := errs[0]
		return apperrors.Validation(fmt.Sprintf("Invalid value for field %q (%s)", fe.Field(), fe.Tag()))
	}
	return apperrors.Validation("Invalid request body")
}

// ParseIDParam reads a numeric route parameter.
func ParseIDParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.Validation(fmt.Sprintf("Invalid %s", name))
	}
	return uint(id), nil
}
