package controllers

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/coursehub/backend/internal/apperrors"
	"github.com/coursehub/backend/internal/config"
	"github.com/coursehub/backend/internal/integration"
	"github.com/coursehub/backend/internal/models"
	"github.com/coursehub/backend/internal/store"
	"github.com/coursehub/backend/internal/utils"
)

type AuthController struct {
	Users  *store.UserStore
	Cfg    *config.Config
	Mailer integration.Mailer
}

func NewAuthController(users *store.UserStore, cfg *config.Config, mailer integration.Mailer) *AuthController {
	return &AuthController{Users: users, Cfg: cfg, Mailer: mailer}
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /auth/register [post]
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var input struct {
		Name     string `json:"name" validate:"required,max=100"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8,max=72"`
		Role     string `json:"role" validate:"omitempty,oneof=student instructor"`
	}

	if err := c.BodyParser(&input); err != nil {
		return apperrors.Validation("Cannot parse JSON")
	}
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}
	if input.Role == "" {
		input.Role = models.RoleStudent
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Internal("Could not hash password", err)
	}

	user := models.User{
		Name:         utils.SanitizeText(input.Name),
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		Role:         input.Role,
	}

	if err := ac.Users.Create(c.Context(), &user); err != nil {
		return err
	}

	token, err := utils.GenerateJWTToken(user.ID, user.Role, ac.Cfg)
	if err != nil {
		return apperrors.Internal("Could not generate token", err)
	}

	ac.Mailer.Send(user.Email, "welcome", map[string]interface{}{"name": user.Name})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user":    user,
	})
}

// Login godoc
// @Summary Authenticate and return a JWT
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /auth/login [post]
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	if err := c.BodyParser(&input); err != nil {
		return apperrors.Validation("Cannot parse JSON")
	}
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}

	user, err := ac.Users.GetByEmail(c.Context(), input.Email)
	if err != nil {
		// Same answer for unknown email and bad password.
		return apperrors.Unauthorized("Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return apperrors.Unauthorized("Invalid credentials")
	}

	token, err := utils.GenerateJWTToken(user.ID, user.Role, ac.Cfg)
	if err != nil {
		return apperrors.Internal("Could not generate token", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user":    user,
	})
}
