package utils

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/coursehub/backend/internal/apperrors"
	"github.com/coursehub/backend/internal/config"
)

// Claims is the decoded identity carried by a bearer token.
type Claims struct {
	UserID uint
	Role   string
}

func GenerateJWTToken(userID uint, role string, cfg *config.Config) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(time.Hour * 72).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// ParseToken validates a raw token string and extracts the claims.
func ParseToken(tokenString string, cfg *config.Config) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.Unauthorized("Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, apperrors.Unauthorized("Invalid token")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, apperrors.Unauthorized("Invalid token claims")
	}

	userIDFloat, ok := mapClaims["user_id"].(float64)
	if !ok {
		return nil, apperrors.Unauthorized("Invalid user ID in token")
	}

	role, _ := mapClaims["role"].(string)

	return &Claims{UserID: uint(userIDFloat), Role: role}, nil
}

// ExtractClaims reads the bearer token from the Authorization header.
// A "Bearer " prefix is accepted but not required.
func ExtractClaims(c *fiber.Ctx, cfg *config.Config) (*Claims, error) {
	tokenString := c.Get("Authorization")
	if tokenString == "" {
		return nil, apperrors.Unauthorized("Missing authorization token")
	}
	if len(tokenString) > 7 && tokenString[:7] == "Bearer " {
		tokenString = tokenString[7:]
	}

	return ParseToken(tokenString, cfg)
}
