package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AimHigh0322/fashion-EC-site-sub001/internal/models"
)

// GenerateJWT issues the bearer token consumed by middleware.AuthRequired.
func GenerateJWT(secret string, user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    string(user.Role),
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
