// Package middleware provides authentication, rate limiting and request
// logging middleware for the application.
package middleware

import (
	"strconv"
	"strings"

	"agora/internal/config"
	"agora/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var cfg *config.Config

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

// AuthRequired is a middleware that enforces authentication for protected routes.
func AuthRequired(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return models.RespondWithError(c, models.NewUnauthorizedError("authorization header required"))
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return models.RespondWithError(c, models.NewUnauthorizedError("invalid authorization header format"))
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return models.RespondWithError(c, models.NewUnauthorizedError("invalid or expired token"))
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.RespondWithError(c, models.NewUnauthorizedError("invalid token claims"))
	}

	// The subject claim carries the user ID (RFC 7519).
	subClaim, ok := claims["sub"]
	if !ok {
		return models.RespondWithError(c, models.NewUnauthorizedError("missing token subject"))
	}
	subStr, ok := subClaim.(string)
	if !ok {
		return models.RespondWithError(c, models.NewUnauthorizedError("invalid token subject type"))
	}

	userIDVal, err := strconv.ParseUint(subStr, 10, 32)
	if err != nil {
		return models.RespondWithError(c, models.NewUnauthorizedError("invalid user ID in token"))
	}

	c.Locals("userID", uint(userIDVal))

	return c.Next()
}
