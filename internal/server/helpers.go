package server

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"agora/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

const (
	defaultPageLimit = 10
	maxPageLimit     = 50
)

// pagination holds parsed cursor/limit query parameters.
type pagination struct {
	Cursor int
	Limit  int
}

// parsePagination extracts cursor and limit query parameters. Out-of-range
// values are clamped rather than rejected.
func parsePagination(c *fiber.Ctx) pagination {
	cursor := c.QueryInt("cursor", 0)
	if cursor < 0 {
		cursor = 0
	}

	limit := c.QueryInt("limit", defaultPageLimit)
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	return pagination{Cursor: cursor, Limit: limit}
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, models.NewInvalidRequestError())
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// currentUserID returns the authenticated user's ID, or 0 for anonymous
// requests on routes that do not require auth.
func currentUserID(c *fiber.Ctx) uint {
	if id, ok := c.Locals("userID").(uint); ok {
		return id
	}
	return 0
}

// optionalUserID identifies the caller on public routes. A missing or
// invalid token is not an error; the request is simply anonymous.
func (s *Server) optionalUserID(c *fiber.Ctx) uint {
	if id := currentUserID(c); id != 0 {
		return id
	}

	auth := c.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return 0
	}

	token, err := jwt.Parse(strings.TrimPrefix(auth, prefix), func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return 0
	}
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}
