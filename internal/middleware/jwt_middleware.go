package middleware

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const userIDKey = "user_id"

// TokenResolver turns a bearer token into a user ID.
type TokenResolver interface {
	ResolveUserID(tokenString string) (string, error)
}

// AuthRequired rejects requests without a valid bearer token.
func AuthRequired(resolver TokenResolver, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := bearerToken(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		userID, err := resolver.ResolveUserID(tokenString)
		if err != nil {
			logger.DebugContext(c.UserContext(), "JWT validation failed", slog.Any("error", err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals(userIDKey, userID)
		return c.Next()
	}
}

// AuthOptional resolves the caller when a valid token is present and lets
// anonymous requests through; handlers decide what an absent identity means.
func AuthOptional(resolver TokenResolver, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tokenString, ok := bearerToken(c); ok {
			if userID, err := resolver.ResolveUserID(tokenString); err == nil {
				c.Locals(userIDKey, userID)
			} else {
				logger.DebugContext(c.UserContext(), "ignoring invalid token", slog.Any("error", err))
			}
		}
		return c.Next()
	}
}

// UserID returns the identity resolved by the auth middleware, or "".
func UserID(c *fiber.Ctx) string {
	userID, _ := c.Locals(userIDKey).(string)
	return userID
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
