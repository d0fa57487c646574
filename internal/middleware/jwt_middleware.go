package middleware

import (
	"log"
	"strings"

	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Locals set by AuthRequired.
const (
	LocalUserID = "user_id"
	LocalRole   = "role"
)

// AuthRequired rejects requests without a valid bearer token and stores the
// token's user id and role in the request locals.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, msg := bearerToken(c.Get(fiber.HeaderAuthorization))
		if msg != "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": msg})
		}

		claims, err := authService.ValidateToken(token)
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}

		userID, _ := claims["user_id"].(string)
		role, _ := claims["role"].(string)
		c.Locals(LocalUserID, userID)
		c.Locals(LocalRole, role)

		return c.Next()
	}
}

// bearerToken extracts the token from an Authorization header. A non-empty
// message explains why the header was rejected.
func bearerToken(header string) (string, string) {
	if header == "" {
		return "", "Authorization header is required"
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", "Authorization header format must be 'Bearer <token>'"
	}
	return parts[1], ""
}

// RoleRequired rejects requests whose token does not carry role.
// It must run after AuthRequired.
func RoleRequired(role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		got, _ := c.Locals(LocalRole).(string)
		if got != string(role) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Insufficient permissions",
			})
		}
		return c.Next()
	}
}

// SessionRequired rejects tokens issued to anyone but the user of the active
// session. It must run after AuthRequired.
func SessionRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := c.Locals(LocalUserID).(string)
		user, err := authService.CurrentUser()
		if err != nil || user.ID != userID {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Token does not belong to the active session",
			})
		}
		return c.Next()
	}
}
