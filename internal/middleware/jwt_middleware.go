package middleware

import (
	"log"
	"strings"

	"cafe/internal/models"
	"cafe/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Keys under which AuthRequired stores the caller's identity in fiber Locals.
const (
	LocalUserID   = "user_id"
	LocalUsername = "username"
	LocalRole     = "role"
)

// TokenValidator turns a bearer token into claims.
type TokenValidator interface {
	ValidateToken(tokenString string) (*services.Claims, error)
}

// AuthRequired is a Fiber middleware to check for a valid JWT token.
func AuthRequired(validator TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		claims, err := validator.ValidateToken(parts[1])
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalUsername, claims.Username)
		c.Locals(LocalRole, claims.Role)

		return c.Next()
	}
}

// CurrentUsername returns the authenticated username, or "".
func CurrentUsername(c *fiber.Ctx) string {
	username, _ := c.Locals(LocalUsername).(string)
	return username
}

// IsAdmin reports whether the authenticated caller is an admin.
func IsAdmin(c *fiber.Ctx) bool {
	role, _ := c.Locals(LocalRole).(models.Role)
	return role == models.RoleAdmin
}

// AdminOnly rejects callers without the admin role. Use after AuthRequired.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !IsAdmin(c) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Admin access required",
			})
		}
		return c.Next()
	}
}

// SelfOrAdmin allows admins and the user named by the route parameter param.
func SelfOrAdmin(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if IsAdmin(c) || (CurrentUsername(c) != "" && CurrentUsername(c) == c.Params(param)) {
			return c.Next()
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "You may only access your own account",
		})
	}
}
