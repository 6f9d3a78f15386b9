package middleware

import (
	"log"
	"strings"

	"quickkart/internal/services"
	"quickkart/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired is a Fiber middleware to check for a valid JWT token.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return response.Error(c, fiber.StatusUnauthorized, response.CodeInvalidCredentials,
				"Authorization header is required", nil)
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return response.Error(c, fiber.StatusUnauthorized, response.CodeInvalidCredentials,
				"Authorization header format must be 'Bearer <token>'", nil)
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return response.Error(c, fiber.StatusUnauthorized, response.CodeInvalidCredentials,
				"Invalid or expired token", nil)
		}

		// Store claims in Fiber context for subsequent handlers
		c.Locals("user_id", claims["user_id"])
		c.Locals("username", claims["username"])
		if isAdmin, ok := claims["is_admin"].(bool); ok {
			c.Locals("is_admin", isAdmin)
		}

		return c.Next()
	}
}

// AdminRequired rejects authenticated requests whose token does not carry
// the admin flag. Must run after AuthRequired.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if isAdmin, ok := c.Locals("is_admin").(bool); !ok || !isAdmin {
			return response.Error(c, fiber.StatusForbidden, response.CodeInvalidCredentials,
				"Admin privileges required", nil)
		}
		return c.Next()
	}
}
