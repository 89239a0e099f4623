package middleware

import (
	"strings"

	"cmcs/internal/models"
	"cmcs/pkg/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	localUserID = "userID"
	localEmail  = "email"
	localRole   = "role"
)

func AuthMiddleware(jwtManager *auth.JWTManager, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get(fiber.HeaderAuthorization)
		if token == "" {
			logger.Warn("Missing authorization token", zap.String("path", c.Path()))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization token required",
			})
		}
		token = strings.TrimPrefix(token, "Bearer ")

		claims, err := jwtManager.ValidateToken(token)
		if err != nil {
			logger.Warn("Invalid token", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}
		role, err := models.ParseRole(claims.Role)
		if err != nil {
			logger.Warn("Token carries unknown role", zap.String("role", claims.Role))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals(localUserID, claims.UserID)
		c.Locals(localEmail, claims.Email)
		c.Locals(localRole, role)

		return c.Next()
	}
}

// RequireCapability lets the request through only when the authenticated
// role holds every listed capability.
func RequireCapability(logger *zap.Logger, caps ...models.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := Role(c)
		for _, capability := range caps {
			if !role.Can(capability) {
				logger.Warn("Capability denied",
					zap.String("role", string(role)),
					zap.String("path", c.Path()),
				)
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
					"error": "Your role is not permitted to perform this action",
					"code":  "forbidden",
				})
			}
		}
		return c.Next()
	}
}

// UserID returns the authenticated user, or uuid.Nil outside AuthMiddleware.
func UserID(c *fiber.Ctx) uuid.UUID {
	id, _ := c.Locals(localUserID).(uuid.UUID)
	return id
}

// Role returns the authenticated role, or "" outside AuthMiddleware.
func Role(c *fiber.Ctx) models.Role {
	role, _ := c.Locals(localRole).(models.Role)
	return role
}
