package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shokulab/backend/internal/auth"
	"github.com/shokulab/backend/internal/config"
	"go.uber.org/zap"
)

const CtxUserID = "user_id"

// InternalTokenHeader authenticates calls from the payment collaborator.
const InternalTokenHeader = "X-Internal-Token"

func AuthMiddleware(cfg *config.Config, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authorization header"})
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenStr == authHeader {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid authorization format"})
		}

		claims, err := auth.ParseJWT(cfg.JWTSecret, tokenStr)
		if err != nil {
			log.Debug("jwt parse error", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
		}

		c.Locals(CtxUserID, claims.UserID)
		return c.Next()
	}
}

func GetUserID(c *fiber.Ctx) uuid.UUID {
	id, _ := c.Locals(CtxUserID).(uuid.UUID)
	return id
}

// InternalTokenMiddleware guards service-to-service routes. With no token
// configured every call is refused.
func InternalTokenMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		got := c.Get(InternalTokenHeader)
		if cfg.InternalAPIToken == "" || subtle.ConstantTimeCompare([]byte(got), []byte(cfg.InternalAPIToken)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid internal token"})
		}
		return c.Next()
	}
}
