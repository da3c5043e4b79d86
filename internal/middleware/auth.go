package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rfid-access/backend/internal/auth"
	"go.uber.org/zap"
)

const CtxDeviceID = "device_id"

// DeviceAuthMiddleware requires a bearer token minted by cmd/devicetoken.
func DeviceAuthMiddleware(secret string, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authorization header"})
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenStr == authHeader {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid authorization format"})
		}

		claims, err := auth.ParseDeviceToken(secret, tokenStr)
		if err != nil {
			log.Debug("device token rejected", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
		}

		c.Locals(CtxDeviceID, claims.DeviceID)
		return c.Next()
	}
}

func GetDeviceID(c *fiber.Ctx) string {
	id, _ := c.Locals(CtxDeviceID).(string)
	return id
}
