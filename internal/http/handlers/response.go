package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rfid-access/backend/internal/http/dto"
	"github.com/rfid-access/backend/internal/middleware"
	"github.com/rfid-access/backend/internal/services"
	"go.uber.org/zap"
)

// parseBody binds JSON or form input. An empty body binds nothing, so a bare
// POST reaches validation and reports the missing field.
func parseBody(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	return c.BodyParser(out)
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.StatusResponse{Err: dto.ErrInvalidBody})
}

// writeStatus maps a write-path result onto the {ok, err} reply.
func writeStatus(c *fiber.Ctx, log *zap.Logger, op string, err error) error {
	if err == nil {
		return c.JSON(dto.StatusResponse{OK: true})
	}
	if ve, ok := services.AsValidation(err); ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.StatusResponse{Err: ve.Code})
	}
	log.Error(op+" failed",
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.Error(err),
	)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.StatusResponse{Err: dto.ErrStorage})
}
