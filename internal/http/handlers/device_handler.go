package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rfid-access/backend/internal/http/dto"
	"github.com/rfid-access/backend/internal/middleware"
	"github.com/rfid-access/backend/internal/services"
	"go.uber.org/zap"
)

// DeviceHandler receives GRANTED/DENIED decisions from readers.
type DeviceHandler struct {
	accessLog *services.AccessLogService
	log       *zap.Logger
}

func NewDeviceHandler(accessLog *services.AccessLogService, log *zap.Logger) *DeviceHandler {
	return &DeviceHandler{accessLog: accessLog, log: log}
}

func (h *DeviceHandler) RecordEvent(c *fiber.Ctx) error {
	var req dto.DeviceEventRequest
	if err := parseBody(c, &req); err != nil {
		return invalidBody(c)
	}

	_, err := h.accessLog.RecordDeviceEvent(c.UserContext(), middleware.GetDeviceID(c), req.UID, req.Action, req.Relays)
	return writeStatus(c, h.log, "record device event", err)
}
