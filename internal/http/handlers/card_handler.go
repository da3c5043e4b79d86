package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rfid-access/backend/internal/http/dto"
	"github.com/rfid-access/backend/internal/services"
	"go.uber.org/zap"
)

type CardHandler struct {
	registry *services.RegistryService
	query    *services.QueryService
	log      *zap.Logger
}

func NewCardHandler(registry *services.RegistryService, query *services.QueryService, log *zap.Logger) *CardHandler {
	return &CardHandler{registry: registry, query: query, log: log}
}

func (h *CardHandler) UpsertCard(c *fiber.Ctx) error {
	var req dto.UpsertCardRequest
	if err := parseBody(c, &req); err != nil {
		return invalidBody(c)
	}

	err := h.registry.UpsertCard(c.UserContext(), services.UpsertCardInput{
		UID:       req.UID,
		Name:      req.Name,
		Division:  req.Division,
		Mask:      string(req.Mask),
		UpdatedAt: req.UpdatedAt,
	})
	return writeStatus(c, h.log, "upsert card", err)
}

func (h *CardHandler) RemoveCard(c *fiber.Ctx) error {
	var req dto.RemoveCardRequest
	if err := parseBody(c, &req); err != nil {
		return invalidBody(c)
	}

	err := h.registry.RemoveCard(c.UserContext(), req.UID)
	return writeStatus(c, h.log, "remove card", err)
}

// ListCards always answers 200; a failed read carries its error in the body.
func (h *CardHandler) ListCards(c *fiber.Ctx) error {
	return c.JSON(h.query.ListCards(c.UserContext()))
}
