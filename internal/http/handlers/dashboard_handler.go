package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rfid-access/backend/internal/services"
)

type DashboardHandler struct {
	query *services.QueryService
}

func NewDashboardHandler(query *services.QueryService) *DashboardHandler {
	return &DashboardHandler{query: query}
}

func (h *DashboardHandler) Snapshot(c *fiber.Ctx) error {
	return c.JSON(h.query.Dashboard(c.UserContext()))
}
