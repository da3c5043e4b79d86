package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rfid-access/backend/internal/services"
)

type LogHandler struct {
	query        *services.QueryService
	defaultLimit int
}

func NewLogHandler(query *services.QueryService, defaultLimit int) *LogHandler {
	return &LogHandler{query: query, defaultLimit: defaultLimit}
}

// GetLogs answers {data:[...]} or, when storage fails, {data:[], error} with
// status 200. Dashboards poll this endpoint and render whatever they get.
func (h *LogHandler) GetLogs(c *fiber.Ctx) error {
	limit := h.defaultLimit
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	return c.JSON(h.query.ListRecentLogs(c.UserContext(), limit))
}
