package http

import (
	"errors"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rfid-access/backend/internal/config"
	"github.com/rfid-access/backend/internal/http/dto"
	"github.com/rfid-access/backend/internal/http/handlers"
	"github.com/rfid-access/backend/internal/middleware"
	"go.uber.org/zap"
)

// NewApp builds the fiber app with a JSON error handler.
func NewApp() *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(dto.ErrorResponse{
				Error:     err.Error(),
				RequestID: middleware.GetRequestID(c),
			})
		},
	})
}

// SetupRouter wires middleware and routes. rdb may be nil; deviceHandler is
// nil when device events are disabled.
func SetupRouter(
	app *fiber.App,
	cfg *config.Config,
	log *zap.Logger,
	rdb *redis.Client,
	cardHandler *handlers.CardHandler,
	logHandler *handlers.LogHandler,
	dashboardHandler *handlers.DashboardHandler,
	deviceHandler *handlers.DeviceHandler,
	feed *handlers.LogFeedHub,
) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))
	app.Use(middleware.MetricsMiddleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Live feed. Registered before the timeout so connections can outlive it.
	if feed != nil {
		app.Use("/ws", handlers.WSUpgradeMiddleware())
		app.Get("/ws/logs", websocket.New(feed.HandleWS))
	}

	api := app.Group("", middleware.TimeoutMiddleware(cfg.RequestTimeout))
	if rdb != nil {
		api.Use(middleware.RateLimitMiddleware(rdb, cfg.RateLimit, time.Minute))
	} else {
		api.Use(middleware.LocalRateLimitMiddleware(cfg.RateLimit, time.Minute))
	}

	// Card registry
	api.Get("/cards", cardHandler.ListCards)
	api.Post("/cards", cardHandler.UpsertCard)
	api.Post("/cards/remove", cardHandler.RemoveCard)

	// Access log
	api.Get("/logs", logHandler.GetLogs)
	api.Get("/dashboard", dashboardHandler.Snapshot)

	// Devices
	if deviceHandler != nil {
		api.Post("/device/events", middleware.DeviceAuthMiddleware(cfg.DeviceJWTSecret, log), deviceHandler.RecordEvent)
	}
}
