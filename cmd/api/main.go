package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rfid-access/backend/internal/config"
	"github.com/rfid-access/backend/internal/db"
	"github.com/rfid-access/backend/internal/events"
	apphttp "github.com/rfid-access/backend/internal/http"
	"github.com/rfid-access/backend/internal/http/handlers"
	"github.com/rfid-access/backend/internal/metrics"
	"github.com/rfid-access/backend/internal/repositories"
	"github.com/rfid-access/backend/internal/services"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)
	metrics.Init()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	// Run migrations
	if err := db.RunMigrations(ctx, pool, cfg.MigrationsDir, log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	sqlDB := db.OpenDB(pool)
	defer sqlDB.Close()

	// Redis (optional)
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}

	var (
		publisher  events.Publisher  = events.NopPublisher{}
		subscriber events.Subscriber = events.NopSubscriber{}
	)
	if rdb != nil {
		defer rdb.Close()
		publisher = events.NewRedisPublisher(rdb, log)
		subscriber = events.NewRedisSubscriber(rdb, log)
	}

	// Repositories
	cardRepo := repositories.NewCardRepo(sqlDB)
	logRepo := repositories.NewAccessLogRepo(sqlDB)

	// Services
	accessLog := services.NewAccessLogService(logRepo, publisher, cfg.LogsLimit, log)
	registry := services.NewRegistryService(cardRepo, accessLog, log)
	query := services.NewQueryService(cardRepo, accessLog, cfg.DashboardLogsLimit, cfg.PollInterval, log)

	// Handlers
	cardHandler := handlers.NewCardHandler(registry, query, log)
	logHandler := handlers.NewLogHandler(query, cfg.LogsLimit)
	dashboardHandler := handlers.NewDashboardHandler(query)

	var deviceHandler *handlers.DeviceHandler
	if cfg.DeviceEventsEnabled() {
		deviceHandler = handlers.NewDeviceHandler(accessLog, log)
	}

	var feed *handlers.LogFeedHub
	if rdb != nil {
		feed = handlers.NewLogFeedHub(subscriber, log)
		if err := feed.Start(ctx); err != nil {
			log.Fatal("failed to start log feed", zap.Error(err))
		}
	}

	app := apphttp.NewApp()
	apphttp.SetupRouter(app, cfg, log, rdb, cardHandler, logHandler, dashboardHandler, deviceHandler, feed)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting API server",
		zap.String("addr", addr),
		zap.Bool("redis", rdb != nil),
		zap.Bool("device_events", deviceHandler != nil),
	)
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
