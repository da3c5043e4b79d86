package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rfid-access/backend/internal/config"
	"github.com/rfid-access/backend/internal/db"
	"github.com/rfid-access/backend/internal/events"
	"github.com/rfid-access/backend/internal/services"
	"go.uber.org/zap"
)

// access-tail follows the live access feed, logs every entry and optionally
// forwards it to ACCESS_WEBHOOK_URL.

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	if !cfg.RedisEnabled() {
		log.Fatal("REDIS_URL is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	webhook := services.NewWebhookClient(cfg.AccessWebhookURL, cfg.AccessWebhookTimeout, log)
	subscriber := events.NewRedisSubscriber(rdb, log)

	err = subscriber.Subscribe(ctx, events.ChannelAccess, func(event events.Event) {
		log.Info("access event",
			zap.String("type", event.Type),
			zap.Any("uid", event.Payload["uid"]),
			zap.Any("action", event.Payload["action"]),
			zap.Any("relays", event.Payload["relays"]),
		)
		if err := webhook.Forward(ctx, event); err != nil {
			log.Warn("failed to forward access event", zap.Error(err))
		}
	})
	if err != nil {
		log.Fatal("failed to subscribe", zap.Error(err))
	}

	log.Info("access-tail started", zap.Bool("webhook", webhook.Enabled()))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down access-tail")
	cancel()
}
