package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rfid-access/backend/internal/auth"
	"github.com/rfid-access/backend/internal/config"
	"go.uber.org/zap"
)

// devicetoken prints a bearer token for POST /device/events.
//
//	devicetoken -device door-1 [-lifetime 720h]
func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()

	deviceID := flag.String("device", "", "device id embedded in the token")
	lifetime := flag.Duration("lifetime", cfg.DeviceTokenLifetime, "token lifetime")
	flag.Parse()

	if *deviceID == "" {
		flag.Usage()
		os.Exit(2)
	}
	if !cfg.DeviceEventsEnabled() {
		log.Fatal("DEVICE_JWT_SECRET is not set")
	}

	token, err := auth.GenerateDeviceToken(cfg.DeviceJWTSecret, *deviceID, *lifetime)
	if err != nil {
		log.Fatal("failed to sign token", zap.Error(err))
	}
	fmt.Println(token)
}
