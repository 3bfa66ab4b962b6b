package main

import (
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/ololchike/tourpay/internal/application"
	gormdb "github.com/ololchike/tourpay/internal/infrastructure/gorm"
	echoserver "github.com/ololchike/tourpay/internal/presentation/echo"
	"github.com/ololchike/tourpay/internal/telemetry"
	"github.com/ololchike/tourpay/internal/utils/config"
)

func main() {
	cfg := config.Load()

	if err := telemetry.Init("tourpay"); err != nil {
		log.Printf("failed to initialize telemetry: %v", err)
		os.Exit(1)
	}
	defer telemetry.Sync()
	logger := telemetry.Logger

	db, err := gormdb.NewConnection(cfg)
	if err != nil {
		logger.Error("failed to connect to database", zap.Error(err))
		os.Exit(1)
	}

	if err := gormdb.RunMigrations(db); err != nil {
		logger.Error("failed to run migrations", zap.Error(err))
		os.Exit(1)
	}

	container := application.NewContainer(db, cfg, logger)

	server := echoserver.NewServer(cfg, logger)
	echoserver.ConfigureRoutes(server.Echo(), container, cfg, logger)

	errC := server.Start()
	if err := <-errC; err != nil {
		logger.Error("server error", zap.Error(err))
		os.Exit(1)
	}
}
