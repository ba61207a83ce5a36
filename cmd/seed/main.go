package main

import (
	"context"
	"time"

	"github.com/tair/qr-order/internal/config"
	"github.com/tair/qr-order/internal/schema"
	"github.com/tair/qr-order/internal/seed"
	"github.com/tair/qr-order/pkg/database"
	"github.com/tair/qr-order/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	logger.Init("qrmenu-seed", true)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Invalid configuration")
	}

	db, err := database.NewGormConnection(cfg.Database)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	if err := schema.Migrate(db); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, err := seed.Run(ctx, db); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Seeding failed")
	}
}
