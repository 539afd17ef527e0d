package main

import (
	"case-map-service/internal/adapters/cache"
	"case-map-service/internal/config"
	"case-map-service/internal/platform/db"
	"case-map-service/internal/platform/obs"
	"context"
	"log"
	"strings"
	"time"

	"go.uber.org/zap"
)

// dbtool prepares the Postgres atlas cache schema ahead of a deploy.
func main() {
	envErr := config.LoadDotEnv()

	logger, err := obs.NewLogger(config.Get("LOG_LEVEL", "info"))
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if envErr != nil {
		logger.Info("no .env file loaded (using environment variables)", zap.Error(envErr))
	}

	databaseURL := config.Get("DATABASE_URL", "")
	if strings.TrimSpace(databaseURL) == "" {
		logger.Fatal("DATABASE_URL is required")
	}

	db, err := db.Open(databaseURL)
	if err != nil {
		logger.Fatal("open database failed", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Info("initializing atlas cache schema")
	if err := cache.InitPostgresSchema(ctx, db); err != nil {
		logger.Fatal("schema initialization failed", zap.Error(err))
	}
	logger.Info("schema ready")
}
