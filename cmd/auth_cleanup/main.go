package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"kindremind/internal/config"
	"kindremind/internal/database"
	"kindremind/internal/logging"
	"kindremind/internal/repository"
)

// auth_cleanup deletes denylist rows whose refresh token has expired.
// The Redis denylist expires its own keys and needs no cleanup.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.IsProduction())
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("db connect failed", zap.Error(err))
	}
	defer func() { _ = database.Close(db) }()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := database.Migrate(ctx, db); err != nil {
		logger.Fatal("migrate failed", zap.Error(err))
	}

	n, err := repository.NewRevokedTokenRepository(db).DeleteExpired(ctx)
	if err != nil {
		logger.Fatal("cleanup revoked_tokens failed", zap.Error(err))
	}

	logger.Info("auth cleanup completed", zap.Int64("revoked_tokens", n))
}
