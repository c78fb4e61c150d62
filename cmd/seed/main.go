package main

import (
	"context"
	"errors"
	"log"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"kindremind/internal/config"
	"kindremind/internal/database"
	"kindremind/internal/domain"
	"kindremind/internal/logging"
	"kindremind/internal/repository"
)

type seedUser struct {
	username string
	email    string
	password string
	verified bool
}

// Demo accounts for local development. Re-running the seed skips accounts
// that already exist.
var seedUsers = []seedUser{
	{username: "demo", email: "demo@kindremind.local", password: "demo1234", verified: true},
	{username: "pending", email: "pending@kindremind.local", password: "demo1234", verified: false},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("refusing to seed a production database")
	}

	logger, err := logging.New(cfg.LogLevel, false)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("DB connection failed", zap.Error(err))
	}
	defer func() { _ = database.Close(db) }()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := database.Migrate(ctx, db); err != nil {
		logger.Fatal("migrate failed", zap.Error(err))
	}

	users := repository.NewUserRepository(db)
	for _, su := range seedUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(su.password), bcrypt.DefaultCost)
		if err != nil {
			logger.Fatal("hash password", zap.Error(err))
		}

		u := &domain.User{
			Username:     su.username,
			Email:        su.email,
			PasswordHash: string(hash),
		}
		err = users.Create(ctx, u)
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			logger.Info("user exists, skipping", zap.String("username", su.username))
			continue
		case err != nil:
			logger.Fatal("create user", zap.String("username", su.username), zap.Error(err))
		}

		if su.verified {
			if err := users.SetVerified(ctx, u.ID); err != nil {
				logger.Fatal("verify user", zap.String("username", su.username), zap.Error(err))
			}
		}
		logger.Info("user created",
			zap.String("username", su.username),
			zap.Int64("user_id", u.ID),
			zap.Bool("verified", su.verified),
		)
	}
}
