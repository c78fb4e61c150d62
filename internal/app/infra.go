package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"kindremind/internal/config"
	"kindremind/internal/database"
	"kindremind/internal/repository"
)

// denylist is satisfied by both the SQL and the Redis revocation stores.
type denylist interface {
	Revoke(ctx context.Context, hash string, userID int64, expiresAt time.Time) error
	IsRevoked(ctx context.Context, hash string) (bool, error)
}

type infra struct {
	db       *gorm.DB
	redis    *redis.Client
	denylist denylist
}

func setupInfra(ctx context.Context, cfg *config.Config, log *zap.Logger) (*infra, error) {
	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := database.Migrate(ctx, db); err != nil {
		_ = database.Close(db)
		return nil, err
	}

	inf := &infra{db: db}

	if cfg.RedisAddr == "" {
		inf.denylist = repository.NewRevokedTokenRepository(db)
		return inf, nil
	}

	client, err := repository.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	log.Info("refresh token denylist in redis", zap.String("addr", cfg.RedisAddr))
	inf.redis = client
	inf.denylist = repository.NewRedisDenylist(client)
	return inf, nil
}

func (i *infra) close() error {
	var errs []error
	if i.redis != nil {
		errs = append(errs, i.redis.Close())
	}
	errs = append(errs, database.Close(i.db))
	return errors.Join(errs...)
}
