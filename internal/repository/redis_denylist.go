package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisDenylist keeps revoked refresh token hashes as keys that expire
// together with the token, so no cleanup job is needed.
type RedisDenylist struct {
	client *redis.Client
	prefix string
}

func NewRedisDenylist(client *redis.Client) *RedisDenylist {
	return &RedisDenylist{
		client: client,
		prefix: "revoked_refresh:",
	}
}

// NewRedisClient dials addr and pings it once before returning.
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func (d *RedisDenylist) key(hash string) string {
	return d.prefix + hash
}

func (d *RedisDenylist) Revoke(ctx context.Context, hash string, userID int64, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// already unusable
		return nil
	}
	return d.client.Set(ctx, d.key(hash), strconv.FormatInt(userID, 10), ttl).Err()
}

func (d *RedisDenylist) IsRevoked(ctx context.Context, hash string) (bool, error) {
	err := d.client.Get(ctx, d.key(hash)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
