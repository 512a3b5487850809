package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/sales-ops-api/pkg/config"
)

const pingTimeout = 5 * time.Second

// NewRedis returns a connected Redis client.
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s:%d: %w", cfg.Host, cfg.Port, err)
	}

	return client, nil
}

// Optional connects when any redis-backed feature is enabled. A failed
// connection is logged and yields a nil client so callers degrade to the
// database-only path.
func Optional(ctx context.Context, cfg config.RedisConfig, enabled bool, logger *zap.Logger) *redis.Client {
	if !enabled {
		return nil
	}
	client, err := NewRedis(ctx, cfg)
	if err != nil {
		logger.Warn("redis unavailable; cache and push disabled", zap.Error(err))
		return nil
	}
	return client
}
