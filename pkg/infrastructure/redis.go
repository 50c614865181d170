package infrastructure

import (
	"context"
	"fmt"

	"meraki-api/config"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient returns a client for the hobby slug cache, or nil when
// REDIS_URL is not set.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
