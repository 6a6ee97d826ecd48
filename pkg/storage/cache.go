package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// URLCache remembers signed links for a while.
type URLCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

type redisURLCache struct {
	rdb *redis.Client
}

// NewRedisClient connects to the server at redisURL and checks it answers.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to reach redis: %w", err)
	}
	return rdb, nil
}

// NewRedisURLCache stores signed links in redis under "signed_url:<key>".
func NewRedisURLCache(rdb *redis.Client) URLCache {
	return &redisURLCache{rdb: rdb}
}

func cacheKey(key string) string {
	return "signed_url:" + key
}

func (c *redisURLCache) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := c.rdb.Get(ctx, cacheKey(key)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read signed url cache: %w", err)
	}
	return value, true, nil
}

func (c *redisURLCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, cacheKey(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write signed url cache: %w", err)
	}
	return nil
}
