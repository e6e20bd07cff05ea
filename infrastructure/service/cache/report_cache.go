package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/chatlens/chatlens/application/port/outbound"
)

type redisReportCache struct {
	client *redis.Client
}

// NewRedisReportCache returns a report cache backed by Redis, or a no-op
// cache when no URL is configured.
func NewRedisReportCache(redisURL string) (outbound.ReportCache, error) {
	if redisURL == "" {
		return &noopReportCache{}, nil
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisReportCache{client: client}, nil
}

func (c *redisReportCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read report cache: %w", err)
	}
	return payload, true, nil
}

func (c *redisReportCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write report cache: %w", err)
	}
	return nil
}

type noopReportCache struct{}

func (noopReportCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

func (noopReportCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	return nil
}
