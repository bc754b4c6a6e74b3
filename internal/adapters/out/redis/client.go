// Package redis opens the optional Redis connection shared by the tracking
// cache and the tracking rate limiter.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// New connects to url and pings the server. An empty url disables Redis and
// returns a nil client.
func New(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(url)
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
