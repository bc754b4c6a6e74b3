// Package redistest starts a throwaway Redis container for integration suites.
package redistest

import (
	"context"

	goredis "github.com/redis/go-redis/v9"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"parceltrack/internal/adapters/out/redis"
)

// Start runs redis:7-alpine and returns a connected client.
func Start(ctx context.Context) (*tcredis.RedisContainer, *goredis.Client, error) {
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		return nil, nil, err
	}

	url, err := container.ConnectionString(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, nil, err
	}

	client, err := redis.New(ctx, url)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, nil, err
	}
	return container, client, nil
}
