// Package redis constructs the go-redis clients used by the vitalis binaries
// and integration tests.
package redis

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// Open creates a client for the Redis instance at addr and verifies that it
// is reachable.
func Open(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis; addr: %s, error: %w", addr, err)
	}
	return rdb, nil
}
