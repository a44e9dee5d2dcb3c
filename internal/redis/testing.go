package redis

import (
	"context"
	"testing"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
)

// InitSuite connects to the Redis instance at addr and empties it. The client
// is closed when the test completes.
func InitSuite(ctx context.Context, t *testing.T, addr, password string) *Suite {
	t.Helper()

	rdb, err := Open(ctx, addr, password)
	require.Nil(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	err = rdb.FlushAll(ctx).Err()
	require.Nil(t, err)

	return &Suite{Redis: rdb}
}

type Suite struct {
	Redis *redis.Client
}
