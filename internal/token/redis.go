package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// NewRedis creates a Redis instance. namespace distinguishes the token of one
// client profile from another sharing the same Redis instance; it may be
// empty.
func NewRedis(redis *redis.Client, namespace string) *Redis {
	return &Redis{redis: redis, key: keygen(namespace)}
}

// Redis is a Store persisting the token in Redis. This is typically used by
// headless deployments sharing one credential across processes.
type Redis struct {
	redis *redis.Client
	key   string
}

// Load implements Store.
func (r Redis) Load(ctx context.Context) (string, error) {
	res, err := r.redis.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenDNE
	}
	if err != nil {
		return "", fmt.Errorf("get token; key: %s, error: %w", r.key, err)
	}

	var rec record
	if err := decode([]byte(res), &rec); err != nil {
		return "", fmt.Errorf("decode token; key: %s, error: %w", r.key, err)
	}

	return rec.Token, nil
}

// Save implements Store.
func (r Redis) Save(ctx context.Context, token string) error {
	b, err := encode(record{Token: token, StoredAt: time.Now()})
	if err != nil {
		return fmt.Errorf("encode token; error: %w", err)
	}

	if err := r.redis.Set(ctx, r.key, b, 0).Err(); err != nil {
		return fmt.Errorf("set token; key: %s, error: %w", r.key, err)
	}
	return nil
}

// Delete implements Store.
func (r Redis) Delete(ctx context.Context) error {
	if err := r.redis.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("delete token; key: %s, error: %w", r.key, err)
	}
	return nil
}

func keygen(namespace string) string {
	if namespace == "" {
		return Key
	}
	return fmt.Sprintf("%s-%s", Key, namespace)
}
