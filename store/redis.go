package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

// Redis is a Cache backed by a Redis instance. Values are stored as
// JSON strings. A zero TTL keeps entries forever.
type Redis[S any] struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

func NewRedis[S any](rdb redis.UniversalClient, ttl time.Duration) *Redis[S] {
	return &Redis[S]{rdb: rdb, ttl: ttl}
}

func (r *Redis[S]) Set(ctx context.Context, key string, val S) error {
	raw, err := sonic.Marshal(val)
	if err != nil {
		return fmt.Errorf("failed to encode value for %q: %w", key, err)
	}
	return r.rdb.Set(ctx, key, raw, r.ttl).Err()
}

func (r *Redis[S]) Get(ctx context.Context, key string) (S, bool, error) {
	var zero S
	raw, err := r.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, err
	}
	var val S
	if err := sonic.Unmarshal(raw, &val); err != nil {
		return zero, false, fmt.Errorf("failed to decode value for %q: %w", key, err)
	}
	return val, true, nil
}

func (r *Redis[S]) Del(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, key).Err()
}

func (r *Redis[S]) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
