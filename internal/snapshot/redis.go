package snapshot

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// snapshotKey is the fixed namespace the cart is stored under. It is the
// only key this package touches.
const snapshotKey = "rocketshoes:cart"

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// RedisStore keeps the snapshot in Redis. No TTL is set: the cart must
// survive until the next session.
type RedisStore struct {
	client *redis.Client
}

func (r *RedisStore) Get(ctx context.Context) ([]byte, error) {
	data, err := r.client.Get(ctx, snapshotKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return data, nil
}

func (r *RedisStore) Set(ctx context.Context, data []byte) error {
	if err := r.client.Set(ctx, snapshotKey, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}
