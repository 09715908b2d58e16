package snapshot

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fjod/cart-manager/internal/domain"
)

// setupTestRedis creates a miniredis server and returns a RedisStore instance
func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	store := NewRedisStore(client)

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return store, mr, cleanup
}

func TestRedisStore_GetMissing(t *testing.T) {
	store, _, cleanup := setupTestRedis(t)
	defer cleanup()

	_, err := store.Get(context.Background())
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestRedisStore_SetThenGet(t *testing.T) {
	store, _, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	cart := domain.Cart{
		{ProductID: 1, Title: "Shoe", Price: 100, Quantity: 2},
	}
	data, err := Encode(cart)
	require.NoError(t, err)

	require.NoError(t, store.Set(ctx, data))

	got, err := store.Get(ctx)
	require.NoError(t, err)
	restored, err := Decode(got)
	require.NoError(t, err)
	assert.Equal(t, cart, restored)
}

func TestRedisStore_UsesFixedKey(t *testing.T) {
	store, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	require.NoError(t, store.Set(context.Background(), []byte("[]")))

	val, err := mr.Get("rocketshoes:cart")
	require.NoError(t, err)
	assert.Equal(t, "[]", val)
}

func TestRedisStore_NoExpiry(t *testing.T) {
	store, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	require.NoError(t, store.Set(context.Background(), []byte("[]")))

	// The snapshot must survive sessions, so no TTL is attached.
	assert.Equal(t, int64(0), int64(mr.TTL("rocketshoes:cart")))
}
