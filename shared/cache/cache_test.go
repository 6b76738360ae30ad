package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"cowork/infras/otel/mocks"
	"cowork/shared/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roomSnapshot struct {
	ID       string `json:"id"`
	Capacity int    `json:"capacity"`
}

func newCache(t *testing.T) (cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()

	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return cache.NewRedisCache(client, mocks.NewOtel()), server
}

func TestRedisCache(t *testing.T) {
	redisCache, server := newCache(t)
	ctx := context.Background()

	t.Run("SaveAndGetStruct", func(t *testing.T) {
		err := redisCache.Save(ctx, "meetingroom:get:r-1", roomSnapshot{ID: "r-1", Capacity: 8}, 60)
		require.NoError(t, err)

		var got roomSnapshot
		require.NoError(t, redisCache.Get(ctx, "meetingroom:get:r-1", &got))
		assert.Equal(t, roomSnapshot{ID: "r-1", Capacity: 8}, got)
	})

	t.Run("SaveAndGetString", func(t *testing.T) {
		require.NoError(t, redisCache.Save(ctx, "plain", "value", 60))

		var got string
		require.NoError(t, redisCache.Get(ctx, "plain", &got))
		assert.Equal(t, "value", got)
	})

	t.Run("MissingKey", func(t *testing.T) {
		var got roomSnapshot

		err := redisCache.Get(ctx, "missing", &got)
		assert.True(t, errors.Is(err, cache.Nil))
	})

	t.Run("Expiry", func(t *testing.T) {
		require.NoError(t, redisCache.Save(ctx, "short", 1, 1))

		server.FastForward(2 * time.Second)

		var got int
		assert.Error(t, redisCache.Get(ctx, "short", &got))
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, redisCache.Save(ctx, "gone", 1, 60))
		require.NoError(t, redisCache.Delete(ctx, "gone"))

		assert.False(t, server.Exists("gone"))
	})

	t.Run("IncrementWindow", func(t *testing.T) {
		for want := int64(1); want <= 3; want++ {
			got, err := redisCache.Increment(ctx, "limiter:10.0.0.1", 60)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}

		assert.Equal(t, 60*time.Second, server.TTL("limiter:10.0.0.1"))

		server.FastForward(61 * time.Second)

		got, err := redisCache.Increment(ctx, "limiter:10.0.0.1", 60)
		require.NoError(t, err)
		assert.Equal(t, int64(1), got)
	})

	t.Run("ClearByPrefix", func(t *testing.T) {
		require.NoError(t, redisCache.Save(ctx, "reservation:gets:1", 1, 60))
		require.NoError(t, redisCache.Save(ctx, "reservation:gets:2", 2, 60))
		require.NoError(t, redisCache.Save(ctx, "reservation:count:1", 3, 60))

		require.NoError(t, redisCache.Clear(ctx, "reservation:gets:*"))

		assert.False(t, server.Exists("reservation:gets:1"))
		assert.False(t, server.Exists("reservation:gets:2"))
		assert.True(t, server.Exists("reservation:count:1"))
	})
}
