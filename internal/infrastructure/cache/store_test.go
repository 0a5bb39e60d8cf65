package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/datagovern/governance-backend/internal/infrastructure/config"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	t.Run("miss before set", func(t *testing.T) {
		_, err := store.Get(ctx, "refs:missing")
		require.Error(t, err)
		assert.True(t, IsMiss(err))
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "refs:a1", "3", 15*time.Minute))

		got, err := store.Get(ctx, "refs:a1")
		require.NoError(t, err)
		assert.Equal(t, "3", got)
	})

	t.Run("expired entry is a miss", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "refs:a2", "0", -time.Second))

		_, err := store.Get(ctx, "refs:a2")
		assert.True(t, IsMiss(err))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "refs:a3", "1", time.Minute))
		require.NoError(t, store.Delete(ctx, "refs:a3"))

		_, err := store.Get(ctx, "refs:a3")
		assert.True(t, IsMiss(err))
	})
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()

	mr := miniredis.RunT(t)
	store, err := NewRedisStore(&config.RedisConfig{
		URL:          mr.Addr(),
		DialTimeout:  time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	}, zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	t.Run("miss before set", func(t *testing.T) {
		_, err := store.Get(ctx, "refs:missing")
		require.Error(t, err)
		assert.True(t, IsMiss(err))
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "refs:a1", "7", 15*time.Minute))

		got, err := store.Get(ctx, "refs:a1")
		require.NoError(t, err)
		assert.Equal(t, "7", got)
	})

	t.Run("ttl expiry", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "refs:a2", "2", time.Minute))
		mr.FastForward(2 * time.Minute)

		_, err := store.Get(ctx, "refs:a2")
		assert.True(t, IsMiss(err))
	})
}
