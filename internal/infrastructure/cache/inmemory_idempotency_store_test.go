package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore_ClaimRelease(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	t.Run("first claim wins, second loses", func(t *testing.T) {
		claimed, err := store.Claim(ctx, "order-1", time.Hour)
		require.NoError(t, err)
		assert.True(t, claimed)

		claimed, err = store.Claim(ctx, "order-1", time.Hour)
		require.NoError(t, err)
		assert.False(t, claimed)
	})

	t.Run("release makes the key claimable again", func(t *testing.T) {
		claimed, err := store.Claim(ctx, "order-2", time.Hour)
		require.NoError(t, err)
		require.True(t, claimed)

		require.NoError(t, store.Release(ctx, "order-2"))

		claimed, err = store.Claim(ctx, "order-2", time.Hour)
		require.NoError(t, err)
		assert.True(t, claimed)
	})

	t.Run("expired claim can be taken over", func(t *testing.T) {
		claimed, err := store.Claim(ctx, "order-3", time.Millisecond)
		require.NoError(t, err)
		require.True(t, claimed)

		time.Sleep(5 * time.Millisecond)

		claimed, err = store.Claim(ctx, "order-3", time.Hour)
		require.NoError(t, err)
		assert.True(t, claimed)
	})

	t.Run("releasing an unknown key is a no-op", func(t *testing.T) {
		assert.NoError(t, store.Release(ctx, "never-claimed"))
	})
}

func TestInMemoryIdempotencyStore_Cleanup(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	_, err := store.Claim(ctx, "stale", time.Millisecond)
	require.NoError(t, err)
	_, err = store.Claim(ctx, "fresh", time.Hour)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	store.cleanup()

	assert.Equal(t, 1, store.Size())
}

func TestInMemoryIdempotencyStore_CloseIsIdempotent(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}
