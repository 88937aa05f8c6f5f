package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreCountsWithinWindow(t *testing.T) {
	store := NewMemoryStore()

	for i := int64(1); i <= 5; i++ {
		count, err := store.Incr(context.Background(), "1.2.3.4", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, count)
	}
}

func TestMemoryStoreSeparateKeys(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Incr(context.Background(), "1.2.3.4", time.Minute)
	require.NoError(t, err)

	count, err := store.Incr(context.Background(), "5.6.7.8", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestMemoryStoreWindowReset(t *testing.T) {
	base := time.Now()
	store := NewMemoryStore()
	store.now = func() time.Time { return base }

	for i := 0; i < 20; i++ {
		_, err := store.Incr(context.Background(), "1.2.3.4", time.Minute)
		require.NoError(t, err)
	}

	// One second before the boundary the counter still grows.
	store.now = func() time.Time { return base.Add(59 * time.Second) }
	count, err := store.Incr(context.Background(), "1.2.3.4", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(21), count)

	// Crossing the boundary resets the count to a fresh window.
	store.now = func() time.Time { return base.Add(time.Minute) }
	count, err = store.Incr(context.Background(), "1.2.3.4", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestMemoryStoreCleanupLoop(t *testing.T) {
	base := time.Now()
	store := NewMemoryStore()
	defer store.Close()

	store.now = func() time.Time { return base }
	_, err := store.Incr(context.Background(), "stale", time.Minute)
	require.NoError(t, err)

	store.now = func() time.Time { return base.Add(11 * time.Minute) }
	store.StartCleanup(5*time.Millisecond, 10*time.Minute)

	assert.Eventually(t, func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		_, ok := store.windows["stale"]
		return !ok
	}, 2*time.Second, 5*time.Millisecond)
}

func TestMemoryStoreCloseIsIdempotent(t *testing.T) {
	store := NewMemoryStore()
	store.StartCleanup(time.Minute, 10*time.Minute)

	store.Close()
	store.Close()
}

func TestMemoryStoreCleanup(t *testing.T) {
	base := time.Now()
	store := NewMemoryStore()
	store.now = func() time.Time { return base }

	_, err := store.Incr(context.Background(), "stale", time.Minute)
	require.NoError(t, err)
	_, err = store.Incr(context.Background(), "fresh", time.Minute)
	require.NoError(t, err)

	store.now = func() time.Time { return base.Add(11 * time.Minute) }
	_, err = store.Incr(context.Background(), "fresh", time.Minute)
	require.NoError(t, err)

	store.Cleanup(10 * time.Minute)

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.NotContains(t, store.windows, "stale")
	assert.Contains(t, store.windows, "fresh")
}
