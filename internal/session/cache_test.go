package session

import (
	"context"
	"testing"
	"time"

	"gymflow/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheSessions(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache().(*memoryCache)
	now := time.Now()
	cache.now = func() time.Time { return now }

	s := &auth.Session{SessionID: "abc", UserID: "u1"}
	require.NoError(t, cache.Save(ctx, s, time.Minute))

	got, err := cache.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)

	cache.now = func() time.Time { return now.Add(2 * time.Minute) }
	_, err = cache.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, cache.Save(ctx, s, time.Hour))
	require.NoError(t, cache.Delete(ctx, "abc"))
	_, err = cache.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryCacheFailureWindow(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache().(*memoryCache)
	now := time.Now()
	cache.now = func() time.Time { return now }

	for i := int64(1); i <= 3; i++ {
		count, err := cache.RecordFailure(ctx, "a@b.com", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, count)
	}

	cache.now = func() time.Time { return now.Add(time.Minute) }
	count, err := cache.RecordFailure(ctx, "a@b.com", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, cache.ResetFailures(ctx, "a@b.com"))
	count, err = cache.RecordFailure(ctx, "a@b.com", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestMemoryCacheSweepsExpiredEntries(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache().(*memoryCache)
	now := time.Now()
	cache.now = func() time.Time { return now }

	require.NoError(t, cache.Save(ctx, &auth.Session{SessionID: "old"}, time.Minute))
	_, err := cache.RecordFailure(ctx, "ghost@b.com", time.Minute)
	require.NoError(t, err)

	cache.now = func() time.Time { return now.Add(5 * time.Minute) }
	require.NoError(t, cache.Save(ctx, &auth.Session{SessionID: "new"}, time.Minute))

	assert.NotContains(t, cache.sessions, "old")
	assert.Contains(t, cache.sessions, "new")
	assert.Empty(t, cache.failures)
}
