package ratelimit

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, limit int) (*RateLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRateLimiter(client, limit), mr
}

func TestAllow_UnderLimit(t *testing.T) {
	rl, _ := newTestLimiter(t, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow(ctx, "user-1"), "request %d should be admitted", i+1)
	}
}

func TestAllow_OverLimit(t *testing.T) {
	rl, _ := newTestLimiter(t, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.True(t, rl.Allow(ctx, "user-1"))
	}

	assert.False(t, rl.Allow(ctx, "user-1"), "fourth request in the window must be rejected")
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	rl, _ := newTestLimiter(t, 1)
	ctx := context.Background()

	require.True(t, rl.Allow(ctx, "user-1"))
	require.False(t, rl.Allow(ctx, "user-1"))

	assert.True(t, rl.Allow(ctx, "user-2"), "another user's window is separate")
}

func TestAllow_ZeroLimitAdmitsEverything(t *testing.T) {
	rl, _ := newTestLimiter(t, 0)

	assert.True(t, rl.Allow(context.Background(), "user-1"))
}

func TestAllow_FailsOpenOnRedisError(t *testing.T) {
	rl, mr := newTestLimiter(t, 1)
	ctx := context.Background()

	require.True(t, rl.Allow(ctx, "user-1"))
	mr.Close()

	assert.True(t, rl.Allow(ctx, "user-1"), "Redis outage must not block requests")
}

func TestReset(t *testing.T) {
	rl, _ := newTestLimiter(t, 1)
	ctx := context.Background()

	require.True(t, rl.Allow(ctx, "user-1"))
	require.False(t, rl.Allow(ctx, "user-1"))

	require.NoError(t, rl.Reset(ctx, "user-1"))

	assert.True(t, rl.Allow(ctx, "user-1"), "reset reopens the window")
}

func TestNoopLimiter(t *testing.T) {
	l := NewNoopLimiter()
	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow(context.Background(), "anyone"))
	}
}
