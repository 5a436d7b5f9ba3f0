package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter enforces per-user request limits.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// NoopLimiter allows all requests.
type NoopLimiter struct{}

func NewNoopLimiter() *NoopLimiter {
	return &NoopLimiter{}
}

func (l *NoopLimiter) Allow(ctx context.Context, key string) bool {
	return true
}

// RateLimiter implements distributed rate limiting using Redis sorted sets
// over a one-minute sliding window.
type RateLimiter struct {
	client *redis.Client
	limit  int
}

// NewRateLimiter creates a rate limiter allowing limit requests per minute
// per key
func NewRateLimiter(client *redis.Client, limit int) *RateLimiter {
	return &RateLimiter{client: client, limit: limit}
}

// Allow reports whether another request should be admitted for the key.
// On Redis errors the request is admitted; rate limiting is protective, not
// load-bearing.
func (rl *RateLimiter) Allow(ctx context.Context, userKey string) bool {
	if rl.limit <= 0 {
		return true
	}

	allowed, err := rl.allow(ctx, userKey)
	if err != nil {
		return true
	}
	return allowed
}

func (rl *RateLimiter) allow(ctx context.Context, userKey string) (bool, error) {
	key := fmt.Sprintf("ratelimit:%s", userKey)
	now := time.Now()
	windowStart := now.Add(-1 * time.Minute)

	pipe := rl.client.Pipeline()

	// Drop entries outside the window, count what's left, then record this
	// request.
	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", windowStart.UnixMilli()))
	countCmd := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(now.UnixMilli()),
		Member: fmt.Sprintf("%d", now.UnixNano()),
	})
	pipe.Expire(ctx, key, 2*time.Minute)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit check failed: %w", err)
	}

	return int(countCmd.Val()) < rl.limit, nil
}

// Reset clears the window for a key
func (rl *RateLimiter) Reset(ctx context.Context, userKey string) error {
	return rl.client.Del(ctx, fmt.Sprintf("ratelimit:%s", userKey)).Err()
}
