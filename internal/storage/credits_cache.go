package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CreditsCache keeps a short-lived copy of each user's balance in Redis so
// the credits endpoint does not hit Postgres on every navbar refresh. It is
// a cache only; the users table stays authoritative and the cache is dropped
// whenever a credit is spent.
type CreditsCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewCreditsCache creates a credits cache with the given entry TTL
func NewCreditsCache(client *redis.Client, ttl time.Duration) *CreditsCache {
	return &CreditsCache{redis: client, ttl: ttl}
}

// Get returns the cached balance, or found=false on a miss
func (c *CreditsCache) Get(ctx context.Context, userID string) (credits int, found bool, err error) {
	val, err := c.redis.Get(ctx, c.key(userID)).Int()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get cached credits: %w", err)
	}
	return val, true, nil
}

// Set stores the balance with the configured TTL
func (c *CreditsCache) Set(ctx context.Context, userID string, credits int) error {
	if err := c.redis.Set(ctx, c.key(userID), credits, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache credits: %w", err)
	}
	return nil
}

// Invalidate drops the cached balance, forcing the next read through to the
// database. Called after every decrement.
func (c *CreditsCache) Invalidate(ctx context.Context, userID string) error {
	return c.redis.Del(ctx, c.key(userID)).Err()
}

func (c *CreditsCache) key(userID string) string {
	return fmt.Sprintf("credits:%s", userID)
}
