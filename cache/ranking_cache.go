package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// RankingCache keeps the rendered top-100 leaderboard per period in
// Redis so the ranking page doesn't hammer Postgres. Entries are
// short-lived and additionally invalidated whenever a new leaderboard
// row is written. A nil cache is a valid no-op, so the service works
// without Redis configured.
type RankingCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRankingCache(client *redis.Client, ttl time.Duration) *RankingCache {
	return &RankingCache{client: client, ttl: ttl}
}

// Get unmarshals a cached leaderboard into dest. Returns false on miss,
// decode error, or Redis being unreachable; callers fall through to the DB.
func (c *RankingCache) Get(ctx context.Context, period string, dest any) bool {
	if c == nil || c.client == nil {
		return false
	}
	raw, err := c.client.Get(ctx, c.key(period)).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// Set stores a rendered leaderboard, best-effort.
func (c *RankingCache) Set(ctx context.Context, period string, value any) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, c.key(period), raw, c.ttl).Err()
}

// Invalidate drops both periods. Called after each eligible finish and
// by the leaderboard janitor.
func (c *RankingCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Del(ctx, c.key("ALL"), c.key("WEEK")).Err()
}

func (c *RankingCache) key(period string) string {
	return "ranking:top:" + period
}
