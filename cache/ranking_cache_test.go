package cache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type row struct {
	Position int     `json:"position"`
	Score    float64 `json:"score"`
}

func newTestCache(t *testing.T) (*RankingCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRankingCache(client, time.Minute), mr
}

func TestRankingCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	var missed []row
	if c.Get(ctx, "WEEK", &missed) {
		t.Fatal("expected miss on empty cache")
	}

	stored := []row{{Position: 1, Score: 65.3333}, {Position: 2, Score: 60}}
	c.Set(ctx, "WEEK", stored)
	if !mr.Exists("ranking:top:WEEK") {
		t.Fatal("expected redis key to be set")
	}

	var got []row
	if !c.Get(ctx, "WEEK", &got) {
		t.Fatal("expected hit after set")
	}
	if len(got) != 2 || got[0].Score != 65.3333 {
		t.Fatalf("bad cached value: %+v", got)
	}
}

func TestRankingCacheInvalidateDropsBothPeriods(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	c.Set(ctx, "ALL", []row{{Position: 1}})
	c.Set(ctx, "WEEK", []row{{Position: 1}})
	c.Invalidate(ctx)

	if mr.Exists("ranking:top:ALL") || mr.Exists("ranking:top:WEEK") {
		t.Fatal("expected both periods to be dropped")
	}
}

func TestNilCacheIsNoOp(t *testing.T) {
	ctx := context.Background()
	var c *RankingCache

	var got []row
	if c.Get(ctx, "ALL", &got) {
		t.Fatal("nil cache must miss")
	}
	c.Set(ctx, "ALL", []row{})
	c.Invalidate(ctx)
}
