package respcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newCacheTest(t *testing.T, ttl time.Duration) (*Cache, *miniredis.Miniredis, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewCache(rdb, "ra", ttl)
	return cache, mr, func() {
		rdb.Close()
		mr.Close()
	}
}

func TestCacheSetGetRoundTrip(t *testing.T) {
	cache, _, done := newCacheTest(t, time.Hour)
	defer done()
	ctx := context.Background()

	answer, ok, err := cache.Get(ctx, "what is retrieval augmented generation?")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok || answer != "" {
		t.Fatalf("expected miss, got %q", answer)
	}

	if err := cache.Set(ctx, "what is retrieval augmented generation?", "it grounds generation in retrieved context"); err != nil {
		t.Fatalf("set: %v", err)
	}

	answer, ok, err = cache.Get(ctx, "what is retrieval augmented generation?")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok || answer != "it grounds generation in retrieved context" {
		t.Fatalf("expected hit, got ok=%v answer=%q", ok, answer)
	}
}

func TestCacheNormalizesQueries(t *testing.T) {
	cache, _, done := newCacheTest(t, time.Hour)
	defer done()
	ctx := context.Background()

	if err := cache.Set(ctx, "What IS   vector search?", "similarity over embeddings"); err != nil {
		t.Fatalf("set: %v", err)
	}

	answer, ok, err := cache.Get(ctx, "  what is vector search?  ")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok || answer != "similarity over embeddings" {
		t.Fatalf("expected normalized hit, got ok=%v answer=%q", ok, answer)
	}
}

func TestCacheEntryExpires(t *testing.T) {
	cache, mr, done := newCacheTest(t, time.Minute)
	defer done()
	ctx := context.Background()

	if err := cache.Set(ctx, "q", "a"); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	_, ok, err := cache.Get(ctx, "q")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatal("expected entry to expire")
	}
}

func TestCacheRedisDownIsUnavailable(t *testing.T) {
	cache, mr, _ := newCacheTest(t, time.Hour)
	mr.Close()

	_, _, err := cache.Get(context.Background(), "q")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if err := cache.Set(context.Background(), "q", "a"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable from set, got %v", err)
	}
}
