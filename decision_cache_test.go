package goRelay

import (
	"fmt"
	"testing"
	"time"
)

func newFakeClockCache(window time.Duration) (*decisionCache, *time.Time) {
	cache := newDecisionCache(window)
	now := time.Now()
	cache.now = func() time.Time { return now }
	return cache, &now
}

func allowDecision(principal string) *Decision {
	return &Decision{
		Allow:     true,
		Principal: principal,
		Resource:  "chat:send",
	}
}

func TestDecisionCacheRoundTrip(t *testing.T) {
	cache, _ := newFakeClockCache(5 * time.Minute)

	if _, ok := cache.get("tok-A"); ok {
		t.Fatal("expected miss on empty cache")
	}

	want := allowDecision("u42")
	cache.set("tok-A", want)

	got, ok := cache.get("tok-A")
	if !ok || got != want {
		t.Fatalf("expected the cached decision back, got %+v", got)
	}
	if cache.size() != 1 {
		t.Fatalf("expected size 1, got %d", cache.size())
	}
}

func TestDecisionCacheExpiresAtWindowBoundary(t *testing.T) {
	cache, now := newFakeClockCache(5 * time.Minute)
	cache.set("tok-A", allowDecision("u42"))

	*now = now.Add(5*time.Minute - time.Second)
	if _, ok := cache.get("tok-A"); !ok {
		t.Fatal("expected hit just inside the window")
	}

	// Expiry is inclusive: the instant the window closes, the entry is gone.
	*now = now.Add(time.Second)
	if _, ok := cache.get("tok-A"); ok {
		t.Fatal("expected miss at the window boundary")
	}
	if cache.size() != 0 {
		t.Fatal("expected the expired entry to be dropped on read")
	}
}

func TestDecisionCacheInvalidate(t *testing.T) {
	cache, _ := newFakeClockCache(5 * time.Minute)
	cache.set("tok-A", allowDecision("u42"))
	cache.set("tok-B", allowDecision("u43"))

	cache.invalidate("tok-A")

	if _, ok := cache.get("tok-A"); ok {
		t.Fatal("expected invalidated entry to miss")
	}
	if _, ok := cache.get("tok-B"); !ok {
		t.Fatal("expected sibling entry to survive")
	}
}

func TestDecisionCachePurgeDropsExpired(t *testing.T) {
	cache, now := newFakeClockCache(time.Minute)
	for i := 0; i < 10; i++ {
		cache.set(fmt.Sprintf("tok-%d", i), allowDecision("u42"))
	}

	*now = now.Add(2 * time.Minute)
	cache.purge()

	if cache.size() != 0 {
		t.Fatalf("expected purge to drop all expired entries, got %d", cache.size())
	}
}

func TestDecisionCachePurgeIsBounded(t *testing.T) {
	cache, now := newFakeClockCache(time.Minute)
	total := maxPurgePerCall * 3
	for i := 0; i < total; i++ {
		cache.set(fmt.Sprintf("tok-%d", i), allowDecision("u42"))
	}

	*now = now.Add(2 * time.Minute)
	cache.purge()

	// A single sweep examines at most maxPurgePerCall entries, so most
	// of the expired population survives until later sweeps.
	if remaining := cache.size(); remaining < total-maxPurgePerCall {
		t.Fatalf("purge swept more than its budget: %d remaining of %d", remaining, total)
	}

	for i := 0; i < total; i++ {
		cache.purge()
	}
	if cache.size() != 0 {
		t.Fatalf("expected repeated sweeps to drain the cache, got %d", cache.size())
	}
}
