package respcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrUnavailable is an exported constant or variable used by the relay engine.
var ErrUnavailable = errors.New("response cache unavailable")

// Cache is a Redis-backed answer cache keyed by normalized query hash.
// Queries that differ only in case or whitespace share an entry.
type Cache struct {
	redis  redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewCache creates a [Cache] with the given key namespace and entry TTL.
func NewCache(redis redis.UniversalClient, prefix string, ttl time.Duration) *Cache {
	return &Cache{
		redis:  redis,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (c *Cache) key(query string) string {
	sum := sha256.Sum256([]byte(normalizeQuery(query)))
	return c.prefix + ":" + hex.EncodeToString(sum[:])
}

// normalizeQuery lower-cases and collapses runs of whitespace to single
// spaces so trivially reworded queries hit the same entry.
func normalizeQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

// Get returns the cached answer for a query. A missing entry is (ok=false),
// not an error.
func (c *Cache) Get(ctx context.Context, query string) (string, bool, error) {
	answer, err := c.redis.Get(ctx, c.key(query)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return answer, true, nil
}

// Set stores an answer under the query's normalized hash with the cache TTL.
func (c *Cache) Set(ctx context.Context, query, answer string) error {
	if err := c.redis.Set(ctx, c.key(query), answer, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
