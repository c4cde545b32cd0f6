package conn

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no live binding exists for the requested
// connection ID.
var ErrNotFound = errors.New("binding not found")

// ErrRedisUnavailable is an exported constant or variable used by the relay engine.
var ErrRedisUnavailable = errors.New("redis unavailable")

// Store describes the binding store contract consumed by the relay engine.
//
// Implementations persist one [Binding] per connection ID plus a per-user
// index. Bindings past their ExpiresAt are treated as absent even when the
// backing store's own expiry lags; readers clean up lazily.
type Store interface {
	// Put writes a binding with the given TTL, overwriting any previous
	// binding for the same connection ID.
	Put(ctx context.Context, b *Binding, ttl time.Duration) error

	// Delete removes a binding. Deleting a connection ID that is not bound
	// is not an error.
	Delete(ctx context.Context, connectionID string) error

	// ByUser returns the live bindings for a user.
	ByUser(ctx context.Context, userID string) ([]*Binding, error)
}
