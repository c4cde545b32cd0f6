// Package conn provides the connection registry: durable bindings from
// ephemeral transport connection IDs to authenticated users.
//
// # Lifecycle
//
// A binding is written by the relay engine when a connection authenticates
// (UNBOUND -> BOUND), deleted on disconnect or eviction (-> CLOSED), and
// expires at a fixed absolute deadline otherwise (-> EXPIRED). Expiry is
// never extended by activity; reconnecting under a new connection ID is the
// only refresh path. Readers treat a binding past its ExpiresAt as absent
// even when the backing store's own TTL lags, and prune such entries lazily.
//
// # Architecture boundaries
//
// This package owns binding persistence ([RedisStore], [MemoryStore]) and
// the [Binding] model. It does NOT verify credentials, decide who may bind,
// or talk to any transport — those responsibilities belong to the Engine.
//
// # What this package must NOT do
//
//   - Import goRelay, token, or transport (no upward imports).
//   - Extend a binding's lifetime on read.
//   - Emit audit events or metrics.
package conn
