// Package goRelay provides the realtime core of a chat backend: credential
// authorization with an in-process decision cache, a Redis-backed connection
// registry, and a message dispatcher that fans typed envelopes out to live
// connections.
//
// The package is designed for concurrent server workloads: Engine methods are safe to call
// from multiple goroutines after initialization through [Builder.Build].
//
// # Architecture boundaries
//
// goRelay is the public surface. It exposes [Engine], [Builder], [Config], and value types
// (Decision, MetricsSnapshot, AuditEvent, etc.). Session encoding, rate limiting, metric
// counters, and audit dispatch live under internal/ and are never exported. The wire-facing
// subpackages (session, conn, envelope, transport, respcache, token, password) are usable
// on their own and never import goRelay back.
//
// # What this package must NOT do
//
//   - Expose Redis clients, store internals, or encoding details in its public API.
//   - Perform I/O outside of Engine methods (construction via Builder is allocation-only
//     until Build).
//   - Import any sub-package that re-imports goRelay (no import cycles).
//
// # Performance contract
//
// Authorize is the hot path. A cache hit completes without Redis round-trips and without
// allocation beyond the returned Decision. A miss costs one token verification plus one
// session lookup bounded by Config.Authz.StoreTimeout. Send and Bind are allowed one
// backend round-trip per call; Broadcast is one index read plus one push per live binding.
//
// # Revocation latency
//
// Allow decisions are served from the in-process cache for up to Config.Authz.CacheWindow
// (default five minutes). A session revoked elsewhere can therefore keep authorizing on
// this instance until its cache entry expires; Logout on the same instance drops its own
// entry immediately. Deployments that cannot tolerate the window should shorten it and
// pay the extra session lookups.
package goRelay
