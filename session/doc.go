// Package session provides Redis-backed session persistence and compact binary record
// encoding for authorization hot paths.
//
// # Binary encoding
//
// Session records are stored in Redis as a compact binary format (schema version 1).
// The encoder is append-only: future versions add fields but never reinterpret old
// ones. The session ID is the Redis key and is never encoded in the value; readers
// set it from the key they fetched.
//
// # Architecture boundaries
//
// This package owns the [Store] (Redis operations) and the [Record] model. It does NOT
// interpret signed credentials or make allow/deny decisions — those responsibilities
// belong to the Engine.
//
// # What this package must NOT do
//
//   - Import goRelay, token, or conn (no upward imports).
//   - Perform application-level authorization decisions.
//   - Store plaintext secrets in [Record] fields.
package session
