// Package envelope defines the wire union pushed to relay clients: a type
// tag, an emission timestamp, and exactly one kind-specific payload.
//
// # Architecture boundaries
//
// This package is a pure model: constructors stamp timestamps and default
// message IDs, nothing else. Serialization happens at the dispatch layer,
// delivery at the transport layer.
//
// # What this package must NOT do
//
//   - Import goRelay, conn, or transport (no upward imports).
//   - Perform I/O of any kind.
package envelope
