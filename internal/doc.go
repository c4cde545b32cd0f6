// Package internal contains helper utilities that are intentionally private to goRelay,
// including secure session identifier generation.
//
// # Sub-packages
//
//   - audit — async event dispatch (Dispatcher + Sink implementations)
//   - metrics — lock-free counters and latency histograms
//   - rate — core Redis-backed rate limit primitives
//
// # What this package must NOT do
//
//   - Export types that appear in the public goRelay API.
//   - Be imported by any package outside the goRelay module.
package internal
