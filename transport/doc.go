// Package transport abstracts payload delivery to connected peers behind
// the [Pusher] contract.
//
// # Failure taxonomy
//
// Implementations distinguish exactly two failure classes: the peer is gone
// for good ([ErrConnectionGone], a dispatcher eviction signal) and delivery
// failed transiently (wrapped [ErrUnavailable], the caller's problem to
// retry or surface). No other error values escape a Pusher.
//
// # Architecture boundaries
//
// This package moves opaque bytes. It does NOT serialize envelopes, resolve
// users to connections, or evict dead bindings — those responsibilities
// belong to the dispatch layer.
package transport
