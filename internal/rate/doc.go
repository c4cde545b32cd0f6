// Package rate provides internal primitives used to build Redis-backed rate limit keys,
// errors, and limiter behavior for the login flow.
//
// # Window semantics
//
// Fixed-window counters: INCR + conditional EXPIRE on first hit. Key prefixes:
//   - rl:  — login per-user
//   - rli: — login per-IP
//
// # What this package must NOT do
//
//   - Implement domain-specific policies (those live in the Engine flows).
//   - Be imported outside the goRelay module.
package rate
