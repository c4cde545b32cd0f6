// Package middleware exposes HTTP middleware adapters that enforce goRelay
// authorization decisions in front of ordinary handlers.
//
// # Guards
//
//   - [Guard] — authorizes every request against a named resource.
//   - [GuardConnect] — authorizes against the connect wildcard for
//     realtime upgrade endpoints.
//
// Each guard reads the Authorization header, calls the engine's authorize
// path, and injects the allow [goRelay.Decision] into the request context
// where [DecisionFromContext] retrieves it.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT make
// authorization decisions itself — all decisions are delegated to the engine.
//
// # What this package must NOT do
//
//   - Parse or create tokens directly (delegates to the engine).
//   - Access Redis (the engine handles I/O).
//   - Distinguish deny causes in responses beyond 401.
package middleware
