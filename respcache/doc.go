// Package respcache provides a Redis-backed cache for generated answers,
// keyed by the SHA-256 of the normalized query text.
//
// # Architecture boundaries
//
// This package stores and retrieves opaque answer strings. It does NOT
// generate answers, judge their freshness, or decide when caching is
// appropriate — chat producers own those policies.
package respcache
