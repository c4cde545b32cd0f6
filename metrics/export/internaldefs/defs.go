package internaldefs

import (
	goRelay "github.com/MrEthical07/goRelay"
)

// CounterDef defines a public type used by goRelay APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   goRelay.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by goRelay APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   goRelay.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the relay engine.
var CounterDefs = []CounterDef{
	{ID: goRelay.MetricAuthorizeAllow, Name: "gorelay_authorize_allow_total", Help: "Allowed authorization decisions."},
	{ID: goRelay.MetricAuthorizeDeny, Name: "gorelay_authorize_deny_total", Help: "Denied authorization decisions."},
	{ID: goRelay.MetricAuthorizeCacheHit, Name: "gorelay_authorize_cache_hit_total", Help: "Authorization decisions served from the in-process cache."},
	{ID: goRelay.MetricAuthorizeCacheMiss, Name: "gorelay_authorize_cache_miss_total", Help: "Authorization decisions recomputed after a cache miss."},
	{ID: goRelay.MetricSessionLookupFailure, Name: "gorelay_session_lookup_failure_total", Help: "Session store lookups that failed outright."},
	{ID: goRelay.MetricLoginSuccess, Name: "gorelay_login_success_total", Help: "Successful login attempts."},
	{ID: goRelay.MetricLoginFailure, Name: "gorelay_login_failure_total", Help: "Failed login attempts."},
	{ID: goRelay.MetricLoginRateLimited, Name: "gorelay_login_rate_limited_total", Help: "Rate-limited login attempts."},
	{ID: goRelay.MetricLogout, Name: "gorelay_logout_total", Help: "Single-session logout operations."},
	{ID: goRelay.MetricLogoutAll, Name: "gorelay_logout_all_total", Help: "Logout-all operations."},
	{ID: goRelay.MetricSessionCreated, Name: "gorelay_session_created_total", Help: "Created sessions."},
	{ID: goRelay.MetricSessionInvalidated, Name: "gorelay_session_invalidated_total", Help: "Invalidated sessions."},
	{ID: goRelay.MetricBindSuccess, Name: "gorelay_bind_success_total", Help: "Connections bound to users."},
	{ID: goRelay.MetricBindRejected, Name: "gorelay_bind_rejected_total", Help: "Bind attempts rejected before any registry write."},
	{ID: goRelay.MetricBindFailure, Name: "gorelay_bind_failure_total", Help: "Bind attempts that failed at the registry."},
	{ID: goRelay.MetricUnbind, Name: "gorelay_unbind_total", Help: "Unbind operations."},
	{ID: goRelay.MetricConnectionEvicted, Name: "gorelay_connection_evicted_total", Help: "Dead connections evicted from the registry."},
	{ID: goRelay.MetricSendDelivered, Name: "gorelay_send_delivered_total", Help: "Envelopes delivered to a connection."},
	{ID: goRelay.MetricSendDeadPeer, Name: "gorelay_send_dead_peer_total", Help: "Sends that found the peer gone."},
	{ID: goRelay.MetricSendFailure, Name: "gorelay_send_failure_total", Help: "Sends that failed at the transport."},
	{ID: goRelay.MetricBroadcast, Name: "gorelay_broadcast_total", Help: "Broadcast operations."},
	{ID: goRelay.MetricBroadcastEmpty, Name: "gorelay_broadcast_empty_total", Help: "Broadcasts that found no bound connections."},
}

// HistogramDefs is an exported constant or variable used by the relay engine.
var HistogramDefs = []HistogramDef{
	{ID: goRelay.MetricAuthorizeLatency, Name: "gorelay_authorize_latency_seconds", Help: "Authorize latency histogram."},
	{ID: goRelay.MetricSendLatency, Name: "gorelay_send_latency_seconds", Help: "Per-connection send latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the relay engine.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the relay engine.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets may return an error when input validation, dependency calls, or security checks fail.
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets may return an error when input validation, dependency calls, or security checks fail.
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
