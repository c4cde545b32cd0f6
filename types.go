package goRelay

import (
	"context"
	"io"

	internalaudit "github.com/MrEthical07/goRelay/internal/audit"
	internalmetrics "github.com/MrEthical07/goRelay/internal/metrics"
	"github.com/MrEthical07/goRelay/session"
)

// Decision is the authorization outcome returned by [Engine.Authorize] and
// [Engine.AuthorizeConnect]. Allow carries the caller's identity context;
// deny carries the generic principal and nothing else, so a denied caller
// learns nothing about why.
type Decision struct {
	Allow     bool
	Principal string
	Resource  string

	Context *DecisionContext
}

// DecisionContext is the identity payload of an allow [Decision]. All fields
// come from the verified credential, never from the session store.
type DecisionContext struct {
	UserID      string
	DisplayName string
	Roles       []string
	SessionID   string
}

// DenyPrincipal is the generic principal carried by every deny [Decision].
const DenyPrincipal = "anonymous"

// User is the account record returned by [UserProvider]. It carries the
// credential hash checked at login and the identity fields minted into
// tokens and session records.
type User struct {
	UserID       string
	Username     string
	DisplayName  string
	PasswordHash string
	Roles        []string
}

// UserProvider is the interface callers implement to integrate goRelay with
// their user database. Login only reads; account lifecycle stays with the
// caller.
type UserProvider interface {
	GetUserByIdentifier(ctx context.Context, identifier string) (User, error)
}

// SessionSource is the narrow read contract the authorize path consumes.
// [session.Store] satisfies it; tests substitute counting fakes.
type SessionSource interface {
	Get(ctx context.Context, sessionID string) (*session.Record, error)
}

// AuditEvent is a structured audit record emitted by the engine.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the engine's audit dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events to an
// [io.Writer].
type JSONWriterSink = internalaudit.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}

// MetricID identifies a specific counter or histogram bucket in the
// in-process metrics system.
type MetricID = internalmetrics.MetricID

const (
	// MetricAuthorizeAllow is an exported constant or variable used by the relay engine.
	MetricAuthorizeAllow = MetricID(internalmetrics.MetricAuthorizeAllow)
	// MetricAuthorizeDeny is an exported constant or variable used by the relay engine.
	MetricAuthorizeDeny = MetricID(internalmetrics.MetricAuthorizeDeny)
	// MetricAuthorizeCacheHit is an exported constant or variable used by the relay engine.
	MetricAuthorizeCacheHit = MetricID(internalmetrics.MetricAuthorizeCacheHit)
	// MetricAuthorizeCacheMiss is an exported constant or variable used by the relay engine.
	MetricAuthorizeCacheMiss = MetricID(internalmetrics.MetricAuthorizeCacheMiss)
	// MetricSessionLookupFailure is an exported constant or variable used by the relay engine.
	MetricSessionLookupFailure = MetricID(internalmetrics.MetricSessionLookupFailure)
	// MetricLoginSuccess is an exported constant or variable used by the relay engine.
	MetricLoginSuccess = MetricID(internalmetrics.MetricLoginSuccess)
	// MetricLoginFailure is an exported constant or variable used by the relay engine.
	MetricLoginFailure = MetricID(internalmetrics.MetricLoginFailure)
	// MetricLoginRateLimited is an exported constant or variable used by the relay engine.
	MetricLoginRateLimited = MetricID(internalmetrics.MetricLoginRateLimited)
	// MetricLogout is an exported constant or variable used by the relay engine.
	MetricLogout = MetricID(internalmetrics.MetricLogout)
	// MetricLogoutAll is an exported constant or variable used by the relay engine.
	MetricLogoutAll = MetricID(internalmetrics.MetricLogoutAll)
	// MetricSessionCreated is an exported constant or variable used by the relay engine.
	MetricSessionCreated = MetricID(internalmetrics.MetricSessionCreated)
	// MetricSessionInvalidated is an exported constant or variable used by the relay engine.
	MetricSessionInvalidated = MetricID(internalmetrics.MetricSessionInvalidated)
	// MetricBindSuccess is an exported constant or variable used by the relay engine.
	MetricBindSuccess = MetricID(internalmetrics.MetricBindSuccess)
	// MetricBindRejected is an exported constant or variable used by the relay engine.
	MetricBindRejected = MetricID(internalmetrics.MetricBindRejected)
	// MetricBindFailure is an exported constant or variable used by the relay engine.
	MetricBindFailure = MetricID(internalmetrics.MetricBindFailure)
	// MetricUnbind is an exported constant or variable used by the relay engine.
	MetricUnbind = MetricID(internalmetrics.MetricUnbind)
	// MetricConnectionEvicted is an exported constant or variable used by the relay engine.
	MetricConnectionEvicted = MetricID(internalmetrics.MetricConnectionEvicted)
	// MetricSendDelivered is an exported constant or variable used by the relay engine.
	MetricSendDelivered = MetricID(internalmetrics.MetricSendDelivered)
	// MetricSendDeadPeer is an exported constant or variable used by the relay engine.
	MetricSendDeadPeer = MetricID(internalmetrics.MetricSendDeadPeer)
	// MetricSendFailure is an exported constant or variable used by the relay engine.
	MetricSendFailure = MetricID(internalmetrics.MetricSendFailure)
	// MetricBroadcast is an exported constant or variable used by the relay engine.
	MetricBroadcast = MetricID(internalmetrics.MetricBroadcast)
	// MetricBroadcastEmpty is an exported constant or variable used by the relay engine.
	MetricBroadcastEmpty = MetricID(internalmetrics.MetricBroadcastEmpty)
	// MetricAuthorizeLatency is an exported constant or variable used by the relay engine.
	MetricAuthorizeLatency = MetricID(internalmetrics.MetricAuthorizeLatency)
	// MetricSendLatency is an exported constant or variable used by the relay engine.
	MetricSendLatency = MetricID(internalmetrics.MetricSendLatency)

	metricIDCount = internalmetrics.MetricIDCount
)

// Metrics holds atomic counters and optional latency histograms.
type Metrics = internalmetrics.Metrics

// MetricsSnapshot is a point-in-time deep copy of all metrics.
type MetricsSnapshot = internalmetrics.Snapshot

// NewMetrics creates a new [Metrics] instance configured by the given
// [MetricsConfig]. When Enabled is false, all operations are no-ops.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return internalmetrics.New(internalmetrics.Config{
		Enabled:       cfg.Enabled,
		EnableLatency: cfg.EnableLatencyHistograms,
	})
}
