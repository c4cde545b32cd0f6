package goRelay

import (
	"context"
	"errors"
	"time"

	"github.com/MrEthical07/goRelay/internal/rate"
	"github.com/MrEthical07/goRelay/session"
	"github.com/MrEthical07/goRelay/transport"
)

const (
	auditEventAuthorizeAllow    = "authorize_allow"
	auditEventAuthorizeDeny     = "authorize_deny"
	auditEventLoginSuccess      = "login_success"
	auditEventLoginFailure      = "login_failure"
	auditEventLoginRateLimited  = "login_rate_limited"
	auditEventLogoutSession     = "logout_session"
	auditEventLogoutAll         = "logout_all"
	auditEventConnectionBound   = "connection_bound"
	auditEventConnectionUnbound = "connection_unbound"
	auditEventConnectionEvicted = "connection_evicted"
	auditEventPushFailed        = "push_failed"
)

// AuditErrorCode defines a public type used by goRelay APIs.
//
// AuditErrorCode instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditErrorCode string

const (
	auditErrInvalidCredentials  AuditErrorCode = "invalid_credentials"
	auditErrRateLimited         AuditErrorCode = "rate_limited"
	auditErrInvalidToken        AuditErrorCode = "invalid_token"
	auditErrSessionNotFound     AuditErrorCode = "session_not_found"
	auditErrUserNotFound        AuditErrorCode = "user_not_found"
	auditErrIdentityMissing     AuditErrorCode = "identity_missing"
	auditErrBindRejected        AuditErrorCode = "bind_rejected"
	auditErrConnectionGone      AuditErrorCode = "connection_gone"
	auditErrSessionCreation     AuditErrorCode = "session_creation_failed"
	auditErrSessionInvalidation AuditErrorCode = "session_invalidation_failed"
	auditErrDispatchFailed      AuditErrorCode = "dispatch_failed"
	auditErrUnavailable         AuditErrorCode = "backend_unavailable"
	auditErrInternal            AuditErrorCode = "internal_error"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	userID string,
	sessionID string,
	connectionID string,
	resource string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp:    time.Now().UTC(),
		EventType:    eventType,
		UserID:       userID,
		SessionID:    sessionID,
		ConnectionID: connectionID,
		Resource:     resource,
		IP:           clientIPFromContext(ctx),
		Success:      success,
		Metadata:     metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	e.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return auditErrInvalidCredentials
	case errors.Is(err, ErrLoginRateLimited),
		errors.Is(err, rate.ErrRateLimited):
		return auditErrRateLimited
	case errors.Is(err, ErrTokenInvalid):
		return auditErrInvalidToken
	case errors.Is(err, ErrSessionNotFound),
		errors.Is(err, session.ErrNotFound):
		return auditErrSessionNotFound
	case errors.Is(err, ErrUserNotFound):
		return auditErrUserNotFound
	case errors.Is(err, ErrIdentityMissing):
		return auditErrIdentityMissing
	case errors.Is(err, ErrBindRejected):
		return auditErrBindRejected
	case errors.Is(err, transport.ErrConnectionGone):
		return auditErrConnectionGone
	case errors.Is(err, ErrSessionCreationFailed):
		return auditErrSessionCreation
	case errors.Is(err, ErrSessionInvalidationFailed):
		return auditErrSessionInvalidation
	case errors.Is(err, ErrDispatchFailed):
		return auditErrDispatchFailed
	case errors.Is(err, ErrRegistryUnavailable),
		errors.Is(err, session.ErrRedisUnavailable),
		errors.Is(err, transport.ErrUnavailable),
		errors.Is(err, rate.ErrRedisUnavailable):
		return auditErrUnavailable
	default:
		return auditErrInternal
	}
}
