package goRelay

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/MrEthical07/goRelay/session"
)

// Authorize describes the authorize operation and its observable behavior.
//
// Authorize never returns an error; every failure mode on this path resolves
// to a deny [Decision] so callers have exactly one code path to handle.
// Authorize does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Authorize(ctx context.Context, credential, resource string) *Decision {
	if e.metrics != nil && e.metrics.LatencyEnabled() {
		start := time.Now()
		defer e.metrics.Observe(MetricAuthorizeLatency, time.Since(start))
	}

	credential = strings.TrimPrefix(credential, "Bearer ")

	e.decisions.purge()

	if decision, ok := e.decisions.get(credential); ok {
		e.metricInc(MetricAuthorizeCacheHit)
		return decision
	}
	e.metricInc(MetricAuthorizeCacheMiss)

	decision, cause := e.evaluate(ctx, credential, resource)
	if decision.Allow {
		// Only allow decisions enter the cache; a deny is always recomputed
		// so a revoked session cannot shadow a later valid login.
		e.decisions.set(credential, decision)
		e.metricInc(MetricAuthorizeAllow)
		e.emitAudit(ctx, auditEventAuthorizeAllow, true, decision.Context.UserID, decision.Context.SessionID, "", resource, nil, nil)
		return decision
	}

	e.metricInc(MetricAuthorizeDeny)
	e.emitAudit(ctx, auditEventAuthorizeDeny, false, "", "", "", resource, cause, nil)
	return decision
}

// AuthorizeConnect describes the authorizeconnect operation and its observable behavior.
//
// AuthorizeConnect evaluates the credential against the configured connect
// wildcard resource, so a connection admitted once is not re-checked per message.
// AuthorizeConnect does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) AuthorizeConnect(ctx context.Context, credential string) *Decision {
	return e.Authorize(ctx, credential, e.config.Authz.ConnectWildcard)
}

// evaluate resolves a cache miss. The returned error is the deny cause and is
// only used for audit classification; it never reaches the caller.
func (e *Engine) evaluate(ctx context.Context, credential, resource string) (*Decision, error) {
	deny := &Decision{
		Allow:     false,
		Principal: DenyPrincipal,
		Resource:  resource,
	}

	if credential == "" {
		return deny, ErrTokenInvalid
	}

	claims, err := e.tokenManager.Parse(credential)
	if err != nil {
		return deny, ErrTokenInvalid
	}

	lookupCtx, cancel := context.WithTimeout(ctx, e.config.Authz.StoreTimeout)
	defer cancel()

	// The store only vouches for session existence; identity context below
	// comes from the verified credential alone.
	if _, err := e.sessions.Get(lookupCtx, claims.SID); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return deny, ErrSessionNotFound
		}
		e.metricInc(MetricSessionLookupFailure)
		return deny, err
	}

	return &Decision{
		Allow:     true,
		Principal: claims.UID,
		Resource:  resource,
		Context: &DecisionContext{
			UserID:      claims.UID,
			DisplayName: claims.Name,
			Roles:       claims.Roles,
			SessionID:   claims.SID,
		},
	}, nil
}
