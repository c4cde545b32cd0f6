package goRelay

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/MrEthical07/goRelay/conn"
)

// Bind describes the bind operation and its observable behavior.
//
// Bind may return an error when input validation, dependency calls, or security checks fail.
// Bind does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Bind(ctx context.Context, connectionID, userID string) error {
	// Identity is validated before any store access so an unauthenticated
	// connection can never occupy registry space.
	if userID == "" {
		e.metricInc(MetricBindRejected)
		e.emitAudit(ctx, auditEventConnectionBound, false, "", "", connectionID, "", ErrIdentityMissing, nil)
		return ErrIdentityMissing
	}
	if connectionID == "" {
		e.metricInc(MetricBindRejected)
		e.emitAudit(ctx, auditEventConnectionBound, false, userID, "", "", "", ErrBindRejected, func() map[string]string {
			return map[string]string{
				"reason": "empty_connection_id",
			}
		})
		return ErrBindRejected
	}

	now := time.Now()
	lifetime := e.config.Registry.BindingLifetime
	binding := &conn.Binding{
		ConnectionID: connectionID,
		UserID:       userID,
		ConnectedAt:  now.Unix(),
		ExpiresAt:    now.Add(lifetime).Unix(),
	}

	if err := e.registry.Put(ctx, binding, lifetime); err != nil {
		e.metricInc(MetricBindFailure)
		e.emitAudit(ctx, auditEventConnectionBound, false, userID, "", connectionID, "", err, nil)
		return fmt.Errorf("%w: %v", ErrRegistryUnavailable, err)
	}

	e.metricInc(MetricBindSuccess)
	e.emitAudit(ctx, auditEventConnectionBound, true, userID, "", connectionID, "", nil, nil)

	return nil
}

// Unbind describes the unbind operation and its observable behavior.
//
// Unbind never returns an error. Disconnects race with binding expiry, so a
// failed or redundant removal is logged and swallowed rather than surfaced.
// Unbind does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Unbind(ctx context.Context, connectionID string) {
	if connectionID == "" {
		return
	}

	err := e.registry.Delete(ctx, connectionID)
	if err != nil {
		log.Print("goRelay: connection unbind failed")
	}

	e.metricInc(MetricUnbind)
	e.emitAudit(ctx, auditEventConnectionUnbound, err == nil, "", "", connectionID, "", err, nil)
}

// ConnectionsForUser describes the connectionsforuser operation and its observable behavior.
//
// ConnectionsForUser may return an error when input validation, dependency calls, or security checks fail.
// ConnectionsForUser does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) ConnectionsForUser(ctx context.Context, userID string) ([]*conn.Binding, error) {
	if userID == "" {
		return nil, ErrIdentityMissing
	}

	bindings, err := e.registry.ByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRegistryUnavailable, err)
	}

	return bindings, nil
}
