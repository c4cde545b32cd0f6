package goRelay

import (
	"context"
	"strings"
)

// Logout describes the logout operation and its observable behavior.
//
// Logout may return an error when input validation, dependency calls, or security checks fail.
// Logout does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Logout(ctx context.Context, credential string) error {
	if e.sessionStore == nil {
		return ErrEngineNotReady
	}

	credential = strings.TrimPrefix(credential, "Bearer ")

	claims, err := e.tokenManager.Parse(credential)
	if err != nil {
		e.emitAudit(ctx, auditEventLogoutSession, false, "", "", "", "", ErrTokenInvalid, func() map[string]string {
			return map[string]string{
				"reason": "invalid_access_token",
			}
		})
		return ErrTokenInvalid
	}

	// The cached decision goes first so this process stops honoring the
	// credential even if the store delete below fails.
	e.decisions.invalidate(credential)

	err = e.sessionStore.Delete(ctx, claims.SID)
	if err == nil {
		e.metricInc(MetricLogout)
		e.metricInc(MetricSessionInvalidated)
	}
	e.emitAudit(ctx, auditEventLogoutSession, err == nil, claims.UID, claims.SID, "", "", err, nil)

	return err
}

// LogoutAll describes the logoutall operation and its observable behavior.
//
// LogoutAll may return an error when input validation, dependency calls, or security checks fail.
// LogoutAll does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) LogoutAll(ctx context.Context, credential string) error {
	if e.sessionStore == nil {
		return ErrEngineNotReady
	}

	credential = strings.TrimPrefix(credential, "Bearer ")

	claims, err := e.tokenManager.Parse(credential)
	if err != nil {
		e.emitAudit(ctx, auditEventLogoutAll, false, "", "", "", "", ErrTokenInvalid, func() map[string]string {
			return map[string]string{
				"reason": "invalid_access_token",
			}
		})
		return ErrTokenInvalid
	}

	e.decisions.invalidate(credential)

	err = e.sessionStore.DeleteAllForUser(ctx, claims.UID)
	if err == nil {
		e.metricInc(MetricLogoutAll)
		e.metricInc(MetricSessionInvalidated)
	}
	e.emitAudit(ctx, auditEventLogoutAll, err == nil, claims.UID, "", "", "", err, nil)

	return err
}
