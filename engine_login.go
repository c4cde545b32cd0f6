package goRelay

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/MrEthical07/goRelay/internal"
	"github.com/MrEthical07/goRelay/session"
)

// Login describes the login operation and its observable behavior.
//
// Login may return an error when input validation, dependency calls, or security checks fail.
// Login does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Login(ctx context.Context, identifier, pass string) (string, error) {
	ip := clientIPFromContext(ctx)
	if e.passwordHash == nil || e.userProvider == nil || e.sessionStore == nil {
		return "", ErrEngineNotReady
	}

	if e.rateLimiter != nil {
		if err := e.rateLimiter.CheckLogin(ctx, identifier, ip); err != nil {
			e.metricInc(MetricLoginRateLimited)
			e.emitAudit(ctx, auditEventLoginRateLimited, false, "", "", "", "", ErrLoginRateLimited, func() map[string]string {
				return map[string]string{
					"identifier": identifier,
				}
			})
			return "", ErrLoginRateLimited
		}
	}

	if pass == "" {
		if err := e.recordLoginFailure(ctx, identifier, ip); err != nil {
			return "", err
		}
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, "", "", "", "", ErrInvalidCredentials, func() map[string]string {
			return map[string]string{
				"identifier": identifier,
				"reason":     "empty_password",
			}
		})
		return "", ErrInvalidCredentials
	}

	user, err := e.userProvider.GetUserByIdentifier(ctx, identifier)
	if err != nil {
		if err := e.recordLoginFailure(ctx, identifier, ip); err != nil {
			return "", err
		}
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, "", "", "", "", ErrInvalidCredentials, func() map[string]string {
			return map[string]string{
				"identifier": identifier,
				"reason":     "user_not_found",
			}
		})
		return "", ErrInvalidCredentials
	}

	ok, err := e.passwordHash.Verify(pass, user.PasswordHash)
	if err != nil || !ok {
		if err := e.recordLoginFailure(ctx, identifier, ip); err != nil {
			return "", err
		}
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, user.UserID, "", "", "", ErrInvalidCredentials, func() map[string]string {
			return map[string]string{
				"identifier": identifier,
				"reason":     "password_mismatch",
			}
		})
		return "", ErrInvalidCredentials
	}
	pass = ""

	sid, err := internal.NewSessionID()
	if err != nil {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, user.UserID, "", "", "", ErrSessionCreationFailed, func() map[string]string {
			return map[string]string{
				"identifier": identifier,
				"reason":     "session_id_generation",
			}
		})
		return "", errors.Join(ErrSessionCreationFailed, err)
	}
	sessionID := sid.String()

	now := time.Now()
	lifetime := e.config.Session.Lifetime
	rec := &session.Record{
		SessionID:   sessionID,
		UserID:      user.UserID,
		DisplayName: user.DisplayName,
		Roles:       user.Roles,
		SourceIP:    ip,
		CreatedAt:   now.Unix(),
		LastSeenAt:  now.Unix(),
		ExpiresAt:   now.Add(lifetime).Unix(),
	}

	if err := e.sessionStore.Save(ctx, rec, lifetime); err != nil {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, user.UserID, sessionID, "", "", ErrSessionCreationFailed, func() map[string]string {
			return map[string]string{
				"identifier": identifier,
				"reason":     "session_save_failed",
			}
		})
		return "", errors.Join(ErrSessionCreationFailed, err)
	}

	access, err := e.tokenManager.Create(user.UserID, sessionID, user.DisplayName, user.Roles)
	if err != nil {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, user.UserID, sessionID, "", "", err, func() map[string]string {
			return map[string]string{
				"identifier": identifier,
				"reason":     "issue_access_failed",
			}
		})
		return "", err
	}

	if e.rateLimiter != nil {
		// Limiter reset is best-effort and must not block successful login.
		if err := e.rateLimiter.ResetLogin(ctx, identifier, ip); err != nil {
			log.Print("goRelay: login limiter reset failed")
		}
	}

	e.metricInc(MetricSessionCreated)
	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLoginSuccess, true, user.UserID, sessionID, "", "", nil, func() map[string]string {
		return map[string]string{
			"identifier": identifier,
		}
	})

	return access, nil
}

func (e *Engine) recordLoginFailure(ctx context.Context, identifier, ip string) error {
	if e.rateLimiter == nil {
		return nil
	}

	if err := e.rateLimiter.IncrementLogin(ctx, identifier, ip); err != nil {
		e.metricInc(MetricLoginRateLimited)
		e.emitAudit(ctx, auditEventLoginRateLimited, false, "", "", "", "", ErrLoginRateLimited, func() map[string]string {
			return map[string]string{
				"identifier": identifier,
			}
		})
		return ErrLoginRateLimited
	}

	return nil
}
