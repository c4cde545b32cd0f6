package test

import (
	"context"
	"net/http"
	"testing"

	goRelay "github.com/MrEthical07/goRelay"
	"github.com/MrEthical07/goRelay/envelope"
	"github.com/MrEthical07/goRelay/middleware"
)

// This test intentionally guards public API compile-compat for consumers.
func TestPublicAPISurfaceCompile(t *testing.T) {
	_ = goRelay.New

	var _ *goRelay.Engine
	var _ goRelay.Config
	var _ goRelay.Decision
	var _ goRelay.DecisionContext
	var _ goRelay.User
	var _ goRelay.UserProvider
	var _ goRelay.SessionSource
	var _ goRelay.AuditSink
	var _ goRelay.MetricsSnapshot

	var _ error = goRelay.ErrInvalidCredentials
	var _ error = goRelay.ErrLoginRateLimited
	var _ error = goRelay.ErrSessionNotFound
	var _ error = goRelay.ErrTokenInvalid
	var _ error = goRelay.ErrBindRejected
	var _ error = goRelay.ErrRegistryUnavailable
	var _ error = goRelay.ErrDispatchFailed
	var _ error = goRelay.ErrEngineNotReady

	var _ func(*goRelay.Engine, string) func(http.Handler) http.Handler = middleware.Guard
	var _ func(*goRelay.Engine) func(http.Handler) http.Handler = middleware.GuardConnect

	var _ func(*goRelay.Engine, context.Context, string, string) (string, error) = (*goRelay.Engine).Login
	var _ func(*goRelay.Engine, context.Context, string) error = (*goRelay.Engine).Logout
	var _ func(*goRelay.Engine, context.Context, string) error = (*goRelay.Engine).LogoutAll
	var _ func(*goRelay.Engine, context.Context, string, string) *goRelay.Decision = (*goRelay.Engine).Authorize
	var _ func(*goRelay.Engine, context.Context, string) *goRelay.Decision = (*goRelay.Engine).AuthorizeConnect
	var _ func(*goRelay.Engine, context.Context, string, string) error = (*goRelay.Engine).Bind
	var _ func(*goRelay.Engine, context.Context, string) = (*goRelay.Engine).Unbind
	var _ func(*goRelay.Engine, context.Context, string, envelope.Envelope) (bool, error) = (*goRelay.Engine).Send
	var _ func(*goRelay.Engine, context.Context, string, envelope.Envelope) (int, error) = (*goRelay.Engine).Broadcast
}
