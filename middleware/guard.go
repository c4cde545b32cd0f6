package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	goRelay "github.com/MrEthical07/goRelay"
)

type decisionContextKey struct{}

func DecisionFromContext(ctx context.Context) (*goRelay.Decision, bool) {
	decision, ok := ctx.Value(decisionContextKey{}).(*goRelay.Decision)
	return decision, ok
}

func Guard(engine *goRelay.Engine, resource string) func(http.Handler) http.Handler {
	return guard(engine, func(ctx context.Context, credential string) *goRelay.Decision {
		return engine.Authorize(ctx, credential, resource)
	})
}

func guard(engine *goRelay.Engine, authorize func(context.Context, string) *goRelay.Decision) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			credential, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := r.Context()
			if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
				ctx = goRelay.WithClientIP(ctx, host)
			}

			decision := authorize(ctx, credential)
			if decision == nil || !decision.Allow {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx = context.WithValue(ctx, decisionContextKey{}, decision)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}
