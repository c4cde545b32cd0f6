package middleware

import (
	"context"
	"net/http"

	goRelay "github.com/MrEthical07/goRelay"
)

// GuardConnect returns middleware that authorizes the request against the
// configured connect wildcard instead of a named resource. Mount it on the
// endpoint that upgrades or subscribes realtime connections.
func GuardConnect(engine *goRelay.Engine) func(http.Handler) http.Handler {
	return guard(engine, func(ctx context.Context, credential string) *goRelay.Decision {
		return engine.AuthorizeConnect(ctx, credential)
	})
}
