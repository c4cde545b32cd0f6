package test

import (
	"context"

	goRelay "github.com/MrEthical07/goRelay"
	"github.com/MrEthical07/goRelay/envelope"
	"github.com/MrEthical07/goRelay/transport"
	"github.com/redis/go-redis/v9"
)

// ExampleNew demonstrates engine construction with production-style dependencies.
func ExampleNew() {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:6379"})
	provider := &exampleUserProvider{}

	cfg := goRelay.DefaultConfig()
	cfg.Token.PrivateKey = []byte("example-signing-key-32-bytes-ok!")

	engine, _ := goRelay.New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithPusher(transport.NewLocalHub()).
		WithUserProvider(provider).
		Build()
	_ = engine
}

// ExampleEngine_Authorize shows the per-message authorization call on the
// dispatch path.
func ExampleEngine_Authorize() {
	var engine *goRelay.Engine
	decision := engine.Authorize(context.Background(), "access-token", "chat:send")
	if decision.Allow {
		_ = decision.Principal
	}
}

// ExampleEngine_Broadcast shows pushing an envelope to every connection a
// user has open.
func ExampleEngine_Broadcast() {
	var engine *goRelay.Engine
	delivered, err := engine.Broadcast(context.Background(), "user-1", envelope.NewTypingStatus(true))
	if err != nil {
		_ = err
	}
	_ = delivered
}

// ExampleEngine_MetricsSnapshot shows how to read in-process metrics counters.
func ExampleEngine_MetricsSnapshot() {
	var engine *goRelay.Engine
	snapshot := engine.MetricsSnapshot()
	_ = snapshot
}

type exampleUserProvider struct{}

func (e *exampleUserProvider) GetUserByIdentifier(ctx context.Context, identifier string) (goRelay.User, error) {
	return goRelay.User{}, goRelay.ErrUserNotFound
}
