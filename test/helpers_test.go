//go:build integration
// +build integration

package test

import (
	"testing"
	"time"

	"github.com/MrEthical07/goRelay/conn"
	"github.com/MrEthical07/goRelay/session"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newIntegrationStores(t *testing.T) (*session.Store, *conn.RedisStore, *redis.Client, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessions := session.NewStore(rdb, "rs")
	bindings := conn.NewRedisStore(rdb, "rb")

	return sessions, bindings, rdb, func() {
		_ = rdb.Close()
		mr.Close()
	}
}

func makeRecord(userID, sessionID string) *session.Record {
	now := time.Now()

	return &session.Record{
		SessionID:   sessionID,
		UserID:      userID,
		DisplayName: "Integration",
		Roles:       []string{"user"},
		CreatedAt:   now.Unix(),
		LastSeenAt:  now.Unix(),
		ExpiresAt:   now.Add(time.Hour).Unix(),
	}
}

func makeBinding(userID, connectionID string) *conn.Binding {
	now := time.Now()

	return &conn.Binding{
		ConnectionID: connectionID,
		UserID:       userID,
		ConnectedAt:  now.Unix(),
		ExpiresAt:    now.Add(10 * time.Minute).Unix(),
	}
}
