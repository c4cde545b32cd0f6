package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	goRelay "github.com/MrEthical07/goRelay"
	"github.com/MrEthical07/goRelay/conn"
	"github.com/MrEthical07/goRelay/session"
	"github.com/MrEthical07/goRelay/token"
	"github.com/MrEthical07/goRelay/transport"
)

var guardSigningKey = []byte("0123456789abcdef0123456789abcdef")

type staticSessions struct {
	rec *session.Record
}

func (s *staticSessions) Get(ctx context.Context, sessionID string) (*session.Record, error) {
	if s.rec != nil && s.rec.SessionID == sessionID {
		return s.rec, nil
	}
	return nil, session.ErrNotFound
}

func newGuardEngine(t *testing.T) *goRelay.Engine {
	t.Helper()

	cfg := goRelay.DefaultConfig()
	cfg.Token.PrivateKey = guardSigningKey

	now := time.Now()
	sessions := &staticSessions{rec: &session.Record{
		SessionID:  "s7",
		UserID:     "u42",
		CreatedAt:  now.Unix(),
		LastSeenAt: now.Unix(),
		ExpiresAt:  now.Add(time.Hour).Unix(),
	}}

	engine, err := goRelay.New().
		WithConfig(cfg).
		WithSessionSource(sessions).
		WithRegistry(conn.NewMemoryStore()).
		WithPusher(transport.NewLocalHub()).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine
}

func mintGuardToken(t *testing.T) string {
	t.Helper()

	tm, err := token.NewManager(token.Config{
		AccessTTL:     15 * time.Minute,
		SigningMethod: token.MethodHS256,
		PrivateKey:    guardSigningKey,
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	tok, err := tm.Create("u42", "s7", "Ada", []string{"user"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return tok
}

func TestGuardAllowsAndInjectsDecision(t *testing.T) {
	engine := newGuardEngine(t)
	tok := mintGuardToken(t)

	var seen *goRelay.Decision
	handler := Guard(engine, "chat:send")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = DecisionFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/send", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if seen == nil || !seen.Allow {
		t.Fatal("expected allow decision in request context")
	}
	if seen.Principal != "u42" {
		t.Fatalf("expected principal u42, got %q", seen.Principal)
	}
	if seen.Resource != "chat:send" {
		t.Fatalf("expected resource chat:send, got %q", seen.Resource)
	}
}

func TestGuardRejectsMissingHeader(t *testing.T) {
	engine := newGuardEngine(t)

	called := false
	handler := Guard(engine, "chat:send")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/send", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if called {
		t.Fatal("handler must not run without a credential")
	}
}

func TestGuardRejectsForgedToken(t *testing.T) {
	engine := newGuardEngine(t)

	handler := Guard(engine, "chat:send")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run for a forged credential")
	}))

	req := httptest.NewRequest(http.MethodGet, "/send", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestGuardConnectUsesWildcard(t *testing.T) {
	engine := newGuardEngine(t)
	tok := mintGuardToken(t)

	var seen *goRelay.Decision
	handler := GuardConnect(engine)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = DecisionFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/connect", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen == nil || !seen.Allow {
		t.Fatal("expected allow decision")
	}
	if seen.Resource != "*" {
		t.Fatalf("expected wildcard resource, got %q", seen.Resource)
	}
}

func TestGuardNilEngine(t *testing.T) {
	handler := Guard(nil, "chat:send")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without an engine")
	}))

	req := httptest.NewRequest(http.MethodGet, "/send", nil)
	req.Header.Set("Authorization", "Bearer anything")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
