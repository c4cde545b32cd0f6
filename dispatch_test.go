package goRelay

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/MrEthical07/goRelay/conn"
	"github.com/MrEthical07/goRelay/envelope"
	"github.com/MrEthical07/goRelay/transport"
)

type pushedMessage struct {
	connectionID string
	payload      []byte
}

type scriptedPusher struct {
	mu     sync.Mutex
	pushes []pushedMessage
	fail   map[string]error
}

func (p *scriptedPusher) Push(ctx context.Context, connectionID string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.pushes = append(p.pushes, pushedMessage{
		connectionID: connectionID,
		payload:      append([]byte(nil), payload...),
	})

	if p.fail != nil {
		if err, ok := p.fail[connectionID]; ok {
			return err
		}
	}
	return nil
}

func (p *scriptedPusher) pushCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pushes)
}

func newDispatchEngine(store conn.Store, pusher transport.Pusher) *Engine {
	cfg := DefaultConfig()
	cfg.Token.PrivateKey = testSigningKey
	cfg.Dispatch.PushTimeout = time.Second

	return &Engine{
		config:    cfg,
		registry:  store,
		pusher:    pusher,
		decisions: newDecisionCache(cfg.Authz.CacheWindow),
		metrics:   NewMetrics(MetricsConfig{Enabled: true}),
	}
}

func bindConnection(t *testing.T, engine *Engine, connectionID, userID string) {
	t.Helper()

	if err := engine.Bind(context.Background(), connectionID, userID); err != nil {
		t.Fatalf("Bind %s failed: %v", connectionID, err)
	}
}

func TestSendDeliversEnvelope(t *testing.T) {
	pusher := &scriptedPusher{}
	engine := newDispatchEngine(conn.NewMemoryStore(), pusher)

	delivered, err := engine.Send(context.Background(), "c-1", envelope.NewResponseChunk("m-1", "hello", true, nil))
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if !delivered {
		t.Fatal("expected delivered=true")
	}
	if pusher.pushCount() != 1 {
		t.Fatalf("expected 1 push, got %d", pusher.pushCount())
	}

	var wire struct {
		Type  string `json:"type"`
		Chunk *struct {
			MessageID string `json:"message_id"`
			Text      string `json:"text"`
			Done      bool   `json:"done"`
		} `json:"response_chunk"`
	}
	if err := json.Unmarshal(pusher.pushes[0].payload, &wire); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if wire.Type != string(envelope.KindResponseChunk) {
		t.Fatalf("expected type %q, got %q", envelope.KindResponseChunk, wire.Type)
	}
	if wire.Chunk == nil || wire.Chunk.Text != "hello" || !wire.Chunk.Done {
		t.Fatalf("unexpected chunk payload: %+v", wire.Chunk)
	}
}

func TestSendDeadPeerEvictsBinding(t *testing.T) {
	store := conn.NewMemoryStore()
	pusher := &scriptedPusher{fail: map[string]error{"c-1": transport.ErrConnectionGone}}
	engine := newDispatchEngine(store, pusher)
	bindConnection(t, engine, "c-1", "u-1")

	delivered, err := engine.Send(context.Background(), "c-1", envelope.NewTypingStatus(true))
	if err != nil {
		t.Fatalf("dead peer must not surface an error, got %v", err)
	}
	if delivered {
		t.Fatal("expected delivered=false for dead peer")
	}

	bindings, err := store.ByUser(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("ByUser failed: %v", err)
	}
	if len(bindings) != 0 {
		t.Fatalf("expected dead connection to be evicted, still have %d", len(bindings))
	}

	snap := engine.MetricsSnapshot()
	if snap.Counters[MetricSendDeadPeer] != 1 {
		t.Fatalf("expected 1 dead-peer count, got %d", snap.Counters[MetricSendDeadPeer])
	}
	if snap.Counters[MetricConnectionEvicted] != 1 {
		t.Fatalf("expected 1 eviction count, got %d", snap.Counters[MetricConnectionEvicted])
	}
}

func TestSendTransportFailurePropagates(t *testing.T) {
	store := conn.NewMemoryStore()
	pusher := &scriptedPusher{fail: map[string]error{"c-1": transport.ErrUnavailable}}
	engine := newDispatchEngine(store, pusher)
	bindConnection(t, engine, "c-1", "u-1")

	delivered, err := engine.Send(context.Background(), "c-1", envelope.NewTypingStatus(true))
	if delivered {
		t.Fatal("expected delivered=false")
	}
	if !errors.Is(err, ErrDispatchFailed) {
		t.Fatalf("expected ErrDispatchFailed, got %v", err)
	}

	// Only dead peers are evicted.
	bindings, err := store.ByUser(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("ByUser failed: %v", err)
	}
	if len(bindings) != 1 {
		t.Fatalf("expected binding to survive a transport failure, got %d", len(bindings))
	}
}

func TestSendRejectsEmptyConnectionID(t *testing.T) {
	pusher := &scriptedPusher{}
	engine := newDispatchEngine(conn.NewMemoryStore(), pusher)

	delivered, err := engine.Send(context.Background(), "", envelope.NewTypingStatus(true))
	if delivered {
		t.Fatal("expected delivered=false")
	}
	if !errors.Is(err, ErrDispatchFailed) {
		t.Fatalf("expected ErrDispatchFailed, got %v", err)
	}
	if pusher.pushCount() != 0 {
		t.Fatal("empty connection id must not reach the transport")
	}
}

func TestBroadcastZeroBindingsShortCircuits(t *testing.T) {
	pusher := &scriptedPusher{}
	engine := newDispatchEngine(conn.NewMemoryStore(), pusher)

	delivered, err := engine.Broadcast(context.Background(), "u-1", envelope.NewSystemNotice("maintenance", envelope.SeverityInfo))
	if err != nil {
		t.Fatalf("Broadcast failed: %v", err)
	}
	if delivered != 0 {
		t.Fatalf("expected 0 delivered, got %d", delivered)
	}
	if pusher.pushCount() != 0 {
		t.Fatal("zero bindings must not touch the transport")
	}

	snap := engine.MetricsSnapshot()
	if snap.Counters[MetricBroadcastEmpty] != 1 {
		t.Fatalf("expected empty-broadcast count, got %d", snap.Counters[MetricBroadcastEmpty])
	}
}

func TestBroadcastAllDelivered(t *testing.T) {
	store := conn.NewMemoryStore()
	pusher := &scriptedPusher{}
	engine := newDispatchEngine(store, pusher)
	bindConnection(t, engine, "c-1", "u-1")
	bindConnection(t, engine, "c-2", "u-1")
	bindConnection(t, engine, "c-3", "u-1")

	delivered, err := engine.Broadcast(context.Background(), "u-1", envelope.NewTypingStatus(true))
	if err != nil {
		t.Fatalf("Broadcast failed: %v", err)
	}
	if delivered != 3 {
		t.Fatalf("expected 3 delivered, got %d", delivered)
	}
	if pusher.pushCount() != 3 {
		t.Fatalf("expected 3 pushes, got %d", pusher.pushCount())
	}
}

func TestBroadcastOneDeadOneLive(t *testing.T) {
	store := conn.NewMemoryStore()
	pusher := &scriptedPusher{fail: map[string]error{"c-dead": transport.ErrConnectionGone}}
	engine := newDispatchEngine(store, pusher)
	bindConnection(t, engine, "c-live", "u-1")
	bindConnection(t, engine, "c-dead", "u-1")

	delivered, err := engine.Broadcast(context.Background(), "u-1", envelope.NewTypingStatus(false))
	if err != nil {
		t.Fatalf("dead peers must not surface an error, got %v", err)
	}
	if delivered != 1 {
		t.Fatalf("expected 1 delivered, got %d", delivered)
	}

	bindings, err := store.ByUser(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("ByUser failed: %v", err)
	}
	if len(bindings) != 1 || bindings[0].ConnectionID != "c-live" {
		t.Fatalf("expected only the live connection to remain, got %+v", bindings)
	}
}

func TestBroadcastJoinsTransportFailures(t *testing.T) {
	store := conn.NewMemoryStore()
	pusher := &scriptedPusher{fail: map[string]error{"c-2": transport.ErrUnavailable}}
	engine := newDispatchEngine(store, pusher)
	bindConnection(t, engine, "c-1", "u-1")
	bindConnection(t, engine, "c-2", "u-1")

	delivered, err := engine.Broadcast(context.Background(), "u-1", envelope.NewTypingStatus(true))
	if delivered != 1 {
		t.Fatalf("sibling delivery must not be reduced by a failure, got %d", delivered)
	}
	if !errors.Is(err, ErrDispatchFailed) {
		t.Fatalf("expected joined ErrDispatchFailed, got %v", err)
	}
}

func TestBroadcastRequiresIdentity(t *testing.T) {
	engine := newDispatchEngine(conn.NewMemoryStore(), &scriptedPusher{})

	_, err := engine.Broadcast(context.Background(), "", envelope.NewTypingStatus(true))
	if !errors.Is(err, ErrIdentityMissing) {
		t.Fatalf("expected ErrIdentityMissing, got %v", err)
	}
}

func TestBroadcastRegistryFailure(t *testing.T) {
	store := newRecordingConnStore()
	store.readErr = conn.ErrRedisUnavailable
	pusher := &scriptedPusher{}
	engine := newDispatchEngine(store, pusher)

	_, err := engine.Broadcast(context.Background(), "u-1", envelope.NewTypingStatus(true))
	if !errors.Is(err, ErrRegistryUnavailable) {
		t.Fatalf("expected ErrRegistryUnavailable, got %v", err)
	}
	if pusher.pushCount() != 0 {
		t.Fatal("registry failure must not reach the transport")
	}
}
