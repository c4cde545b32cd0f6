package transport

import (
	"context"
	"fmt"
	"sync"
)

type localConn struct {
	ch   chan []byte
	done chan struct{}
}

// LocalHub is an in-process [Pusher] for embedded single-instance use and
// tests. Each open connection is a buffered channel; consumers receive the
// raw payloads the dispatcher pushed.
type LocalHub struct {
	mu    sync.Mutex
	conns map[string]*localConn
}

var _ Pusher = (*LocalHub)(nil)

// NewLocalHub creates an empty [LocalHub].
func NewLocalHub() *LocalHub {
	return &LocalHub{
		conns: make(map[string]*localConn),
	}
}

// Open registers a connection and returns its receive channel. Opening an
// already-open connection ID closes the previous registration first.
func (h *LocalHub) Open(connectionID string, buffer int) <-chan []byte {
	if buffer <= 0 {
		buffer = 1
	}
	conn := &localConn{
		ch:   make(chan []byte, buffer),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	if prev, ok := h.conns[connectionID]; ok {
		close(prev.done)
	}
	h.conns[connectionID] = conn
	h.mu.Unlock()

	return conn.ch
}

// Close drops a connection. Pending and future pushes to it report
// [ErrConnectionGone]. Closing an unknown connection ID is a no-op.
func (h *LocalHub) Close(connectionID string) {
	h.mu.Lock()
	conn, ok := h.conns[connectionID]
	if ok {
		delete(h.conns, connectionID)
	}
	h.mu.Unlock()

	if ok {
		close(conn.done)
	}
}

// Push delivers the payload to the connection's channel. A full buffer
// blocks until space frees, the connection closes, or ctx expires.
func (h *LocalHub) Push(ctx context.Context, connectionID string, payload []byte) error {
	h.mu.Lock()
	conn, ok := h.conns[connectionID]
	h.mu.Unlock()
	if !ok {
		return ErrConnectionGone
	}

	select {
	case conn.ch <- payload:
		return nil
	case <-conn.done:
		return ErrConnectionGone
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
	}
}
