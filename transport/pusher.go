package transport

import (
	"context"
	"errors"
)

// ErrConnectionGone reports that the peer behind a connection ID is no
// longer reachable and will never be again. Dispatchers treat this as an
// eviction signal, not a failure.
var ErrConnectionGone = errors.New("connection gone")

// ErrUnavailable is an exported constant or variable used by the relay engine.
var ErrUnavailable = errors.New("transport unavailable")

// Pusher delivers an opaque payload to the peer behind a connection ID.
//
// Implementations return [ErrConnectionGone] when the connection is
// permanently closed and wrap [ErrUnavailable] for transient delivery
// failures. Push honors ctx cancellation and deadlines.
type Pusher interface {
	Push(ctx context.Context, connectionID string, payload []byte) error
}
