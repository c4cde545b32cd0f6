package goRelay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/MrEthical07/goRelay/envelope"
	"github.com/MrEthical07/goRelay/transport"
)

// Send describes the send operation and its observable behavior.
//
// Send reports whether the envelope reached the connection. A dead peer is
// not an error: the binding is evicted and Send returns (false, nil).
// Send may return an error when input validation, dependency calls, or security checks fail.
// Send does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Send(ctx context.Context, connectionID string, env envelope.Envelope) (bool, error) {
	if connectionID == "" {
		return false, fmt.Errorf("%w: empty connection id", ErrDispatchFailed)
	}

	payload, err := json.Marshal(env)
	if err != nil {
		e.metricInc(MetricSendFailure)
		return false, fmt.Errorf("%w: %v", ErrDispatchFailed, err)
	}

	return e.pushTo(ctx, connectionID, "", payload)
}

// Broadcast describes the broadcast operation and its observable behavior.
//
// Broadcast delivers the envelope to every live connection bound to the user
// and reports how many pushes succeeded. All pushes are attempted even when
// some fail; non-dead-peer failures are joined into the returned error.
// Broadcast may return an error when input validation, dependency calls, or security checks fail.
// Broadcast does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Broadcast(ctx context.Context, userID string, env envelope.Envelope) (int, error) {
	if userID == "" {
		return 0, ErrIdentityMissing
	}

	bindings, err := e.registry.ByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRegistryUnavailable, err)
	}
	if len(bindings) == 0 {
		e.metricInc(MetricBroadcastEmpty)
		return 0, nil
	}

	payload, err := json.Marshal(env)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDispatchFailed, err)
	}

	type pushResult struct {
		delivered bool
		err       error
	}

	results := make([]pushResult, len(bindings))

	var wg sync.WaitGroup
	for i, binding := range bindings {
		i, binding := i, binding
		wg.Add(1)
		go func() {
			defer wg.Done()
			delivered, pushErr := e.pushTo(ctx, binding.ConnectionID, userID, payload)
			results[i] = pushResult{delivered: delivered, err: pushErr}
		}()
	}
	wg.Wait()

	delivered := 0
	var errs []error
	for _, result := range results {
		if result.delivered {
			delivered++
		}
		if result.err != nil {
			errs = append(errs, result.err)
		}
	}

	e.metricInc(MetricBroadcast)

	return delivered, errors.Join(errs...)
}

// pushTo performs a single bounded push and settles its outcome: delivered,
// dead peer (evicted, no error), or failure.
func (e *Engine) pushTo(ctx context.Context, connectionID, userID string, payload []byte) (bool, error) {
	if e.metrics != nil && e.metrics.LatencyEnabled() {
		start := time.Now()
		defer e.metrics.Observe(MetricSendLatency, time.Since(start))
	}

	pushCtx, cancel := context.WithTimeout(ctx, e.config.Dispatch.PushTimeout)
	defer cancel()

	err := e.pusher.Push(pushCtx, connectionID, payload)
	if err == nil {
		e.metricInc(MetricSendDelivered)
		return true, nil
	}

	if errors.Is(err, transport.ErrConnectionGone) {
		e.evictConnection(ctx, connectionID, userID)
		e.metricInc(MetricSendDeadPeer)
		return false, nil
	}

	e.metricInc(MetricSendFailure)
	e.emitAudit(ctx, auditEventPushFailed, false, userID, "", connectionID, "", err, nil)

	return false, fmt.Errorf("%w: %v", ErrDispatchFailed, err)
}

func (e *Engine) evictConnection(ctx context.Context, connectionID, userID string) {
	if err := e.registry.Delete(ctx, connectionID); err != nil {
		log.Print("goRelay: dead connection eviction failed")
	}

	e.metricInc(MetricConnectionEvicted)
	e.emitAudit(ctx, auditEventConnectionEvicted, true, userID, "", connectionID, "", transport.ErrConnectionGone, nil)
}
