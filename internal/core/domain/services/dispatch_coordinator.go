package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"dispatch/internal/core/domain/model/dispatch"
	"dispatch/internal/core/domain/model/endpoint"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// ErrConcurrentDispatchRejected is returned when a dispatch for the same
// order and sequence is already in flight. The caller serializes per-order
// dispatch; this check is the engine's defense against duplicate tickets
// reaching paper when that discipline slips.
var ErrConcurrentDispatchRejected = errors.New("dispatch for this order and sequence is already in flight")

// ErrEndpointNotInSet is returned when a ticket references an endpoint the
// caller did not supply.
var ErrEndpointNotInSet = errors.New("ticket references an endpoint missing from the endpoint set")

const (
	// DefaultMaxConcurrent bounds parallel per-endpoint deliveries so a
	// dispatch burst does not saturate the shared local network.
	DefaultMaxConcurrent = 4

	// DefaultLaunchStagger paces endpoint task launches. Applied once per
	// endpoint at launch, never per retry.
	DefaultLaunchStagger = 50 * time.Millisecond

	// DefaultConnectTimeout bounds one connection attempt.
	DefaultConnectTimeout = 3 * time.Second

	// DefaultRetryBackoff is the fixed pause between attempts on the same
	// ticket.
	DefaultRetryBackoff = 500 * time.Millisecond

	// DefaultMaxAttempts is how many times one ticket is tried before the
	// result turns Failed.
	DefaultMaxAttempts = 3

	// DefaultTicketDeadline bounds the total retry time for one ticket so a
	// sequence of slow attempts cannot hold the cycle open indefinitely.
	DefaultTicketDeadline = 10 * time.Second

	// DefaultOfflineGrace is how recently an Offline endpoint must have
	// been seen to still earn a real delivery attempt instead of a
	// skipped-offline fast-fail.
	DefaultOfflineGrace = 30 * time.Second
)

// CoordinatorConfig tunes delivery pacing and retry policy.
// The zero value is replaced field by field with the defaults above.
type CoordinatorConfig struct {
	MaxConcurrent  int
	LaunchStagger  time.Duration
	ConnectTimeout time.Duration
	RetryBackoff   time.Duration
	MaxAttempts    int
	TicketDeadline time.Duration
	OfflineGrace   time.Duration
}

func (c CoordinatorConfig) withDefaults() CoordinatorConfig {
	if c.MaxConcurrent < 1 {
		c.MaxConcurrent = DefaultMaxConcurrent
	}
	if c.LaunchStagger <= 0 {
		c.LaunchStagger = DefaultLaunchStagger
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}
	if c.RetryBackoff <= 0 {
		c.RetryBackoff = DefaultRetryBackoff
	}
	if c.MaxAttempts < 1 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.TicketDeadline <= 0 {
		c.TicketDeadline = DefaultTicketDeadline
	}
	if c.OfflineGrace <= 0 {
		c.OfflineGrace = DefaultOfflineGrace
	}
	return c
}

type inflightKey struct {
	orderID  kernel.UUID
	sequence int
}

// DispatchCoordinator is a domain service that delivers composed tickets to
// their endpoints through the transport.
//
// Delivery policy:
//   - endpoints known Offline outside the grace window are fast-failed as
//     SkippedOffline without a connection attempt
//   - endpoint tasks run with bounded concurrency and a small one-time
//     launch stagger; a failure on one endpoint never blocks or aborts
//     delivery to another
//   - retries on one ticket are strictly sequential with a fixed backoff,
//     capped by both an attempt count and a per-ticket deadline
//   - retry exhaustion downgrades the endpoint's health and records a
//     Failed result retaining the last error; Dispatch itself never fails
//     for a partial delivery, it always returns the complete result list
//
// Cancelling the context prevents attempts that have not started; tickets
// whose delivery never began stay Pending in the returned list. Deliveries
// already on the wire are not recalled.
//
// A second Dispatch call for the same order and sequence while the first is
// in flight is rejected with ErrConcurrentDispatchRejected.
type DispatchCoordinator struct {
	transport ports.Transport
	cfg       CoordinatorConfig

	mu       sync.Mutex
	inflight map[inflightKey]struct{}
}

// NewDispatchCoordinator creates a coordinator using the given transport.
// Zero fields in cfg fall back to the package defaults.
func NewDispatchCoordinator(transport ports.Transport, cfg CoordinatorConfig) (*DispatchCoordinator, error) {
	if transport == nil {
		return nil, errs.NewValueIsRequiredError("transport")
	}

	return &DispatchCoordinator{
		transport: transport,
		cfg:       cfg.withDefaults(),
		inflight:  make(map[inflightKey]struct{}),
	}, nil
}

// Dispatch delivers every ticket and returns one terminal result per ticket,
// in ticket order. The endpoints map must contain an aggregate for every
// ticket's destination; the coordinator mutates endpoint health in place and
// the caller persists the changes alongside the results.
func (d *DispatchCoordinator) Dispatch(
	ctx context.Context,
	o *order.Order,
	tickets []*dispatch.Ticket,
	endpoints map[kernel.UUID]*endpoint.Endpoint,
) ([]*dispatch.Result, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if len(tickets) == 0 {
		return nil, nil
	}

	for _, t := range tickets {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		ep, ok := endpoints[t.EndpointID()]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrEndpointNotInSet, t.EndpointID())
		}
		if err := ep.Validate(); err != nil {
			return nil, err
		}
	}

	key := inflightKey{orderID: o.ID(), sequence: tickets[0].Sequence()}
	if err := d.acquire(key); err != nil {
		return nil, err
	}
	defer d.release(key)

	results := make([]*dispatch.Result, len(tickets))
	for i, t := range tickets {
		r, err := dispatch.NewResult(t.ID(), t.EndpointID())
		if err != nil {
			return nil, err
		}
		results[i] = r
	}

	var (
		wg  sync.WaitGroup
		sem = make(chan struct{}, d.cfg.MaxConcurrent)
	)

	for i, t := range tickets {
		if i > 0 && !sleepCtx(ctx, d.cfg.LaunchStagger) {
			break
		}

		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		go func(t *dispatch.Ticket, r *dispatch.Result) {
			defer wg.Done()
			defer func() { <-sem }()

			d.deliver(ctx, t, endpoints[t.EndpointID()], r)
		}(t, results[i])
	}

	wg.Wait()
	return results, nil
}

// deliver drives one ticket to a terminal outcome. Endpoint health mutations
// are safe without locking: each endpoint appears at most once per dispatch
// cycle.
func (d *DispatchCoordinator) deliver(
	ctx context.Context,
	t *dispatch.Ticket,
	ep *endpoint.Endpoint,
	r *dispatch.Result,
) {
	now := time.Now()

	if ep.ShouldFastFail(now, d.cfg.OfflineGrace) {
		_ = r.MarkSkippedOffline(now)
		return
	}

	if err := r.Begin(); err != nil {
		return
	}

	deadlineCtx, cancel := context.WithTimeout(ctx, d.cfg.TicketDeadline)
	defer cancel()

	var lastErr error
	attempts := 0

	for attempt := 1; attempt <= d.cfg.MaxAttempts; attempt++ {
		attempts = attempt

		lastErr = d.attempt(deadlineCtx, ep.Address(), t.Content())
		if lastErr == nil {
			finished := time.Now()
			_ = r.MarkDelivered(attempts, finished)
			_ = ep.RecordProbeSuccess(finished)
			return
		}

		if deadlineCtx.Err() != nil || attempt == d.cfg.MaxAttempts {
			break
		}
		if !sleepCtx(deadlineCtx, d.cfg.RetryBackoff) {
			break
		}
	}

	_ = r.MarkFailed(attempts, lastErr.Error(), time.Now())
	_ = ep.MarkUnreachable()
}

// attempt performs one connect-send-close cycle.
func (d *DispatchCoordinator) attempt(ctx context.Context, address kernel.NetworkAddress, content []byte) error {
	conn, err := d.transport.Connect(ctx, address, d.cfg.ConnectTimeout)
	if err != nil {
		return err
	}
	defer conn.Close()

	return conn.Send(content)
}

func (d *DispatchCoordinator) acquire(key inflightKey) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, busy := d.inflight[key]; busy {
		return ErrConcurrentDispatchRejected
	}
	d.inflight[key] = struct{}{}
	return nil
}

func (d *DispatchCoordinator) release(key inflightKey) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.inflight, key)
}

// sleepCtx pauses for the duration unless the context ends first.
// Reports whether the full pause elapsed.
func sleepCtx(ctx context.Context, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
