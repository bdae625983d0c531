package endpoint

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// DefaultOfflineThreshold is the number of consecutive probe failures required
// before an Online endpoint is downgraded to Offline. A single missed probe is
// tolerated as a transient blip.
const DefaultOfflineThreshold = 3

// ErrEndpointIsNotConstructed is returned when an Endpoint instance was not
// created through NewEndpoint or RestoreEndpoint.
var ErrEndpointIsNotConstructed = errors.New("Endpoint must be created via NewEndpoint or RestoreEndpoint")

// Endpoint is the aggregate root for a physical output device.
//
// Invariants:
//   - identifier, address, and capability are always valid value objects
//   - the display name is never empty
//   - health fields are mutated only through the probe/unreachable methods
//   - a referenced endpoint is soft-disabled, never deleted
type Endpoint struct {
	id         kernel.UUID
	name       string
	address    kernel.NetworkAddress
	capability Capability

	health              Health
	settledHealth       Health
	consecutiveFailures int
	lastSeenAt          *time.Time

	enabled bool

	isConstructed bool
}

// NewEndpoint registers a new endpoint in Unknown health, enabled, with zero
// probe history. Registration happens either through manual configuration or
// as the result of a discovery sweep.
func NewEndpoint(id kernel.UUID, name string, address kernel.NetworkAddress, capability Capability) (*Endpoint, error) {
	e := &Endpoint{
		health:        HealthUnknown,
		settledHealth: HealthUnknown,
		enabled:       true,
		isConstructed: true,
	}

	if err := errors.Join(
		e.setID(id),
		e.setName(name),
		e.setAddress(address),
		e.setCapability(capability),
	); err != nil {
		return nil, err
	}

	return e, nil
}

// RestoreEndpoint rehydrates an endpoint from persistence, including its
// health bookkeeping. All invariants are re-validated.
func RestoreEndpoint(
	id kernel.UUID,
	name string,
	address kernel.NetworkAddress,
	capability Capability,
	health Health,
	consecutiveFailures int,
	lastSeenAt *time.Time,
	enabled bool,
) (*Endpoint, error) {
	e, err := NewEndpoint(id, name, address, capability)
	if err != nil {
		return nil, err
	}

	if err = health.Validate(); err != nil {
		return nil, err
	}
	if consecutiveFailures < 0 {
		return nil, errs.NewValueIsInvalidError("consecutiveFailures")
	}

	e.health = health
	e.settledHealth = health
	e.consecutiveFailures = consecutiveFailures
	e.lastSeenAt = lastSeenAt
	e.enabled = enabled
	return e, nil
}

// Validate ensures the endpoint was created through a constructor.
func (e *Endpoint) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrEndpointIsNotConstructed
	}
	return nil
}

// IsEqual compares endpoints by identity.
func (e *Endpoint) IsEqual(other *Endpoint) bool {
	return other != nil && e.id.IsEqual(other.id)
}

// ID returns the endpoint's unique identifier.
func (e *Endpoint) ID() kernel.UUID {
	return e.id
}

// Name returns the operator-facing display name, e.g. "Kitchen".
func (e *Endpoint) Name() string {
	return e.name
}

// Address returns the device's network address.
func (e *Endpoint) Address() kernel.NetworkAddress {
	return e.address
}

// Capability returns the device's declared rendering capability.
func (e *Endpoint) Capability() Capability {
	return e.capability
}

// Health returns the current health state.
func (e *Endpoint) Health() Health {
	return e.health
}

// ConsecutiveFailures returns the current run of failed probes.
func (e *Endpoint) ConsecutiveFailures() int {
	return e.consecutiveFailures
}

// LastSeenAt returns the time of the last successful probe or delivery,
// or nil if the endpoint has never been seen.
func (e *Endpoint) LastSeenAt() *time.Time {
	return e.lastSeenAt
}

// IsEnabled reports whether the endpoint participates in routing and probing.
func (e *Endpoint) IsEnabled() bool {
	return e.enabled
}

// Rename changes the display name.
func (e *Endpoint) Rename(name string) error {
	return e.setName(name)
}

// Relocate changes the network address after a configuration edit.
// Health history is reset since it belonged to the previous address.
func (e *Endpoint) Relocate(address kernel.NetworkAddress) error {
	if err := e.setAddress(address); err != nil {
		return err
	}

	e.health = HealthUnknown
	e.settledHealth = HealthUnknown
	e.consecutiveFailures = 0
	e.lastSeenAt = nil
	return nil
}

// Reconfigure changes the declared capability.
func (e *Endpoint) Reconfigure(capability Capability) error {
	return e.setCapability(capability)
}

// Disable removes the endpoint from routing and probing without deleting it.
// Used instead of deletion while assignment rules or results reference it.
func (e *Endpoint) Disable() {
	e.enabled = false
}

// Enable returns the endpoint to service in Unknown health so the monitor
// re-establishes reachability before dispatch trusts it.
func (e *Endpoint) Enable() {
	e.enabled = true
	e.health = HealthUnknown
	e.settledHealth = HealthUnknown
	e.consecutiveFailures = 0
}

// BeginProbe marks a reachability probe as in progress.
func (e *Endpoint) BeginProbe() error {
	h, err := e.health.BeginProbe()
	if err != nil {
		return err
	}

	e.health = h
	return nil
}

// RecordProbeSuccess marks the endpoint Online, clears the failure run, and
// stamps lastSeenAt. Called by the health monitor and after a successful
// delivery.
func (e *Endpoint) RecordProbeSuccess(at time.Time) error {
	h, err := e.health.MarkOnline()
	if err != nil {
		return err
	}

	e.health = h
	e.settledHealth = h
	e.consecutiveFailures = 0
	e.lastSeenAt = &at
	return nil
}

// RecordProbeFailure increments the consecutive-failure run and downgrades
// the endpoint to Offline once the run reaches threshold. The threshold only
// protects an established Online state from transient blips; an endpoint
// that was not Online before the run started goes Offline immediately. The
// transient Probing state set by BeginProbe does not count against the
// endpoint: what matters is the last settled state.
func (e *Endpoint) RecordProbeFailure(threshold int) error {
	if threshold < 1 {
		return errs.NewValueIsOutOfRangeError("threshold", threshold, 1, int(^uint(0)>>1))
	}

	e.consecutiveFailures++

	if e.settledHealth == HealthOnline && e.consecutiveFailures < threshold {
		e.health = HealthOnline
		return nil
	}

	h, err := e.health.MarkOffline()
	if err != nil {
		return err
	}

	e.health = h
	e.settledHealth = h
	return nil
}

// MarkUnreachable downgrades the endpoint to Offline immediately.
// Called by the dispatch coordinator after retry exhaustion.
func (e *Endpoint) MarkUnreachable() error {
	h, err := e.health.MarkOffline()
	if err != nil {
		return err
	}

	e.health = h
	e.settledHealth = h
	return nil
}

// ShouldFastFail reports whether dispatch should skip this endpoint without
// attempting a connection: it is Offline and no probe has succeeded within
// the grace window. A recently-seen Offline endpoint still gets one real
// attempt, since the monitor may simply be behind.
func (e *Endpoint) ShouldFastFail(now time.Time, grace time.Duration) bool {
	if e.health != HealthOffline {
		return false
	}
	if e.lastSeenAt == nil {
		return true
	}
	return now.Sub(*e.lastSeenAt) > grace
}

func (e *Endpoint) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	e.id = id
	return nil
}

func (e *Endpoint) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	e.name = name
	return nil
}

func (e *Endpoint) setAddress(address kernel.NetworkAddress) error {
	if err := address.Validate(); err != nil {
		return err
	}
	e.address = address
	return nil
}

func (e *Endpoint) setCapability(capability Capability) error {
	if err := capability.Validate(); err != nil {
		return err
	}
	e.capability = capability
	return nil
}
