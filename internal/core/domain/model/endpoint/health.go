package endpoint

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Health represents the reachability state of an endpoint as maintained by the
// health monitor.
//
// State transitions:
//
//	Unknown ──> Probing ──> (Online | Offline)
//	Online  ──> Offline   (after a consecutive-failure threshold)
//	Offline ──> Probing   (re-probed on every monitor tick, recovery is automatic)
//
// The zero value (0) is invalid and helps catch uninitialized Health values.
type Health int

const (
	// HealthUnknown is the initial state of a newly registered endpoint that
	// has not been probed yet.
	HealthUnknown Health = iota + 1

	// HealthProbing indicates a reachability probe is in progress.
	HealthProbing

	// HealthOnline indicates the last probe (or delivery) succeeded.
	HealthOnline

	// HealthOffline indicates the endpoint is considered unreachable.
	HealthOffline
)

func getHealthStrings() map[Health]string {
	return map[Health]string{
		HealthUnknown: "Unknown",
		HealthProbing: "Probing",
		HealthOnline:  "Online",
		HealthOffline: "Offline",
	}
}

// Validate checks that the Health value is one of the defined states.
// Used when rehydrating endpoints from persistence.
func (h Health) Validate() error {
	if _, ok := getHealthStrings()[h]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("health is invalid",
			fmt.Errorf("%d is not a valid health state", h))
	}
	return nil
}

// String returns the human-readable name of the health state.
// Implements fmt.Stringer and is safe to call on invalid values.
func (h Health) String() string {
	if str, ok := getHealthStrings()[h]; ok {
		return str
	}
	return "Invalid"
}

// BeginProbe transitions to Probing. Every valid state may be probed: offline
// endpoints are eligible for re-probe on each monitor tick so recovery is
// automatic.
func (h Health) BeginProbe() (Health, error) {
	if err := h.Validate(); err != nil {
		return 0, err
	}
	return HealthProbing, nil
}

// MarkOnline transitions to Online. Any valid state may become Online: a probe
// success always proves reachability regardless of previous state.
func (h Health) MarkOnline() (Health, error) {
	if err := h.Validate(); err != nil {
		return 0, err
	}
	return HealthOnline, nil
}

// MarkOffline transitions to Offline. Any valid state may become Offline;
// callers decide whether a single miss suffices (dispatch retry exhaustion)
// or a consecutive-failure threshold applies (health monitor).
func (h Health) MarkOffline() (Health, error) {
	if err := h.Validate(); err != nil {
		return 0, err
	}
	return HealthOffline, nil
}
