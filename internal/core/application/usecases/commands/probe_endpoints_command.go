package commands

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var ErrProbeEndpointsCommandIsNotConstructed = errors.New(
	"ProbeEndpointsCommand must be created via NewProbeEndpointsCommand constructor",
)

// ProbeEndpointsCommand represents a request to probe the reachability of
// every enabled endpoint. Issued on a fixed interval by the health monitor.
type ProbeEndpointsCommand struct {
	guard guard.ConstructorGuard
}

// NewProbeEndpointsCommand creates a command to run one probe sweep.
func NewProbeEndpointsCommand() ProbeEndpointsCommand {
	return ProbeEndpointsCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c ProbeEndpointsCommand) Validate() error {
	return c.guard.Validate(ErrProbeEndpointsCommandIsNotConstructed)
}
