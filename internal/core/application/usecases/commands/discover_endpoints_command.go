package commands

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var ErrDiscoverEndpointsCommandIsNotConstructed = errors.New(
	"DiscoverEndpointsCommand must be created via NewDiscoverEndpointsCommand constructor",
)

// DiscoverEndpointsCommand represents a request to sweep the local network
// for raw-print devices and register the ones not yet known.
type DiscoverEndpointsCommand struct {
	guard guard.ConstructorGuard
}

// NewDiscoverEndpointsCommand creates a command to run one discovery sweep.
func NewDiscoverEndpointsCommand() DiscoverEndpointsCommand {
	return DiscoverEndpointsCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c DiscoverEndpointsCommand) Validate() error {
	return c.guard.Validate(ErrDiscoverEndpointsCommandIsNotConstructed)
}
