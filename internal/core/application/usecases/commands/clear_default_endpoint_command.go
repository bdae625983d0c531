package commands

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var ErrClearDefaultEndpointCommandIsNotConstructed = errors.New(
	"ClearDefaultEndpointCommand must be created via NewClearDefaultEndpointCommand constructor",
)

// ClearDefaultEndpointCommand represents a request to unset the fallback
// endpoint. Items matching no rule then land in the unrouted bucket.
type ClearDefaultEndpointCommand struct {
	guard guard.ConstructorGuard
}

// NewClearDefaultEndpointCommand creates a command to clear the fallback.
func NewClearDefaultEndpointCommand() ClearDefaultEndpointCommand {
	return ClearDefaultEndpointCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c ClearDefaultEndpointCommand) Validate() error {
	return c.guard.Validate(ErrClearDefaultEndpointCommandIsNotConstructed)
}
