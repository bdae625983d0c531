package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrSetDefaultEndpointCommandIsNotConstructed = errors.New(
	"SetDefaultEndpointCommand must be created via NewSetDefaultEndpointCommand constructor",
)

// SetDefaultEndpointCommand represents a request to point the singleton
// fallback at an endpoint. Items matching no rule route here.
type SetDefaultEndpointCommand struct { //nolint:recvcheck //using for validation
	endpointID kernel.UUID

	guard guard.ConstructorGuard
}

// NewSetDefaultEndpointCommand creates a command to set the fallback endpoint.
func NewSetDefaultEndpointCommand(endpointID kernel.UUID) (SetDefaultEndpointCommand, error) {
	cmd := SetDefaultEndpointCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setEndpointID(endpointID); err != nil {
		return SetDefaultEndpointCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c SetDefaultEndpointCommand) Validate() error {
	return c.guard.Validate(ErrSetDefaultEndpointCommandIsNotConstructed)
}

// EndpointID returns the new fallback endpoint.
func (c SetDefaultEndpointCommand) EndpointID() kernel.UUID {
	return c.endpointID
}

func (c *SetDefaultEndpointCommand) setEndpointID(endpointID kernel.UUID) error {
	if err := endpointID.Validate(); err != nil {
		return err
	}

	c.endpointID = endpointID
	return nil
}
