package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrRemoveEndpointCommandIsNotConstructed = errors.New(
		"RemoveEndpointCommand must be created via NewRemoveEndpointCommand constructor",
	)

	// ErrReferentialConflict is returned when removing an endpoint that is
	// still referenced by assignment rules or the default pointer and the
	// caller did not request a cascade.
	ErrReferentialConflict = errors.New("endpoint is referenced by assignment configuration")
)

// RemoveEndpointCommand represents a request to delete an endpoint.
// When cascade is set, referencing rules and a matching default pointer are
// removed in the same transaction instead of blocking the deletion.
type RemoveEndpointCommand struct { //nolint:recvcheck //using for validation
	endpointID kernel.UUID
	cascade    bool

	guard guard.ConstructorGuard
}

// NewRemoveEndpointCommand creates a command to remove an endpoint.
func NewRemoveEndpointCommand(endpointID kernel.UUID, cascade bool) (RemoveEndpointCommand, error) {
	cmd := RemoveEndpointCommand{
		cascade: cascade,
		guard:   guard.NewConstructorGuard(),
	}

	if err := cmd.setEndpointID(endpointID); err != nil {
		return RemoveEndpointCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RemoveEndpointCommand) Validate() error {
	return c.guard.Validate(ErrRemoveEndpointCommandIsNotConstructed)
}

// EndpointID returns the endpoint to remove.
func (c RemoveEndpointCommand) EndpointID() kernel.UUID {
	return c.endpointID
}

// Cascade reports whether referencing configuration should be removed too.
func (c RemoveEndpointCommand) Cascade() bool {
	return c.cascade
}

func (c *RemoveEndpointCommand) setEndpointID(endpointID kernel.UUID) error {
	if err := endpointID.Validate(); err != nil {
		return err
	}

	c.endpointID = endpointID
	return nil
}
