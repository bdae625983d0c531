package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrUpdateEndpointCommandIsNotConstructed = errors.New(
	"UpdateEndpointCommand must be created via NewUpdateEndpointCommand constructor",
)

// UpdateEndpointCommand represents a configuration edit of a registered
// endpoint: display name, network address, capability, and whether the
// endpoint participates in routing. Enabling a discovered device after
// operator confirmation goes through this command.
type UpdateEndpointCommand struct { //nolint:recvcheck //using for validation
	endpointID  kernel.UUID
	name        string
	host        string
	port        int
	lineWidth   int
	supportsCut bool
	enabled     bool

	guard guard.ConstructorGuard
}

// NewUpdateEndpointCommand creates a command to update an endpoint's
// configuration. The full configuration is supplied; unchanged fields carry
// their current values.
func NewUpdateEndpointCommand(
	endpointID kernel.UUID,
	name string,
	host string,
	port int,
	lineWidth int,
	supportsCut bool,
	enabled bool,
) (UpdateEndpointCommand, error) {
	cmd := UpdateEndpointCommand{
		port:        port,
		lineWidth:   lineWidth,
		supportsCut: supportsCut,
		enabled:     enabled,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setEndpointID(endpointID),
		cmd.setName(name),
		cmd.setHost(host),
	); err != nil {
		return UpdateEndpointCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateEndpointCommand) Validate() error {
	return c.guard.Validate(ErrUpdateEndpointCommandIsNotConstructed)
}

// EndpointID returns the identifier of the endpoint to update.
func (c UpdateEndpointCommand) EndpointID() kernel.UUID {
	return c.endpointID
}

// Name returns the operator-facing display name.
func (c UpdateEndpointCommand) Name() string {
	return c.name
}

// Host returns the device's host or IP.
func (c UpdateEndpointCommand) Host() string {
	return c.host
}

// Port returns the device's TCP port.
func (c UpdateEndpointCommand) Port() int {
	return c.port
}

// LineWidth returns the declared line width in characters.
func (c UpdateEndpointCommand) LineWidth() int {
	return c.lineWidth
}

// SupportsCut reports whether the device honors a paper-cut instruction.
func (c UpdateEndpointCommand) SupportsCut() bool {
	return c.supportsCut
}

// Enabled reports whether the endpoint should participate in routing.
func (c UpdateEndpointCommand) Enabled() bool {
	return c.enabled
}

func (c *UpdateEndpointCommand) setEndpointID(endpointID kernel.UUID) error {
	if err := endpointID.Validate(); err != nil {
		return err
	}

	c.endpointID = endpointID
	return nil
}

func (c *UpdateEndpointCommand) setName(name string) error {
	if name == "" {
		return ErrEndpointNameIsRequired
	}

	c.name = name
	return nil
}

func (c *UpdateEndpointCommand) setHost(host string) error {
	if host == "" {
		return errors.New("host is required")
	}

	c.host = host
	return nil
}
