package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrRegisterEndpointCommandIsNotConstructed = errors.New(
		"RegisterEndpointCommand must be created via NewRegisterEndpointCommand constructor",
	)
	ErrEndpointNameIsRequired = errors.New("name is required")
)

// RegisterEndpointCommand represents a request to register a new output
// device, either from manual configuration or from a discovery sweep.
type RegisterEndpointCommand struct { //nolint:recvcheck //using for validation
	endpointID  kernel.UUID
	name        string
	host        string
	port        int
	lineWidth   int
	supportsCut bool

	guard guard.ConstructorGuard
}

// NewRegisterEndpointCommand creates a command to register an endpoint.
// The network address and capability are validated by the handler when the
// domain value objects are built; the command only checks presence.
func NewRegisterEndpointCommand(
	endpointID kernel.UUID,
	name string,
	host string,
	port int,
	lineWidth int,
	supportsCut bool,
) (RegisterEndpointCommand, error) {
	cmd := RegisterEndpointCommand{
		port:        port,
		lineWidth:   lineWidth,
		supportsCut: supportsCut,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setEndpointID(endpointID),
		cmd.setName(name),
		cmd.setHost(host),
	); err != nil {
		return RegisterEndpointCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RegisterEndpointCommand) Validate() error {
	return c.guard.Validate(ErrRegisterEndpointCommandIsNotConstructed)
}

// EndpointID returns the identifier for the new endpoint.
func (c RegisterEndpointCommand) EndpointID() kernel.UUID {
	return c.endpointID
}

// Name returns the operator-facing display name.
func (c RegisterEndpointCommand) Name() string {
	return c.name
}

// Host returns the device's host or IP.
func (c RegisterEndpointCommand) Host() string {
	return c.host
}

// Port returns the device's TCP port.
func (c RegisterEndpointCommand) Port() int {
	return c.port
}

// LineWidth returns the declared line width in characters.
func (c RegisterEndpointCommand) LineWidth() int {
	return c.lineWidth
}

// SupportsCut reports whether the device honors a paper-cut instruction.
func (c RegisterEndpointCommand) SupportsCut() bool {
	return c.supportsCut
}

func (c *RegisterEndpointCommand) setEndpointID(endpointID kernel.UUID) error {
	if err := endpointID.Validate(); err != nil {
		return err
	}

	c.endpointID = endpointID
	return nil
}

func (c *RegisterEndpointCommand) setName(name string) error {
	if name == "" {
		return ErrEndpointNameIsRequired
	}

	c.name = name
	return nil
}

func (c *RegisterEndpointCommand) setHost(host string) error {
	if host == "" {
		return errors.New("host is required")
	}

	c.host = host
	return nil
}
