package commands

import (
	"context"

	"dispatch/internal/core/domain/model/endpoint"
	"dispatch/internal/core/domain/model/kernel"
)

// RegisterEndpointCommandHandler handles endpoint registration.
// New endpoints start in Unknown health; the monitor establishes
// reachability on its next probe tick.
type RegisterEndpointCommandHandler struct {
	uowFactory EndpointUoWFactory
}

// NewRegisterEndpointCommandHandler creates a handler for endpoint registration.
func NewRegisterEndpointCommandHandler(uowFactory EndpointUoWFactory) RegisterEndpointCommandHandler {
	return RegisterEndpointCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the registration command.
func (h *RegisterEndpointCommandHandler) Handle(ctx context.Context, cmd RegisterEndpointCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	address, err := kernel.NewNetworkAddress(cmd.Host(), cmd.Port())
	if err != nil {
		return err
	}

	capability, err := endpoint.NewCapability(cmd.LineWidth(), cmd.SupportsCut())
	if err != nil {
		return err
	}

	aggregate, err := endpoint.NewEndpoint(cmd.EndpointID(), cmd.Name(), address, capability)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.EndpointRepository().Add(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
