package commands

import (
	"context"

	"dispatch/internal/core/domain/model/endpoint"
	"dispatch/internal/core/domain/model/kernel"
)

// UpdateEndpointCommandHandler handles endpoint configuration edits.
// Relocating to a new address resets health history, as does enabling a
// disabled endpoint; the monitor re-establishes reachability on its next
// tick. Edits that keep the address untouched preserve the health state.
type UpdateEndpointCommandHandler struct {
	uowFactory EndpointUoWFactory
}

// NewUpdateEndpointCommandHandler creates a handler for endpoint updates.
func NewUpdateEndpointCommandHandler(uowFactory EndpointUoWFactory) UpdateEndpointCommandHandler {
	return UpdateEndpointCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the update command.
func (h *UpdateEndpointCommandHandler) Handle(ctx context.Context, cmd UpdateEndpointCommand) error {
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

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.EndpointRepository().Get(ctx, cmd.EndpointID())
	if err != nil {
		return err
	}

	if err = aggregate.Rename(cmd.Name()); err != nil {
		return err
	}
	if err = aggregate.Reconfigure(capability); err != nil {
		return err
	}

	sameAddress, err := aggregate.Address().IsEqual(address)
	if err != nil {
		return err
	}
	if !sameAddress {
		if err = aggregate.Relocate(address); err != nil {
			return err
		}
	}

	// Toggling only on change keeps Enable's health reset from firing on
	// every unrelated edit.
	if cmd.Enabled() != aggregate.IsEnabled() {
		if cmd.Enabled() {
			aggregate.Enable()
		} else {
			aggregate.Disable()
		}
	}

	if err = uow.EndpointRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
