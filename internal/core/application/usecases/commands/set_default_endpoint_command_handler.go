package commands

import (
	"context"
)

// SetDefaultEndpointCommandHandler handles changes to the fallback endpoint.
// The endpoint must exist before it can serve as the default.
type SetDefaultEndpointCommandHandler struct {
	uowFactory ConfigUoWFactory
}

// NewSetDefaultEndpointCommandHandler creates a handler for default changes.
func NewSetDefaultEndpointCommandHandler(uowFactory ConfigUoWFactory) SetDefaultEndpointCommandHandler {
	return SetDefaultEndpointCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the set-default command.
func (h *SetDefaultEndpointCommandHandler) Handle(ctx context.Context, cmd SetDefaultEndpointCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if _, err := uow.EndpointRepository().Get(ctx, cmd.EndpointID()); err != nil {
		return err
	}

	if err := uow.RuleRepository().SetDefault(ctx, cmd.EndpointID()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
