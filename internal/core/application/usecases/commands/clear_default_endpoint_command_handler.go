package commands

import (
	"context"
)

// ClearDefaultEndpointCommandHandler handles removal of the fallback endpoint.
type ClearDefaultEndpointCommandHandler struct {
	uowFactory ConfigUoWFactory
}

// NewClearDefaultEndpointCommandHandler creates a handler for clearing the default.
func NewClearDefaultEndpointCommandHandler(uowFactory ConfigUoWFactory) ClearDefaultEndpointCommandHandler {
	return ClearDefaultEndpointCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the clear-default command. Clearing an unset default is a no-op.
func (h *ClearDefaultEndpointCommandHandler) Handle(ctx context.Context, cmd ClearDefaultEndpointCommand) error {
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

	if err := uow.RuleRepository().ClearDefault(ctx); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
