package commands

import (
	"context"
)

// RemoveEndpointCommandHandler handles endpoint deletion with referential
// protection: an endpoint referenced by rules or by the default pointer is
// only removed when the caller explicitly cascades, and an endpoint with
// ticket history is soft-disabled instead of deleted so its recorded results
// stay visible to operators.
type RemoveEndpointCommandHandler struct {
	uowFactory ConfigUoWFactory
}

// NewRemoveEndpointCommandHandler creates a handler for endpoint removal.
func NewRemoveEndpointCommandHandler(uowFactory ConfigUoWFactory) RemoveEndpointCommandHandler {
	return RemoveEndpointCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the removal command. Returns ErrReferentialConflict when
// configuration still references the endpoint and cascade was not requested.
func (h *RemoveEndpointCommandHandler) Handle(ctx context.Context, cmd RemoveEndpointCommand) error {
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

	endpointRepo := uow.EndpointRepository()
	ruleRepo := uow.RuleRepository()

	aggregate, err := endpointRepo.Get(ctx, cmd.EndpointID())
	if err != nil {
		return err
	}

	hasRules, err := ruleRepo.HasRulesFor(ctx, cmd.EndpointID())
	if err != nil {
		return err
	}

	defaultEndpoint, err := ruleRepo.GetDefault(ctx)
	if err != nil {
		return err
	}
	isDefault := defaultEndpoint != nil && defaultEndpoint.IsEqual(cmd.EndpointID())

	if (hasRules || isDefault) && !cmd.Cascade() {
		return ErrReferentialConflict
	}

	if hasRules {
		if err = ruleRepo.RemoveAllForEndpoint(ctx, cmd.EndpointID()); err != nil {
			return err
		}
	}
	if isDefault {
		if err = ruleRepo.ClearDefault(ctx); err != nil {
			return err
		}
	}

	hasHistory, err := uow.TicketRepository().HasForEndpoint(ctx, cmd.EndpointID())
	if err != nil {
		return err
	}

	if hasHistory {
		// Deleting would orphan recorded tickets and results; the endpoint
		// is retired from routing instead.
		aggregate.Disable()
		if err = endpointRepo.Update(ctx, aggregate); err != nil {
			return err
		}
	} else if err = endpointRepo.Delete(ctx, cmd.EndpointID()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
