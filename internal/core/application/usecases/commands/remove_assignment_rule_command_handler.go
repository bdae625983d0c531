package commands

import (
	"context"
)

// RemoveAssignmentRuleCommandHandler handles assignment rule removal.
type RemoveAssignmentRuleCommandHandler struct {
	uowFactory ConfigUoWFactory
}

// NewRemoveAssignmentRuleCommandHandler creates a handler for rule removal.
func NewRemoveAssignmentRuleCommandHandler(uowFactory ConfigUoWFactory) RemoveAssignmentRuleCommandHandler {
	return RemoveAssignmentRuleCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the rule removal command.
func (h *RemoveAssignmentRuleCommandHandler) Handle(ctx context.Context, cmd RemoveAssignmentRuleCommand) error {
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

	if err := uow.RuleRepository().Remove(ctx, cmd.Scope(), cmd.TargetID(), cmd.EndpointID()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
