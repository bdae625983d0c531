package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/assignment"
)

// SetAssignmentRuleCommandHandler handles assignment rule creation.
// The target endpoint must exist; the rule's creation timestamp doubles as
// the last-write-wins conflict marker for replicated configuration.
type SetAssignmentRuleCommandHandler struct {
	uowFactory ConfigUoWFactory
}

// NewSetAssignmentRuleCommandHandler creates a handler for rule creation.
func NewSetAssignmentRuleCommandHandler(uowFactory ConfigUoWFactory) SetAssignmentRuleCommandHandler {
	return SetAssignmentRuleCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the rule creation command.
func (h *SetAssignmentRuleCommandHandler) Handle(ctx context.Context, cmd SetAssignmentRuleCommand) error {
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

	rule, err := assignment.NewRule(cmd.RuleID(), cmd.Scope(), cmd.TargetID(), cmd.EndpointID(), time.Now())
	if err != nil {
		return err
	}

	if err = uow.RuleRepository().Add(ctx, rule); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
