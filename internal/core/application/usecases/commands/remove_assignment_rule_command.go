package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrRemoveAssignmentRuleCommandIsNotConstructed = errors.New(
	"RemoveAssignmentRuleCommand must be created via NewRemoveAssignmentRuleCommand constructor",
)

// RemoveAssignmentRuleCommand represents a request to delete one assignment.
// Removing a rule that does not exist is a no-op.
type RemoveAssignmentRuleCommand struct { //nolint:recvcheck //using for validation
	scope      assignment.Scope
	targetID   string
	endpointID kernel.UUID

	guard guard.ConstructorGuard
}

// NewRemoveAssignmentRuleCommand creates a command to remove a rule by its
// natural (scope, target, endpoint) key.
func NewRemoveAssignmentRuleCommand(
	scope assignment.Scope,
	targetID string,
	endpointID kernel.UUID,
) (RemoveAssignmentRuleCommand, error) {
	cmd := RemoveAssignmentRuleCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setScope(scope),
		cmd.setTargetID(targetID),
		cmd.setEndpointID(endpointID),
	); err != nil {
		return RemoveAssignmentRuleCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RemoveAssignmentRuleCommand) Validate() error {
	return c.guard.Validate(ErrRemoveAssignmentRuleCommandIsNotConstructed)
}

// Scope returns what the target identifier refers to.
func (c RemoveAssignmentRuleCommand) Scope() assignment.Scope {
	return c.scope
}

// TargetID returns the menu-item or category identifier.
func (c RemoveAssignmentRuleCommand) TargetID() string {
	return c.targetID
}

// EndpointID returns the destination endpoint of the rule being removed.
func (c RemoveAssignmentRuleCommand) EndpointID() kernel.UUID {
	return c.endpointID
}

func (c *RemoveAssignmentRuleCommand) setScope(scope assignment.Scope) error {
	if err := scope.Validate(); err != nil {
		return err
	}

	c.scope = scope
	return nil
}

func (c *RemoveAssignmentRuleCommand) setTargetID(targetID string) error {
	if targetID == "" {
		return ErrTargetIDIsRequired
	}

	c.targetID = targetID
	return nil
}

func (c *RemoveAssignmentRuleCommand) setEndpointID(endpointID kernel.UUID) error {
	if err := endpointID.Validate(); err != nil {
		return err
	}

	c.endpointID = endpointID
	return nil
}
