package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrSetAssignmentRuleCommandIsNotConstructed = errors.New(
		"SetAssignmentRuleCommand must be created via NewSetAssignmentRuleCommand constructor",
	)
	ErrTargetIDIsRequired = errors.New("targetID is required")
)

// SetAssignmentRuleCommand represents a request to assign a routing key
// (a menu item or a category) to an endpoint. Setting a rule that already
// exists is idempotent.
type SetAssignmentRuleCommand struct { //nolint:recvcheck //using for validation
	ruleID     kernel.UUID
	scope      assignment.Scope
	targetID   string
	endpointID kernel.UUID

	guard guard.ConstructorGuard
}

// NewSetAssignmentRuleCommand creates a command to set an assignment rule.
func NewSetAssignmentRuleCommand(
	ruleID kernel.UUID,
	scope assignment.Scope,
	targetID string,
	endpointID kernel.UUID,
) (SetAssignmentRuleCommand, error) {
	cmd := SetAssignmentRuleCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setRuleID(ruleID),
		cmd.setScope(scope),
		cmd.setTargetID(targetID),
		cmd.setEndpointID(endpointID),
	); err != nil {
		return SetAssignmentRuleCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c SetAssignmentRuleCommand) Validate() error {
	return c.guard.Validate(ErrSetAssignmentRuleCommandIsNotConstructed)
}

// RuleID returns the identifier for the new rule row.
func (c SetAssignmentRuleCommand) RuleID() kernel.UUID {
	return c.ruleID
}

// Scope returns what the target identifier refers to.
func (c SetAssignmentRuleCommand) Scope() assignment.Scope {
	return c.scope
}

// TargetID returns the menu-item or category identifier.
func (c SetAssignmentRuleCommand) TargetID() string {
	return c.targetID
}

// EndpointID returns the destination endpoint.
func (c SetAssignmentRuleCommand) EndpointID() kernel.UUID {
	return c.endpointID
}

func (c *SetAssignmentRuleCommand) setRuleID(ruleID kernel.UUID) error {
	if err := ruleID.Validate(); err != nil {
		return err
	}

	c.ruleID = ruleID
	return nil
}

func (c *SetAssignmentRuleCommand) setScope(scope assignment.Scope) error {
	if err := scope.Validate(); err != nil {
		return err
	}

	c.scope = scope
	return nil
}

func (c *SetAssignmentRuleCommand) setTargetID(targetID string) error {
	if targetID == "" {
		return ErrTargetIDIsRequired
	}

	c.targetID = targetID
	return nil
}

func (c *SetAssignmentRuleCommand) setEndpointID(endpointID kernel.UUID) error {
	if err := endpointID.Validate(); err != nil {
		return err
	}

	c.endpointID = endpointID
	return nil
}
