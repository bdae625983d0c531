package assignment

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// ErrRuleIsNotConstructed is returned when a Rule instance was not created
// through NewRule or RestoreRule.
var ErrRuleIsNotConstructed = errors.New("Rule must be created via NewRule or RestoreRule")

// Rule maps a routing key (a menu item or a category) to one endpoint.
// Several rules may share the same routing key, which fans the item out to
// several endpoints. For one (scope, target) pair at most one rule per
// endpoint is active; the store enforces idempotent insertion.
//
// Rules are replicated across tenant devices by an external collaborator with
// last-write-wins semantics, so CreatedAt doubles as the conflict-resolution
// timestamp.
type Rule struct {
	id         kernel.UUID
	scope      Scope
	targetID   string
	endpointID kernel.UUID
	createdAt  time.Time

	isConstructed bool
}

// NewRule creates a validated rule. The target identifier is the external
// menu-item or category identifier and must be non-empty.
func NewRule(id kernel.UUID, scope Scope, targetID string, endpointID kernel.UUID, createdAt time.Time) (*Rule, error) {
	r := &Rule{
		isConstructed: true,
	}

	if err := errors.Join(
		r.setID(id),
		r.setScope(scope),
		r.setTargetID(targetID),
		r.setEndpointID(endpointID),
		r.setCreatedAt(createdAt),
	); err != nil {
		return nil, err
	}

	return r, nil
}

// RestoreRule rehydrates a rule from persistence.
func RestoreRule(id kernel.UUID, scope Scope, targetID string, endpointID kernel.UUID, createdAt time.Time) (*Rule, error) {
	return NewRule(id, scope, targetID, endpointID, createdAt)
}

// Validate ensures the rule was created through a constructor.
func (r *Rule) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRuleIsNotConstructed
	}
	return nil
}

// ID returns the rule's unique identifier.
func (r *Rule) ID() kernel.UUID {
	return r.id
}

// Scope returns what the target identifier refers to.
func (r *Rule) Scope() Scope {
	return r.scope
}

// TargetID returns the menu-item or category identifier the rule matches.
func (r *Rule) TargetID() string {
	return r.targetID
}

// EndpointID returns the destination endpoint.
func (r *Rule) EndpointID() kernel.UUID {
	return r.endpointID
}

// CreatedAt returns the rule's creation (and conflict-resolution) timestamp.
func (r *Rule) CreatedAt() time.Time {
	return r.createdAt
}

// Key returns the natural uniqueness key of the rule. Two rules with the same
// key are the same logical assignment regardless of their row identity.
func (r *Rule) Key() string {
	return fmt.Sprintf("%s|%s|%s", r.scope, r.targetID, r.endpointID)
}

func (r *Rule) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.id = id
	return nil
}

func (r *Rule) setScope(scope Scope) error {
	if err := scope.Validate(); err != nil {
		return err
	}
	r.scope = scope
	return nil
}

func (r *Rule) setTargetID(targetID string) error {
	if targetID == "" {
		return errs.NewValueIsRequiredError("targetID")
	}
	r.targetID = targetID
	return nil
}

func (r *Rule) setEndpointID(endpointID kernel.UUID) error {
	if err := endpointID.Validate(); err != nil {
		return err
	}
	r.endpointID = endpointID
	return nil
}

func (r *Rule) setCreatedAt(createdAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("createdAt")
	}
	r.createdAt = createdAt
	return nil
}
