package ports

import (
	"context"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
)

// RuleRepository defines the persistence contract for assignment rules and
// the singleton default endpoint.
//
// The rule set is read-mostly: resolution reloads it entirely as a snapshot,
// and writes are low-frequency configuration edits. Concurrent edits from
// replicated devices resolve last-write-wins by the rule's creation
// timestamp.
type RuleRepository interface {
	// Add persists an assignment rule. Inserting a duplicate
	// (scope, targetID, endpointID) triple is idempotent: the stored rule
	// set never contains duplicate rows and no error is returned.
	Add(ctx context.Context, rule *assignment.Rule) error

	// Remove deletes the rule matching the triple. Removing a rule that
	// does not exist is a no-op.
	Remove(ctx context.Context, scope assignment.Scope, targetID string, endpointID kernel.UUID) error

	// RemoveAllForEndpoint deletes every rule that targets the endpoint.
	// Used by cascading endpoint removal.
	RemoveAllForEndpoint(ctx context.Context, endpointID kernel.UUID) error

	// HasRulesFor reports whether any rule references the endpoint.
	HasRulesFor(ctx context.Context, endpointID kernel.UUID) (bool, error)

	// GetAll retrieves every stored rule.
	GetAll(ctx context.Context) ([]*assignment.Rule, error)

	// GetSnapshot loads the full rule set plus the default endpoint in one
	// consistent read, so a resolution never observes a half-applied edit.
	GetSnapshot(ctx context.Context) (*assignment.Snapshot, error)

	// GetDefault retrieves the fallback endpoint, or nil when none is set.
	GetDefault(ctx context.Context) (*kernel.UUID, error)

	// SetDefault replaces the fallback endpoint.
	SetDefault(ctx context.Context, endpointID kernel.UUID) error

	// ClearDefault removes the fallback endpoint. Clearing an unset
	// default is a no-op.
	ClearDefault(ctx context.Context) error
}
