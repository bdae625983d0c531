package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetAssignmentRulesQueryIsNotConstructed = errors.New(
	"GetAssignmentRulesQuery must be created via NewGetAssignmentRulesQuery constructor",
)

// GetAssignmentRulesQuery retrieves the full assignment configuration: every
// rule plus the fallback endpoint.
type GetAssignmentRulesQuery struct {
	guard guard.ConstructorGuard
}

// NewGetAssignmentRulesQuery creates a query to retrieve the configuration.
func NewGetAssignmentRulesQuery() GetAssignmentRulesQuery {
	return GetAssignmentRulesQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetAssignmentRulesQuery) Validate() error {
	return q.guard.Validate(ErrGetAssignmentRulesQueryIsNotConstructed)
}

// AssignmentRuleResponse represents one rule in the read model.
type AssignmentRuleResponse struct {
	ID         kernel.UUID
	Scope      assignment.Scope
	TargetID   string
	EndpointID kernel.UUID
	CreatedAt  time.Time
}

// GetAssignmentRulesQueryResponse represents the whole configuration.
// DefaultEndpointID is nil when no fallback is configured.
type GetAssignmentRulesQueryResponse struct {
	Rules             []AssignmentRuleResponse
	DefaultEndpointID *kernel.UUID
}
