package queries

import (
	"context"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetAssignmentRulesQueryHandler retrieves the assignment configuration from
// the database with direct SQL for read performance.
type GetAssignmentRulesQueryHandler struct {
	db *gorm.DB
}

// NewGetAssignmentRulesQueryHandler creates a handler for configuration queries.
func NewGetAssignmentRulesQueryHandler(db *gorm.DB) GetAssignmentRulesQueryHandler {
	return GetAssignmentRulesQueryHandler{db: db}
}

// Handle executes the query, returning rules sorted by scope and target so
// the operator sees a stable listing.
func (h GetAssignmentRulesQueryHandler) Handle(
	ctx context.Context,
	query GetAssignmentRulesQuery,
) (GetAssignmentRulesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetAssignmentRulesQueryResponse{}, err
	}

	response := GetAssignmentRulesQueryResponse{
		Rules: make([]AssignmentRuleResponse, 0),
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			scope,
			target_id,
			endpoint_id,
			created_at
		FROM assignment_rules
		ORDER BY scope, target_id, created_at
	`).Rows()
	if err != nil {
		return GetAssignmentRulesQueryResponse{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var rule AssignmentRuleResponse
		var id, endpointID uuid.UUID
		var scope int

		err = rows.Scan(
			&id,
			&scope,
			&rule.TargetID,
			&endpointID,
			&rule.CreatedAt,
		)
		if err != nil {
			return GetAssignmentRulesQueryResponse{}, err
		}

		ruleID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return GetAssignmentRulesQueryResponse{}, idErr
		}
		targetEndpointID, idErr := kernel.UUIDFromBytes(endpointID[:])
		if idErr != nil {
			return GetAssignmentRulesQueryResponse{}, idErr
		}

		rule.ID = ruleID
		rule.EndpointID = targetEndpointID
		rule.Scope = assignment.Scope(scope)
		response.Rules = append(response.Rules, rule)
	}

	if err = rows.Err(); err != nil {
		return GetAssignmentRulesQueryResponse{}, err
	}

	var defaultID *uuid.UUID
	row := h.db.WithContext(ctx).Raw(`
		SELECT endpoint_id FROM default_endpoints WHERE id = 1
	`).Row()
	if err = row.Scan(&defaultID); err == nil && defaultID != nil {
		id, idErr := kernel.UUIDFromBytes(defaultID[:])
		if idErr != nil {
			return GetAssignmentRulesQueryResponse{}, idErr
		}
		response.DefaultEndpointID = &id
	}

	return response, nil
}
