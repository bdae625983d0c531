// Package rulerepo provides data transfer objects and mapping functions for
// assignment rule persistence, including the singleton default endpoint row.
package rulerepo

import (
	"time"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// RuleDTO represents the database structure for persisting assignment rules.
// The unique index over (scope, target_id, endpoint_id) backs the store's
// idempotent-insert contract.
type RuleDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Scope      int       `gorm:"type:int;not null;uniqueIndex:idx_assignment_rule_key"`
	TargetID   string    `gorm:"type:varchar(255);not null;column:target_id;uniqueIndex:idx_assignment_rule_key"`
	EndpointID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_assignment_rule_key"`
	CreatedAt  time.Time `gorm:"type:timestamptz;not null"`
}

// TableName specifies the database table name for assignment rule entities.
func (RuleDTO) TableName() string {
	return "assignment_rules"
}

// DefaultEndpointDTO represents the singleton row holding the fallback
// endpoint. The row keyed by id = 1 either exists or the default is unset.
type DefaultEndpointDTO struct {
	ID         int       `gorm:"type:int;primaryKey"`
	EndpointID uuid.UUID `gorm:"type:uuid;not null"`
}

// TableName specifies the database table name for the default endpoint row.
func (DefaultEndpointDTO) TableName() string {
	return "default_endpoints"
}

// fromDomain converts an assignment rule to its database representation.
func fromDomain(rule *assignment.Rule) RuleDTO {
	return RuleDTO{
		ID:         rule.ID().Bytes(),
		Scope:      int(rule.Scope()),
		TargetID:   rule.TargetID(),
		EndpointID: rule.EndpointID().Bytes(),
		CreatedAt:  rule.CreatedAt(),
	}
}

// toDomain converts a database DTO to an assignment rule.
func toDomain(dto RuleDTO) (*assignment.Rule, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	endpointID, err := kernel.UUIDFromBytes(dto.EndpointID[:])
	if err != nil {
		return nil, err
	}

	return assignment.RestoreRule(id, assignment.Scope(dto.Scope), dto.TargetID, endpointID, dto.CreatedAt)
}
