// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases.
package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/endpoint"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetEndpointsQueryIsNotConstructed = errors.New(
	"GetEndpointsQuery must be created via NewGetEndpointsQuery constructor",
)

// GetEndpointsQuery retrieves every registered endpoint with its health
// bookkeeping, for the operator's device overview.
type GetEndpointsQuery struct {
	guard guard.ConstructorGuard
}

// NewGetEndpointsQuery creates a query to retrieve all endpoints.
func NewGetEndpointsQuery() GetEndpointsQuery {
	return GetEndpointsQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetEndpointsQuery) Validate() error {
	return q.guard.Validate(ErrGetEndpointsQueryIsNotConstructed)
}

// GetEndpointsQueryResponse represents one endpoint in the read model.
type GetEndpointsQueryResponse struct {
	ID                  kernel.UUID
	Name                string
	Host                string
	Port                int
	LineWidth           int
	SupportsCut         bool
	Health              endpoint.Health
	ConsecutiveFailures int
	LastSeenAt          *time.Time
	Enabled             bool
}
