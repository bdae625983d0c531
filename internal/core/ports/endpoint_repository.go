// Package ports defines repository and transport interfaces for the dispatch
// engine. These interfaces establish contracts between the domain layer and
// infrastructure, enabling dependency inversion and testability.
package ports

import (
	"context"

	"dispatch/internal/core/domain/model/endpoint"
	"dispatch/internal/core/domain/model/kernel"
)

// EndpointRepository defines the persistence contract for endpoint aggregates.
// Provides methods for storing, retrieving, and querying registered output
// devices together with their health bookkeeping.
type EndpointRepository interface {
	// Add persists a new endpoint aggregate to storage.
	// The endpoint must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *endpoint.Endpoint) error

	// Update persists changes to an existing endpoint aggregate,
	// including health-state mutations made by the monitor.
	Update(ctx context.Context, aggregate *endpoint.Endpoint) error

	// Get retrieves an endpoint aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*endpoint.Endpoint, error)

	// GetByAddress retrieves the endpoint registered at the given network
	// address, or an object-not-found error. Used by discovery to avoid
	// re-registering known devices.
	GetByAddress(ctx context.Context, address kernel.NetworkAddress) (*endpoint.Endpoint, error)

	// GetAll retrieves every registered endpoint, enabled or not.
	GetAll(ctx context.Context) ([]*endpoint.Endpoint, error)

	// GetAllEnabled retrieves the endpoints that participate in routing
	// and probing.
	GetAllEnabled(ctx context.Context) ([]*endpoint.Endpoint, error)

	// Delete removes an endpoint permanently. Callers must check for
	// referencing assignment rules first.
	Delete(ctx context.Context, id kernel.UUID) error
}
