package queries

import (
	"context"

	"dispatch/internal/core/domain/model/endpoint"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetEndpointsQueryHandler retrieves endpoint information from the database.
// Uses direct SQL queries for optimal read performance in the CQRS pattern.
type GetEndpointsQueryHandler struct {
	db *gorm.DB
}

// NewGetEndpointsQueryHandler creates a handler for endpoint retrieval queries.
// Requires a GORM database connection for query execution.
func NewGetEndpointsQueryHandler(db *gorm.DB) GetEndpointsQueryHandler {
	return GetEndpointsQueryHandler{db: db}
}

// Handle executes the query to retrieve all endpoints, sorted by name.
func (h GetEndpointsQueryHandler) Handle(
	ctx context.Context,
	query GetEndpointsQuery,
) ([]GetEndpointsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	endpoints := make([]GetEndpointsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			name,
			host,
			port,
			line_width,
			supports_cut,
			health,
			consecutive_failures,
			last_seen_at,
			enabled
		FROM endpoints
		ORDER BY name
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var response GetEndpointsQueryResponse
		var id uuid.UUID
		var health int

		err = rows.Scan(
			&id,
			&response.Name,
			&response.Host,
			&response.Port,
			&response.LineWidth,
			&response.SupportsCut,
			&health,
			&response.ConsecutiveFailures,
			&response.LastSeenAt,
			&response.Enabled,
		)
		if err != nil {
			return nil, err
		}

		endpointID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		response.ID = endpointID
		response.Health = endpoint.Health(health)

		endpoints = append(endpoints, response)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return endpoints, nil
}
