package queries

import (
	"context"
	"database/sql"

	"dispatch/internal/core/domain/model/dispatch"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetDispatchResultsQueryHandler retrieves per-endpoint delivery outcomes
// for one order, joining results with their tickets and endpoint names.
type GetDispatchResultsQueryHandler struct {
	db *gorm.DB
}

// NewGetDispatchResultsQueryHandler creates a handler for result queries.
func NewGetDispatchResultsQueryHandler(db *gorm.DB) GetDispatchResultsQueryHandler {
	return GetDispatchResultsQueryHandler{db: db}
}

// Handle executes the query. Results come back newest sequence first so the
// operator sees the latest dispatch attempt on top.
func (h GetDispatchResultsQueryHandler) Handle(
	ctx context.Context,
	query GetDispatchResultsQuery,
) ([]GetDispatchResultsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	results := make([]GetDispatchResultsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			r.ticket_id,
			r.endpoint_id,
			e.name,
			t.sequence,
			r.outcome,
			r.attempts,
			r.last_error,
			r.finished_at
		FROM dispatch_results r
		JOIN tickets t ON t.id = r.ticket_id
		JOIN endpoints e ON e.id = r.endpoint_id
		WHERE t.order_id = ?
		ORDER BY t.sequence DESC, e.name
	`, query.OrderID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var response GetDispatchResultsQueryResponse
		var ticketID, endpointID uuid.UUID
		var outcome int
		var lastError sql.NullString

		err = rows.Scan(
			&ticketID,
			&endpointID,
			&response.EndpointName,
			&response.Sequence,
			&outcome,
			&response.Attempts,
			&lastError,
			&response.FinishedAt,
		)
		if err != nil {
			return nil, err
		}

		tid, idErr := kernel.UUIDFromBytes(ticketID[:])
		if idErr != nil {
			return nil, idErr
		}
		eid, idErr := kernel.UUIDFromBytes(endpointID[:])
		if idErr != nil {
			return nil, idErr
		}

		response.TicketID = tid
		response.EndpointID = eid
		response.Outcome = dispatch.Outcome(outcome)
		response.LastError = lastError.String
		results = append(results, response)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}
