package ports

import (
	"context"

	"dispatch/internal/core/domain/model/dispatch"
	"dispatch/internal/core/domain/model/kernel"
)

// TicketRepository defines the persistence contract for composed tickets.
// Tickets are immutable; only inserts and sequence queries exist.
type TicketRepository interface {
	// Add persists a composed ticket.
	Add(ctx context.Context, ticket *dispatch.Ticket) error

	// GetMaxSequence returns the highest dispatch sequence recorded for the
	// order, or 0 when the order was never dispatched. A resend composes
	// new tickets at this value plus one.
	GetMaxSequence(ctx context.Context, orderID kernel.UUID) (int, error)

	// HasForEndpoint reports whether any ticket was ever composed for the
	// endpoint. An endpoint with ticket history is disabled on removal
	// instead of deleted so its results stay visible.
	HasForEndpoint(ctx context.Context, endpointID kernel.UUID) (bool, error)
}

// DispatchResultRepository defines the persistence contract for terminal
// dispatch results, kept for operator visibility and audit.
type DispatchResultRepository interface {
	// Add persists a dispatch result.
	Add(ctx context.Context, result *dispatch.Result) error

	// GetAllForOrder retrieves every result recorded for the order's
	// tickets, across all sequences.
	GetAllForOrder(ctx context.Context, orderID kernel.UUID) ([]*dispatch.Result, error)
}
