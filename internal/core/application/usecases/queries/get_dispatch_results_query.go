package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/dispatch"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetDispatchResultsQueryIsNotConstructed = errors.New(
	"GetDispatchResultsQuery must be created via NewGetDispatchResultsQuery constructor",
)

// GetDispatchResultsQuery retrieves the delivery outcomes recorded for one
// order across every dispatch sequence, so an operator can attribute
// success and failure per endpoint and selectively resend.
type GetDispatchResultsQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetDispatchResultsQuery creates a query for one order's results.
func NewGetDispatchResultsQuery(orderID kernel.UUID) (GetDispatchResultsQuery, error) {
	query := GetDispatchResultsQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := query.setOrderID(orderID); err != nil {
		return GetDispatchResultsQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q GetDispatchResultsQuery) Validate() error {
	return q.guard.Validate(ErrGetDispatchResultsQueryIsNotConstructed)
}

// OrderID returns the order whose results are requested.
func (q GetDispatchResultsQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q *GetDispatchResultsQuery) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	q.orderID = orderID
	return nil
}

// GetDispatchResultsQueryResponse represents one ticket's outcome in the
// read model, joined with its ticket metadata.
type GetDispatchResultsQueryResponse struct {
	TicketID     kernel.UUID
	EndpointID   kernel.UUID
	EndpointName string
	Sequence     int
	Outcome      dispatch.Outcome
	Attempts     int
	LastError    string
	FinishedAt   *time.Time
}
