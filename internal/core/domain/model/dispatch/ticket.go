package dispatch

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// ErrTicketIsNotConstructed is returned when a Ticket was not created via NewTicket.
var ErrTicketIsNotConstructed = errors.New("Ticket must be created via NewTicket")

// Ticket is the rendered, destination-specific content produced for one
// endpoint for one order. Tickets are immutable once composed and never
// reused across orders; an operator-triggered resend produces a new ticket
// with an incremented sequence number.
type Ticket struct {
	id         kernel.UUID
	endpointID kernel.UUID
	orderID    kernel.UUID
	sequence   int
	content    []byte
	createdAt  time.Time

	isConstructed bool
}

// NewTicket creates a validated ticket. The sequence starts at 1 for the
// first dispatch of an order and increments on every explicit resend.
func NewTicket(
	id kernel.UUID,
	endpointID kernel.UUID,
	orderID kernel.UUID,
	sequence int,
	content []byte,
	createdAt time.Time,
) (*Ticket, error) {
	t := &Ticket{
		isConstructed: true,
	}

	if err := errors.Join(
		t.setID(id),
		t.setEndpointID(endpointID),
		t.setOrderID(orderID),
		t.setSequence(sequence),
		t.setContent(content),
		t.setCreatedAt(createdAt),
	); err != nil {
		return nil, err
	}

	return t, nil
}

// Validate ensures the ticket was created through NewTicket.
func (t *Ticket) Validate() error {
	if t == nil || !t.isConstructed {
		return ErrTicketIsNotConstructed
	}
	return nil
}

// ID returns the ticket's unique identifier.
func (t *Ticket) ID() kernel.UUID {
	return t.id
}

// EndpointID returns the destination endpoint.
func (t *Ticket) EndpointID() kernel.UUID {
	return t.endpointID
}

// OrderID returns the source order.
func (t *Ticket) OrderID() kernel.UUID {
	return t.orderID
}

// Sequence returns the dispatch sequence number for the (order, endpoint) pair.
func (t *Ticket) Sequence() int {
	return t.sequence
}

// Content returns a copy of the rendered bytes the transport sends unmodified.
func (t *Ticket) Content() []byte {
	return append([]byte(nil), t.content...)
}

// CreatedAt returns when the ticket was composed.
func (t *Ticket) CreatedAt() time.Time {
	return t.createdAt
}

func (t *Ticket) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	t.id = id
	return nil
}

func (t *Ticket) setEndpointID(endpointID kernel.UUID) error {
	if err := endpointID.Validate(); err != nil {
		return err
	}
	t.endpointID = endpointID
	return nil
}

func (t *Ticket) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	t.orderID = orderID
	return nil
}

func (t *Ticket) setSequence(sequence int) error {
	if sequence < 1 {
		return errs.NewValueIsInvalidError("sequence")
	}
	t.sequence = sequence
	return nil
}

func (t *Ticket) setContent(content []byte) error {
	if len(content) == 0 {
		return errs.NewValueIsRequiredError("content")
	}
	t.content = append([]byte(nil), content...)
	return nil
}

func (t *Ticket) setCreatedAt(createdAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("createdAt")
	}
	t.createdAt = createdAt
	return nil
}
