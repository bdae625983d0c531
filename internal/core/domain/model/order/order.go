package order

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// ErrOrderIsNotConstructed is returned when an Order was not created via NewOrder.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder")

// Order is a finalized order snapshot: identity, an origin descriptor such as
// a table or channel label, and the ordered list of line items. An order with
// no line items is valid and resolves to an empty partition.
type Order struct {
	id       kernel.UUID
	origin   string
	placedAt time.Time
	items    []LineItem

	isConstructed bool
}

// NewOrder creates a validated order snapshot.
func NewOrder(id kernel.UUID, origin string, placedAt time.Time, items []LineItem) (*Order, error) {
	o := &Order{
		items:         append([]LineItem(nil), items...),
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setOrigin(origin),
		o.setPlacedAt(placedAt),
	); err != nil {
		return nil, err
	}

	for _, li := range o.items {
		if err := li.Validate(); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// Validate ensures the order was created through NewOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// ID returns the order identifier assigned by the order collaborator.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Origin returns the origin descriptor, e.g. "Table 12" or "Takeaway".
func (o *Order) Origin() string {
	return o.origin
}

// PlacedAt returns when the order was finalized.
func (o *Order) PlacedAt() time.Time {
	return o.placedAt
}

// Items returns the line items in their original order.
func (o *Order) Items() []LineItem {
	return append([]LineItem(nil), o.items...)
}

// IsEmpty reports whether the order carries no line items.
func (o *Order) IsEmpty() bool {
	return len(o.items) == 0
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setOrigin(origin string) error {
	if origin == "" {
		return errs.NewValueIsRequiredError("origin")
	}
	o.origin = origin
	return nil
}

func (o *Order) setPlacedAt(placedAt time.Time) error {
	if placedAt.IsZero() {
		return errs.NewValueIsRequiredError("placedAt")
	}
	o.placedAt = placedAt
	return nil
}
