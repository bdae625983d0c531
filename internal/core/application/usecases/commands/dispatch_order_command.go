package commands

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var (
	ErrDispatchOrderCommandIsNotConstructed = errors.New(
		"DispatchOrderCommand must be created via NewDispatchOrderCommand constructor",
	)
	ErrOriginIsRequired = errors.New("origin is required")

	// ErrOrderAlreadyDispatched is returned when a non-resend dispatch is
	// requested for an order that already has tickets. Re-prints require
	// explicit caller intent via the resend flag.
	ErrOrderAlreadyDispatched = errors.New("order was already dispatched; use resend to print again")
)

// DispatchOrderCommand represents a request to route and deliver one
// finalized order snapshot. The resend flag marks an operator-triggered
// re-print, which composes fresh tickets with an incremented sequence.
type DispatchOrderCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	origin   string
	placedAt time.Time
	items    []order.LineItem
	resend   bool

	guard guard.ConstructorGuard
}

// NewDispatchOrderCommand creates a command to dispatch an order.
// An empty item list is allowed and resolves to an empty result set.
func NewDispatchOrderCommand(
	orderID kernel.UUID,
	origin string,
	placedAt time.Time,
	items []order.LineItem,
	resend bool,
) (DispatchOrderCommand, error) {
	cmd := DispatchOrderCommand{
		items:  append([]order.LineItem(nil), items...),
		resend: resend,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setOrigin(origin),
		cmd.setPlacedAt(placedAt),
	); err != nil {
		return DispatchOrderCommand{}, err
	}

	for _, item := range cmd.items {
		if err := item.Validate(); err != nil {
			return DispatchOrderCommand{}, err
		}
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c DispatchOrderCommand) Validate() error {
	return c.guard.Validate(ErrDispatchOrderCommandIsNotConstructed)
}

// OrderID returns the order identifier assigned by the order collaborator.
func (c DispatchOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Origin returns the origin descriptor, e.g. "Table 12".
func (c DispatchOrderCommand) Origin() string {
	return c.origin
}

// PlacedAt returns when the order was finalized.
func (c DispatchOrderCommand) PlacedAt() time.Time {
	return c.placedAt
}

// Items returns the order's line items.
func (c DispatchOrderCommand) Items() []order.LineItem {
	return append([]order.LineItem(nil), c.items...)
}

// Resend reports whether this is an explicit operator-triggered re-print.
func (c DispatchOrderCommand) Resend() bool {
	return c.resend
}

func (c *DispatchOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *DispatchOrderCommand) setOrigin(origin string) error {
	if origin == "" {
		return ErrOriginIsRequired
	}

	c.origin = origin
	return nil
}

func (c *DispatchOrderCommand) setPlacedAt(placedAt time.Time) error {
	if placedAt.IsZero() {
		return errors.New("placedAt is required")
	}

	c.placedAt = placedAt
	return nil
}
