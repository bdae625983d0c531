package order

import (
	"errors"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// ErrLineItemIsNotConstructed is returned when a LineItem was not created via
// NewLineItem.
var ErrLineItemIsNotConstructed = errors.New("LineItem must be created via NewLineItem")

// LineItem is one ordered line of a finalized order. Two line items with
// identical content are still distinct: routing preserves line-item identity
// and never merges them, so kitchen tickets can be reconstructed
// deterministically.
type LineItem struct { //nolint:recvcheck //using for validation
	id         string
	menuItemID string
	categoryID string
	quantity   int
	name       string
	modifiers  []string
	notes      string

	guard guard.ConstructorGuard
}

// NewLineItem creates a validated line item. The line identifier, menu-item
// identifier, and display name are required; the category may be empty for
// uncategorized items (category rules then simply cannot match). Quantity
// must be at least 1.
func NewLineItem(
	id string,
	menuItemID string,
	categoryID string,
	quantity int,
	name string,
	modifiers []string,
	notes string,
) (LineItem, error) {
	li := LineItem{
		categoryID: categoryID,
		modifiers:  append([]string(nil), modifiers...),
		notes:      notes,
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		li.setID(id),
		li.setMenuItemID(menuItemID),
		li.setQuantity(quantity),
		li.setName(name),
	); err != nil {
		return LineItem{}, err
	}

	return li, nil
}

// Validate checks that the line item was built through NewLineItem.
func (li LineItem) Validate() error {
	return li.guard.Validate(ErrLineItemIsNotConstructed)
}

// ID returns the line item's identity within its order.
func (li LineItem) ID() string {
	return li.id
}

// MenuItemID returns the menu-item identifier used by item-scoped rules.
func (li LineItem) MenuItemID() string {
	return li.menuItemID
}

// CategoryID returns the category identifier used by category-scoped rules,
// or "" for uncategorized items.
func (li LineItem) CategoryID() string {
	return li.categoryID
}

// Quantity returns how many units were ordered.
func (li LineItem) Quantity() int {
	return li.quantity
}

// Name returns the display name printed on tickets.
func (li LineItem) Name() string {
	return li.name
}

// Modifiers returns the ordered modifier labels, e.g. "no onions".
func (li LineItem) Modifiers() []string {
	return append([]string(nil), li.modifiers...)
}

// Notes returns the free-text kitchen notes, or "".
func (li LineItem) Notes() string {
	return li.notes
}

func (li *LineItem) setID(id string) error {
	if id == "" {
		return errs.NewValueIsRequiredError("lineItemID")
	}
	li.id = id
	return nil
}

func (li *LineItem) setMenuItemID(menuItemID string) error {
	if menuItemID == "" {
		return errs.NewValueIsRequiredError("menuItemID")
	}
	li.menuItemID = menuItemID
	return nil
}

func (li *LineItem) setQuantity(quantity int) error {
	if quantity < 1 {
		return errs.NewValueIsInvalidError("quantity")
	}
	li.quantity = quantity
	return nil
}

func (li *LineItem) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	li.name = name
	return nil
}
