package services

import (
	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/dispatch"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// OrderRouter is a domain service that resolves a finalized order against an
// assignment snapshot into a RoutingPartition.
//
// Resolution rules, applied per line item:
//   - Item-scoped rules for the line's menu item win outright. When any
//     exist, the item goes to every endpoint they name and category rules
//     are not consulted at all.
//   - Otherwise category-scoped rules for the line's category apply, again
//     fanning out to every endpoint they name.
//   - Otherwise the snapshot's default endpoint receives the item.
//   - With no default configured the item lands in the unrouted bucket,
//     which is a warning for the operator, never a dispatch blocker.
//
// Routing is a pure function of (order, snapshot): the same inputs always
// produce the same partition, and no item is ever dropped or merged.
type OrderRouter struct{}

// NewOrderRouter creates a new OrderRouter instance.
func NewOrderRouter() OrderRouter {
	return OrderRouter{}
}

// Route partitions the order's line items across endpoints according to the
// snapshot. An empty order yields an empty partition.
func (r OrderRouter) Route(o *order.Order, snapshot *assignment.Snapshot) (*dispatch.RoutingPartition, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	partition := dispatch.NewRoutingPartition()

	for _, item := range o.Items() {
		targets := r.resolve(item, snapshot)
		if len(targets) == 0 {
			if err := partition.AddUnrouted(item); err != nil {
				return nil, err
			}
			continue
		}

		for _, endpointID := range targets {
			if err := partition.Assign(endpointID, item); err != nil {
				return nil, err
			}
		}
	}

	return partition, nil
}

func (r OrderRouter) resolve(item order.LineItem, snapshot *assignment.Snapshot) []kernel.UUID {
	if ids := snapshot.EndpointsFor(assignment.ScopeItem, item.MenuItemID()); len(ids) > 0 {
		return ids
	}

	if item.CategoryID() != "" {
		if ids := snapshot.EndpointsFor(assignment.ScopeCategory, item.CategoryID()); len(ids) > 0 {
			return ids
		}
	}

	if def := snapshot.Default(); def != nil {
		return []kernel.UUID{*def}
	}

	return nil
}
