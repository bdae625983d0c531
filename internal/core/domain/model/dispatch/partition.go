package dispatch

import (
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// RoutingPartition maps endpoints to the subset of line items destined for
// them, plus an unrouted bucket for items with no resolvable destination.
//
// The partition preserves line-item identity and order-relative sequence:
// items are never merged or reordered, and one item may appear in several
// buckets (fan-out) but never twice in the same bucket. Endpoint iteration
// order follows first assignment, keeping a resolution deterministic for a
// given (order, snapshot) pair.
type RoutingPartition struct {
	endpointOrder []kernel.UUID
	buckets       map[kernel.UUID][]order.LineItem
	unrouted      []order.LineItem
}

// NewRoutingPartition returns an empty partition.
func NewRoutingPartition() *RoutingPartition {
	return &RoutingPartition{
		buckets: make(map[kernel.UUID][]order.LineItem),
	}
}

// Assign routes a line item to an endpoint's bucket.
func (p *RoutingPartition) Assign(endpointID kernel.UUID, item order.LineItem) error {
	if err := endpointID.Validate(); err != nil {
		return err
	}
	if err := item.Validate(); err != nil {
		return err
	}

	if _, exists := p.buckets[endpointID]; !exists {
		p.endpointOrder = append(p.endpointOrder, endpointID)
	}
	p.buckets[endpointID] = append(p.buckets[endpointID], item)
	return nil
}

// AddUnrouted records a line item with no resolvable destination.
// Unrouted items are a partition warning, never a dispatch blocker.
func (p *RoutingPartition) AddUnrouted(item order.LineItem) error {
	if err := item.Validate(); err != nil {
		return err
	}

	p.unrouted = append(p.unrouted, item)
	return nil
}

// EndpointIDs returns the endpoints with at least one assigned item,
// in first-assignment order.
func (p *RoutingPartition) EndpointIDs() []kernel.UUID {
	return append([]kernel.UUID(nil), p.endpointOrder...)
}

// ItemsFor returns the line items assigned to the given endpoint,
// in order-relative sequence.
func (p *RoutingPartition) ItemsFor(endpointID kernel.UUID) []order.LineItem {
	return append([]order.LineItem(nil), p.buckets[endpointID]...)
}

// Unrouted returns the items no rule or default matched.
func (p *RoutingPartition) Unrouted() []order.LineItem {
	return append([]order.LineItem(nil), p.unrouted...)
}

// IsEmpty reports whether the partition has neither routed nor unrouted items.
func (p *RoutingPartition) IsEmpty() bool {
	return len(p.endpointOrder) == 0 && len(p.unrouted) == 0
}

// RoutedItemCount returns the total number of routed item placements,
// counting a fanned-out item once per destination.
func (p *RoutingPartition) RoutedItemCount() int {
	n := 0
	for _, items := range p.buckets {
		n += len(items)
	}
	return n
}
