package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/dispatch"
	"dispatch/internal/core/domain/model/endpoint"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
)

// DispatchOrderResponse carries the per-endpoint outcome of one dispatch
// cycle plus the items no rule or default matched. Unrouted items are a
// warning for the operator, never a dispatch blocker.
type DispatchOrderResponse struct {
	Results  []*dispatch.Result
	Unrouted []order.LineItem
}

// DispatchOrderCommandHandler handles the full dispatch workflow:
// resolve the order against a consistent configuration snapshot, compose one
// ticket per destination, deliver them through the coordinator, and persist
// tickets, results, and endpoint health changes.
//
// Ticket composition and persistence happen inside the first transaction;
// network delivery runs outside any transaction so slow devices never hold
// database locks; the second transaction records outcomes.
type DispatchOrderCommandHandler struct {
	uowFactory  DispatchUoWFactory
	router      services.OrderRouter
	composer    services.TicketComposer
	coordinator *services.DispatchCoordinator
}

// NewDispatchOrderCommandHandler creates a handler for order dispatch.
func NewDispatchOrderCommandHandler(
	uowFactory DispatchUoWFactory,
	router services.OrderRouter,
	composer services.TicketComposer,
	coordinator *services.DispatchCoordinator,
) DispatchOrderCommandHandler {
	return DispatchOrderCommandHandler{
		uowFactory:  uowFactory,
		router:      router,
		composer:    composer,
		coordinator: coordinator,
	}
}

// Handle processes the dispatch command and returns the complete result set.
// Partial delivery failure is reported through the results, not as an error.
func (h *DispatchOrderCommandHandler) Handle(
	ctx context.Context,
	cmd DispatchOrderCommand,
) (DispatchOrderResponse, error) {
	if err := cmd.Validate(); err != nil {
		return DispatchOrderResponse{}, err
	}

	aggregate, err := order.NewOrder(cmd.OrderID(), cmd.Origin(), cmd.PlacedAt(), cmd.Items())
	if err != nil {
		return DispatchOrderResponse{}, err
	}

	tickets, endpoints, unrouted, err := h.prepare(ctx, aggregate, cmd.Resend())
	if err != nil {
		return DispatchOrderResponse{}, err
	}

	if len(tickets) == 0 {
		return DispatchOrderResponse{Unrouted: unrouted}, nil
	}

	results, err := h.coordinator.Dispatch(ctx, aggregate, tickets, endpoints)
	if err != nil {
		return DispatchOrderResponse{}, err
	}

	if err = h.record(ctx, results, endpoints); err != nil {
		return DispatchOrderResponse{}, err
	}

	return DispatchOrderResponse{Results: results, Unrouted: unrouted}, nil
}

// prepare resolves, composes, and persists the tickets in one transaction so
// the resolution sees a consistent configuration snapshot.
func (h *DispatchOrderCommandHandler) prepare(
	ctx context.Context,
	aggregate *order.Order,
	resend bool,
) ([]*dispatch.Ticket, map[kernel.UUID]*endpoint.Endpoint, []order.LineItem, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	snapshot, err := uow.RuleRepository().GetSnapshot(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	enabled, err := uow.EndpointRepository().GetAllEnabled(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	endpoints := make(map[kernel.UUID]*endpoint.Endpoint, len(enabled))
	for _, ep := range enabled {
		endpoints[ep.ID()] = ep
	}

	maxSequence, err := uow.TicketRepository().GetMaxSequence(ctx, aggregate.ID())
	if err != nil {
		return nil, nil, nil, err
	}
	if maxSequence > 0 && !resend {
		return nil, nil, nil, ErrOrderAlreadyDispatched
	}
	sequence := maxSequence + 1

	partition, err := h.router.Route(aggregate, snapshot)
	if err != nil {
		return nil, nil, nil, err
	}

	unrouted := partition.Unrouted()
	tickets := make([]*dispatch.Ticket, 0, len(partition.EndpointIDs()))

	for _, endpointID := range partition.EndpointIDs() {
		ep, ok := endpoints[endpointID]
		if !ok {
			// Rules may still reference disabled endpoints; their items
			// surface as unrouted rather than failing the cycle.
			unrouted = append(unrouted, partition.ItemsFor(endpointID)...)
			continue
		}

		ticket, composeErr := h.composer.Compose(ep, partition.ItemsFor(endpointID), aggregate, sequence, time.Now())
		if composeErr != nil {
			return nil, nil, nil, composeErr
		}

		if err = uow.TicketRepository().Add(ctx, ticket); err != nil {
			return nil, nil, nil, err
		}
		tickets = append(tickets, ticket)
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, nil, nil, err
	}

	return tickets, endpoints, unrouted, nil
}

// record persists the results and the endpoint health changes the
// coordinator made during delivery.
func (h *DispatchOrderCommandHandler) record(
	ctx context.Context,
	results []*dispatch.Result,
	endpoints map[kernel.UUID]*endpoint.Endpoint,
) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	for _, result := range results {
		if err := uow.DispatchResultRepository().Add(ctx, result); err != nil {
			return err
		}

		if ep, ok := endpoints[result.EndpointID()]; ok {
			if err := uow.EndpointRepository().Update(ctx, ep); err != nil {
				return err
			}
		}
	}

	return uow.Commit(ctx)
}
