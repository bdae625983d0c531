package commands_test

import (
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/dispatch"
	"dispatch/internal/core/domain/model/endpoint"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newDispatchHandler(t *testing.T, factory commands.DispatchUoWFactory, transport *MockTransport) commands.DispatchOrderCommandHandler {
	t.Helper()

	coordinator, err := services.NewDispatchCoordinator(transport, services.CoordinatorConfig{
		LaunchStagger:  time.Millisecond,
		RetryBackoff:   time.Millisecond,
		TicketDeadline: time.Second,
	})
	require.NoError(t, err)

	return commands.NewDispatchOrderCommandHandler(
		factory,
		services.NewOrderRouter(),
		services.NewTicketComposer(),
		coordinator,
	)
}

func grillSnapshot(t *testing.T, endpointID kernel.UUID) *assignment.Snapshot {
	t.Helper()
	rule, err := assignment.NewRule(kernel.NewUUID(), assignment.ScopeCategory, "grill", endpointID, time.Now())
	require.NoError(t, err)
	snap, err := assignment.NewSnapshot([]*assignment.Rule{rule}, nil)
	require.NoError(t, err)
	return snap
}

func burgerItem(t *testing.T) order.LineItem {
	t.Helper()
	li, err := order.NewLineItem("li-1", "burger", "grill", 1, "Burger", nil, "")
	require.NoError(t, err)
	return li
}

func TestDispatchOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	kitchen := testEndpoint(kernel.NewUUID(), "192.168.1.50")

	cmd, err := commands.NewDispatchOrderCommand(orderID, "Table 12", time.Now(),
		[]order.LineItem{burgerItem(t)}, false)
	require.NoError(t, err)

	endpointRepo := new(MockEndpointRepository)
	ruleRepo := new(MockRuleRepository)
	ticketRepo := new(MockTicketRepository)
	resultRepo := new(MockResultRepository)
	uow := new(MockUoW)

	uow.On("Begin", ctx).Return(nil).Twice()
	uow.On("Commit", ctx).Return(nil).Twice()
	uow.On("Rollback", ctx).Return(nil).Twice()
	uow.On("EndpointRepository").Return(endpointRepo)
	uow.On("RuleRepository").Return(ruleRepo)
	uow.On("TicketRepository").Return(ticketRepo)
	uow.On("DispatchResultRepository").Return(resultRepo)

	ruleRepo.On("GetSnapshot", ctx).Return(grillSnapshot(t, kitchen.ID()), nil).Once()
	endpointRepo.On("GetAllEnabled", ctx).Return([]*endpoint.Endpoint{kitchen}, nil).Once()
	ticketRepo.On("GetMaxSequence", ctx, orderID).Return(0, nil).Once()
	ticketRepo.On("Add", ctx, mock.AnythingOfType("*dispatch.Ticket")).Return(nil).Once()
	resultRepo.On("Add", ctx, mock.AnythingOfType("*dispatch.Result")).Return(nil).Once()
	endpointRepo.On("Update", ctx, kitchen).Return(nil).Once()

	conn := new(MockConnection)
	conn.On("Send", mock.Anything).Return(nil).Once()
	conn.On("Close").Return(nil).Once()

	transport := new(MockTransport)
	transport.On("Connect", mock.Anything, kitchen.Address(), mock.Anything).Return(conn, nil).Once()

	factory := new(MockDispatchUoWFactory)
	factory.On("Create").Return(uow).Twice()

	handler := newDispatchHandler(t, factory, transport)
	response, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	require.Len(t, response.Results, 1)
	assert.Equal(t, dispatch.OutcomeDelivered, response.Results[0].Outcome())
	assert.Empty(t, response.Unrouted)
	assert.Equal(t, endpoint.HealthOnline, kitchen.Health())

	ticket := ticketRepo.Calls[1].Arguments[1].(*dispatch.Ticket)
	assert.Equal(t, 1, ticket.Sequence())
	assert.True(t, ticket.OrderID().IsEqual(orderID))

	uow.AssertExpectations(t)
	transport.AssertExpectations(t)
	conn.AssertExpectations(t)
}

func TestDispatchOrderCommandHandler_Handle_AlreadyDispatched(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	kitchen := testEndpoint(kernel.NewUUID(), "192.168.1.50")

	cmd, err := commands.NewDispatchOrderCommand(orderID, "Table 12", time.Now(),
		[]order.LineItem{burgerItem(t)}, false)
	require.NoError(t, err)

	endpointRepo := new(MockEndpointRepository)
	ruleRepo := new(MockRuleRepository)
	ticketRepo := new(MockTicketRepository)
	uow := new(MockUoW)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	uow.On("EndpointRepository").Return(endpointRepo)
	uow.On("RuleRepository").Return(ruleRepo)
	uow.On("TicketRepository").Return(ticketRepo)

	ruleRepo.On("GetSnapshot", ctx).Return(grillSnapshot(t, kitchen.ID()), nil).Once()
	endpointRepo.On("GetAllEnabled", ctx).Return([]*endpoint.Endpoint{kitchen}, nil).Once()
	ticketRepo.On("GetMaxSequence", ctx, orderID).Return(1, nil).Once()

	factory := new(MockDispatchUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := newDispatchHandler(t, factory, new(MockTransport))
	_, err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrOrderAlreadyDispatched)
	uow.AssertNotCalled(t, "Commit", ctx)
}

func TestDispatchOrderCommandHandler_Handle_ResendIncrementsSequence(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	kitchen := testEndpoint(kernel.NewUUID(), "192.168.1.50")

	cmd, err := commands.NewDispatchOrderCommand(orderID, "Table 12", time.Now(),
		[]order.LineItem{burgerItem(t)}, true)
	require.NoError(t, err)

	endpointRepo := new(MockEndpointRepository)
	ruleRepo := new(MockRuleRepository)
	ticketRepo := new(MockTicketRepository)
	resultRepo := new(MockResultRepository)
	uow := new(MockUoW)

	uow.On("Begin", ctx).Return(nil).Twice()
	uow.On("Commit", ctx).Return(nil).Twice()
	uow.On("Rollback", ctx).Return(nil).Twice()
	uow.On("EndpointRepository").Return(endpointRepo)
	uow.On("RuleRepository").Return(ruleRepo)
	uow.On("TicketRepository").Return(ticketRepo)
	uow.On("DispatchResultRepository").Return(resultRepo)

	ruleRepo.On("GetSnapshot", ctx).Return(grillSnapshot(t, kitchen.ID()), nil).Once()
	endpointRepo.On("GetAllEnabled", ctx).Return([]*endpoint.Endpoint{kitchen}, nil).Once()
	ticketRepo.On("GetMaxSequence", ctx, orderID).Return(2, nil).Once()
	ticketRepo.On("Add", ctx, mock.AnythingOfType("*dispatch.Ticket")).Return(nil).Once()
	resultRepo.On("Add", ctx, mock.AnythingOfType("*dispatch.Result")).Return(nil).Once()
	endpointRepo.On("Update", ctx, kitchen).Return(nil).Once()

	conn := new(MockConnection)
	conn.On("Send", mock.Anything).Return(nil).Once()
	conn.On("Close").Return(nil).Once()

	transport := new(MockTransport)
	transport.On("Connect", mock.Anything, kitchen.Address(), mock.Anything).Return(conn, nil).Once()

	factory := new(MockDispatchUoWFactory)
	factory.On("Create").Return(uow).Twice()

	handler := newDispatchHandler(t, factory, transport)
	response, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	require.Len(t, response.Results, 1)

	ticket := ticketRepo.Calls[1].Arguments[1].(*dispatch.Ticket)
	assert.Equal(t, 3, ticket.Sequence())
}

func TestDispatchOrderCommandHandler_Handle_DisabledEndpointLeavesItemsUnrouted(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	disabledID := kernel.NewUUID()

	cmd, err := commands.NewDispatchOrderCommand(orderID, "Table 12", time.Now(),
		[]order.LineItem{burgerItem(t)}, false)
	require.NoError(t, err)

	endpointRepo := new(MockEndpointRepository)
	ruleRepo := new(MockRuleRepository)
	ticketRepo := new(MockTicketRepository)
	uow := new(MockUoW)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	uow.On("EndpointRepository").Return(endpointRepo)
	uow.On("RuleRepository").Return(ruleRepo)
	uow.On("TicketRepository").Return(ticketRepo)

	ruleRepo.On("GetSnapshot", ctx).Return(grillSnapshot(t, disabledID), nil).Once()
	endpointRepo.On("GetAllEnabled", ctx).Return([]*endpoint.Endpoint{}, nil).Once()
	ticketRepo.On("GetMaxSequence", ctx, orderID).Return(0, nil).Once()

	transport := new(MockTransport)
	factory := new(MockDispatchUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := newDispatchHandler(t, factory, transport)
	response, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Empty(t, response.Results)
	require.Len(t, response.Unrouted, 1)
	assert.Equal(t, "Burger", response.Unrouted[0].Name())
	transport.AssertNotCalled(t, "Connect", mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatchOrderCommandHandler_Handle_EmptyOrder(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()

	cmd, err := commands.NewDispatchOrderCommand(orderID, "Table 12", time.Now(), nil, false)
	require.NoError(t, err)

	endpointRepo := new(MockEndpointRepository)
	ruleRepo := new(MockRuleRepository)
	ticketRepo := new(MockTicketRepository)
	uow := new(MockUoW)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	uow.On("EndpointRepository").Return(endpointRepo)
	uow.On("RuleRepository").Return(ruleRepo)
	uow.On("TicketRepository").Return(ticketRepo)

	ruleRepo.On("GetSnapshot", ctx).Return(assignment.EmptySnapshot(), nil).Once()
	endpointRepo.On("GetAllEnabled", ctx).Return([]*endpoint.Endpoint{}, nil).Once()
	ticketRepo.On("GetMaxSequence", ctx, orderID).Return(0, nil).Once()

	factory := new(MockDispatchUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := newDispatchHandler(t, factory, new(MockTransport))
	response, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Empty(t, response.Results)
	assert.Empty(t, response.Unrouted)
}

func TestDispatchOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.DispatchOrderCommand{} // not constructed properly

	factory := new(MockDispatchUoWFactory)
	handler := newDispatchHandler(t, factory, new(MockTransport))

	_, err := handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrDispatchOrderCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}
