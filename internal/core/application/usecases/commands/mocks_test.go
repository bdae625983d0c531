package commands_test

import (
	"context"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/dispatch"
	"dispatch/internal/core/domain/model/endpoint"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockEndpointRepository struct{ mock.Mock }

func (m *MockEndpointRepository) Add(ctx context.Context, aggregate *endpoint.Endpoint) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockEndpointRepository) Update(ctx context.Context, aggregate *endpoint.Endpoint) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockEndpointRepository) Get(ctx context.Context, id kernel.UUID) (*endpoint.Endpoint, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*endpoint.Endpoint), args.Error(1)
}

func (m *MockEndpointRepository) GetByAddress(ctx context.Context, address kernel.NetworkAddress) (*endpoint.Endpoint, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*endpoint.Endpoint), args.Error(1)
}

func (m *MockEndpointRepository) GetAll(ctx context.Context) ([]*endpoint.Endpoint, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*endpoint.Endpoint), args.Error(1)
}

func (m *MockEndpointRepository) GetAllEnabled(ctx context.Context) ([]*endpoint.Endpoint, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*endpoint.Endpoint), args.Error(1)
}

func (m *MockEndpointRepository) Delete(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockRuleRepository struct{ mock.Mock }

func (m *MockRuleRepository) Add(ctx context.Context, rule *assignment.Rule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockRuleRepository) Remove(ctx context.Context, scope assignment.Scope, targetID string, endpointID kernel.UUID) error {
	args := m.Called(ctx, scope, targetID, endpointID)
	return args.Error(0)
}

func (m *MockRuleRepository) RemoveAllForEndpoint(ctx context.Context, endpointID kernel.UUID) error {
	args := m.Called(ctx, endpointID)
	return args.Error(0)
}

func (m *MockRuleRepository) HasRulesFor(ctx context.Context, endpointID kernel.UUID) (bool, error) {
	args := m.Called(ctx, endpointID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRuleRepository) GetAll(ctx context.Context) ([]*assignment.Rule, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*assignment.Rule), args.Error(1)
}

func (m *MockRuleRepository) GetSnapshot(ctx context.Context) (*assignment.Snapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assignment.Snapshot), args.Error(1)
}

func (m *MockRuleRepository) GetDefault(ctx context.Context) (*kernel.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*kernel.UUID), args.Error(1)
}

func (m *MockRuleRepository) SetDefault(ctx context.Context, endpointID kernel.UUID) error {
	args := m.Called(ctx, endpointID)
	return args.Error(0)
}

func (m *MockRuleRepository) ClearDefault(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockTicketRepository struct{ mock.Mock }

func (m *MockTicketRepository) Add(ctx context.Context, ticket *dispatch.Ticket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *MockTicketRepository) GetMaxSequence(ctx context.Context, orderID kernel.UUID) (int, error) {
	args := m.Called(ctx, orderID)
	return args.Int(0), args.Error(1)
}

func (m *MockTicketRepository) HasForEndpoint(ctx context.Context, endpointID kernel.UUID) (bool, error) {
	args := m.Called(ctx, endpointID)
	return args.Bool(0), args.Error(1)
}

type MockResultRepository struct{ mock.Mock }

func (m *MockResultRepository) Add(ctx context.Context, result *dispatch.Result) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockResultRepository) GetAllForOrder(ctx context.Context, orderID kernel.UUID) ([]*dispatch.Result, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*dispatch.Result), args.Error(1)
}

// MockUoW satisfies every unit of work interface in the package so one mock
// type serves all handlers.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) EndpointRepository() ports.EndpointRepository {
	args := m.Called()
	return args.Get(0).(ports.EndpointRepository)
}

func (m *MockUoW) RuleRepository() ports.RuleRepository {
	args := m.Called()
	return args.Get(0).(ports.RuleRepository)
}

func (m *MockUoW) TicketRepository() ports.TicketRepository {
	args := m.Called()
	return args.Get(0).(ports.TicketRepository)
}

func (m *MockUoW) DispatchResultRepository() ports.DispatchResultRepository {
	args := m.Called()
	return args.Get(0).(ports.DispatchResultRepository)
}

type MockEndpointUoWFactory struct{ mock.Mock }

func (m *MockEndpointUoWFactory) Create() commands.EndpointUoW {
	args := m.Called()
	return args.Get(0).(commands.EndpointUoW)
}

type MockConfigUoWFactory struct{ mock.Mock }

func (m *MockConfigUoWFactory) Create() commands.ConfigUoW {
	args := m.Called()
	return args.Get(0).(commands.ConfigUoW)
}

type MockDispatchUoWFactory struct{ mock.Mock }

func (m *MockDispatchUoWFactory) Create() commands.DispatchUoW {
	args := m.Called()
	return args.Get(0).(commands.DispatchUoW)
}

type MockTransport struct{ mock.Mock }

func (m *MockTransport) Connect(ctx context.Context, address kernel.NetworkAddress, timeout time.Duration) (ports.Connection, error) {
	args := m.Called(ctx, address, timeout)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(ports.Connection), args.Error(1)
}

type MockConnection struct{ mock.Mock }

func (m *MockConnection) Send(content []byte) error {
	args := m.Called(content)
	return args.Error(0)
}

func (m *MockConnection) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockNetworkScanner struct{ mock.Mock }

func (m *MockNetworkScanner) Scan(ctx context.Context) ([]kernel.NetworkAddress, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]kernel.NetworkAddress), args.Error(1)
}

func testEndpoint(id kernel.UUID, host string) *endpoint.Endpoint {
	address, _ := kernel.NewNetworkAddress(host, kernel.DefaultRawPrintPort)
	ep, _ := endpoint.NewEndpoint(id, "Kitchen", address, endpoint.DefaultCapability())
	return ep
}
