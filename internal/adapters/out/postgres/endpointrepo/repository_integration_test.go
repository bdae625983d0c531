package endpointrepo_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/adapters/out/postgres/endpointrepo"
	"dispatch/internal/core/domain/model/endpoint"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

// EndpointRepositoryIntegrationTestSuite provides integration tests for
// EndpointRepository using PostgreSQL containers.
type EndpointRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *endpointrepo.GormEndpointRepository
	tracker    *MockAggregateTracker
}

func (suite *EndpointRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&endpointrepo.EndpointDTO{}))
}

func (suite *EndpointRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE endpoints").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = endpointrepo.NewGormEndpointRepository(suite.db, suite.tracker)
}

func (suite *EndpointRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *EndpointRepositoryIntegrationTestSuite) TestAdd_ValidEndpoint_Success() {
	ctx := context.Background()

	ep := suite.createTestEndpoint("Kitchen", "192.168.1.50")
	suite.tracker.On("TrackAggregate", ep.ID(), ep).Once()

	err := suite.repository.Add(ctx, ep)
	suite.Require().NoError(err)

	suite.assertEndpointCount(1)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *EndpointRepositoryIntegrationTestSuite) TestAdd_DuplicateAddress_ReturnsError() {
	ctx := context.Background()

	first := suite.createTestEndpoint("Kitchen", "192.168.1.50")
	suite.tracker.On("TrackAggregate", first.ID(), first).Once()
	suite.Require().NoError(suite.repository.Add(ctx, first))

	second := suite.createTestEndpoint("Kitchen Copy", "192.168.1.50")

	err := suite.repository.Add(ctx, second)
	suite.Require().Error(err)

	suite.assertEndpointCount(1)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *EndpointRepositoryIntegrationTestSuite) TestGet_ExistingEndpoint_RoundTripsAllFields() {
	ctx := context.Background()

	original := suite.createTestEndpoint("Kitchen", "192.168.1.50")
	suite.Require().NoError(original.BeginProbe())
	suite.Require().NoError(original.RecordProbeSuccess(time.Now()))

	suite.tracker.On("TrackAggregate", original.ID(), original).Once()
	suite.Require().NoError(suite.repository.Add(ctx, original))

	retrieved, err := suite.repository.Get(ctx, original.ID())
	suite.Require().NoError(err)

	suite.Equal(original.ID(), retrieved.ID())
	suite.Equal(original.Name(), retrieved.Name())
	suite.Equal(original.Address().Host(), retrieved.Address().Host())
	suite.Equal(original.Address().Port(), retrieved.Address().Port())
	suite.Equal(original.Capability().LineWidth(), retrieved.Capability().LineWidth())
	suite.Equal(original.Capability().SupportsCut(), retrieved.Capability().SupportsCut())
	suite.Equal(endpoint.HealthOnline, retrieved.Health())
	suite.Equal(0, retrieved.ConsecutiveFailures())
	suite.Require().NotNil(retrieved.LastSeenAt())
	suite.True(retrieved.IsEnabled())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *EndpointRepositoryIntegrationTestSuite) TestGet_NonExistentEndpoint_ReturnsNotFoundError() {
	ctx := context.Background()

	retrieved, err := suite.repository.Get(ctx, kernel.NewUUID())

	suite.Nil(retrieved)
	suite.Require().Error(err)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *EndpointRepositoryIntegrationTestSuite) TestGetByAddress_KnownDevice_ReturnsEndpoint() {
	ctx := context.Background()

	ep := suite.createTestEndpoint("Bar", "192.168.1.60")
	suite.tracker.On("TrackAggregate", ep.ID(), ep).Once()
	suite.Require().NoError(suite.repository.Add(ctx, ep))

	retrieved, err := suite.repository.GetByAddress(ctx, ep.Address())
	suite.Require().NoError(err)
	suite.Equal(ep.ID(), retrieved.ID())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *EndpointRepositoryIntegrationTestSuite) TestGetByAddress_UnknownDevice_ReturnsNotFoundError() {
	ctx := context.Background()

	address, err := kernel.NewNetworkAddress("192.168.1.99", kernel.DefaultRawPrintPort)
	suite.Require().NoError(err)

	retrieved, err := suite.repository.GetByAddress(ctx, address)
	suite.Nil(retrieved)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *EndpointRepositoryIntegrationTestSuite) TestUpdate_HealthChange_Persisted() {
	ctx := context.Background()

	ep := suite.createTestEndpoint("Kitchen", "192.168.1.50")
	suite.tracker.On("TrackAggregate", ep.ID(), ep).Twice()
	suite.Require().NoError(suite.repository.Add(ctx, ep))

	suite.Require().NoError(ep.BeginProbe())
	suite.Require().NoError(ep.RecordProbeFailure(endpoint.DefaultOfflineThreshold))

	err := suite.repository.Update(ctx, ep)
	suite.Require().NoError(err)

	retrieved, err := suite.repository.Get(ctx, ep.ID())
	suite.Require().NoError(err)
	suite.Equal(endpoint.HealthOffline, retrieved.Health())
	suite.Equal(1, retrieved.ConsecutiveFailures())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *EndpointRepositoryIntegrationTestSuite) TestGetAllEnabled_ExcludesDisabledEndpoints() {
	ctx := context.Background()

	active := suite.createTestEndpoint("Kitchen", "192.168.1.50")
	disabled := suite.createTestEndpoint("Retired", "192.168.1.51")
	disabled.Disable()

	suite.tracker.On("TrackAggregate", active.ID(), active).Once()
	suite.tracker.On("TrackAggregate", disabled.ID(), disabled).Once()
	suite.Require().NoError(suite.repository.Add(ctx, active))
	suite.Require().NoError(suite.repository.Add(ctx, disabled))

	enabled, err := suite.repository.GetAllEnabled(ctx)
	suite.Require().NoError(err)
	suite.Len(enabled, 1)
	suite.Equal(active.ID(), enabled[0].ID())

	all, err := suite.repository.GetAll(ctx)
	suite.Require().NoError(err)
	suite.Len(all, 2)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *EndpointRepositoryIntegrationTestSuite) TestDelete_RemovesEndpoint() {
	ctx := context.Background()

	ep := suite.createTestEndpoint("Kitchen", "192.168.1.50")
	suite.tracker.On("TrackAggregate", ep.ID(), ep).Once()
	suite.Require().NoError(suite.repository.Add(ctx, ep))

	err := suite.repository.Delete(ctx, ep.ID())
	suite.Require().NoError(err)

	suite.assertEndpointCount(0)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *EndpointRepositoryIntegrationTestSuite) TestDelete_NonExistentEndpoint_ReturnsNotFoundError() {
	ctx := context.Background()

	err := suite.repository.Delete(ctx, kernel.NewUUID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

// createTestEndpoint creates an endpoint with default capability at the given address.
func (suite *EndpointRepositoryIntegrationTestSuite) createTestEndpoint(name, host string) *endpoint.Endpoint {
	address, err := kernel.NewNetworkAddress(host, kernel.DefaultRawPrintPort)
	suite.Require().NoError(err)

	ep, err := endpoint.NewEndpoint(kernel.NewUUID(), name, address, endpoint.DefaultCapability())
	suite.Require().NoError(err)

	return ep
}

// assertEndpointCount verifies the number of endpoints in the database.
func (suite *EndpointRepositoryIntegrationTestSuite) assertEndpointCount(expected int) {
	var count int64
	err := suite.db.Model(&endpointrepo.EndpointDTO{}).Count(&count).Error
	suite.Require().NoError(err)
	suite.Equal(int64(expected), count)
}

func TestEndpointRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(EndpointRepositoryIntegrationTestSuite))
}
