package dispatchrepo_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/adapters/out/postgres/dispatchrepo"
	"dispatch/internal/core/domain/model/dispatch"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DispatchRepositoryIntegrationTestSuite provides integration tests for ticket
// and result persistence using PostgreSQL containers.
type DispatchRepositoryIntegrationTestSuite struct {
	suite.Suite
	container        *postgres.PostgresContainer
	db               *gorm.DB
	ticketRepository *dispatchrepo.GormTicketRepository
	resultRepository *dispatchrepo.GormResultRepository
}

func (suite *DispatchRepositoryIntegrationTestSuite) SetupSuite() {
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

	suite.Require().NoError(db.AutoMigrate(
		&dispatchrepo.TicketDTO{},
		&dispatchrepo.ResultDTO{},
	))
}

func (suite *DispatchRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE dispatch_results, tickets").Error)

	suite.ticketRepository = dispatchrepo.NewGormTicketRepository(suite.db)
	suite.resultRepository = dispatchrepo.NewGormResultRepository(suite.db)
}

func (suite *DispatchRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *DispatchRepositoryIntegrationTestSuite) TestGetMaxSequence_NoTickets_ReturnsZero() {
	ctx := context.Background()

	maxSequence, err := suite.ticketRepository.GetMaxSequence(ctx, kernel.NewUUID())
	suite.Require().NoError(err)
	suite.Equal(0, maxSequence)
}

func (suite *DispatchRepositoryIntegrationTestSuite) TestGetMaxSequence_TracksResends() {
	ctx := context.Background()

	orderID := kernel.NewUUID()
	endpointID := kernel.NewUUID()
	suite.addTestTicket(ctx, orderID, endpointID, 1)
	suite.addTestTicket(ctx, orderID, endpointID, 2)

	// Another order's sequence must not leak in.
	suite.addTestTicket(ctx, kernel.NewUUID(), endpointID, 5)

	maxSequence, err := suite.ticketRepository.GetMaxSequence(ctx, orderID)
	suite.Require().NoError(err)
	suite.Equal(2, maxSequence)
}

func (suite *DispatchRepositoryIntegrationTestSuite) TestHasForEndpoint() {
	ctx := context.Background()

	endpointID := kernel.NewUUID()
	otherEndpointID := kernel.NewUUID()
	suite.addTestTicket(ctx, kernel.NewUUID(), endpointID, 1)

	hasHistory, err := suite.ticketRepository.HasForEndpoint(ctx, endpointID)
	suite.Require().NoError(err)
	suite.True(hasHistory)

	hasHistory, err = suite.ticketRepository.HasForEndpoint(ctx, otherEndpointID)
	suite.Require().NoError(err)
	suite.False(hasHistory)
}

func (suite *DispatchRepositoryIntegrationTestSuite) TestGetAllForOrder_ReturnsResultsNewestSequenceFirst() {
	ctx := context.Background()

	orderID := kernel.NewUUID()
	endpointID := kernel.NewUUID()
	firstTicket := suite.addTestTicket(ctx, orderID, endpointID, 1)
	secondTicket := suite.addTestTicket(ctx, orderID, endpointID, 2)

	suite.addDeliveredResult(ctx, firstTicket, endpointID)
	suite.addFailedResult(ctx, secondTicket, endpointID)

	results, err := suite.resultRepository.GetAllForOrder(ctx, orderID)
	suite.Require().NoError(err)
	suite.Require().Len(results, 2)

	suite.Equal(secondTicket, results[0].TicketID())
	suite.Equal(dispatch.OutcomeFailed, results[0].Outcome())
	suite.Equal(3, results[0].Attempts())
	suite.Equal("connect refused", results[0].LastError())
	suite.Require().NotNil(results[0].FinishedAt())

	suite.Equal(firstTicket, results[1].TicketID())
	suite.Equal(dispatch.OutcomeDelivered, results[1].Outcome())
	suite.Empty(results[1].LastError())
}

func (suite *DispatchRepositoryIntegrationTestSuite) TestGetAllForOrder_OtherOrdersExcluded() {
	ctx := context.Background()

	orderID := kernel.NewUUID()
	endpointID := kernel.NewUUID()
	ticketID := suite.addTestTicket(ctx, orderID, endpointID, 1)
	suite.addDeliveredResult(ctx, ticketID, endpointID)

	otherTicket := suite.addTestTicket(ctx, kernel.NewUUID(), endpointID, 1)
	suite.addDeliveredResult(ctx, otherTicket, endpointID)

	results, err := suite.resultRepository.GetAllForOrder(ctx, orderID)
	suite.Require().NoError(err)
	suite.Require().Len(results, 1)
	suite.Equal(ticketID, results[0].TicketID())
}

// addTestTicket persists a minimal ticket and returns its identity.
func (suite *DispatchRepositoryIntegrationTestSuite) addTestTicket(
	ctx context.Context, orderID, endpointID kernel.UUID, sequence int,
) kernel.UUID {
	ticketID := kernel.NewUUID()
	ticket, err := dispatch.NewTicket(
		ticketID, endpointID, orderID, sequence, []byte("2x Burger\n"), time.Now())
	suite.Require().NoError(err)

	suite.Require().NoError(suite.ticketRepository.Add(ctx, ticket))
	return ticketID
}

func (suite *DispatchRepositoryIntegrationTestSuite) addDeliveredResult(
	ctx context.Context, ticketID, endpointID kernel.UUID,
) {
	result, err := dispatch.NewResult(ticketID, endpointID)
	suite.Require().NoError(err)
	suite.Require().NoError(result.Begin())
	suite.Require().NoError(result.MarkDelivered(1, time.Now()))

	suite.Require().NoError(suite.resultRepository.Add(ctx, result))
}

func (suite *DispatchRepositoryIntegrationTestSuite) addFailedResult(
	ctx context.Context, ticketID, endpointID kernel.UUID,
) {
	result, err := dispatch.NewResult(ticketID, endpointID)
	suite.Require().NoError(err)
	suite.Require().NoError(result.Begin())
	suite.Require().NoError(result.MarkFailed(3, "connect refused", time.Now()))

	suite.Require().NoError(suite.resultRepository.Add(ctx, result))
}

func TestDispatchRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(DispatchRepositoryIntegrationTestSuite))
}
