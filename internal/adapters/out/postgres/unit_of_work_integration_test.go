package postgres_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/postgres/dispatchrepo"
	"dispatch/internal/adapters/out/postgres/endpointrepo"
	"dispatch/internal/adapters/out/postgres/rulerepo"
	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/endpoint"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite verifies transaction semantics across the
// repositories sharing one unit of work.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *pgcontainer.PostgresContainer
	db        *gorm.DB
	factory   *postgres.GormUnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := pgcontainer.Run(ctx,
		"postgres:15-alpine",
		pgcontainer.WithDatabase("testdb"),
		pgcontainer.WithUsername("testuser"),
		pgcontainer.WithPassword("testpass"),
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
		&endpointrepo.EndpointDTO{},
		&rulerepo.RuleDTO{},
		&rulerepo.DefaultEndpointDTO{},
		&dispatchrepo.TicketDTO{},
		&dispatchrepo.ResultDTO{},
	))
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec(
		"TRUNCATE TABLE dispatch_results, tickets, assignment_rules, default_endpoints, endpoints").Error
	suite.Require().NoError(err)

	suite.factory = postgres.NewGormUnitOfWorkFactory(suite.db)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_PersistsAcrossRepositories() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))

	ep := suite.createTestEndpoint("Kitchen", "192.168.1.50")
	suite.Require().NoError(uow.EndpointRepository().Add(ctx, ep))

	rule, err := assignment.NewRule(
		kernel.NewUUID(), assignment.ScopeCategory, "grill", ep.ID(), time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(uow.RuleRepository().Add(ctx, rule))

	suite.Require().NoError(uow.Commit(ctx))

	// Both writes are visible through a fresh unit of work.
	verify := suite.factory.Create()
	retrieved, err := verify.EndpointRepository().Get(ctx, ep.ID())
	suite.Require().NoError(err)
	suite.Equal(ep.ID(), retrieved.ID())

	has, err := verify.RuleRepository().HasRulesFor(ctx, ep.ID())
	suite.Require().NoError(err)
	suite.True(has)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsAllChanges() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))

	ep := suite.createTestEndpoint("Kitchen", "192.168.1.50")
	suite.Require().NoError(uow.EndpointRepository().Add(ctx, ep))
	suite.Require().NoError(uow.RuleRepository().SetDefault(ctx, ep.ID()))

	suite.Require().NoError(uow.Rollback(ctx))

	var count int64
	suite.Require().NoError(suite.db.Model(&endpointrepo.EndpointDTO{}).Count(&count).Error)
	suite.Zero(count)

	defaultID, err := suite.factory.Create().RuleRepository().GetDefault(ctx)
	suite.Require().NoError(err)
	suite.Nil(defaultID)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_WithoutBegin_ReturnsError() {
	uow := suite.factory.Create()
	suite.Require().ErrorIs(uow.Commit(context.Background()), gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_WithoutBegin_ReturnsError() {
	uow := suite.factory.Create()
	suite.Require().ErrorIs(uow.Rollback(context.Background()), gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestBegin_Twice_ReusesTransaction() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx))

	ep := suite.createTestEndpoint("Kitchen", "192.168.1.50")
	suite.Require().NoError(uow.EndpointRepository().Add(ctx, ep))
	suite.Require().NoError(uow.Commit(ctx))

	var count int64
	suite.Require().NoError(suite.db.Model(&endpointrepo.EndpointDTO{}).Count(&count).Error)
	suite.Equal(int64(1), count)
}

func (suite *UnitOfWorkIntegrationTestSuite) createTestEndpoint(name, host string) *endpoint.Endpoint {
	address, err := kernel.NewNetworkAddress(host, kernel.DefaultRawPrintPort)
	suite.Require().NoError(err)

	ep, err := endpoint.NewEndpoint(kernel.NewUUID(), name, address, endpoint.DefaultCapability())
	suite.Require().NoError(err)

	return ep
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
