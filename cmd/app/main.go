package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"dispatch/cmd"
	httpadapter "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/in/ws"
	"dispatch/internal/adapters/out/postgres/dispatchrepo"
	"dispatch/internal/adapters/out/postgres/endpointrepo"
	"dispatch/internal/adapters/out/postgres/rulerepo"
	"dispatch/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB := mustConnectDB(configs)

	app, err := cmd.NewCompositionRoot(configs, gormDB)
	if err != nil {
		log.Fatalf("Failed to build composition root: %v", err)
	}

	probeHandler, err := app.CreateProbeEndpointsCommandHandler()
	if err != nil {
		log.Fatalf("Failed to create probe handler: %v", err)
	}
	discoverHandler, err := app.CreateDiscoverEndpointsCommandHandler()
	if err != nil {
		log.Fatalf("Failed to create discovery handler: %v", err)
	}

	jobManager := jobs.NewJobManager(probeHandler, discoverHandler, logger)
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startOrderFeed(configs, &app, logger)

	server := httpadapter.NewServer(
		app.CreateRegisterEndpointCommandHandler(),
		app.CreateUpdateEndpointCommandHandler(),
		app.CreateRemoveEndpointCommandHandler(),
		app.CreateSetAssignmentRuleCommandHandler(),
		app.CreateRemoveAssignmentRuleCommandHandler(),
		app.CreateSetDefaultEndpointCommandHandler(),
		app.CreateClearDefaultEndpointCommandHandler(),
		app.CreateDispatchOrderCommandHandler(),
		discoverHandler,
		app.CreateGetEndpointsQueryHandler(),
		app.CreateGetAssignmentRulesQueryHandler(),
		app.CreateGetDispatchResultsQueryHandler(),
	)

	startWebServer(server, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:        goDotEnvVariable("HTTP_PORT"),
		DBHost:          goDotEnvVariable("DB_HOST"),
		DBPort:          goDotEnvVariable("DB_PORT"),
		DBUser:          goDotEnvVariable("DB_USER"),
		DBPassword:      goDotEnvVariable("DB_PASSWORD"),
		DBName:          goDotEnvVariable("DB_NAME"),
		DBSslMode:       goDotEnvVariable("DB_SSLMODE"),
		OrderFeedURL:    os.Getenv("ORDER_FEED_URL"),
		OrderFeedAPIKey: os.Getenv("ORDER_FEED_API_KEY"),
		OrderFeedAgent:  os.Getenv("ORDER_FEED_AGENT_KEY"),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func mustConnectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(postgresdriver.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = gormDB.AutoMigrate(
		&endpointrepo.EndpointDTO{},
		&rulerepo.RuleDTO{},
		&rulerepo.DefaultEndpointDTO{},
		&dispatchrepo.TicketDTO{},
		&dispatchrepo.ResultDTO{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	return gormDB
}

// startOrderFeed connects the WebSocket agent when a feed URL is configured.
// Installations driven purely through the REST API run without it.
func startOrderFeed(configs cmd.Config, app *cmd.CompositionRoot, logger *slog.Logger) {
	if configs.OrderFeedURL == "" {
		logger.Info("order feed disabled, no ORDER_FEED_URL configured")
		return
	}

	agent, err := ws.NewOrderFeedAgent(
		configs.OrderFeedURL,
		configs.OrderFeedAPIKey,
		configs.OrderFeedAgent,
		app.CreateDispatchOrderCommandHandler(),
		logger,
	)
	if err != nil {
		log.Fatalf("Failed to create order feed agent: %v", err)
	}

	go agent.Run(context.Background())
}

func startWebServer(server *httpadapter.Server, port string) {
	e := echo.New()
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
