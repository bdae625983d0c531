package jobs

import (
	"context"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// EndpointDiscoveryJob manages the scheduled subnet sweep for new devices.
// Runs every minute; the sweep itself rate-limits its probe connections.
type EndpointDiscoveryJob struct {
	handler commands.DiscoverEndpointsCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewEndpointDiscoveryJob creates a new job for discovering endpoints.
// Uses DiscoverEndpointsCommandHandler to register unknown devices found on
// the local subnet.
func NewEndpointDiscoveryJob(
	handler commands.DiscoverEndpointsCommandHandler,
	logger *slog.Logger,
) *EndpointDiscoveryJob {
	return &EndpointDiscoveryJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "endpoint_discovery_job"),
	}
}

// Start begins the discovery job to run at the top of every minute.
func (j *EndpointDiscoveryJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewDiscoverEndpointsCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Endpoint discovery job failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Endpoint discovery job started (running every minute)")
	return nil
}

// Stop stops the endpoint discovery job.
func (j *EndpointDiscoveryJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Endpoint discovery job stopped")
}
