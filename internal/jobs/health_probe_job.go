package jobs

import (
	"context"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// HealthProbeJob manages the scheduled probing of endpoint reachability.
// Runs every five seconds so dispatch decisions work from fresh health state.
type HealthProbeJob struct {
	handler commands.ProbeEndpointsCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewHealthProbeJob creates a new job for probing endpoints.
// Uses ProbeEndpointsCommandHandler to sweep every enabled endpoint.
func NewHealthProbeJob(handler commands.ProbeEndpointsCommandHandler, logger *slog.Logger) *HealthProbeJob {
	return &HealthProbeJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "health_probe_job"),
	}
}

// Start begins the health probe job to run every five seconds.
func (j *HealthProbeJob) Start() error {
	_, err := j.cron.AddFunc("*/5 * * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewProbeEndpointsCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Health probe job failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Health probe job started (running every 5 seconds)")
	return nil
}

// Stop stops the health probe job.
func (j *HealthProbeJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Health probe job stopped")
}
