package jobs

import (
	"fmt"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	healthProbeJob       *HealthProbeJob
	endpointDiscoveryJob *EndpointDiscoveryJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	probeHandler commands.ProbeEndpointsCommandHandler,
	discoverHandler commands.DiscoverEndpointsCommandHandler,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		healthProbeJob:       NewHealthProbeJob(probeHandler, logger),
		endpointDiscoveryJob: NewEndpointDiscoveryJob(discoverHandler, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.healthProbeJob.Start(); err != nil {
		return fmt.Errorf("failed to start health probe job: %w", err)
	}

	if err := jm.endpointDiscoveryJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.healthProbeJob.Stop()
		return fmt.Errorf("failed to start endpoint discovery job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.endpointDiscoveryJob.Stop()
	jm.healthProbeJob.Stop()
}
