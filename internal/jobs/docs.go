// Package jobs provides scheduled background tasks for the dispatch engine.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle the periodic operations the engine needs.
//
// # Available Jobs
//
// 1. HealthProbeJob - Runs every five seconds to probe every enabled endpoint
// and keep its health state fresh
// 2. EndpointDiscoveryJob - Runs every minute to sweep the local subnet and
// register unknown devices
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(probeHandler, discoverHandler, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Job errors are logged and the next tick runs normally; a transient probe or
// scan failure must not stop the schedule. Failed job starts stop any already
// running jobs.
package jobs
