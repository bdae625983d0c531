// Package services provides domain services that orchestrate routing and
// delivery across multiple aggregates of the dispatch engine.
//
// The package includes:
//   - OrderRouter: resolves a finalized order against an assignment snapshot
//     into a per-endpoint partition of line items
//   - TicketComposer: renders a partition bucket into the raster byte stream
//     for one destination device
//   - DispatchCoordinator: delivers composed tickets concurrently with
//     bounded parallelism, retries, and per-endpoint failure isolation
//
// Domain services coordinate between aggregates, implementing business logic
// that spans multiple bounded contexts following Domain-Driven Design
// principles.
package services
