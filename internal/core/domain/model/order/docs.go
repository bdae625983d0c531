// Package order contains the finalized order snapshot the engine receives from
// the order-management collaborator. The snapshot is read-only input: the
// engine never mutates it, and business semantics such as pricing, taxes, or
// voids live outside this module.
package order
