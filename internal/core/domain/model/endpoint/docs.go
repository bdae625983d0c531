// Package endpoint contains the Endpoint aggregate: a physical output device
// (typically a kitchen or bar printer) the engine can dispatch tickets to.
//
// An endpoint carries a network address, a declared rendering capability, and a
// health state maintained by the background health monitor. Endpoints are never
// hard-deleted while assignment rules reference them; they are soft-disabled
// instead so historical dispatch results keep a valid reference.
package endpoint
