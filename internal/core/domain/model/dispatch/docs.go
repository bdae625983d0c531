// Package dispatch contains the artifacts of one dispatch cycle: the routing
// partition produced by resolution, the rendered tickets, and the per-endpoint
// dispatch results with their outcome state machine.
//
// A partition is ephemeral and lives only for the duration of one cycle.
// Tickets are immutable once composed and are never reused across orders.
// Results are terminal records kept for operator visibility and audit.
package dispatch
