// Package assignment contains the routing configuration of the dispatch
// engine: rules mapping a menu item or category to one or more endpoints, and
// the singleton default endpoint used when no rule matches.
//
// The configuration is read-mostly. Resolution never reads rules directly from
// storage; it works against a Snapshot, an immutable view taken in one
// consistent read, so a partially applied edit can never split a resolution.
package assignment
