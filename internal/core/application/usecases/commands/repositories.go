// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"dispatch/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// EndpointRepoFactory provides access to the endpoint repository within a transaction.
	EndpointRepoFactory interface {
		EndpointRepository() ports.EndpointRepository
	}

	// RuleRepoFactory provides access to the rule repository within a transaction.
	RuleRepoFactory interface {
		RuleRepository() ports.RuleRepository
	}

	// TicketRepoFactory provides access to the ticket repository within a transaction.
	TicketRepoFactory interface {
		TicketRepository() ports.TicketRepository
	}

	// ResultRepoFactory provides access to the result repository within a transaction.
	ResultRepoFactory interface {
		DispatchResultRepository() ports.DispatchResultRepository
	}

	// EndpointUoW manages transactions for endpoint-only operations,
	// such as registration and health updates.
	EndpointUoW interface {
		TxManager
		EndpointRepoFactory
	}

	// EndpointUoWFactory creates new endpoint unit of work instances.
	EndpointUoWFactory interface {
		Create() EndpointUoW
	}

	// ConfigUoW manages transactions that touch endpoints and rules, such as
	// rule edits that validate endpoint existence and cascading endpoint
	// removal. Removal also consults ticket history to decide between
	// deleting and soft-disabling.
	ConfigUoW interface {
		TxManager
		EndpointRepoFactory
		RuleRepoFactory
		TicketRepoFactory
	}

	// ConfigUoWFactory creates new configuration unit of work instances.
	ConfigUoWFactory interface {
		Create() ConfigUoW
	}

	// DispatchUoW manages transactions for the dispatch workflow, which reads
	// configuration, persists tickets, and records results with health updates.
	DispatchUoW interface {
		TxManager
		EndpointRepoFactory
		RuleRepoFactory
		TicketRepoFactory
		ResultRepoFactory
	}

	// DispatchUoWFactory creates new dispatch unit of work instances.
	DispatchUoWFactory interface {
		Create() DispatchUoW
	}
)
