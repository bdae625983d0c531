// Package dispatchrepo provides data transfer objects and mapping functions
// for ticket and dispatch result persistence. Both records are append-only:
// tickets are immutable once composed and results are stored terminal.
package dispatchrepo

import (
	"time"

	"dispatch/internal/core/domain/model/dispatch"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// TicketDTO represents the database structure for persisting composed tickets.
type TicketDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EndpointID uuid.UUID `gorm:"type:uuid;not null;index"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Sequence   int       `gorm:"type:int;not null"`
	Content    []byte    `gorm:"type:bytea;not null"`
	CreatedAt  time.Time `gorm:"type:timestamptz;not null"`
}

// TableName specifies the database table name for ticket entities.
func (TicketDTO) TableName() string {
	return "tickets"
}

// ResultDTO represents the database structure for persisting dispatch results.
// A ticket gets at most one result, so the ticket id doubles as primary key.
type ResultDTO struct {
	TicketID   uuid.UUID  `gorm:"type:uuid;primaryKey"`
	EndpointID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Outcome    int        `gorm:"type:int;not null"`
	Attempts   int        `gorm:"type:int;not null"`
	LastError  string     `gorm:"type:text"`
	FinishedAt *time.Time `gorm:"type:timestamptz"`
}

// TableName specifies the database table name for dispatch result entities.
func (ResultDTO) TableName() string {
	return "dispatch_results"
}

// ticketFromDomain converts a ticket to its database representation.
func ticketFromDomain(t *dispatch.Ticket) TicketDTO {
	return TicketDTO{
		ID:         t.ID().Bytes(),
		EndpointID: t.EndpointID().Bytes(),
		OrderID:    t.OrderID().Bytes(),
		Sequence:   t.Sequence(),
		Content:    t.Content(),
		CreatedAt:  t.CreatedAt(),
	}
}

// resultFromDomain converts a dispatch result to its database representation.
func resultFromDomain(r *dispatch.Result) ResultDTO {
	return ResultDTO{
		TicketID:   r.TicketID().Bytes(),
		EndpointID: r.EndpointID().Bytes(),
		Outcome:    int(r.Outcome()),
		Attempts:   r.Attempts(),
		LastError:  r.LastError(),
		FinishedAt: r.FinishedAt(),
	}
}

// resultToDomain converts a database DTO to a dispatch result.
func resultToDomain(dto ResultDTO) (*dispatch.Result, error) {
	ticketID, err := kernel.UUIDFromBytes(dto.TicketID[:])
	if err != nil {
		return nil, err
	}

	endpointID, err := kernel.UUIDFromBytes(dto.EndpointID[:])
	if err != nil {
		return nil, err
	}

	return dispatch.RestoreResult(
		ticketID,
		endpointID,
		dispatch.Outcome(dto.Outcome),
		dto.Attempts,
		dto.LastError,
		dto.FinishedAt,
	)
}
