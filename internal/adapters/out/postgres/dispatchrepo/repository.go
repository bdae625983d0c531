package dispatchrepo

import (
	"context"

	"dispatch/internal/core/domain/model/dispatch"
	"dispatch/internal/core/domain/model/kernel"

	"gorm.io/gorm"
)

// GormTicketRepository implements TicketRepository using GORM.
type GormTicketRepository struct {
	db *gorm.DB
}

// NewGormTicketRepository creates a new GORM ticket repository.
func NewGormTicketRepository(db *gorm.DB) *GormTicketRepository {
	return &GormTicketRepository{db: db}
}

// Add persists a composed ticket.
func (r *GormTicketRepository) Add(ctx context.Context, ticket *dispatch.Ticket) error {
	if err := ticket.Validate(); err != nil {
		return err
	}

	dto := ticketFromDomain(ticket)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// GetMaxSequence returns the highest dispatch sequence recorded for the order,
// or 0 when the order was never dispatched.
func (r *GormTicketRepository) GetMaxSequence(ctx context.Context, orderID kernel.UUID) (int, error) {
	if err := orderID.Validate(); err != nil {
		return 0, err
	}

	var maxSequence int
	err := r.db.WithContext(ctx).
		Model(&TicketDTO{}).
		Select("COALESCE(MAX(sequence), 0)").
		Where("order_id = ?", orderID.Bytes()).
		Scan(&maxSequence).Error
	if err != nil {
		return 0, err
	}

	return maxSequence, nil
}

// HasForEndpoint reports whether any ticket was ever composed for the endpoint.
func (r *GormTicketRepository) HasForEndpoint(ctx context.Context, endpointID kernel.UUID) (bool, error) {
	if err := endpointID.Validate(); err != nil {
		return false, err
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&TicketDTO{}).
		Where("endpoint_id = ?", endpointID.Bytes()).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// GormResultRepository implements DispatchResultRepository using GORM.
type GormResultRepository struct {
	db *gorm.DB
}

// NewGormResultRepository creates a new GORM dispatch result repository.
func NewGormResultRepository(db *gorm.DB) *GormResultRepository {
	return &GormResultRepository{db: db}
}

// Add persists a dispatch result.
func (r *GormResultRepository) Add(ctx context.Context, result *dispatch.Result) error {
	if err := result.Validate(); err != nil {
		return err
	}

	dto := resultFromDomain(result)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// GetAllForOrder retrieves every result recorded for the order's tickets
// across all sequences, newest sequence first.
func (r *GormResultRepository) GetAllForOrder(
	ctx context.Context,
	orderID kernel.UUID,
) ([]*dispatch.Result, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []ResultDTO
	err := r.db.WithContext(ctx).
		Table("dispatch_results").
		Select("dispatch_results.*").
		Joins("JOIN tickets ON tickets.id = dispatch_results.ticket_id").
		Where("tickets.order_id = ?", orderID.Bytes()).
		Order("tickets.sequence DESC").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	results := make([]*dispatch.Result, 0, len(dtos))
	for _, dto := range dtos {
		result, resultErr := resultToDomain(dto)
		if resultErr != nil {
			return nil, resultErr
		}
		results = append(results, result)
	}

	return results, nil
}
