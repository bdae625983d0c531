package endpointrepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/endpoint"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormEndpointRepository implements EndpointRepository using GORM.
type GormEndpointRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormEndpointRepository creates a new GORM endpoint repository.
func NewGormEndpointRepository(db *gorm.DB, tracker aggregateTracker) *GormEndpointRepository {
	return &GormEndpointRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new endpoint to the database.
func (r *GormEndpointRepository) Add(ctx context.Context, aggregate *endpoint.Endpoint) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing endpoint to the database, including health-state
// changes made by the monitor or the dispatch coordinator.
func (r *GormEndpointRepository) Update(ctx context.Context, aggregate *endpoint.Endpoint) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Save(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an endpoint by ID.
func (r *GormEndpointRepository) Get(ctx context.Context, id kernel.UUID) (*endpoint.Endpoint, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto EndpointDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("endpoint", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByAddress retrieves the endpoint registered at the given network address.
// Discovery uses this to skip devices that are already known.
func (r *GormEndpointRepository) GetByAddress(
	ctx context.Context,
	address kernel.NetworkAddress,
) (*endpoint.Endpoint, error) {
	if err := address.Validate(); err != nil {
		return nil, err
	}

	var dto EndpointDTO
	err := r.db.WithContext(ctx).
		First(&dto, "host = ? AND port = ?", address.Host(), address.Port()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("endpoint", address.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAll retrieves every registered endpoint, enabled or not.
func (r *GormEndpointRepository) GetAll(ctx context.Context) ([]*endpoint.Endpoint, error) {
	var dtos []EndpointDTO
	if err := r.db.WithContext(ctx).Order("name").Find(&dtos).Error; err != nil {
		return nil, err
	}

	return r.toDomainAll(dtos)
}

// GetAllEnabled retrieves the endpoints that participate in routing and probing.
func (r *GormEndpointRepository) GetAllEnabled(ctx context.Context) ([]*endpoint.Endpoint, error) {
	var dtos []EndpointDTO
	if err := r.db.WithContext(ctx).Where("enabled = ?", true).Order("name").Find(&dtos).Error; err != nil {
		return nil, err
	}

	return r.toDomainAll(dtos)
}

// Delete removes an endpoint permanently. The caller is responsible for
// checking referential integrity against assignment rules and the default.
func (r *GormEndpointRepository) Delete(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&EndpointDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("endpoint", id.String())
	}

	return nil
}

func (r *GormEndpointRepository) toDomainAll(dtos []EndpointDTO) ([]*endpoint.Endpoint, error) {
	endpoints := make([]*endpoint.Endpoint, 0, len(dtos))
	for _, dto := range dtos {
		e, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		endpoints = append(endpoints, e)
	}

	return endpoints, nil
}
