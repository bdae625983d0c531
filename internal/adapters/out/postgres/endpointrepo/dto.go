// Package endpointrepo provides data transfer objects and mapping functions
// for endpoint persistence. This package implements the repository pattern for
// the endpoint domain aggregate, handling the conversion between domain
// entities and database representations.
package endpointrepo

import (
	"time"

	"dispatch/internal/core/domain/model/endpoint"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// EndpointDTO represents the database structure for persisting endpoint
// aggregates, including the health bookkeeping maintained by the monitor.
type EndpointDTO struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name                string     `gorm:"type:varchar(255);not null"`
	Host                string     `gorm:"type:varchar(255);not null;uniqueIndex:idx_endpoints_address"`
	Port                int        `gorm:"type:int;not null;uniqueIndex:idx_endpoints_address"`
	LineWidth           int        `gorm:"type:int;not null"`
	SupportsCut         bool       `gorm:"type:boolean;not null"`
	Health              int        `gorm:"type:int;not null"`
	ConsecutiveFailures int        `gorm:"type:int;not null"`
	LastSeenAt          *time.Time `gorm:"type:timestamptz"`
	Enabled             bool       `gorm:"type:boolean;not null"`
}

// TableName specifies the database table name for endpoint entities.
// Overrides GORM's default naming convention to use "endpoints" instead of "endpoint_dtos".
func (EndpointDTO) TableName() string {
	return "endpoints"
}

// fromDomain converts an endpoint domain aggregate to its database representation.
func fromDomain(e *endpoint.Endpoint) EndpointDTO {
	return EndpointDTO{
		ID:                  e.ID().Bytes(),
		Name:                e.Name(),
		Host:                e.Address().Host(),
		Port:                e.Address().Port(),
		LineWidth:           e.Capability().LineWidth(),
		SupportsCut:         e.Capability().SupportsCut(),
		Health:              int(e.Health()),
		ConsecutiveFailures: e.ConsecutiveFailures(),
		LastSeenAt:          e.LastSeenAt(),
		Enabled:             e.IsEnabled(),
	}
}

// toDomain converts a database DTO to an endpoint domain aggregate.
// Reconstructs the complete aggregate state using RestoreEndpoint.
func toDomain(dto EndpointDTO) (*endpoint.Endpoint, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	address, err := kernel.NewNetworkAddress(dto.Host, dto.Port)
	if err != nil {
		return nil, err
	}

	capability, err := endpoint.NewCapability(dto.LineWidth, dto.SupportsCut)
	if err != nil {
		return nil, err
	}

	return endpoint.RestoreEndpoint(
		id,
		dto.Name,
		address,
		capability,
		endpoint.Health(dto.Health),
		dto.ConsecutiveFailures,
		dto.LastSeenAt,
		dto.Enabled,
	)
}
