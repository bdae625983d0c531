package rulerepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// defaultEndpointRowID is the primary key of the singleton fallback row.
const defaultEndpointRowID = 1

// GormRuleRepository implements RuleRepository using GORM. It owns both the
// assignment rule table and the singleton default endpoint row so a snapshot
// can be read from one place.
type GormRuleRepository struct {
	db *gorm.DB
}

// NewGormRuleRepository creates a new GORM rule repository.
func NewGormRuleRepository(db *gorm.DB) *GormRuleRepository {
	return &GormRuleRepository{db: db}
}

// Add persists an assignment rule. Re-inserting an existing
// (scope, targetID, endpointID) triple is a no-op so replication retries
// and double-submits never produce duplicate rows.
func (r *GormRuleRepository) Add(ctx context.Context, rule *assignment.Rule) error {
	if err := rule.Validate(); err != nil {
		return err
	}

	dto := fromDomain(rule)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "scope"}, {Name: "target_id"}, {Name: "endpoint_id"}},
			DoNothing: true,
		}).
		Create(&dto).Error
}

// Remove deletes the rule matching the triple. Removing a missing rule is a no-op.
func (r *GormRuleRepository) Remove(
	ctx context.Context,
	scope assignment.Scope,
	targetID string,
	endpointID kernel.UUID,
) error {
	if err := scope.Validate(); err != nil {
		return err
	}
	if err := endpointID.Validate(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Delete(&RuleDTO{}, "scope = ? AND target_id = ? AND endpoint_id = ?",
			int(scope), targetID, endpointID.Bytes()).Error
}

// RemoveAllForEndpoint deletes every rule that targets the endpoint.
func (r *GormRuleRepository) RemoveAllForEndpoint(ctx context.Context, endpointID kernel.UUID) error {
	if err := endpointID.Validate(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Delete(&RuleDTO{}, "endpoint_id = ?", endpointID.Bytes()).Error
}

// HasRulesFor reports whether any rule references the endpoint.
func (r *GormRuleRepository) HasRulesFor(ctx context.Context, endpointID kernel.UUID) (bool, error) {
	if err := endpointID.Validate(); err != nil {
		return false, err
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&RuleDTO{}).
		Where("endpoint_id = ?", endpointID.Bytes()).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// GetAll retrieves every stored rule in a stable listing order.
func (r *GormRuleRepository) GetAll(ctx context.Context) ([]*assignment.Rule, error) {
	var dtos []RuleDTO
	err := r.db.WithContext(ctx).
		Order("scope, target_id, created_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	rules := make([]*assignment.Rule, 0, len(dtos))
	for _, dto := range dtos {
		rule, ruleErr := toDomain(dto)
		if ruleErr != nil {
			return nil, ruleErr
		}
		rules = append(rules, rule)
	}

	return rules, nil
}

// GetSnapshot loads the full rule set plus the default endpoint as one
// immutable snapshot for a resolution pass.
func (r *GormRuleRepository) GetSnapshot(ctx context.Context) (*assignment.Snapshot, error) {
	rules, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	defaultEndpoint, err := r.GetDefault(ctx)
	if err != nil {
		return nil, err
	}

	return assignment.NewSnapshot(rules, defaultEndpoint)
}

// GetDefault retrieves the fallback endpoint, or nil when none is configured.
func (r *GormRuleRepository) GetDefault(ctx context.Context) (*kernel.UUID, error) {
	var dto DefaultEndpointDTO
	err := r.db.WithContext(ctx).First(&dto, "id = ?", defaultEndpointRowID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	id, err := kernel.UUIDFromBytes(dto.EndpointID[:])
	if err != nil {
		return nil, err
	}

	return &id, nil
}

// SetDefault replaces the fallback endpoint, creating the singleton row on
// first use.
func (r *GormRuleRepository) SetDefault(ctx context.Context, endpointID kernel.UUID) error {
	if err := endpointID.Validate(); err != nil {
		return err
	}

	dto := DefaultEndpointDTO{
		ID:         defaultEndpointRowID,
		EndpointID: endpointID.Bytes(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"endpoint_id"}),
		}).
		Create(&dto).Error
}

// ClearDefault removes the fallback endpoint. Clearing an unset default is a no-op.
func (r *GormRuleRepository) ClearDefault(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Delete(&DefaultEndpointDTO{}, "id = ?", defaultEndpointRowID).Error
}
