package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chethandvg/tenantmanagement/internal/domain/billing"
	"github.com/chethandvg/tenantmanagement/internal/domain/shared"
	"github.com/chethandvg/tenantmanagement/internal/infrastructure/persistence/models"
)

// GormUtilityRatePlanRepository implements UtilityRatePlanRepository using GORM
type GormUtilityRatePlanRepository struct {
	db *gorm.DB
}

// NewGormUtilityRatePlanRepository creates a new GormUtilityRatePlanRepository
func NewGormUtilityRatePlanRepository(db *gorm.DB) *GormUtilityRatePlanRepository {
	return &GormUtilityRatePlanRepository{db: db}
}

// FindByID finds a rate plan by its ID
func (r *GormUtilityRatePlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.UtilityRatePlan, error) {
	var model models.UtilityRatePlanModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a rate plan
func (r *GormUtilityRatePlanRepository) Save(ctx context.Context, plan *billing.UtilityRatePlan) error {
	model := models.UtilityRatePlanModelFromDomain(plan)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormUtilityRatePlanRepository implements UtilityRatePlanRepository
var _ billing.UtilityRatePlanRepository = (*GormUtilityRatePlanRepository)(nil)
