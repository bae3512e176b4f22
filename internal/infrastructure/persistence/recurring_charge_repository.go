package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chethandvg/tenantmanagement/internal/domain/billing"
	"github.com/chethandvg/tenantmanagement/internal/domain/shared"
	"github.com/chethandvg/tenantmanagement/internal/infrastructure/persistence/models"
)

// GormRecurringChargeRepository implements RecurringChargeRepository using GORM
type GormRecurringChargeRepository struct {
	db *gorm.DB
}

// NewGormRecurringChargeRepository creates a new GormRecurringChargeRepository
func NewGormRecurringChargeRepository(db *gorm.DB) *GormRecurringChargeRepository {
	return &GormRecurringChargeRepository{db: db}
}

// FindByID finds a recurring charge by its ID
func (r *GormRecurringChargeRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.RecurringCharge, error) {
	var model models.RecurringChargeModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActiveOverlapping returns a lease's active charges whose validity
// window intersects the inclusive billing period. The ordering is fixed
// so repeated aggregation over the same data yields identical lines.
func (r *GormRecurringChargeRepository) FindActiveOverlapping(ctx context.Context, orgID, leaseID uuid.UUID, periodStart, periodEnd time.Time) ([]billing.RecurringCharge, error) {
	var chargeModels []models.RecurringChargeModel
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND lease_id = ? AND is_active = ?", orgID, leaseID, true).
		Where("start_date <= ?", periodEnd).
		Where("end_date IS NULL OR end_date >= ?", periodStart).
		Order("charge_type_id ASC, start_date ASC, id ASC").
		Find(&chargeModels).Error; err != nil {
		return nil, err
	}
	charges := make([]billing.RecurringCharge, len(chargeModels))
	for i, model := range chargeModels {
		charges[i] = *model.ToDomain()
	}
	return charges, nil
}

// Save creates or updates a recurring charge
func (r *GormRecurringChargeRepository) Save(ctx context.Context, charge *billing.RecurringCharge) error {
	model := models.RecurringChargeModelFromDomain(charge)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormRecurringChargeRepository implements RecurringChargeRepository
var _ billing.RecurringChargeRepository = (*GormRecurringChargeRepository)(nil)
