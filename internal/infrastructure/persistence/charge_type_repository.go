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

// GormChargeTypeRepository implements ChargeTypeRepository using GORM
type GormChargeTypeRepository struct {
	db *gorm.DB
}

// NewGormChargeTypeRepository creates a new GormChargeTypeRepository
func NewGormChargeTypeRepository(db *gorm.DB) *GormChargeTypeRepository {
	return &GormChargeTypeRepository{db: db}
}

// FindByID finds a charge type by its ID
func (r *GormChargeTypeRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.ChargeType, error) {
	var model models.ChargeTypeModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs loads several charge types at once, keyed by ID
func (r *GormChargeTypeRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*billing.ChargeType, error) {
	result := make(map[uuid.UUID]*billing.ChargeType, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var typeModels []models.ChargeTypeModel
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&typeModels).Error; err != nil {
		return nil, err
	}
	for i := range typeModels {
		result[typeModels[i].ID] = typeModels[i].ToDomain()
	}
	return result, nil
}

// FindByCode finds an organization's charge type by its code
func (r *GormChargeTypeRepository) FindByCode(ctx context.Context, orgID uuid.UUID, code billing.ChargeTypeCode) (*billing.ChargeType, error) {
	var model models.ChargeTypeModel
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND code = ?", orgID, code).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForOrg lists an organization's charge types
func (r *GormChargeTypeRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID) ([]billing.ChargeType, error) {
	var typeModels []models.ChargeTypeModel
	if err := r.db.WithContext(ctx).
		Where("org_id = ?", orgID).
		Order("code ASC").
		Find(&typeModels).Error; err != nil {
		return nil, err
	}
	chargeTypes := make([]billing.ChargeType, len(typeModels))
	for i, model := range typeModels {
		chargeTypes[i] = *model.ToDomain()
	}
	return chargeTypes, nil
}

// Save creates or updates a charge type
func (r *GormChargeTypeRepository) Save(ctx context.Context, chargeType *billing.ChargeType) error {
	model := models.ChargeTypeModelFromDomain(chargeType)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormChargeTypeRepository implements ChargeTypeRepository
var _ billing.ChargeTypeRepository = (*GormChargeTypeRepository)(nil)
