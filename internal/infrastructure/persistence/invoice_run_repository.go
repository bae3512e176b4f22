package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/chethandvg/tenantmanagement/internal/domain/billing"
	"github.com/chethandvg/tenantmanagement/internal/domain/shared"
	"github.com/chethandvg/tenantmanagement/internal/infrastructure/persistence/models"
)

// GormInvoiceRunRepository implements InvoiceRunRepository using GORM
type GormInvoiceRunRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRunRepository creates a new GormInvoiceRunRepository
func NewGormInvoiceRunRepository(db *gorm.DB) *GormInvoiceRunRepository {
	return &GormInvoiceRunRepository{db: db}
}

// FindByID finds a run with its items
func (r *GormInvoiceRunRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.InvoiceRun, error) {
	var model models.InvoiceRunModel
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("processed_at_utc ASC, id ASC")
		}).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForOrg lists an organization's runs, newest first. Items are
// not loaded for listings.
func (r *GormInvoiceRunRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]billing.InvoiceRun, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.InvoiceRunModel{}).
		Where("org_id = ?", orgID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.db.WithContext(ctx).Model(&models.InvoiceRunModel{}).
		Where("org_id = ?", orgID)
	query = applyPagination(query, filter, "created_at DESC")

	var runModels []models.InvoiceRunModel
	if err := query.Find(&runModels).Error; err != nil {
		return nil, 0, err
	}
	runs := make([]billing.InvoiceRun, len(runModels))
	for i, model := range runModels {
		runs[i] = *model.ToDomain()
	}
	return runs, total, nil
}

// Save creates or updates a run and its items. Items already written by
// an earlier save of the same run are updated in place, so saving after
// each phase of a run is idempotent.
func (r *GormInvoiceRunRepository) Save(ctx context.Context, run *billing.InvoiceRun) error {
	model := models.InvoiceRunModelFromDomain(run)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(model).Error; err != nil {
			return err
		}
		if len(model.Items) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&model.Items).Error
	})
}

// Ensure GormInvoiceRunRepository implements InvoiceRunRepository
var _ billing.InvoiceRunRepository = (*GormInvoiceRunRepository)(nil)
