package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chethandvg/tenantmanagement/internal/domain/billing"
	"github.com/chethandvg/tenantmanagement/internal/domain/shared"
	"github.com/chethandvg/tenantmanagement/internal/infrastructure/persistence/models"
)

// GormInvoiceRepository implements InvoiceRepository using GORM.
// Invoice headers and their lines are written in one transaction.
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

func preloadLines(db *gorm.DB) *gorm.DB {
	return db.Preload("Lines", func(db *gorm.DB) *gorm.DB {
		return db.Order("line_number ASC")
	})
}

// FindByID finds an invoice with its lines
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := preloadLines(r.db.WithContext(ctx)).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForOrg finds an invoice scoped to an organization
func (r *GormInvoiceRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := preloadLines(r.db.WithContext(ctx)).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByLeaseAndPeriod finds the invoice covering a lease's billing
// period regardless of status
func (r *GormInvoiceRepository) FindByLeaseAndPeriod(ctx context.Context, orgID, leaseID uuid.UUID, periodStart, periodEnd time.Time) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := preloadLines(r.db.WithContext(ctx)).
		Where("org_id = ? AND lease_id = ? AND billing_period_start = ? AND billing_period_end = ?",
			orgID, leaseID, periodStart, periodEnd).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForOrg lists invoices with filtering and returns the unpaged total
func (r *GormInvoiceRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter billing.InvoiceFilter) ([]billing.Invoice, int64, error) {
	countQuery := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Where("org_id = ?", orgID)
	countQuery = applyInvoiceFilter(countQuery, filter)

	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := preloadLines(r.db.WithContext(ctx)).Model(&models.InvoiceModel{}).
		Where("org_id = ?", orgID)
	query = applyInvoiceFilter(query, filter)
	query = applyPagination(query, filter.Filter, "invoice_date DESC, created_at DESC")

	var invoiceModels []models.InvoiceModel
	if err := query.Find(&invoiceModels).Error; err != nil {
		return nil, 0, err
	}
	invoices := make([]billing.Invoice, len(invoiceModels))
	for i, model := range invoiceModels {
		invoices[i] = *model.ToDomain()
	}
	return invoices, total, nil
}

// Save creates or updates an invoice and its lines in one transaction
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return saveInvoiceTx(tx, invoice)
	})
}

// SaveWithLock updates the invoice header with an optimistic version
// check. Lines are untouched: post-issue transitions never alter them.
func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, invoice *billing.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	result := r.db.WithContext(ctx).
		Model(model).
		Omit("Lines").
		Where("id = ? AND version = ?", invoice.ID, invoice.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// SaveGenerated persists a generated draft and links the consumed
// utility statements to their invoice lines, all in one transaction
func (r *GormInvoiceRepository) SaveGenerated(ctx context.Context, invoice *billing.Invoice, lineByStatement map[uuid.UUID]uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveInvoiceTx(tx, invoice); err != nil {
			return err
		}
		for statementID, lineID := range lineByStatement {
			result := tx.Model(&models.UtilityStatementModel{}).
				Where("id = ? AND invoice_line_id IS NULL", statementID).
				Update("invoice_line_id", lineID)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return shared.ErrConcurrencyConflict
			}
		}
		return nil
	})
}

// saveInvoiceTx replaces the invoice's lines wholesale. Drafts are
// regenerated as a unit, so partial line updates are never needed.
func saveInvoiceTx(tx *gorm.DB, invoice *billing.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	if err := tx.Omit("Lines").Save(model).Error; err != nil {
		return err
	}
	if err := tx.Delete(&models.InvoiceLineModel{}, "invoice_id = ?", invoice.ID).Error; err != nil {
		return err
	}
	if len(model.Lines) == 0 {
		return nil
	}
	return tx.Create(&model.Lines).Error
}

// applyInvoiceFilter applies invoice-specific filters to the query
func applyInvoiceFilter(query *gorm.DB, filter billing.InvoiceFilter) *gorm.DB {
	if filter.LeaseID != nil {
		query = query.Where("lease_id = ?", *filter.LeaseID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.FromDate != nil {
		query = query.Where("invoice_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("invoice_date <= ?", *filter.ToDate)
	}
	return query
}

// applyPagination applies page/size and ordering from a shared filter
func applyPagination(query *gorm.DB, filter shared.Filter, defaultOrder string) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order(defaultOrder)
	}
	return query
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)
