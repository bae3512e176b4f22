package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/chethandvg/tenantmanagement/internal/domain/billing"
	"github.com/chethandvg/tenantmanagement/internal/domain/shared"
	"github.com/chethandvg/tenantmanagement/internal/infrastructure/persistence/models"
)

// GormCreditNoteRepository implements CreditNoteRepository using GORM
type GormCreditNoteRepository struct {
	db *gorm.DB
}

// NewGormCreditNoteRepository creates a new GormCreditNoteRepository
func NewGormCreditNoteRepository(db *gorm.DB) *GormCreditNoteRepository {
	return &GormCreditNoteRepository{db: db}
}

// FindByID finds a credit note by its ID
func (r *GormCreditNoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.CreditNote, error) {
	var model models.CreditNoteModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByInvoice lists an invoice's credit notes, oldest first
func (r *GormCreditNoteRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]billing.CreditNote, error) {
	var noteModels []models.CreditNoteModel
	if err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("created_at ASC, id ASC").
		Find(&noteModels).Error; err != nil {
		return nil, err
	}
	notes := make([]billing.CreditNote, len(noteModels))
	for i, model := range noteModels {
		notes[i] = *model.ToDomain()
	}
	return notes, nil
}

// SumAppliedForInvoice returns the sum of applied credit note totals for
// an invoice
func (r *GormCreditNoteRepository) SumAppliedForInvoice(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.CreditNoteModel{}).
		Select("COALESCE(SUM(total_amount), 0) as total").
		Where("invoice_id = ? AND applied_at_utc IS NOT NULL", invoiceID).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// Save creates or updates a credit note
func (r *GormCreditNoteRepository) Save(ctx context.Context, note *billing.CreditNote) error {
	model := models.CreditNoteModelFromDomain(note)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveApplied persists the applied note and the invoice's refreshed
// credit total together. The invoice write carries an optimistic
// version check so two simultaneous applications cannot both land.
func (r *GormCreditNoteRepository) SaveApplied(ctx context.Context, note *billing.CreditNote, invoice *billing.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		noteModel := models.CreditNoteModelFromDomain(note)
		if err := tx.Save(noteModel).Error; err != nil {
			return err
		}

		invoiceModel := models.InvoiceModelFromDomain(invoice)
		result := tx.Model(invoiceModel).
			Omit("Lines").
			Where("id = ? AND version = ?", invoice.ID, invoice.Version-1).
			Updates(invoiceModel)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return nil
	})
}

// Ensure GormCreditNoteRepository implements CreditNoteRepository
var _ billing.CreditNoteRepository = (*GormCreditNoteRepository)(nil)
