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

// GormLeaseRepository reads the lease billing settings table. It backs
// both the per-lease settings lookup and the active lease enumeration
// used by batch runs.
type GormLeaseRepository struct {
	db *gorm.DB
}

// NewGormLeaseRepository creates a new GormLeaseRepository
func NewGormLeaseRepository(db *gorm.DB) *GormLeaseRepository {
	return &GormLeaseRepository{db: db}
}

// SettingsForLease returns the billing settings for a lease
func (r *GormLeaseRepository) SettingsForLease(ctx context.Context, leaseID uuid.UUID) (*billing.BillingSettings, error) {
	var model models.LeaseBillingSettingsModel
	if err := r.db.WithContext(ctx).
		First(&model, "lease_id = ?", leaseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// SaveSettings creates or updates a lease's billing settings
func (r *GormLeaseRepository) SaveSettings(ctx context.Context, orgID uuid.UUID, settings *billing.BillingSettings, activeFrom time.Time, activeUntil *time.Time) error {
	model := models.LeaseBillingSettingsModel{
		LeaseID:         settings.LeaseID,
		OrgID:           orgID,
		BillingDay:      settings.BillingDay,
		PaymentTermDays: settings.PaymentTermDays,
		ProrationMethod: settings.ProrationMethod,
		InvoicePrefix:   settings.InvoicePrefix,
		RentTiming:      settings.RentTiming,
		IsActive:        true,
		ActiveFrom:      activeFrom,
		ActiveUntil:     activeUntil,
	}
	return r.db.WithContext(ctx).Save(&model).Error
}

// ActiveLeaseIDs returns leases active in the organization as of the
// given date, in a fixed order so batch runs process them
// deterministically
func (r *GormLeaseRepository) ActiveLeaseIDs(ctx context.Context, orgID uuid.UUID, asOf time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.LeaseBillingSettingsModel{}).
		Where("org_id = ? AND is_active = ?", orgID, true).
		Where("active_from <= ?", asOf).
		Where("active_until IS NULL OR active_until >= ?", asOf).
		Order("lease_id ASC").
		Pluck("lease_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Ensure GormLeaseRepository implements the billing collaborator interfaces
var (
	_ billing.BillingSettingsProvider = (*GormLeaseRepository)(nil)
	_ billing.LeaseDirectory          = (*GormLeaseRepository)(nil)
)
