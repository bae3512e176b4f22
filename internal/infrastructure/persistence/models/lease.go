package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/chethandvg/tenantmanagement/internal/domain/billing"
)

// LeaseBillingSettingsModel stores the billing contract for one lease.
// The lease lifecycle itself is owned elsewhere; this table carries the
// slice the billing engine reads.
type LeaseBillingSettingsModel struct {
	LeaseID         uuid.UUID               `gorm:"type:uuid;primary_key"`
	OrgID           uuid.UUID               `gorm:"type:uuid;not null;index"`
	BillingDay      int                     `gorm:"not null;default:1"`
	PaymentTermDays int                     `gorm:"not null;default:7"`
	ProrationMethod billing.ProrationMethod `gorm:"type:varchar(20);not null"`
	InvoicePrefix   string                  `gorm:"type:varchar(20);not null"`
	RentTiming      billing.RentTiming      `gorm:"type:varchar(10);not null"`
	IsActive        bool                    `gorm:"not null;default:true;index"`
	ActiveFrom      time.Time               `gorm:"type:date;not null"`
	ActiveUntil     *time.Time              `gorm:"type:date"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName returns the table name for GORM
func (LeaseBillingSettingsModel) TableName() string {
	return "lease_billing_settings"
}

// ToDomain converts the persistence model to domain BillingSettings.
func (m *LeaseBillingSettingsModel) ToDomain() *billing.BillingSettings {
	return &billing.BillingSettings{
		LeaseID:         m.LeaseID,
		BillingDay:      m.BillingDay,
		PaymentTermDays: m.PaymentTermDays,
		ProrationMethod: m.ProrationMethod,
		InvoicePrefix:   m.InvoicePrefix,
		RentTiming:      m.RentTiming,
	}
}
