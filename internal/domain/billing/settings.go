package billing

import (
	"context"
	"time"

	"github.com/chethandvg/tenantmanagement/internal/domain/shared"
	"github.com/google/uuid"
)

// RentTiming is when a period is invoiced relative to occupancy
type RentTiming string

const (
	// RentTimingAdvance invoices before the period starts
	RentTimingAdvance RentTiming = "ADVANCE"
	// RentTimingArrears invoices after the period has occurred
	RentTimingArrears RentTiming = "ARREARS"
)

// IsValid checks if the timing is a known RentTiming
func (t RentTiming) IsValid() bool {
	return t == RentTimingAdvance || t == RentTimingArrears
}

// BillingSettings is the per-lease billing contract supplied by the
// lease management collaborator. The engine validates what it consumes;
// it does not own these records.
type BillingSettings struct {
	LeaseID         uuid.UUID       `json:"lease_id"`
	BillingDay      int             `json:"billing_day"` // 1-28 so every month has the day
	PaymentTermDays int             `json:"payment_term_days"`
	ProrationMethod ProrationMethod `json:"proration_method"`
	InvoicePrefix   string          `json:"invoice_prefix"`
	RentTiming      RentTiming      `json:"rent_timing"`
}

// Validate rejects malformed settings before any billing side effect
func (s *BillingSettings) Validate() error {
	if s.LeaseID == uuid.Nil {
		return shared.NewDomainError("INVALID_LEASE", "Lease ID cannot be empty")
	}
	if s.BillingDay < 1 || s.BillingDay > 28 {
		return shared.NewDomainError("INVALID_BILLING_DAY", "Billing day must be between 1 and 28")
	}
	if s.PaymentTermDays < 0 {
		return shared.NewDomainError("INVALID_PAYMENT_TERM", "Payment term days cannot be negative")
	}
	if !s.ProrationMethod.IsValid() {
		return shared.NewDomainError("INVALID_PRORATION_METHOD", "Proration method is not valid")
	}
	if s.InvoicePrefix == "" {
		return shared.NewDomainError("INVALID_INVOICE_PREFIX", "Invoice prefix cannot be empty")
	}
	if !s.RentTiming.IsValid() {
		return shared.NewDomainError("INVALID_RENT_TIMING", "Rent timing is not valid")
	}
	return nil
}

// BillingSettingsProvider supplies per-lease billing settings.
// Implemented by the lease management collaborator.
type BillingSettingsProvider interface {
	SettingsForLease(ctx context.Context, leaseID uuid.UUID) (*BillingSettings, error)
}

// LeaseDirectory enumerates leases for batch runs.
// Implemented by the organization/lease collaborator.
type LeaseDirectory interface {
	// ActiveLeaseIDs returns leases active in the organization as of the
	// given date.
	ActiveLeaseIDs(ctx context.Context, orgID uuid.UUID, asOf time.Time) ([]uuid.UUID, error)
}
