package billing

import (
	"time"

	"github.com/chethandvg/tenantmanagement/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ChargeFrequency is how often a recurring charge bills
type ChargeFrequency string

const (
	FrequencyOneTime   ChargeFrequency = "ONE_TIME"
	FrequencyMonthly   ChargeFrequency = "MONTHLY"
	FrequencyQuarterly ChargeFrequency = "QUARTERLY"
	FrequencyYearly    ChargeFrequency = "YEARLY"
)

// IsValid checks if the frequency is a known ChargeFrequency
func (f ChargeFrequency) IsValid() bool {
	switch f {
	case FrequencyOneTime, FrequencyMonthly, FrequencyQuarterly, FrequencyYearly:
		return true
	}
	return false
}

// String returns the string representation of ChargeFrequency
func (f ChargeFrequency) String() string {
	return string(f)
}

// RecurringCharge is a charge attached to a lease with a validity window.
// Mid-tenancy rate changes are modeled as multiple charges of the same
// type with adjacent windows and different amounts; the aggregator emits
// one invoice line per window. Charges referenced by an issued invoice
// are soft-deleted, never removed.
type RecurringCharge struct {
	shared.OrgAggregateRoot
	LeaseID      uuid.UUID       `json:"lease_id"`
	ChargeTypeID uuid.UUID       `json:"charge_type_id"`
	Amount       decimal.Decimal `json:"amount"`
	Frequency    ChargeFrequency `json:"frequency"`
	StartDate    time.Time       `json:"start_date"`
	EndDate      *time.Time      `json:"end_date"` // nil = open-ended
	IsActive     bool            `json:"is_active"`
}

// NewRecurringCharge creates a new recurring charge for a lease
func NewRecurringCharge(orgID, leaseID, chargeTypeID uuid.UUID, amount decimal.Decimal, frequency ChargeFrequency, startDate time.Time, endDate *time.Time) (*RecurringCharge, error) {
	if leaseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LEASE", "Lease ID cannot be empty")
	}
	if chargeTypeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CHARGE_TYPE", "Charge type ID cannot be empty")
	}
	if amount.IsNegative() || amount.IsZero() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Charge amount must be positive")
	}
	if !frequency.IsValid() {
		return nil, shared.NewDomainError("INVALID_FREQUENCY", "Charge frequency is not valid")
	}
	if endDate != nil && endDate.Before(startDate) {
		return nil, shared.NewDomainError("INVALID_DATE_RANGE", "Charge end date cannot be before start date")
	}

	return &RecurringCharge{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		LeaseID:          leaseID,
		ChargeTypeID:     chargeTypeID,
		Amount:           amount,
		Frequency:        frequency,
		StartDate:        truncateToDay(startDate),
		EndDate:          normalizeEndDate(endDate),
		IsActive:         true,
	}, nil
}

// Deactivate soft-disables the charge for future billing
func (rc *RecurringCharge) Deactivate() {
	rc.IsActive = false
}

// EndOn closes the charge's validity window. The charge still bills,
// prorated, for any period it overlaps up to the end date.
func (rc *RecurringCharge) EndOn(endDate time.Time) error {
	day := truncateToDay(endDate)
	if day.Before(rc.StartDate) {
		return shared.NewDomainError("INVALID_DATE_RANGE", "Charge end date cannot be before start date")
	}
	rc.EndDate = &day
	return nil
}

// EffectiveEnd returns the last day the charge is valid, or the far
// future for open-ended charges.
func (rc *RecurringCharge) EffectiveEnd() time.Time {
	if rc.EndDate == nil {
		return time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)
	}
	return *rc.EndDate
}

// Overlaps reports whether the charge's validity window intersects the
// inclusive period [periodStart, periodEnd].
func (rc *RecurringCharge) Overlaps(periodStart, periodEnd time.Time) bool {
	return !rc.StartDate.After(truncateToDay(periodEnd)) &&
		!rc.EffectiveEnd().Before(truncateToDay(periodStart))
}

func normalizeEndDate(endDate *time.Time) *time.Time {
	if endDate == nil {
		return nil
	}
	d := truncateToDay(*endDate)
	return &d
}
