package billing

import (
	"time"

	"github.com/chethandvg/tenantmanagement/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProrationMethod determines the denominator used when scaling a
// periodic charge to a partial period.
type ProrationMethod string

const (
	// ProrationActualDaysInMonth divides by the actual calendar days of
	// the billing month (28/29/30/31).
	ProrationActualDaysInMonth ProrationMethod = "ACTUAL_DAYS_IN_MONTH"
	// ProrationThirtyDayMonth always divides by a fixed 30-day month.
	ProrationThirtyDayMonth ProrationMethod = "THIRTY_DAY_MONTH"
)

// IsValid checks if the method is a known ProrationMethod
func (m ProrationMethod) IsValid() bool {
	return m == ProrationActualDaysInMonth || m == ProrationThirtyDayMonth
}

// String returns the string representation of ProrationMethod
func (m ProrationMethod) String() string {
	return string(m)
}

// Prorate computes the prorated portion of fullAmount for the overlap of
// the charge's validity window [chargeStart, chargeEnd] with the billing
// period [periodStart, periodEnd]. Both intervals are inclusive on both
// ends and compared at day granularity.
//
// The result is rounded to 2 decimal places, half away from zero.
// When the charge fully covers the period the full amount is returned
// unrounded so the common case carries no rounding drift.
func Prorate(fullAmount decimal.Decimal, periodStart, periodEnd, chargeStart, chargeEnd time.Time, method ProrationMethod) (decimal.Decimal, error) {
	if !method.IsValid() {
		return decimal.Zero, shared.NewDomainError("INVALID_PRORATION_METHOD", "Proration method is not valid")
	}

	periodStart = truncateToDay(periodStart)
	periodEnd = truncateToDay(periodEnd)
	chargeStart = truncateToDay(chargeStart)
	chargeEnd = truncateToDay(chargeEnd)

	// A reversed interval is a programming error, never silently clamped.
	if periodEnd.Before(periodStart) {
		return decimal.Zero, shared.NewDomainError("INVALID_PERIOD", "Billing period end cannot be before period start")
	}
	if chargeEnd.Before(chargeStart) {
		return decimal.Zero, shared.NewDomainError("INVALID_CHARGE_WINDOW", "Charge end date cannot be before charge start date")
	}

	overlapStart := laterOf(periodStart, chargeStart)
	overlapEnd := earlierOf(periodEnd, chargeEnd)
	if overlapEnd.Before(overlapStart) {
		return decimal.Zero, nil
	}

	if overlapStart.Equal(periodStart) && overlapEnd.Equal(periodEnd) {
		return fullAmount, nil
	}

	numerator := daysInclusive(overlapStart, overlapEnd)

	var denominator int
	switch method {
	case ProrationActualDaysInMonth:
		denominator = daysInMonth(periodStart.Year(), periodEnd.Month())
	case ProrationThirtyDayMonth:
		denominator = 30
	}

	prorated := fullAmount.
		Mul(decimal.NewFromInt(int64(numerator))).
		Div(decimal.NewFromInt(int64(denominator)))
	return prorated.Round(2), nil
}

// truncateToDay drops the time-of-day component, keeping the date in UTC
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysInclusive counts calendar days from a through b, both included
func daysInclusive(a, b time.Time) int {
	return int(b.Sub(a)/(24*time.Hour)) + 1
}

// daysInMonth returns the number of calendar days in the given month
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earlierOf(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
