package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/chethandvg/tenantmanagement/internal/domain/billing"
	"github.com/chethandvg/tenantmanagement/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ChargeAggregator resolves the billable line items for a lease and
// billing period: active recurring charges clipped and prorated to the
// period, plus finalized utility statements not yet consumed by an
// invoice. Given identical inputs the output is deterministic, which is
// what makes draft regeneration idempotent.
type ChargeAggregator struct {
	chargeTypeRepo billing.ChargeTypeRepository
	chargeRepo     billing.RecurringChargeRepository
	statementRepo  billing.UtilityStatementRepository
}

// NewChargeAggregator creates a new ChargeAggregator
func NewChargeAggregator(
	chargeTypeRepo billing.ChargeTypeRepository,
	chargeRepo billing.RecurringChargeRepository,
	statementRepo billing.UtilityStatementRepository,
) *ChargeAggregator {
	return &ChargeAggregator{
		chargeTypeRepo: chargeTypeRepo,
		chargeRepo:     chargeRepo,
		statementRepo:  statementRepo,
	}
}

// AggregationResult carries the built lines plus the statement-to-line
// association the generator persists when it consumes the statements.
type AggregationResult struct {
	Lines []billing.InvoiceLine

	// LineByStatement maps a consumed utility statement ID to the
	// invoice line it produced.
	LineByStatement map[uuid.UUID]uuid.UUID
}

// BuildLineItems assembles line items for one lease and period.
// Recurring charge lines come first in repository order, then utility
// statement lines in repository order. Each recurring charge row yields
// its own line clipped to the period, so a mid-period rate change
// (modeled as two charge rows with adjacent windows) yields one
// independently prorated line per sub-range.
func (a *ChargeAggregator) BuildLineItems(
	ctx context.Context,
	orgID, leaseID uuid.UUID,
	periodStart, periodEnd time.Time,
	method billing.ProrationMethod,
) (*AggregationResult, error) {
	charges, err := a.chargeRepo.FindActiveOverlapping(ctx, orgID, leaseID, periodStart, periodEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to load recurring charges: %w", err)
	}

	chargeTypes, err := a.loadChargeTypes(ctx, charges)
	if err != nil {
		return nil, err
	}

	lines := make([]billing.InvoiceLine, 0, len(charges))
	for _, charge := range charges {
		chargeType, ok := chargeTypes[charge.ChargeTypeID]
		if !ok {
			return nil, shared.NewDomainError("CHARGE_TYPE_NOT_FOUND",
				fmt.Sprintf("Charge type %s referenced by charge %s not found", charge.ChargeTypeID, charge.ID))
		}

		line, skip, err := a.buildRecurringLine(charge, chargeType, periodStart, periodEnd, method)
		if err != nil {
			return nil, err
		}
		if skip {
			continue
		}
		lines = append(lines, line)
	}

	statements, err := a.statementRepo.FindPendingForLease(ctx, orgID, leaseID, periodEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending utility statements: %w", err)
	}

	lineByStatement := make(map[uuid.UUID]uuid.UUID, len(statements))
	for _, stmt := range statements {
		line, err := a.buildStatementLine(ctx, orgID, stmt)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
		lineByStatement[stmt.ID] = line.ID
	}

	return &AggregationResult{Lines: lines, LineByStatement: lineByStatement}, nil
}

// buildRecurringLine clips one charge to the billing period. The skip
// return is true when the charge contributes nothing to this period,
// e.g. a quarterly charge whose anniversary falls outside it.
func (a *ChargeAggregator) buildRecurringLine(
	charge billing.RecurringCharge,
	chargeType *billing.ChargeType,
	periodStart, periodEnd time.Time,
	method billing.ProrationMethod,
) (billing.InvoiceLine, bool, error) {
	source := lineSourceForCode(chargeType.Code)
	refID := charge.ID

	switch charge.Frequency {
	case billing.FrequencyOneTime:
		// Due date is the charge's start date; billed once, in full.
		if charge.StartDate.Before(periodStart) || charge.StartDate.After(periodEnd) {
			return billing.InvoiceLine{}, true, nil
		}
		line, err := billing.NewInvoiceLine(chargeType.ID,
			fmt.Sprintf("%s (one-time)", chargeType.Name),
			decimal.NewFromInt(1), charge.Amount, charge.Amount,
			chargeType.EffectiveTaxRate(), source, &refID)
		if err != nil {
			return billing.InvoiceLine{}, false, err
		}
		return line, false, nil

	case billing.FrequencyQuarterly, billing.FrequencyYearly:
		// Billed in full in the anniversary period, never prorated.
		if !anniversaryInPeriod(charge.StartDate, charge.Frequency, periodStart, periodEnd) {
			return billing.InvoiceLine{}, true, nil
		}
		line, err := billing.NewInvoiceLine(chargeType.ID,
			fmt.Sprintf("%s for %s", chargeType.Name, rangeLabel(periodStart, periodEnd)),
			decimal.NewFromInt(1), charge.Amount, charge.Amount,
			chargeType.EffectiveTaxRate(), source, &refID)
		if err != nil {
			return billing.InvoiceLine{}, false, err
		}
		return line.WithServicePeriod(periodStart, periodEnd), false, nil

	default: // monthly
		amount, err := billing.Prorate(charge.Amount, periodStart, periodEnd,
			charge.StartDate, charge.EffectiveEnd(), method)
		if err != nil {
			return billing.InvoiceLine{}, false, err
		}
		if amount.IsZero() {
			return billing.InvoiceLine{}, true, nil
		}

		windowStart := maxDate(periodStart, charge.StartDate)
		windowEnd := minDate(periodEnd, charge.EffectiveEnd())

		description := fmt.Sprintf("%s for %s", chargeType.Name, rangeLabel(windowStart, windowEnd))
		if amount.LessThan(charge.Amount) {
			description = fmt.Sprintf("%s for %s @ %s/mo",
				chargeType.Name, rangeLabel(windowStart, windowEnd), charge.Amount.StringFixed(2))
		}

		line, err := billing.NewInvoiceLine(chargeType.ID, description,
			decimal.NewFromInt(1), charge.Amount, amount,
			chargeType.EffectiveTaxRate(), source, &refID)
		if err != nil {
			return billing.InvoiceLine{}, false, err
		}
		return line.WithServicePeriod(windowStart, windowEnd), false, nil
	}
}

func (a *ChargeAggregator) buildStatementLine(ctx context.Context, orgID uuid.UUID, stmt billing.UtilityStatement) (billing.InvoiceLine, error) {
	chargeType, err := a.chargeTypeRepo.FindByCode(ctx, orgID, stmt.UtilityType.ChargeTypeCode())
	if err != nil {
		return billing.InvoiceLine{}, fmt.Errorf("failed to resolve charge type for %s: %w", stmt.UtilityType, err)
	}

	description := fmt.Sprintf("%s for %s", chargeType.Name,
		rangeLabel(stmt.BillingPeriodStart, stmt.BillingPeriodEnd))
	if stmt.IsMeterBased {
		description = fmt.Sprintf("%s (%s units)", description, stmt.UnitsConsumed.String())
	}

	refID := stmt.ID
	line, err := billing.NewInvoiceLine(chargeType.ID, description,
		decimal.NewFromInt(1), stmt.TotalAmount, stmt.TotalAmount,
		chargeType.EffectiveTaxRate(), billing.LineSourceUtility, &refID)
	if err != nil {
		return billing.InvoiceLine{}, err
	}
	return line.WithServicePeriod(stmt.BillingPeriodStart, stmt.BillingPeriodEnd), nil
}

func (a *ChargeAggregator) loadChargeTypes(ctx context.Context, charges []billing.RecurringCharge) (map[uuid.UUID]*billing.ChargeType, error) {
	if len(charges) == 0 {
		return map[uuid.UUID]*billing.ChargeType{}, nil
	}

	seen := make(map[uuid.UUID]struct{}, len(charges))
	ids := make([]uuid.UUID, 0, len(charges))
	for _, c := range charges {
		if _, ok := seen[c.ChargeTypeID]; ok {
			continue
		}
		seen[c.ChargeTypeID] = struct{}{}
		ids = append(ids, c.ChargeTypeID)
	}

	chargeTypes, err := a.chargeTypeRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load charge types: %w", err)
	}
	return chargeTypes, nil
}

// anniversaryInPeriod reports whether a quarterly or yearly charge has
// a billing anniversary inside the inclusive period.
func anniversaryInPeriod(startDate time.Time, frequency billing.ChargeFrequency, periodStart, periodEnd time.Time) bool {
	step := 3
	if frequency == billing.FrequencyYearly {
		step = 12
	}
	for d := startDate; !d.After(periodEnd); d = d.AddDate(0, step, 0) {
		if !d.Before(periodStart) {
			return true
		}
	}
	return false
}

func lineSourceForCode(code billing.ChargeTypeCode) billing.LineSource {
	switch code {
	case billing.ChargeTypeRent:
		return billing.LineSourceRent
	case billing.ChargeTypeMaintenance:
		return billing.LineSourceMaintenance
	case billing.ChargeTypeElectricity, billing.ChargeTypeWater, billing.ChargeTypeGas:
		return billing.LineSourceUtility
	default:
		return billing.LineSourceManual
	}
}

// rangeLabel renders a human date range: a full calendar month reads
// "January 2024", anything else reads as an explicit day range.
func rangeLabel(start, end time.Time) string {
	firstOfMonth := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	lastOfMonth := time.Date(start.Year(), start.Month()+1, 0, 0, 0, 0, 0, time.UTC)
	if start.Equal(firstOfMonth) && end.Equal(lastOfMonth) {
		return start.Format("January 2006")
	}
	if start.Year() == end.Year() && start.Month() == end.Month() {
		return fmt.Sprintf("%s %d-%d, %d", start.Format("Jan"), start.Day(), end.Day(), start.Year())
	}
	return fmt.Sprintf("%s to %s", start.Format("Jan 2, 2006"), end.Format("Jan 2, 2006"))
}

func maxDate(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minDate(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
