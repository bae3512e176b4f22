package billing

import (
	"time"

	"github.com/chethandvg/tenantmanagement/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UtilityType identifies the metered or billed utility
type UtilityType string

const (
	UtilityElectricity UtilityType = "ELECTRICITY"
	UtilityWater       UtilityType = "WATER"
	UtilityGas         UtilityType = "GAS"
)

// IsValid checks if the type is a known UtilityType
func (u UtilityType) IsValid() bool {
	switch u {
	case UtilityElectricity, UtilityWater, UtilityGas:
		return true
	}
	return false
}

// String returns the string representation of UtilityType
func (u UtilityType) String() string {
	return string(u)
}

// ChargeTypeCode maps the utility to its invoice charge type
func (u UtilityType) ChargeTypeCode() ChargeTypeCode {
	switch u {
	case UtilityElectricity:
		return ChargeTypeElectricity
	case UtilityWater:
		return ChargeTypeWater
	case UtilityGas:
		return ChargeTypeGas
	}
	return ChargeTypeCustom
}

// UtilityStatement captures one period of utility consumption for a
// lease, either meter-based (readings rated against a tiered plan) or a
// direct pass-through of the provider's bill.
//
// Statements form an append-only correction chain: finalizing freezes
// the statement, and a correction creates a new statement with
// Revision+1 referencing the same period. Only finalized statements not
// yet linked to an invoice line are eligible for aggregation.
type UtilityStatement struct {
	shared.OrgAggregateRoot
	LeaseID            uuid.UUID        `json:"lease_id"`
	UtilityType        UtilityType      `json:"utility_type"`
	BillingPeriodStart time.Time        `json:"billing_period_start"`
	BillingPeriodEnd   time.Time        `json:"billing_period_end"`
	IsMeterBased       bool             `json:"is_meter_based"`
	PreviousReading    *decimal.Decimal `json:"previous_reading"`
	CurrentReading     *decimal.Decimal `json:"current_reading"`
	RatePlanID         *uuid.UUID       `json:"rate_plan_id"`
	DirectBillAmount   *decimal.Decimal `json:"direct_bill_amount"`
	UnitsConsumed      decimal.Decimal  `json:"units_consumed"`
	CalculatedAmount   decimal.Decimal  `json:"calculated_amount"`
	TotalAmount        decimal.Decimal  `json:"total_amount"`
	Revision           int              `json:"revision"` // correction chain, starts at 1
	IsFinal            bool             `json:"is_final"`
	InvoiceLineID      *uuid.UUID       `json:"invoice_line_id"` // set when consumed by an invoice
}

// NewMeterStatement creates a meter-based statement rated against plan
func NewMeterStatement(orgID, leaseID uuid.UUID, utilityType UtilityType, periodStart, periodEnd time.Time, previousReading, currentReading decimal.Decimal, plan *UtilityRatePlan) (*UtilityStatement, error) {
	if err := validateStatementBasics(leaseID, utilityType, periodStart, periodEnd); err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, shared.NewDomainError("INVALID_RATE_PLAN", "Meter-based statements require a rate plan")
	}

	units, amount, err := plan.CalculateConsumption(previousReading, currentReading)
	if err != nil {
		return nil, err
	}

	planID := plan.ID
	return &UtilityStatement{
		OrgAggregateRoot:   shared.NewOrgAggregateRoot(orgID),
		LeaseID:            leaseID,
		UtilityType:        utilityType,
		BillingPeriodStart: truncateToDay(periodStart),
		BillingPeriodEnd:   truncateToDay(periodEnd),
		IsMeterBased:       true,
		PreviousReading:    &previousReading,
		CurrentReading:     &currentReading,
		RatePlanID:         &planID,
		UnitsConsumed:      units,
		CalculatedAmount:   amount,
		TotalAmount:        amount,
		Revision:           1,
	}, nil
}

// NewDirectStatement creates a pass-through statement from a provider bill
func NewDirectStatement(orgID, leaseID uuid.UUID, utilityType UtilityType, periodStart, periodEnd time.Time, directAmount decimal.Decimal) (*UtilityStatement, error) {
	if err := validateStatementBasics(leaseID, utilityType, periodStart, periodEnd); err != nil {
		return nil, err
	}
	if directAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Direct bill amount cannot be negative")
	}

	amount := directAmount.Round(2)
	return &UtilityStatement{
		OrgAggregateRoot:   shared.NewOrgAggregateRoot(orgID),
		LeaseID:            leaseID,
		UtilityType:        utilityType,
		BillingPeriodStart: truncateToDay(periodStart),
		BillingPeriodEnd:   truncateToDay(periodEnd),
		IsMeterBased:       false,
		DirectBillAmount:   &amount,
		CalculatedAmount:   amount,
		TotalAmount:        amount,
		Revision:           1,
	}, nil
}

// Finalize locks the statement, making it eligible for invoicing.
// Further correction requires a new revision.
func (s *UtilityStatement) Finalize() error {
	if s.IsFinal {
		return ErrStatementFinal
	}
	s.IsFinal = true
	return nil
}

// IsBilled reports whether the statement has been consumed by an invoice
func (s *UtilityStatement) IsBilled() bool {
	return s.InvoiceLineID != nil
}

// MarkBilled links the statement to the invoice line that consumed it
func (s *UtilityStatement) MarkBilled(invoiceLineID uuid.UUID) error {
	if !s.IsFinal {
		return shared.NewDomainError("STATEMENT_NOT_FINAL", "Only finalized statements can be billed")
	}
	if s.IsBilled() {
		return shared.NewDomainError("STATEMENT_ALREADY_BILLED", "Statement is already linked to an invoice line")
	}
	s.InvoiceLineID = &invoiceLineID
	return nil
}

// CorrectWithReadings produces the next revision of a finalized
// meter-based statement with corrected readings. The sealed statement is
// never mutated.
func (s *UtilityStatement) CorrectWithReadings(previousReading, currentReading decimal.Decimal, plan *UtilityRatePlan) (*UtilityStatement, error) {
	if !s.IsFinal {
		return nil, shared.NewDomainError("STATEMENT_NOT_FINAL", "Only finalized statements can be corrected; edit the draft instead")
	}
	if !s.IsMeterBased {
		return nil, shared.NewDomainError("INVALID_CORRECTION", "Statement is not meter-based")
	}

	next, err := NewMeterStatement(s.OrgID, s.LeaseID, s.UtilityType, s.BillingPeriodStart, s.BillingPeriodEnd, previousReading, currentReading, plan)
	if err != nil {
		return nil, err
	}
	next.Revision = s.Revision + 1
	return next, nil
}

// CorrectWithDirectAmount produces the next revision of a finalized
// pass-through statement with a corrected amount.
func (s *UtilityStatement) CorrectWithDirectAmount(directAmount decimal.Decimal) (*UtilityStatement, error) {
	if !s.IsFinal {
		return nil, shared.NewDomainError("STATEMENT_NOT_FINAL", "Only finalized statements can be corrected; edit the draft instead")
	}
	if s.IsMeterBased {
		return nil, shared.NewDomainError("INVALID_CORRECTION", "Statement is meter-based")
	}

	next, err := NewDirectStatement(s.OrgID, s.LeaseID, s.UtilityType, s.BillingPeriodStart, s.BillingPeriodEnd, directAmount)
	if err != nil {
		return nil, err
	}
	next.Revision = s.Revision + 1
	return next, nil
}

func validateStatementBasics(leaseID uuid.UUID, utilityType UtilityType, periodStart, periodEnd time.Time) error {
	if leaseID == uuid.Nil {
		return shared.NewDomainError("INVALID_LEASE", "Lease ID cannot be empty")
	}
	if !utilityType.IsValid() {
		return shared.NewDomainError("INVALID_UTILITY_TYPE", "Utility type is not valid")
	}
	if truncateToDay(periodEnd).Before(truncateToDay(periodStart)) {
		return shared.NewDomainError("INVALID_PERIOD", "Billing period end cannot be before period start")
	}
	return nil
}
