package billing

import (
	"github.com/chethandvg/tenantmanagement/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ChargeTypeCode identifies a class of billable charge
type ChargeTypeCode string

const (
	ChargeTypeRent        ChargeTypeCode = "RENT"
	ChargeTypeMaintenance ChargeTypeCode = "MAINTENANCE"
	ChargeTypeElectricity ChargeTypeCode = "ELECTRICITY"
	ChargeTypeWater       ChargeTypeCode = "WATER"
	ChargeTypeGas         ChargeTypeCode = "GAS"
	ChargeTypeLateFee     ChargeTypeCode = "LATE_FEE"
	ChargeTypeAdjustment  ChargeTypeCode = "ADJUSTMENT"
	ChargeTypeCustom      ChargeTypeCode = "CUSTOM"
)

// IsValid checks if the code is a known ChargeTypeCode
func (c ChargeTypeCode) IsValid() bool {
	switch c {
	case ChargeTypeRent, ChargeTypeMaintenance, ChargeTypeElectricity,
		ChargeTypeWater, ChargeTypeGas, ChargeTypeLateFee,
		ChargeTypeAdjustment, ChargeTypeCustom:
		return true
	}
	return false
}

// String returns the string representation of ChargeTypeCode
func (c ChargeTypeCode) String() string {
	return string(c)
}

// ChargeType is org-scoped reference data describing a class of charge
// and its default tax treatment. Seeded once, rarely mutated.
type ChargeType struct {
	shared.OrgAggregateRoot
	Code      ChargeTypeCode  `json:"code"`
	Name      string          `json:"name"`
	IsTaxable bool            `json:"is_taxable"`
	TaxRate   decimal.Decimal `json:"tax_rate"` // percent, applied when IsTaxable
}

// NewChargeType creates a new charge type
func NewChargeType(orgID uuid.UUID, code ChargeTypeCode, name string, isTaxable bool, taxRate decimal.Decimal) (*ChargeType, error) {
	if !code.IsValid() {
		return nil, shared.NewDomainError("INVALID_CHARGE_TYPE_CODE", "Charge type code is not valid")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_CHARGE_TYPE_NAME", "Charge type name cannot be empty")
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 100 percent")
	}

	return &ChargeType{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		Code:             code,
		Name:             name,
		IsTaxable:        isTaxable,
		TaxRate:          taxRate,
	}, nil
}

// EffectiveTaxRate returns the tax rate to apply, zero when not taxable
func (ct *ChargeType) EffectiveTaxRate() decimal.Decimal {
	if !ct.IsTaxable {
		return decimal.Zero
	}
	return ct.TaxRate
}
