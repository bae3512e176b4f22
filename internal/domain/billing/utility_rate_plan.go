package billing

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/chethandvg/tenantmanagement/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RateSlab is one consumption range of a tiered rate plan. The last slab
// of a plan may leave UpperBound nil, absorbing all remaining units.
type RateSlab struct {
	LowerBound  decimal.Decimal  `json:"lower_bound"`
	UpperBound  *decimal.Decimal `json:"upper_bound"`
	RatePerUnit decimal.Decimal  `json:"rate_per_unit"`
}

// capacity returns how many units this slab can absorb. The first slab
// may state its lower bound as 0 or 1; both mean "from the first unit".
func (s RateSlab) capacity() decimal.Decimal {
	lower := s.LowerBound
	if lower.LessThan(decimal.NewFromInt(1)) {
		lower = decimal.NewFromInt(1)
	}
	return s.UpperBound.Sub(lower).Add(decimal.NewFromInt(1))
}

// RateSlabs implements GORM Scanner/Valuer for JSONB storage
type RateSlabs []RateSlab

// Value implements driver.Valuer
func (s RateSlabs) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner
func (s *RateSlabs) Scan(value interface{}) error {
	if value == nil {
		*s = RateSlabs{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan RateSlabs: value is not []byte")
	}
	return json.Unmarshal(bytes, s)
}

// UtilityRatePlan is an ordered set of consumption slabs. Immutable once
// referenced by a finalized statement.
type UtilityRatePlan struct {
	shared.OrgAggregateRoot
	Name        string      `json:"name"`
	UtilityType UtilityType `json:"utility_type"`
	Slabs       RateSlabs   `json:"slabs"`
}

// NewUtilityRatePlan creates a rate plan from ordered slabs
func NewUtilityRatePlan(orgID uuid.UUID, name string, utilityType UtilityType, slabs []RateSlab) (*UtilityRatePlan, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PLAN_NAME", "Rate plan name cannot be empty")
	}
	if !utilityType.IsValid() {
		return nil, shared.NewDomainError("INVALID_UTILITY_TYPE", "Utility type is not valid")
	}
	if len(slabs) == 0 {
		return nil, shared.NewDomainError("INVALID_SLABS", "Rate plan must have at least one slab")
	}
	for i, slab := range slabs {
		if slab.RatePerUnit.IsNegative() {
			return nil, shared.NewDomainError("INVALID_SLAB_RATE", "Slab rate cannot be negative")
		}
		if slab.UpperBound == nil {
			if i != len(slabs)-1 {
				return nil, shared.NewDomainError("INVALID_SLABS", "Only the last slab may be unbounded")
			}
			continue
		}
		if slab.UpperBound.LessThanOrEqual(slab.LowerBound) {
			return nil, shared.NewDomainError("INVALID_SLABS", "Slab upper bound must exceed its lower bound")
		}
		if i > 0 {
			prev := slabs[i-1]
			if prev.UpperBound != nil && !slab.LowerBound.Equal(prev.UpperBound.Add(decimal.NewFromInt(1))) {
				return nil, shared.NewDomainError("INVALID_SLABS", "Slabs must be contiguous in ascending order")
			}
		}
	}

	return &UtilityRatePlan{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		Name:             name,
		UtilityType:      utilityType,
		Slabs:            RateSlabs(slabs),
	}, nil
}

// CalculateConsumption computes consumed units and the tiered amount for
// a pair of meter readings. The slab walk bills min(remaining, capacity)
// units at each slab's rate until no units remain.
func (p *UtilityRatePlan) CalculateConsumption(previousReading, currentReading decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	units := currentReading.Sub(previousReading)
	if units.IsNegative() {
		return decimal.Zero, decimal.Zero, ErrInvalidReading
	}

	amount := decimal.Zero
	remaining := units
	for _, slab := range p.Slabs {
		if remaining.IsZero() {
			break
		}
		billable := remaining
		if slab.UpperBound != nil {
			if c := slab.capacity(); c.LessThan(billable) {
				billable = c
			}
		}
		amount = amount.Add(billable.Mul(slab.RatePerUnit))
		remaining = remaining.Sub(billable)
	}

	return units, amount.Round(2), nil
}
