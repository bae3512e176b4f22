package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func threeSlabPlan(t *testing.T) *UtilityRatePlan {
	t.Helper()
	plan, err := NewUtilityRatePlan(uuid.New(), "Domestic electricity", UtilityElectricity, []RateSlab{
		{LowerBound: dec("0"), UpperBound: decPtr("100"), RatePerUnit: dec("3")},
		{LowerBound: dec("101"), UpperBound: decPtr("200"), RatePerUnit: dec("4")},
		{LowerBound: dec("201"), RatePerUnit: dec("5")},
	})
	require.NoError(t, err)
	return plan
}

func TestCalculateConsumptionTiered(t *testing.T) {
	plan := threeSlabPlan(t)

	tests := []struct {
		name       string
		prev, curr string
		wantUnits  string
		wantAmount string
	}{
		{"spans all three slabs", "1000", "1250", "250", "950"},
		{"within first slab", "0", "50", "50", "150"},
		{"exactly first slab", "100", "200", "100", "300"},
		{"into second slab", "0", "150", "150", "500"},
		{"zero consumption", "500", "500", "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			units, amount, err := plan.CalculateConsumption(dec(tt.prev), dec(tt.curr))
			require.NoError(t, err)
			assert.True(t, units.Equal(dec(tt.wantUnits)), "units %s", units)
			assert.True(t, amount.Equal(dec(tt.wantAmount)), "amount %s", amount)
		})
	}
}

func TestCalculateConsumptionNegativeReading(t *testing.T) {
	plan := threeSlabPlan(t)
	_, _, err := plan.CalculateConsumption(dec("200"), dec("150"))
	require.ErrorIs(t, err, ErrInvalidReading)
}

func TestNewUtilityRatePlanValidation(t *testing.T) {
	orgID := uuid.New()

	t.Run("unbounded slab not last", func(t *testing.T) {
		_, err := NewUtilityRatePlan(orgID, "bad", UtilityWater, []RateSlab{
			{LowerBound: dec("0"), RatePerUnit: dec("3")},
			{LowerBound: dec("101"), UpperBound: decPtr("200"), RatePerUnit: dec("4")},
		})
		require.Error(t, err)
	})

	t.Run("gap between slabs", func(t *testing.T) {
		_, err := NewUtilityRatePlan(orgID, "bad", UtilityWater, []RateSlab{
			{LowerBound: dec("0"), UpperBound: decPtr("100"), RatePerUnit: dec("3")},
			{LowerBound: dec("150"), UpperBound: decPtr("200"), RatePerUnit: dec("4")},
		})
		require.Error(t, err)
	})

	t.Run("no slabs", func(t *testing.T) {
		_, err := NewUtilityRatePlan(orgID, "bad", UtilityWater, nil)
		require.Error(t, err)
	})
}

func TestMeterStatementLifecycle(t *testing.T) {
	plan := threeSlabPlan(t)
	orgID := uuid.New()
	leaseID := uuid.New()

	stmt, err := NewMeterStatement(orgID, leaseID, UtilityElectricity,
		date(2024, time.January, 1), date(2024, time.January, 31),
		dec("1000"), dec("1250"), plan)
	require.NoError(t, err)
	assert.Equal(t, 1, stmt.Revision)
	assert.False(t, stmt.IsFinal)
	assert.True(t, stmt.UnitsConsumed.Equal(dec("250")))
	assert.True(t, stmt.TotalAmount.Equal(dec("950")))

	t.Run("cannot bill unfinalized", func(t *testing.T) {
		err := stmt.MarkBilled(uuid.New())
		require.Error(t, err)
	})

	require.NoError(t, stmt.Finalize())
	assert.True(t, stmt.IsFinal)

	t.Run("double finalize rejected", func(t *testing.T) {
		require.ErrorIs(t, stmt.Finalize(), ErrStatementFinal)
	})

	t.Run("billing links the line once", func(t *testing.T) {
		lineID := uuid.New()
		require.NoError(t, stmt.MarkBilled(lineID))
		assert.True(t, stmt.IsBilled())
		require.Error(t, stmt.MarkBilled(uuid.New()))
	})

	t.Run("correction creates next revision", func(t *testing.T) {
		next, err := stmt.CorrectWithReadings(dec("1000"), dec("1200"), plan)
		require.NoError(t, err)
		assert.Equal(t, 2, next.Revision)
		assert.True(t, next.UnitsConsumed.Equal(dec("200")))
		assert.False(t, next.IsFinal)
		// The sealed statement is untouched.
		assert.True(t, stmt.UnitsConsumed.Equal(dec("250")))
	})
}

func TestDirectStatement(t *testing.T) {
	stmt, err := NewDirectStatement(uuid.New(), uuid.New(), UtilityGas,
		date(2024, time.March, 1), date(2024, time.March, 31), dec("780.50"))
	require.NoError(t, err)
	assert.False(t, stmt.IsMeterBased)
	assert.True(t, stmt.TotalAmount.Equal(dec("780.5")))

	t.Run("correction requires finalized", func(t *testing.T) {
		_, err := stmt.CorrectWithDirectAmount(dec("800"))
		require.Error(t, err)
	})

	require.NoError(t, stmt.Finalize())

	t.Run("corrected revision", func(t *testing.T) {
		next, err := stmt.CorrectWithDirectAmount(dec("800"))
		require.NoError(t, err)
		assert.Equal(t, 2, next.Revision)
		assert.True(t, next.TotalAmount.Equal(dec("800")))
	})

	t.Run("negative direct amount rejected", func(t *testing.T) {
		_, err := NewDirectStatement(uuid.New(), uuid.New(), UtilityGas,
			date(2024, time.March, 1), date(2024, time.March, 31), dec("-5"))
		require.Error(t, err)
	})
}
