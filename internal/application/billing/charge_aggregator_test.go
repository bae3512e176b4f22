package billing

import (
	"context"
	"testing"
	"time"

	"github.com/chethandvg/tenantmanagement/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testChargeType(t *testing.T, orgID uuid.UUID, code billing.ChargeTypeCode, name string, taxable bool, taxRate string) *billing.ChargeType {
	t.Helper()
	ct, err := billing.NewChargeType(orgID, code, name, taxable, dec(taxRate))
	require.NoError(t, err)
	return ct
}

func testMonthlyCharge(t *testing.T, orgID, leaseID, chargeTypeID uuid.UUID, amount string, start time.Time, end *time.Time) billing.RecurringCharge {
	t.Helper()
	c, err := billing.NewRecurringCharge(orgID, leaseID, chargeTypeID, dec(amount), billing.FrequencyMonthly, start, end)
	require.NoError(t, err)
	return *c
}

func TestChargeAggregatorRecurring(t *testing.T) {
	orgID := uuid.New()
	leaseID := uuid.New()
	periodStart := date(2024, time.January, 1)
	periodEnd := date(2024, time.January, 31)
	rentType := testChargeType(t, orgID, billing.ChargeTypeRent, "Rent", false, "0")

	t.Run("full month billed unprorated", func(t *testing.T) {
		chargeTypeRepo := new(MockChargeTypeRepository)
		chargeRepo := new(MockRecurringChargeRepository)
		statementRepo := new(MockUtilityStatementRepository)

		charge := testMonthlyCharge(t, orgID, leaseID, rentType.ID, "15000", date(2023, time.June, 1), nil)
		chargeRepo.On("FindActiveOverlapping", mock.Anything, orgID, leaseID, periodStart, periodEnd).
			Return([]billing.RecurringCharge{charge}, nil)
		chargeTypeRepo.On("FindByIDs", mock.Anything, []uuid.UUID{rentType.ID}).
			Return(map[uuid.UUID]*billing.ChargeType{rentType.ID: rentType}, nil)
		statementRepo.On("FindPendingForLease", mock.Anything, orgID, leaseID, periodEnd).
			Return([]billing.UtilityStatement{}, nil)

		agg := NewChargeAggregator(chargeTypeRepo, chargeRepo, statementRepo)
		result, err := agg.BuildLineItems(context.Background(), orgID, leaseID, periodStart, periodEnd, billing.ProrationActualDaysInMonth)
		require.NoError(t, err)

		require.Len(t, result.Lines, 1)
		assert.True(t, result.Lines[0].Amount.Equal(dec("15000")))
		assert.Equal(t, "Rent for January 2024", result.Lines[0].Description)
		assert.Equal(t, billing.LineSourceRent, result.Lines[0].Source)
	})

	t.Run("mid-month move-in prorated by actual days", func(t *testing.T) {
		chargeTypeRepo := new(MockChargeTypeRepository)
		chargeRepo := new(MockRecurringChargeRepository)
		statementRepo := new(MockUtilityStatementRepository)

		charge := testMonthlyCharge(t, orgID, leaseID, rentType.ID, "15000", date(2024, time.January, 15), nil)
		chargeRepo.On("FindActiveOverlapping", mock.Anything, orgID, leaseID, periodStart, periodEnd).
			Return([]billing.RecurringCharge{charge}, nil)
		chargeTypeRepo.On("FindByIDs", mock.Anything, mock.Anything).
			Return(map[uuid.UUID]*billing.ChargeType{rentType.ID: rentType}, nil)
		statementRepo.On("FindPendingForLease", mock.Anything, orgID, leaseID, periodEnd).
			Return([]billing.UtilityStatement{}, nil)

		agg := NewChargeAggregator(chargeTypeRepo, chargeRepo, statementRepo)
		result, err := agg.BuildLineItems(context.Background(), orgID, leaseID, periodStart, periodEnd, billing.ProrationActualDaysInMonth)
		require.NoError(t, err)

		require.Len(t, result.Lines, 1)
		// 15000 * 17/31
		assert.Equal(t, "8225.81", result.Lines[0].Amount.StringFixed(2))
		assert.Contains(t, result.Lines[0].Description, "Jan 15-31, 2024")
		require.NotNil(t, result.Lines[0].ServiceStart)
		assert.Equal(t, date(2024, time.January, 15), *result.Lines[0].ServiceStart)
	})

	t.Run("rate change emits one prorated line per sub-range", func(t *testing.T) {
		chargeTypeRepo := new(MockChargeTypeRepository)
		chargeRepo := new(MockRecurringChargeRepository)
		statementRepo := new(MockUtilityStatementRepository)

		oldEnd := date(2024, time.January, 15)
		oldRate := testMonthlyCharge(t, orgID, leaseID, rentType.ID, "10000", date(2023, time.March, 1), &oldEnd)
		newRate := testMonthlyCharge(t, orgID, leaseID, rentType.ID, "12000", date(2024, time.January, 16), nil)

		chargeRepo.On("FindActiveOverlapping", mock.Anything, orgID, leaseID, periodStart, periodEnd).
			Return([]billing.RecurringCharge{oldRate, newRate}, nil)
		chargeTypeRepo.On("FindByIDs", mock.Anything, mock.Anything).
			Return(map[uuid.UUID]*billing.ChargeType{rentType.ID: rentType}, nil)
		statementRepo.On("FindPendingForLease", mock.Anything, orgID, leaseID, periodEnd).
			Return([]billing.UtilityStatement{}, nil)

		agg := NewChargeAggregator(chargeTypeRepo, chargeRepo, statementRepo)
		result, err := agg.BuildLineItems(context.Background(), orgID, leaseID, periodStart, periodEnd, billing.ProrationActualDaysInMonth)
		require.NoError(t, err)

		require.Len(t, result.Lines, 2)
		// 10000 * 15/31 and 12000 * 16/31, never merged
		assert.Equal(t, "4838.71", result.Lines[0].Amount.StringFixed(2))
		assert.Equal(t, "6193.55", result.Lines[1].Amount.StringFixed(2))
		assert.Contains(t, result.Lines[0].Description, "Jan 1-15, 2024")
		assert.Contains(t, result.Lines[1].Description, "Jan 16-31, 2024")
	})

	t.Run("taxable maintenance carries tax", func(t *testing.T) {
		chargeTypeRepo := new(MockChargeTypeRepository)
		chargeRepo := new(MockRecurringChargeRepository)
		statementRepo := new(MockUtilityStatementRepository)

		maintType := testChargeType(t, orgID, billing.ChargeTypeMaintenance, "Maintenance", true, "18")
		charge := testMonthlyCharge(t, orgID, leaseID, maintType.ID, "2000", date(2023, time.June, 1), nil)

		chargeRepo.On("FindActiveOverlapping", mock.Anything, orgID, leaseID, periodStart, periodEnd).
			Return([]billing.RecurringCharge{charge}, nil)
		chargeTypeRepo.On("FindByIDs", mock.Anything, mock.Anything).
			Return(map[uuid.UUID]*billing.ChargeType{maintType.ID: maintType}, nil)
		statementRepo.On("FindPendingForLease", mock.Anything, orgID, leaseID, periodEnd).
			Return([]billing.UtilityStatement{}, nil)

		agg := NewChargeAggregator(chargeTypeRepo, chargeRepo, statementRepo)
		result, err := agg.BuildLineItems(context.Background(), orgID, leaseID, periodStart, periodEnd, billing.ProrationActualDaysInMonth)
		require.NoError(t, err)

		require.Len(t, result.Lines, 1)
		assert.Equal(t, "360.00", result.Lines[0].TaxAmount.StringFixed(2))
		assert.Equal(t, "2360.00", result.Lines[0].TotalAmount.StringFixed(2))
	})

	t.Run("one-time charge outside period skipped", func(t *testing.T) {
		chargeTypeRepo := new(MockChargeTypeRepository)
		chargeRepo := new(MockRecurringChargeRepository)
		statementRepo := new(MockUtilityStatementRepository)

		lateFeeType := testChargeType(t, orgID, billing.ChargeTypeLateFee, "Late fee", false, "0")
		oneTime, err := billing.NewRecurringCharge(orgID, leaseID, lateFeeType.ID, dec("500"),
			billing.FrequencyOneTime, date(2024, time.February, 3), nil)
		require.NoError(t, err)

		chargeRepo.On("FindActiveOverlapping", mock.Anything, orgID, leaseID, periodStart, periodEnd).
			Return([]billing.RecurringCharge{*oneTime}, nil)
		chargeTypeRepo.On("FindByIDs", mock.Anything, mock.Anything).
			Return(map[uuid.UUID]*billing.ChargeType{lateFeeType.ID: lateFeeType}, nil)
		statementRepo.On("FindPendingForLease", mock.Anything, orgID, leaseID, periodEnd).
			Return([]billing.UtilityStatement{}, nil)

		agg := NewChargeAggregator(chargeTypeRepo, chargeRepo, statementRepo)
		result, err := agg.BuildLineItems(context.Background(), orgID, leaseID, periodStart, periodEnd, billing.ProrationActualDaysInMonth)
		require.NoError(t, err)
		assert.Empty(t, result.Lines)
	})
}

func TestChargeAggregatorUtilities(t *testing.T) {
	orgID := uuid.New()
	leaseID := uuid.New()
	periodStart := date(2024, time.January, 1)
	periodEnd := date(2024, time.January, 31)

	electricityType := testChargeType(t, orgID, billing.ChargeTypeElectricity, "Electricity", false, "0")

	plan, err := billing.NewUtilityRatePlan(orgID, "Residential", billing.UtilityElectricity, []billing.RateSlab{
		{LowerBound: dec("0"), UpperBound: decPtr("100"), RatePerUnit: dec("3")},
		{LowerBound: dec("101"), UpperBound: decPtr("200"), RatePerUnit: dec("4")},
		{LowerBound: dec("201"), RatePerUnit: dec("5")},
	})
	require.NoError(t, err)

	t.Run("finalized statement becomes a utility line", func(t *testing.T) {
		chargeTypeRepo := new(MockChargeTypeRepository)
		chargeRepo := new(MockRecurringChargeRepository)
		statementRepo := new(MockUtilityStatementRepository)

		stmt, err := billing.NewMeterStatement(orgID, leaseID, billing.UtilityElectricity,
			date(2023, time.December, 1), date(2023, time.December, 31), dec("1000"), dec("1250"), plan)
		require.NoError(t, err)
		require.NoError(t, stmt.Finalize())

		chargeRepo.On("FindActiveOverlapping", mock.Anything, orgID, leaseID, periodStart, periodEnd).
			Return([]billing.RecurringCharge{}, nil)
		statementRepo.On("FindPendingForLease", mock.Anything, orgID, leaseID, periodEnd).
			Return([]billing.UtilityStatement{*stmt}, nil)
		chargeTypeRepo.On("FindByCode", mock.Anything, orgID, billing.ChargeTypeElectricity).
			Return(electricityType, nil)

		agg := NewChargeAggregator(chargeTypeRepo, chargeRepo, statementRepo)
		result, err := agg.BuildLineItems(context.Background(), orgID, leaseID, periodStart, periodEnd, billing.ProrationActualDaysInMonth)
		require.NoError(t, err)

		require.Len(t, result.Lines, 1)
		line := result.Lines[0]
		// 100*3 + 100*4 + 50*5
		assert.Equal(t, "950.00", line.Amount.StringFixed(2))
		assert.Equal(t, billing.LineSourceUtility, line.Source)
		assert.Contains(t, line.Description, "250 units")
		require.NotNil(t, line.SourceRefID)
		assert.Equal(t, stmt.ID, *line.SourceRefID)
		assert.Equal(t, line.ID, result.LineByStatement[stmt.ID])
	})

	t.Run("deterministic across repeated calls", func(t *testing.T) {
		chargeTypeRepo := new(MockChargeTypeRepository)
		chargeRepo := new(MockRecurringChargeRepository)
		statementRepo := new(MockUtilityStatementRepository)

		rentType := testChargeType(t, orgID, billing.ChargeTypeRent, "Rent", false, "0")
		charge := testMonthlyCharge(t, orgID, leaseID, rentType.ID, "15000", date(2023, time.June, 1), nil)

		chargeRepo.On("FindActiveOverlapping", mock.Anything, orgID, leaseID, periodStart, periodEnd).
			Return([]billing.RecurringCharge{charge}, nil)
		chargeTypeRepo.On("FindByIDs", mock.Anything, mock.Anything).
			Return(map[uuid.UUID]*billing.ChargeType{rentType.ID: rentType}, nil)
		statementRepo.On("FindPendingForLease", mock.Anything, orgID, leaseID, periodEnd).
			Return([]billing.UtilityStatement{}, nil)

		agg := NewChargeAggregator(chargeTypeRepo, chargeRepo, statementRepo)
		first, err := agg.BuildLineItems(context.Background(), orgID, leaseID, periodStart, periodEnd, billing.ProrationActualDaysInMonth)
		require.NoError(t, err)
		second, err := agg.BuildLineItems(context.Background(), orgID, leaseID, periodStart, periodEnd, billing.ProrationActualDaysInMonth)
		require.NoError(t, err)

		require.Len(t, second.Lines, len(first.Lines))
		for i := range first.Lines {
			assert.Equal(t, first.Lines[i].Description, second.Lines[i].Description)
			assert.True(t, first.Lines[i].Amount.Equal(second.Lines[i].Amount))
			assert.True(t, first.Lines[i].TotalAmount.Equal(second.Lines[i].TotalAmount))
		}
	})
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}
