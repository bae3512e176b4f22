package billing

import (
	"context"
	"testing"
	"time"

	"github.com/chethandvg/tenantmanagement/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func residentialPlan(t *testing.T, orgID uuid.UUID) *billing.UtilityRatePlan {
	t.Helper()
	plan, err := billing.NewUtilityRatePlan(orgID, "Residential", billing.UtilityElectricity, []billing.RateSlab{
		{LowerBound: dec("0"), UpperBound: decPtr("100"), RatePerUnit: dec("3")},
		{LowerBound: dec("101"), UpperBound: decPtr("200"), RatePerUnit: dec("4")},
		{LowerBound: dec("201"), RatePerUnit: dec("5")},
	})
	require.NoError(t, err)
	return plan
}

func TestUtilityStatementServiceRecord(t *testing.T) {
	orgID := uuid.New()
	leaseID := uuid.New()

	t.Run("meter statement rated against plan", func(t *testing.T) {
		statementRepo := new(MockUtilityStatementRepository)
		planRepo := new(MockUtilityRatePlanRepository)
		service := NewUtilityStatementService(statementRepo, planRepo)

		plan := residentialPlan(t, orgID)
		planRepo.On("FindByID", mock.Anything, plan.ID).Return(plan, nil)
		statementRepo.On("Save", mock.Anything, mock.AnythingOfType("*billing.UtilityStatement")).Return(nil)

		stmt, err := service.RecordMeterStatement(context.Background(), RecordMeterStatementRequest{
			OrgID:           orgID,
			LeaseID:         leaseID,
			UtilityType:     billing.UtilityElectricity,
			PeriodStart:     date(2024, time.January, 1),
			PeriodEnd:       date(2024, time.January, 31),
			PreviousReading: dec("1000"),
			CurrentReading:  dec("1250"),
			RatePlanID:      plan.ID,
		})
		require.NoError(t, err)

		assert.Equal(t, "950.00", stmt.TotalAmount.StringFixed(2))
		assert.Equal(t, 1, stmt.Revision)
		assert.False(t, stmt.IsFinal)
	})

	t.Run("plan for wrong utility rejected", func(t *testing.T) {
		statementRepo := new(MockUtilityStatementRepository)
		planRepo := new(MockUtilityRatePlanRepository)
		service := NewUtilityStatementService(statementRepo, planRepo)

		plan := residentialPlan(t, orgID)
		planRepo.On("FindByID", mock.Anything, plan.ID).Return(plan, nil)

		_, err := service.RecordMeterStatement(context.Background(), RecordMeterStatementRequest{
			OrgID:           orgID,
			LeaseID:         leaseID,
			UtilityType:     billing.UtilityWater,
			PeriodStart:     date(2024, time.January, 1),
			PeriodEnd:       date(2024, time.January, 31),
			PreviousReading: dec("0"),
			CurrentReading:  dec("10"),
			RatePlanID:      plan.ID,
		})
		require.Error(t, err)
		statementRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestUtilityStatementServiceCorrect(t *testing.T) {
	orgID := uuid.New()
	leaseID := uuid.New()

	t.Run("correction supersedes with next revision", func(t *testing.T) {
		statementRepo := new(MockUtilityStatementRepository)
		planRepo := new(MockUtilityRatePlanRepository)
		service := NewUtilityStatementService(statementRepo, planRepo)

		plan := residentialPlan(t, orgID)
		original, err := billing.NewMeterStatement(orgID, leaseID, billing.UtilityElectricity,
			date(2024, time.January, 1), date(2024, time.January, 31), dec("1000"), dec("1250"), plan)
		require.NoError(t, err)
		require.NoError(t, original.Finalize())

		statementRepo.On("FindByID", mock.Anything, original.ID).Return(original, nil)
		planRepo.On("FindByID", mock.Anything, plan.ID).Return(plan, nil)
		statementRepo.On("Save", mock.Anything, mock.AnythingOfType("*billing.UtilityStatement")).Return(nil)

		corrected, err := service.CorrectReadings(context.Background(), orgID, original.ID, dec("1000"), dec("1100"))
		require.NoError(t, err)

		assert.Equal(t, 2, corrected.Revision)
		assert.NotEqual(t, original.ID, corrected.ID)
		assert.Equal(t, "300.00", corrected.TotalAmount.StringFixed(2))
		// The sealed original is untouched.
		assert.Equal(t, "950.00", original.TotalAmount.StringFixed(2))
	})

	t.Run("draft statements cannot be corrected", func(t *testing.T) {
		statementRepo := new(MockUtilityStatementRepository)
		planRepo := new(MockUtilityRatePlanRepository)
		service := NewUtilityStatementService(statementRepo, planRepo)

		draft, err := billing.NewDirectStatement(orgID, leaseID, billing.UtilityWater,
			date(2024, time.January, 1), date(2024, time.January, 31), dec("400"))
		require.NoError(t, err)

		statementRepo.On("FindByID", mock.Anything, draft.ID).Return(draft, nil)

		_, err = service.CorrectDirectAmount(context.Background(), orgID, draft.ID, dec("450"))
		require.Error(t, err)
	})
}
