package billing

import (
	"context"
	"testing"

	"github.com/chethandvg/tenantmanagement/internal/domain/billing"
	"github.com/chethandvg/tenantmanagement/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func tieredSlabs() []billing.RateSlab {
	hundred := decimal.NewFromInt(100)
	return []billing.RateSlab{
		{LowerBound: decimal.Zero, UpperBound: &hundred, RatePerUnit: dec("5")},
		{LowerBound: hundred, UpperBound: nil, RatePerUnit: dec("8")},
	}
}

func TestRatePlanServiceCreate(t *testing.T) {
	orgID := uuid.New()

	t.Run("creates plan with valid slabs", func(t *testing.T) {
		ratePlanRepo := new(MockUtilityRatePlanRepository)
		service := NewRatePlanService(ratePlanRepo)

		ratePlanRepo.On("Save", mock.Anything, mock.AnythingOfType("*billing.UtilityRatePlan")).Return(nil)

		plan, err := service.CreateRatePlan(context.Background(), CreateRatePlanRequest{
			OrgID:       orgID,
			Name:        "Residential electricity",
			UtilityType: billing.UtilityElectricity,
			Slabs:       tieredSlabs(),
		})
		require.NoError(t, err)
		assert.Equal(t, orgID, plan.OrgID)
		assert.Len(t, plan.Slabs, 2)
		ratePlanRepo.AssertExpectations(t)
	})

	t.Run("rejects empty slabs without saving", func(t *testing.T) {
		ratePlanRepo := new(MockUtilityRatePlanRepository)
		service := NewRatePlanService(ratePlanRepo)

		_, err := service.CreateRatePlan(context.Background(), CreateRatePlanRequest{
			OrgID:       orgID,
			Name:        "Empty",
			UtilityType: billing.UtilityWater,
		})
		require.Error(t, err)
		ratePlanRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestRatePlanServiceGet(t *testing.T) {
	orgID := uuid.New()

	plan, err := billing.NewUtilityRatePlan(orgID, "Water", billing.UtilityWater, tieredSlabs())
	require.NoError(t, err)

	t.Run("returns plan for owning org", func(t *testing.T) {
		ratePlanRepo := new(MockUtilityRatePlanRepository)
		service := NewRatePlanService(ratePlanRepo)

		ratePlanRepo.On("FindByID", mock.Anything, plan.ID).Return(plan, nil)

		got, err := service.GetRatePlan(context.Background(), orgID, plan.ID)
		require.NoError(t, err)
		assert.Equal(t, plan.ID, got.ID)
	})

	t.Run("hides plan from other orgs", func(t *testing.T) {
		ratePlanRepo := new(MockUtilityRatePlanRepository)
		service := NewRatePlanService(ratePlanRepo)

		ratePlanRepo.On("FindByID", mock.Anything, plan.ID).Return(plan, nil)

		_, err := service.GetRatePlan(context.Background(), uuid.New(), plan.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
