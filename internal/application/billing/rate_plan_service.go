package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/chethandvg/tenantmanagement/internal/domain/billing"
	"github.com/chethandvg/tenantmanagement/internal/domain/shared"
)

// RatePlanService manages tiered utility rate plans
type RatePlanService struct {
	ratePlanRepo billing.UtilityRatePlanRepository
}

// NewRatePlanService creates a new RatePlanService
func NewRatePlanService(ratePlanRepo billing.UtilityRatePlanRepository) *RatePlanService {
	return &RatePlanService{ratePlanRepo: ratePlanRepo}
}

// CreateRatePlanRequest carries the inputs for a new rate plan
type CreateRatePlanRequest struct {
	OrgID       uuid.UUID
	Name        string
	UtilityType billing.UtilityType
	Slabs       []billing.RateSlab
}

// CreateRatePlan registers a tiered rate plan. Slab validation happens
// in the domain constructor: contiguous, ascending, last slab open.
func (s *RatePlanService) CreateRatePlan(ctx context.Context, req CreateRatePlanRequest) (*billing.UtilityRatePlan, error) {
	plan, err := billing.NewUtilityRatePlan(req.OrgID, req.Name, req.UtilityType, req.Slabs)
	if err != nil {
		return nil, err
	}
	if err := s.ratePlanRepo.Save(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to save rate plan: %w", err)
	}
	return plan, nil
}

// GetRatePlan returns a rate plan scoped to an organization
func (s *RatePlanService) GetRatePlan(ctx context.Context, orgID, planID uuid.UUID) (*billing.UtilityRatePlan, error) {
	plan, err := s.ratePlanRepo.FindByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.OrgID != orgID {
		return nil, shared.ErrNotFound
	}
	return plan, nil
}
