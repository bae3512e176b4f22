package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/chethandvg/tenantmanagement/internal/domain/billing"
	"github.com/chethandvg/tenantmanagement/internal/domain/shared"
)

// ChargeService manages charge type reference data and the recurring
// charges attached to leases.
type ChargeService struct {
	chargeTypeRepo billing.ChargeTypeRepository
	chargeRepo     billing.RecurringChargeRepository
}

// NewChargeService creates a new ChargeService
func NewChargeService(chargeTypeRepo billing.ChargeTypeRepository, chargeRepo billing.RecurringChargeRepository) *ChargeService {
	return &ChargeService{
		chargeTypeRepo: chargeTypeRepo,
		chargeRepo:     chargeRepo,
	}
}

// CreateChargeTypeRequest carries the inputs for a new charge type
type CreateChargeTypeRequest struct {
	OrgID     uuid.UUID
	Code      billing.ChargeTypeCode
	Name      string
	IsTaxable bool
	TaxRate   decimal.Decimal
}

// CreateChargeType registers a charge type for an organization. Codes
// are unique per organization.
func (s *ChargeService) CreateChargeType(ctx context.Context, req CreateChargeTypeRequest) (*billing.ChargeType, error) {
	if _, err := s.chargeTypeRepo.FindByCode(ctx, req.OrgID, req.Code); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS",
			fmt.Sprintf("Charge type %s already exists", req.Code))
	}

	chargeType, err := billing.NewChargeType(req.OrgID, req.Code, req.Name, req.IsTaxable, req.TaxRate)
	if err != nil {
		return nil, err
	}
	if err := s.chargeTypeRepo.Save(ctx, chargeType); err != nil {
		return nil, fmt.Errorf("failed to save charge type: %w", err)
	}
	return chargeType, nil
}

// ListChargeTypes lists an organization's charge types
func (s *ChargeService) ListChargeTypes(ctx context.Context, orgID uuid.UUID) ([]billing.ChargeType, error) {
	return s.chargeTypeRepo.FindAllForOrg(ctx, orgID)
}

// CreateRecurringChargeRequest carries the inputs for a new lease charge
type CreateRecurringChargeRequest struct {
	OrgID        uuid.UUID
	LeaseID      uuid.UUID
	ChargeTypeID uuid.UUID
	Amount       decimal.Decimal
	Frequency    billing.ChargeFrequency
	StartDate    time.Time
	EndDate      *time.Time
}

// CreateRecurringCharge attaches a charge to a lease. The charge type
// must belong to the same organization.
func (s *ChargeService) CreateRecurringCharge(ctx context.Context, req CreateRecurringChargeRequest) (*billing.RecurringCharge, error) {
	chargeType, err := s.chargeTypeRepo.FindByID(ctx, req.ChargeTypeID)
	if err != nil {
		return nil, err
	}
	if chargeType.OrgID != req.OrgID {
		return nil, shared.ErrNotFound
	}

	charge, err := billing.NewRecurringCharge(req.OrgID, req.LeaseID, req.ChargeTypeID,
		req.Amount, req.Frequency, req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	if err := s.chargeRepo.Save(ctx, charge); err != nil {
		return nil, fmt.Errorf("failed to save recurring charge: %w", err)
	}
	return charge, nil
}

// EndRecurringCharge closes a charge's validity window so it stops
// contributing to future invoices. Already generated invoices are
// untouched.
func (s *ChargeService) EndRecurringCharge(ctx context.Context, orgID, chargeID uuid.UUID, endDate time.Time) (*billing.RecurringCharge, error) {
	charge, err := s.chargeRepo.FindByID(ctx, chargeID)
	if err != nil {
		return nil, err
	}
	if charge.OrgID != orgID {
		return nil, shared.ErrNotFound
	}

	if err := charge.EndOn(endDate); err != nil {
		return nil, err
	}
	if err := s.chargeRepo.Save(ctx, charge); err != nil {
		return nil, fmt.Errorf("failed to save recurring charge: %w", err)
	}
	return charge, nil
}
