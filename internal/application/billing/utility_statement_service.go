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

// UtilityStatementService records, finalizes and corrects utility
// statements. Only finalized statements become billable; a correction
// never touches the sealed statement, it supersedes it with the next
// revision.
type UtilityStatementService struct {
	statementRepo billing.UtilityStatementRepository
	ratePlanRepo  billing.UtilityRatePlanRepository
}

// NewUtilityStatementService creates a new UtilityStatementService
func NewUtilityStatementService(
	statementRepo billing.UtilityStatementRepository,
	ratePlanRepo billing.UtilityRatePlanRepository,
) *UtilityStatementService {
	return &UtilityStatementService{
		statementRepo: statementRepo,
		ratePlanRepo:  ratePlanRepo,
	}
}

// RecordMeterStatementRequest carries meter readings for a period
type RecordMeterStatementRequest struct {
	OrgID           uuid.UUID
	LeaseID         uuid.UUID
	UtilityType     billing.UtilityType
	PeriodStart     time.Time
	PeriodEnd       time.Time
	PreviousReading decimal.Decimal
	CurrentReading  decimal.Decimal
	RatePlanID      uuid.UUID
}

// RecordMeterStatement rates meter readings against a tiered plan and
// stores the resulting statement as revision 1, not yet finalized.
func (s *UtilityStatementService) RecordMeterStatement(ctx context.Context, req RecordMeterStatementRequest) (*billing.UtilityStatement, error) {
	plan, err := s.ratePlanRepo.FindByID(ctx, req.RatePlanID)
	if err != nil {
		return nil, err
	}
	if plan.OrgID != req.OrgID {
		return nil, shared.ErrNotFound
	}
	if plan.UtilityType != req.UtilityType {
		return nil, shared.NewDomainError("RATE_PLAN_MISMATCH",
			fmt.Sprintf("Rate plan %s rates %s, not %s", plan.Name, plan.UtilityType, req.UtilityType))
	}

	stmt, err := billing.NewMeterStatement(req.OrgID, req.LeaseID, req.UtilityType,
		req.PeriodStart, req.PeriodEnd, req.PreviousReading, req.CurrentReading, plan)
	if err != nil {
		return nil, err
	}
	if err := s.statementRepo.Save(ctx, stmt); err != nil {
		return nil, fmt.Errorf("failed to save utility statement: %w", err)
	}
	return stmt, nil
}

// RecordDirectStatementRequest carries a provider bill passed through as-is
type RecordDirectStatementRequest struct {
	OrgID        uuid.UUID
	LeaseID      uuid.UUID
	UtilityType  billing.UtilityType
	PeriodStart  time.Time
	PeriodEnd    time.Time
	DirectAmount decimal.Decimal
}

// RecordDirectStatement stores a pass-through statement
func (s *UtilityStatementService) RecordDirectStatement(ctx context.Context, req RecordDirectStatementRequest) (*billing.UtilityStatement, error) {
	stmt, err := billing.NewDirectStatement(req.OrgID, req.LeaseID, req.UtilityType,
		req.PeriodStart, req.PeriodEnd, req.DirectAmount)
	if err != nil {
		return nil, err
	}
	if err := s.statementRepo.Save(ctx, stmt); err != nil {
		return nil, fmt.Errorf("failed to save utility statement: %w", err)
	}
	return stmt, nil
}

// Finalize seals a statement, making it eligible for invoicing
func (s *UtilityStatementService) Finalize(ctx context.Context, orgID, statementID uuid.UUID) (*billing.UtilityStatement, error) {
	stmt, err := s.findForOrg(ctx, orgID, statementID)
	if err != nil {
		return nil, err
	}
	if err := stmt.Finalize(); err != nil {
		return nil, err
	}
	if err := s.statementRepo.Save(ctx, stmt); err != nil {
		return nil, fmt.Errorf("failed to save utility statement: %w", err)
	}
	return stmt, nil
}

// CorrectReadings supersedes a finalized meter statement with the next
// revision, rated with the corrected readings.
func (s *UtilityStatementService) CorrectReadings(ctx context.Context, orgID, statementID uuid.UUID, previousReading, currentReading decimal.Decimal) (*billing.UtilityStatement, error) {
	stmt, err := s.findForOrg(ctx, orgID, statementID)
	if err != nil {
		return nil, err
	}
	if stmt.RatePlanID == nil {
		return nil, shared.NewDomainError("INVALID_STATEMENT", "Statement has no rate plan to re-rate against")
	}
	plan, err := s.ratePlanRepo.FindByID(ctx, *stmt.RatePlanID)
	if err != nil {
		return nil, err
	}

	next, err := stmt.CorrectWithReadings(previousReading, currentReading, plan)
	if err != nil {
		return nil, err
	}
	if err := s.statementRepo.Save(ctx, next); err != nil {
		return nil, fmt.Errorf("failed to save corrected statement: %w", err)
	}
	return next, nil
}

// CorrectDirectAmount supersedes a finalized pass-through statement
// with the next revision carrying the corrected amount.
func (s *UtilityStatementService) CorrectDirectAmount(ctx context.Context, orgID, statementID uuid.UUID, directAmount decimal.Decimal) (*billing.UtilityStatement, error) {
	stmt, err := s.findForOrg(ctx, orgID, statementID)
	if err != nil {
		return nil, err
	}

	next, err := stmt.CorrectWithDirectAmount(directAmount)
	if err != nil {
		return nil, err
	}
	if err := s.statementRepo.Save(ctx, next); err != nil {
		return nil, fmt.Errorf("failed to save corrected statement: %w", err)
	}
	return next, nil
}

func (s *UtilityStatementService) findForOrg(ctx context.Context, orgID, statementID uuid.UUID) (*billing.UtilityStatement, error) {
	stmt, err := s.statementRepo.FindByID(ctx, statementID)
	if err != nil {
		return nil, err
	}
	if stmt.OrgID != orgID {
		return nil, shared.ErrNotFound
	}
	return stmt, nil
}
