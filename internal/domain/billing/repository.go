package billing

import (
	"context"
	"time"

	"github.com/chethandvg/tenantmanagement/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ChargeTypeRepository defines persistence for charge type reference data
type ChargeTypeRepository interface {
	// FindByID finds a charge type by ID
	FindByID(ctx context.Context, id uuid.UUID) (*ChargeType, error)

	// FindByIDs loads several charge types at once, keyed by ID
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*ChargeType, error)

	// FindByCode finds an organization's charge type by its code
	FindByCode(ctx context.Context, orgID uuid.UUID, code ChargeTypeCode) (*ChargeType, error)

	// FindAllForOrg lists an organization's charge types
	FindAllForOrg(ctx context.Context, orgID uuid.UUID) ([]ChargeType, error)

	// Save creates or updates a charge type
	Save(ctx context.Context, chargeType *ChargeType) error
}

// RecurringChargeRepository defines persistence for lease charges
type RecurringChargeRepository interface {
	// FindByID finds a recurring charge by ID
	FindByID(ctx context.Context, id uuid.UUID) (*RecurringCharge, error)

	// FindActiveOverlapping returns a lease's active charges whose
	// validity window intersects the inclusive billing period, ordered
	// deterministically (charge type, start date, id).
	FindActiveOverlapping(ctx context.Context, orgID, leaseID uuid.UUID, periodStart, periodEnd time.Time) ([]RecurringCharge, error)

	// Save creates or updates a recurring charge
	Save(ctx context.Context, charge *RecurringCharge) error
}

// UtilityRatePlanRepository defines persistence for tiered rate plans
type UtilityRatePlanRepository interface {
	// FindByID finds a rate plan by ID
	FindByID(ctx context.Context, id uuid.UUID) (*UtilityRatePlan, error)

	// Save creates or updates a rate plan
	Save(ctx context.Context, plan *UtilityRatePlan) error
}

// UtilityStatementRepository defines persistence for utility statements
type UtilityStatementRepository interface {
	// FindByID finds a statement by ID
	FindByID(ctx context.Context, id uuid.UUID) (*UtilityStatement, error)

	// FindPendingForLease returns finalized, unbilled statements for a
	// lease whose billing period ends at or before the given date. Only
	// the highest finalized revision of each correction chain is
	// returned. Ordering is deterministic (period start, utility type,
	// revision).
	FindPendingForLease(ctx context.Context, orgID, leaseID uuid.UUID, onOrBefore time.Time) ([]UtilityStatement, error)

	// Save creates or updates a statement
	Save(ctx context.Context, statement *UtilityStatement) error
}

// InvoiceFilter defines filtering options for invoice queries
type InvoiceFilter struct {
	shared.Filter
	LeaseID  *uuid.UUID
	Status   *InvoiceStatus
	FromDate *time.Time
	ToDate   *time.Time
}

// InvoiceRepository defines persistence for invoices.
// Invoice headers and their lines are committed atomically.
type InvoiceRepository interface {
	// FindByID finds an invoice with its lines
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindByIDForOrg finds an invoice scoped to an organization
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*Invoice, error)

	// FindByLeaseAndPeriod finds the invoice for a lease and billing
	// period regardless of status. Returns shared.ErrNotFound when none
	// exists.
	FindByLeaseAndPeriod(ctx context.Context, orgID, leaseID uuid.UUID, periodStart, periodEnd time.Time) (*Invoice, error)

	// FindAllForOrg lists invoices with filtering
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter InvoiceFilter) ([]Invoice, int64, error)

	// Save creates or updates an invoice and its lines in one transaction
	Save(ctx context.Context, invoice *Invoice) error

	// SaveWithLock updates with an optimistic version check, failing
	// with a concurrency conflict when the stored version has moved.
	SaveWithLock(ctx context.Context, invoice *Invoice) error

	// SaveGenerated persists a generated draft and links the consumed
	// utility statements to their invoice lines, all in one transaction.
	// lineByStatement maps statement ID to the invoice line that
	// consumed it.
	SaveGenerated(ctx context.Context, invoice *Invoice, lineByStatement map[uuid.UUID]uuid.UUID) error
}

// CreditNoteRepository defines persistence for credit notes
type CreditNoteRepository interface {
	// FindByID finds a credit note by ID
	FindByID(ctx context.Context, id uuid.UUID) (*CreditNote, error)

	// FindByInvoice lists an invoice's credit notes
	FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]CreditNote, error)

	// SumAppliedForInvoice returns the sum of applied credit note totals
	// for an invoice.
	SumAppliedForInvoice(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error)

	// Save creates or updates a credit note
	Save(ctx context.Context, note *CreditNote) error

	// SaveApplied persists the applied note and the invoice's refreshed
	// credit total in one transaction, with an optimistic version check
	// on the invoice.
	SaveApplied(ctx context.Context, note *CreditNote, invoice *Invoice) error
}

// InvoiceRunRepository defines persistence for batch runs.
// Runs are append-only; items are written as they are recorded.
type InvoiceRunRepository interface {
	// FindByID finds a run with its items
	FindByID(ctx context.Context, id uuid.UUID) (*InvoiceRun, error)

	// FindAllForOrg lists an organization's runs, newest first
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]InvoiceRun, int64, error)

	// Save creates or updates a run and its items
	Save(ctx context.Context, run *InvoiceRun) error
}

// SequenceRepository allocates gapless-enough document numbers from a
// serializing storage primitive. Never implemented by counting rows:
// allocation must stay correct under concurrent callers.
type SequenceRepository interface {
	// NextValue atomically increments and returns the sequence for an
	// organization-scoped key, e.g. "INV-202401".
	NextValue(ctx context.Context, orgID uuid.UUID, scope string) (int64, error)
}
