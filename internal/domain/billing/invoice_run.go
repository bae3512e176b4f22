package billing

import (
	"time"

	"github.com/chethandvg/tenantmanagement/internal/domain/shared"
	"github.com/google/uuid"
)

// InvoiceRunStatus represents the lifecycle of a batch invoice run
type InvoiceRunStatus string

const (
	RunStatusPending             InvoiceRunStatus = "PENDING"
	RunStatusInProgress          InvoiceRunStatus = "IN_PROGRESS"
	RunStatusCompleted           InvoiceRunStatus = "COMPLETED"
	RunStatusCompletedWithErrors InvoiceRunStatus = "COMPLETED_WITH_ERRORS"
	RunStatusFailed              InvoiceRunStatus = "FAILED"
	RunStatusCancelled           InvoiceRunStatus = "CANCELLED"
)

// IsValid checks if the status is a valid InvoiceRunStatus
func (s InvoiceRunStatus) IsValid() bool {
	switch s {
	case RunStatusPending, RunStatusInProgress, RunStatusCompleted,
		RunStatusCompletedWithErrors, RunStatusFailed, RunStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of InvoiceRunStatus
func (s InvoiceRunStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the run has finished
func (s InvoiceRunStatus) IsTerminal() bool {
	return s == RunStatusCompleted || s == RunStatusCompletedWithErrors ||
		s == RunStatusFailed || s == RunStatusCancelled
}

// InvoiceRunItem records the outcome for one lease in a run
type InvoiceRunItem struct {
	ID             uuid.UUID  `json:"id"`
	LeaseID        uuid.UUID  `json:"lease_id"`
	InvoiceID      *uuid.UUID `json:"invoice_id"` // nil on failure
	IsSuccess      bool       `json:"is_success"`
	ErrorMessage   string     `json:"error_message"`
	ProcessedAtUtc time.Time  `json:"processed_at_utc"`
}

// InvoiceRun is an organization-wide batch generation job. Runs are
// append-only: a retry is a new run, never a mutation of a finished one.
type InvoiceRun struct {
	shared.OrgAggregateRoot
	RunNumber          string           `json:"run_number"`
	BillingPeriodStart time.Time        `json:"billing_period_start"`
	BillingPeriodEnd   time.Time        `json:"billing_period_end"`
	Status             InvoiceRunStatus `json:"status"`
	StartedAtUtc       *time.Time       `json:"started_at_utc"`
	CompletedAtUtc     *time.Time       `json:"completed_at_utc"`
	TotalLeases        int              `json:"total_leases"`
	SuccessCount       int              `json:"success_count"`
	FailureCount       int              `json:"failure_count"`
	Items              []InvoiceRunItem `json:"items"`
}

// NewInvoiceRun creates a pending run for an organization and period
func NewInvoiceRun(orgID uuid.UUID, runNumber string, periodStart, periodEnd time.Time) (*InvoiceRun, error) {
	if runNumber == "" {
		return nil, shared.NewDomainError("INVALID_RUN_NUMBER", "Run number cannot be empty")
	}
	if truncateToDay(periodEnd).Before(truncateToDay(periodStart)) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Billing period end cannot be before period start")
	}

	return &InvoiceRun{
		OrgAggregateRoot:   shared.NewOrgAggregateRoot(orgID),
		RunNumber:          runNumber,
		BillingPeriodStart: truncateToDay(periodStart),
		BillingPeriodEnd:   truncateToDay(periodEnd),
		Status:             RunStatusPending,
		Items:              []InvoiceRunItem{},
	}, nil
}

// Start transitions Pending -> InProgress with the lease count
func (r *InvoiceRun) Start(totalLeases int, now time.Time) error {
	if r.Status != RunStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Run has already been started")
	}
	startedAt := now.UTC()
	r.Status = RunStatusInProgress
	r.StartedAtUtc = &startedAt
	r.TotalLeases = totalLeases
	return nil
}

// RecordSuccess appends a successful item for a lease
func (r *InvoiceRun) RecordSuccess(leaseID, invoiceID uuid.UUID, now time.Time) {
	r.Items = append(r.Items, InvoiceRunItem{
		ID:             uuid.New(),
		LeaseID:        leaseID,
		InvoiceID:      &invoiceID,
		IsSuccess:      true,
		ProcessedAtUtc: now.UTC(),
	})
	r.SuccessCount++
}

// RecordFailure appends a failed item for a lease. The failure is data,
// not an abort: the run continues.
func (r *InvoiceRun) RecordFailure(leaseID uuid.UUID, errorMessage string, now time.Time) {
	r.Items = append(r.Items, InvoiceRunItem{
		ID:             uuid.New(),
		LeaseID:        leaseID,
		IsSuccess:      false,
		ErrorMessage:   errorMessage,
		ProcessedAtUtc: now.UTC(),
	})
	r.FailureCount++
}

// Complete finishes the run, deriving the aggregate status from the
// per-lease outcomes. CompletedAtUtc is set exactly once.
func (r *InvoiceRun) Complete(now time.Time) error {
	if r.Status != RunStatusInProgress {
		return shared.NewDomainError("INVALID_STATE", "Only runs in progress can complete")
	}

	switch {
	case r.TotalLeases == 0:
		r.Status = RunStatusCompleted
	case r.FailureCount == 0:
		r.Status = RunStatusCompleted
	case r.SuccessCount == 0:
		r.Status = RunStatusFailed
	default:
		r.Status = RunStatusCompletedWithErrors
	}

	completedAt := now.UTC()
	r.CompletedAtUtc = &completedAt
	return nil
}

// Cancel finishes a run stopped between leases, keeping the partial
// item records already processed.
func (r *InvoiceRun) Cancel(now time.Time) error {
	if r.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Run has already finished")
	}
	completedAt := now.UTC()
	r.Status = RunStatusCancelled
	r.CompletedAtUtc = &completedAt
	return nil
}
