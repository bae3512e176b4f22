package billing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chethandvg/tenantmanagement/internal/domain/billing"
	"github.com/chethandvg/tenantmanagement/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InvoiceRunOrchestrator batch-drives invoice generation across an
// organization's active leases. Leases are processed by a bounded
// worker pool; a failing lease is recorded and never aborts the run.
// Cancellation is cooperative between leases, never mid-lease.
type InvoiceRunOrchestrator struct {
	generator    *InvoiceGenerator
	runRepo      billing.InvoiceRunRepository
	sequenceRepo billing.SequenceRepository
	leases       billing.LeaseDirectory
	workerCount  int
	runTimeout   time.Duration
	logger       *zap.Logger
	now          func() time.Time
}

// NewInvoiceRunOrchestrator creates a new InvoiceRunOrchestrator.
// workerCount bounds concurrent lease generation; values below 1 are
// coerced to 1. runTimeout bounds one Execute call; zero or negative
// disables the deadline.
func NewInvoiceRunOrchestrator(
	generator *InvoiceGenerator,
	runRepo billing.InvoiceRunRepository,
	sequenceRepo billing.SequenceRepository,
	leases billing.LeaseDirectory,
	workerCount int,
	runTimeout time.Duration,
	logger *zap.Logger,
) *InvoiceRunOrchestrator {
	if workerCount < 1 {
		workerCount = 1
	}
	return &InvoiceRunOrchestrator{
		generator:    generator,
		runRepo:      runRepo,
		sequenceRepo: sequenceRepo,
		leases:       leases,
		workerCount:  workerCount,
		runTimeout:   runTimeout,
		logger:       logger,
		now:          time.Now,
	}
}

// leaseOutcome is one worker's result for one lease
type leaseOutcome struct {
	leaseID   uuid.UUID
	invoiceID *uuid.UUID
	err       error
}

// Execute runs batch generation for every lease active as of the period
// start. The returned run carries per-lease items and the derived
// aggregate status. A cancelled context finishes the run as Cancelled,
// keeping the items already processed.
func (o *InvoiceRunOrchestrator) Execute(ctx context.Context, orgID uuid.UUID, periodStart, periodEnd time.Time) (*billing.InvoiceRun, error) {
	if o.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.runTimeout)
		defer cancel()
	}

	runNumber, err := o.nextRunNumber(ctx, orgID)
	if err != nil {
		return nil, err
	}

	run, err := billing.NewInvoiceRun(orgID, runNumber, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	if err := o.runRepo.Save(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to create invoice run: %w", err)
	}

	leaseIDs, err := o.leases.ActiveLeaseIDs(ctx, orgID, periodStart)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate active leases: %w", err)
	}

	if err := run.Start(len(leaseIDs), o.now()); err != nil {
		return nil, err
	}
	if err := o.runRepo.Save(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to start invoice run: %w", err)
	}

	o.logger.Info("invoice run started",
		zap.String("run_number", run.RunNumber),
		zap.String("org_id", orgID.String()),
		zap.Int("total_leases", len(leaseIDs)),
		zap.Int("workers", o.workerCount))

	o.processLeases(ctx, run, orgID, leaseIDs, periodStart, periodEnd)

	now := o.now()
	if ctx.Err() != nil {
		if err := run.Cancel(now); err != nil {
			return nil, err
		}
		o.logger.Warn("invoice run cancelled",
			zap.String("run_number", run.RunNumber),
			zap.Int("processed", len(run.Items)),
			zap.Int("total_leases", run.TotalLeases))
	} else {
		if err := run.Complete(now); err != nil {
			return nil, err
		}
		o.logger.Info("invoice run finished",
			zap.String("run_number", run.RunNumber),
			zap.String("status", run.Status.String()),
			zap.Int("success_count", run.SuccessCount),
			zap.Int("failure_count", run.FailureCount))
	}

	// Persisting the finished run must not be cut short by the same
	// cancellation that stopped the processing.
	if err := o.runRepo.Save(context.WithoutCancel(ctx), run); err != nil {
		return nil, fmt.Errorf("failed to finish invoice run: %w", err)
	}
	return run, nil
}

// processLeases fans leases out to the worker pool and folds the
// outcomes back into the run. The run itself is touched only here, on
// the collecting goroutine, so workers share no mutable state.
func (o *InvoiceRunOrchestrator) processLeases(ctx context.Context, run *billing.InvoiceRun, orgID uuid.UUID, leaseIDs []uuid.UUID, periodStart, periodEnd time.Time) {
	jobs := make(chan uuid.UUID)
	outcomes := make(chan leaseOutcome)

	var wg sync.WaitGroup
	for i := 0; i < o.workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for leaseID := range jobs {
				if ctx.Err() != nil {
					return
				}
				outcomes <- o.generateForLease(ctx, orgID, leaseID, periodStart, periodEnd)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, leaseID := range leaseIDs {
			select {
			case jobs <- leaseID:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	for outcome := range outcomes {
		if outcome.err != nil {
			run.RecordFailure(outcome.leaseID, outcome.err.Error(), o.now())
			continue
		}
		run.RecordSuccess(outcome.leaseID, *outcome.invoiceID, o.now())
	}
}

func (o *InvoiceRunOrchestrator) generateForLease(ctx context.Context, orgID, leaseID uuid.UUID, periodStart, periodEnd time.Time) (outcome leaseOutcome) {
	outcome.leaseID = leaseID

	// A worker panic is a per-lease failure like any other.
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("invoice generation panicked",
				zap.String("lease_id", leaseID.String()),
				zap.Any("panic", r))
			outcome.invoiceID = nil
			outcome.err = fmt.Errorf("invoice generation panicked: %v", r)
		}
	}()

	invoice, err := o.generator.Generate(ctx, orgID, leaseID, periodStart, periodEnd)
	if err != nil {
		o.logger.Warn("lease skipped in invoice run",
			zap.String("lease_id", leaseID.String()),
			zap.Error(err))
		outcome.err = err
		return outcome
	}
	outcome.invoiceID = &invoice.ID
	return outcome
}

func (o *InvoiceRunOrchestrator) nextRunNumber(ctx context.Context, orgID uuid.UUID) (string, error) {
	month := o.now().UTC().Format("200601")
	scope := fmt.Sprintf("RUN-%s", month)
	seq, err := o.sequenceRepo.NextValue(ctx, orgID, scope)
	if err != nil {
		return "", fmt.Errorf("failed to allocate run number: %w", err)
	}
	return fmt.Sprintf("RUN-%s-%06d", month, seq), nil
}

// GetRun returns one run with its items
func (o *InvoiceRunOrchestrator) GetRun(ctx context.Context, orgID, runID uuid.UUID) (*billing.InvoiceRun, error) {
	run, err := o.runRepo.FindByID(ctx, runID)
	if err != nil {
		return nil, err
	}
	if run.OrgID != orgID {
		return nil, shared.ErrNotFound
	}
	return run, nil
}

// ListRuns returns an organization's runs, newest first
func (o *InvoiceRunOrchestrator) ListRuns(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (*shared.Paginated[billing.InvoiceRun], error) {
	runs, total, err := o.runRepo.FindAllForOrg(ctx, orgID, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(runs, total, filter.Page, filter.PageSize)
	return &page, nil
}
