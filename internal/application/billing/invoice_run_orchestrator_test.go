package billing

import (
	"context"
	"testing"
	"time"

	"github.com/chethandvg/tenantmanagement/internal/domain/billing"
	"github.com/chethandvg/tenantmanagement/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type orchestratorFixture struct {
	generatorFixture
	runRepo      *MockInvoiceRunRepository
	sequenceRepo *MockSequenceRepository
	leases       *MockLeaseDirectory
	orchestrator *InvoiceRunOrchestrator
}

func newOrchestratorFixture(workers int) *orchestratorFixture {
	f := &orchestratorFixture{
		generatorFixture: *newGeneratorFixture(),
		runRepo:          new(MockInvoiceRunRepository),
		sequenceRepo:     new(MockSequenceRepository),
		leases:           new(MockLeaseDirectory),
	}
	f.orchestrator = NewInvoiceRunOrchestrator(f.generator, f.runRepo, f.sequenceRepo, f.leases, workers, 0, zap.NewNop())
	return f
}

// stubLease wires one lease for a full, successful generation pass
func (f *orchestratorFixture) stubLease(t *testing.T, orgID, leaseID uuid.UUID, periodStart, periodEnd time.Time) {
	t.Helper()
	f.settings.On("SettingsForLease", mock.Anything, leaseID).Return(testSettings(leaseID), nil)
	f.invoiceRepo.On("FindByLeaseAndPeriod", mock.Anything, orgID, leaseID, periodStart, periodEnd).
		Return(nil, shared.ErrNotFound)
	f.stubRent(t, orgID, leaseID, periodStart, periodEnd, "15000")
}

// stubEmptyLease wires one lease that yields no billable items
func (f *orchestratorFixture) stubEmptyLease(orgID, leaseID uuid.UUID, periodStart, periodEnd time.Time) {
	f.settings.On("SettingsForLease", mock.Anything, leaseID).Return(testSettings(leaseID), nil)
	f.invoiceRepo.On("FindByLeaseAndPeriod", mock.Anything, orgID, leaseID, periodStart, periodEnd).
		Return(nil, shared.ErrNotFound)
	f.chargeRepo.On("FindActiveOverlapping", mock.Anything, orgID, leaseID, periodStart, periodEnd).
		Return([]billing.RecurringCharge{}, nil)
	f.statementRepo.On("FindPendingForLease", mock.Anything, orgID, leaseID, periodEnd).
		Return([]billing.UtilityStatement{}, nil)
}

func TestInvoiceRunOrchestratorExecute(t *testing.T) {
	orgID := uuid.New()
	periodStart := date(2024, time.January, 1)
	periodEnd := date(2024, time.January, 31)

	t.Run("mixed outcomes complete with errors", func(t *testing.T) {
		f := newOrchestratorFixture(4)

		good1, good2, empty := uuid.New(), uuid.New(), uuid.New()
		f.stubLease(t, orgID, good1, periodStart, periodEnd)
		f.stubLease(t, orgID, good2, periodStart, periodEnd)
		f.stubEmptyLease(orgID, empty, periodStart, periodEnd)
		f.invoiceRepo.On("SaveGenerated", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		f.sequenceRepo.On("NextValue", mock.Anything, orgID, mock.AnythingOfType("string")).Return(int64(1), nil)
		f.leases.On("ActiveLeaseIDs", mock.Anything, orgID, periodStart).
			Return([]uuid.UUID{good1, good2, empty}, nil)
		f.runRepo.On("Save", mock.Anything, mock.AnythingOfType("*billing.InvoiceRun")).Return(nil)

		run, err := f.orchestrator.Execute(context.Background(), orgID, periodStart, periodEnd)
		require.NoError(t, err)

		assert.Equal(t, billing.RunStatusCompletedWithErrors, run.Status)
		assert.Equal(t, 3, run.TotalLeases)
		assert.Equal(t, 2, run.SuccessCount)
		assert.Equal(t, 1, run.FailureCount)
		assert.Len(t, run.Items, 3)
		require.NotNil(t, run.CompletedAtUtc)

		for _, item := range run.Items {
			if item.LeaseID == empty {
				assert.False(t, item.IsSuccess)
				assert.Contains(t, item.ErrorMessage, "billable")
				assert.Nil(t, item.InvoiceID)
			} else {
				assert.True(t, item.IsSuccess)
				assert.NotNil(t, item.InvoiceID)
			}
		}
	})

	t.Run("all leases succeed", func(t *testing.T) {
		f := newOrchestratorFixture(2)

		lease1, lease2 := uuid.New(), uuid.New()
		f.stubLease(t, orgID, lease1, periodStart, periodEnd)
		f.stubLease(t, orgID, lease2, periodStart, periodEnd)
		f.invoiceRepo.On("SaveGenerated", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		f.sequenceRepo.On("NextValue", mock.Anything, orgID, mock.AnythingOfType("string")).Return(int64(7), nil)
		f.leases.On("ActiveLeaseIDs", mock.Anything, orgID, periodStart).
			Return([]uuid.UUID{lease1, lease2}, nil)
		f.runRepo.On("Save", mock.Anything, mock.AnythingOfType("*billing.InvoiceRun")).Return(nil)

		run, err := f.orchestrator.Execute(context.Background(), orgID, periodStart, periodEnd)
		require.NoError(t, err)
		assert.Equal(t, billing.RunStatusCompleted, run.Status)
		assert.Contains(t, run.RunNumber, "RUN-")
		assert.Contains(t, run.RunNumber, "-000007")
	})

	t.Run("no active leases complete cleanly", func(t *testing.T) {
		f := newOrchestratorFixture(2)

		f.sequenceRepo.On("NextValue", mock.Anything, orgID, mock.AnythingOfType("string")).Return(int64(1), nil)
		f.leases.On("ActiveLeaseIDs", mock.Anything, orgID, periodStart).Return([]uuid.UUID{}, nil)
		f.runRepo.On("Save", mock.Anything, mock.AnythingOfType("*billing.InvoiceRun")).Return(nil)

		run, err := f.orchestrator.Execute(context.Background(), orgID, periodStart, periodEnd)
		require.NoError(t, err)
		assert.Equal(t, billing.RunStatusCompleted, run.Status)
		assert.Zero(t, run.SuccessCount)
		assert.Zero(t, run.FailureCount)
	})

	t.Run("cancelled context finishes run as cancelled", func(t *testing.T) {
		f := newOrchestratorFixture(2)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		leaseIDs := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
		f.sequenceRepo.On("NextValue", mock.Anything, orgID, mock.AnythingOfType("string")).Return(int64(1), nil)
		f.leases.On("ActiveLeaseIDs", mock.Anything, orgID, periodStart).Return(leaseIDs, nil)
		f.runRepo.On("Save", mock.Anything, mock.AnythingOfType("*billing.InvoiceRun")).Return(nil)

		run, err := f.orchestrator.Execute(ctx, orgID, periodStart, periodEnd)
		require.NoError(t, err)

		assert.Equal(t, billing.RunStatusCancelled, run.Status)
		assert.Empty(t, run.Items, "no lease processed after cancellation")
		require.NotNil(t, run.CompletedAtUtc)
	})

	t.Run("run timeout finishes run as cancelled", func(t *testing.T) {
		f := newOrchestratorFixture(2)
		f.orchestrator = NewInvoiceRunOrchestrator(f.generator, f.runRepo, f.sequenceRepo, f.leases, 2, time.Nanosecond, zap.NewNop())

		leaseIDs := []uuid.UUID{uuid.New(), uuid.New()}
		f.sequenceRepo.On("NextValue", mock.Anything, orgID, mock.AnythingOfType("string")).Return(int64(1), nil)
		f.leases.On("ActiveLeaseIDs", mock.Anything, orgID, periodStart).
			Run(func(mock.Arguments) { time.Sleep(5 * time.Millisecond) }).
			Return(leaseIDs, nil)
		f.runRepo.On("Save", mock.Anything, mock.AnythingOfType("*billing.InvoiceRun")).Return(nil)

		run, err := f.orchestrator.Execute(context.Background(), orgID, periodStart, periodEnd)
		require.NoError(t, err)

		assert.Equal(t, billing.RunStatusCancelled, run.Status)
		assert.Empty(t, run.Items, "no lease processed past the deadline")
		require.NotNil(t, run.CompletedAtUtc)
	})
}
