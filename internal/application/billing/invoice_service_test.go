package billing

import (
	"context"
	"testing"
	"time"

	"github.com/chethandvg/tenantmanagement/internal/domain/billing"
	"github.com/chethandvg/tenantmanagement/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type invoiceServiceFixture struct {
	invoiceRepo  *MockInvoiceRepository
	creditRepo   *MockCreditNoteRepository
	sequenceRepo *MockSequenceRepository
	settings     *MockBillingSettingsProvider
	service      *InvoiceService
}

func newInvoiceServiceFixture(now time.Time) *invoiceServiceFixture {
	f := &invoiceServiceFixture{
		invoiceRepo:  new(MockInvoiceRepository),
		creditRepo:   new(MockCreditNoteRepository),
		sequenceRepo: new(MockSequenceRepository),
		settings:     new(MockBillingSettingsProvider),
	}
	f.service = NewInvoiceService(f.invoiceRepo, f.creditRepo, f.sequenceRepo, f.settings)
	f.service.now = func() time.Time { return now }
	return f
}

func draftForService(t *testing.T, orgID, leaseID uuid.UUID) *billing.Invoice {
	t.Helper()
	invoice, err := billing.NewDraftInvoice(orgID, leaseID,
		date(2024, time.January, 1), date(2024, time.January, 8),
		date(2024, time.January, 1), date(2024, time.January, 31),
		[]billing.InvoiceLine{mustLine(t, "Rent for January 2024", "10000")})
	require.NoError(t, err)
	return invoice
}

func TestInvoiceServiceIssue(t *testing.T) {
	orgID := uuid.New()
	leaseID := uuid.New()
	now := time.Date(2024, time.January, 5, 9, 0, 0, 0, time.UTC)

	t.Run("assigns sequence-backed number", func(t *testing.T) {
		f := newInvoiceServiceFixture(now)
		invoice := draftForService(t, orgID, leaseID)

		f.invoiceRepo.On("FindByIDForOrg", mock.Anything, orgID, invoice.ID).Return(invoice, nil)
		f.settings.On("SettingsForLease", mock.Anything, leaseID).Return(testSettings(leaseID), nil)
		f.sequenceRepo.On("NextValue", mock.Anything, orgID, "INV-202401").Return(int64(42), nil)
		f.invoiceRepo.On("SaveWithLock", mock.Anything, invoice).Return(nil)

		issued, err := f.service.Issue(context.Background(), orgID, invoice.ID)
		require.NoError(t, err)

		assert.Equal(t, "INV-202401-000042", issued.InvoiceNumber)
		assert.Equal(t, billing.InvoiceStatusIssued, issued.Status)
		f.sequenceRepo.AssertExpectations(t)
	})

	t.Run("sequence failure leaves invoice untouched", func(t *testing.T) {
		f := newInvoiceServiceFixture(now)
		invoice := draftForService(t, orgID, leaseID)

		f.invoiceRepo.On("FindByIDForOrg", mock.Anything, orgID, invoice.ID).Return(invoice, nil)
		f.settings.On("SettingsForLease", mock.Anything, leaseID).Return(testSettings(leaseID), nil)
		f.sequenceRepo.On("NextValue", mock.Anything, orgID, "INV-202401").Return(int64(0), assert.AnError)

		_, err := f.service.Issue(context.Background(), orgID, invoice.ID)
		require.Error(t, err)
		assert.Equal(t, billing.InvoiceStatusDraft, invoice.Status)
		f.invoiceRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("stale version surfaces conflict", func(t *testing.T) {
		f := newInvoiceServiceFixture(now)
		invoice := draftForService(t, orgID, leaseID)

		f.invoiceRepo.On("FindByIDForOrg", mock.Anything, orgID, invoice.ID).Return(invoice, nil)
		f.settings.On("SettingsForLease", mock.Anything, leaseID).Return(testSettings(leaseID), nil)
		f.sequenceRepo.On("NextValue", mock.Anything, orgID, "INV-202401").Return(int64(1), nil)
		f.invoiceRepo.On("SaveWithLock", mock.Anything, invoice).Return(shared.ErrConcurrencyConflict)

		_, err := f.service.Issue(context.Background(), orgID, invoice.ID)
		require.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})
}

func TestInvoiceServicePaymentsAndVoid(t *testing.T) {
	orgID := uuid.New()
	leaseID := uuid.New()
	now := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)

	issuedInvoice := func(t *testing.T) *billing.Invoice {
		invoice := draftForService(t, orgID, leaseID)
		require.NoError(t, invoice.Issue("INV-202401-000001", now))
		return invoice
	}

	t.Run("apply payment persists with lock", func(t *testing.T) {
		f := newInvoiceServiceFixture(now)
		invoice := issuedInvoice(t)

		f.invoiceRepo.On("FindByIDForOrg", mock.Anything, orgID, invoice.ID).Return(invoice, nil)
		f.invoiceRepo.On("SaveWithLock", mock.Anything, invoice).Return(nil)

		updated, err := f.service.ApplyPayment(context.Background(), orgID, invoice.ID, dec("4000"), "UTR-9")
		require.NoError(t, err)
		assert.Equal(t, billing.InvoiceStatusPartiallyPaid, updated.Status)
		f.invoiceRepo.AssertExpectations(t)
	})

	t.Run("void rejects paid invoice without saving", func(t *testing.T) {
		f := newInvoiceServiceFixture(now)
		invoice := issuedInvoice(t)
		require.NoError(t, invoice.ApplyPayment(dec("1"), "", now))

		f.invoiceRepo.On("FindByIDForOrg", mock.Anything, orgID, invoice.ID).Return(invoice, nil)

		_, err := f.service.Void(context.Background(), orgID, invoice.ID, "tenant dispute")
		require.ErrorIs(t, err, billing.ErrCannotVoidPaid)
		f.invoiceRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})
}

func TestInvoiceServiceGet(t *testing.T) {
	orgID := uuid.New()
	leaseID := uuid.New()
	now := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	f := newInvoiceServiceFixture(now)
	invoice := draftForService(t, orgID, leaseID)
	require.NoError(t, invoice.Issue("INV-202401-000001", date(2024, time.January, 5)))

	f.invoiceRepo.On("FindByIDForOrg", mock.Anything, orgID, invoice.ID).Return(invoice, nil)
	f.creditRepo.On("SumAppliedForInvoice", mock.Anything, invoice.ID).Return(decimal.RequireFromString("10000"), nil)

	view, err := f.service.Get(context.Background(), orgID, invoice.ID)
	require.NoError(t, err)

	// Fully credited: displays Paid, balance zero, cash distinction kept.
	assert.Equal(t, billing.InvoiceStatusPaid, view.DisplayStatus)
	assert.True(t, view.BalanceAmount.IsZero())
	assert.True(t, view.CreditSettled)
	assert.True(t, view.Invoice.PaidAmount.IsZero())
}

func TestInvoiceServiceOverdueRead(t *testing.T) {
	orgID := uuid.New()
	leaseID := uuid.New()
	now := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	f := newInvoiceServiceFixture(now)
	invoice := draftForService(t, orgID, leaseID)
	require.NoError(t, invoice.Issue("INV-202401-000001", date(2024, time.January, 5)))

	f.invoiceRepo.On("FindByIDForOrg", mock.Anything, orgID, invoice.ID).Return(invoice, nil)
	f.creditRepo.On("SumAppliedForInvoice", mock.Anything, invoice.ID).Return(decimal.Zero, nil)

	view, err := f.service.Get(context.Background(), orgID, invoice.ID)
	require.NoError(t, err)

	assert.Equal(t, billing.InvoiceStatusOverdue, view.DisplayStatus)
	assert.Equal(t, billing.InvoiceStatusIssued, view.Invoice.Status, "derived, never written back")
}
