package billing

import (
	"context"
	"time"

	"github.com/chethandvg/tenantmanagement/internal/domain/billing"
	"github.com/chethandvg/tenantmanagement/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockChargeTypeRepository struct {
	mock.Mock
}

func (m *MockChargeTypeRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.ChargeType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.ChargeType), args.Error(1)
}

func (m *MockChargeTypeRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*billing.ChargeType, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]*billing.ChargeType), args.Error(1)
}

func (m *MockChargeTypeRepository) FindByCode(ctx context.Context, orgID uuid.UUID, code billing.ChargeTypeCode) (*billing.ChargeType, error) {
	args := m.Called(ctx, orgID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.ChargeType), args.Error(1)
}

func (m *MockChargeTypeRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID) ([]billing.ChargeType, error) {
	args := m.Called(ctx, orgID)
	return args.Get(0).([]billing.ChargeType), args.Error(1)
}

func (m *MockChargeTypeRepository) Save(ctx context.Context, chargeType *billing.ChargeType) error {
	args := m.Called(ctx, chargeType)
	return args.Error(0)
}

type MockRecurringChargeRepository struct {
	mock.Mock
}

func (m *MockRecurringChargeRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.RecurringCharge, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.RecurringCharge), args.Error(1)
}

func (m *MockRecurringChargeRepository) FindActiveOverlapping(ctx context.Context, orgID, leaseID uuid.UUID, periodStart, periodEnd time.Time) ([]billing.RecurringCharge, error) {
	args := m.Called(ctx, orgID, leaseID, periodStart, periodEnd)
	return args.Get(0).([]billing.RecurringCharge), args.Error(1)
}

func (m *MockRecurringChargeRepository) Save(ctx context.Context, charge *billing.RecurringCharge) error {
	args := m.Called(ctx, charge)
	return args.Error(0)
}

type MockUtilityRatePlanRepository struct {
	mock.Mock
}

func (m *MockUtilityRatePlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.UtilityRatePlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.UtilityRatePlan), args.Error(1)
}

func (m *MockUtilityRatePlanRepository) Save(ctx context.Context, plan *billing.UtilityRatePlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

type MockUtilityStatementRepository struct {
	mock.Mock
}

func (m *MockUtilityStatementRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.UtilityStatement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.UtilityStatement), args.Error(1)
}

func (m *MockUtilityStatementRepository) FindPendingForLease(ctx context.Context, orgID, leaseID uuid.UUID, onOrBefore time.Time) ([]billing.UtilityStatement, error) {
	args := m.Called(ctx, orgID, leaseID, onOrBefore)
	return args.Get(0).([]billing.UtilityStatement), args.Error(1)
}

func (m *MockUtilityStatementRepository) Save(ctx context.Context, statement *billing.UtilityStatement) error {
	args := m.Called(ctx, statement)
	return args.Error(0)
}

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByLeaseAndPeriod(ctx context.Context, orgID, leaseID uuid.UUID, periodStart, periodEnd time.Time) (*billing.Invoice, error) {
	args := m.Called(ctx, orgID, leaseID, periodStart, periodEnd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter billing.InvoiceFilter) ([]billing.Invoice, int64, error) {
	args := m.Called(ctx, orgID, filter)
	return args.Get(0).([]billing.Invoice), args.Get(1).(int64), args.Error(2)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SaveWithLock(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SaveGenerated(ctx context.Context, invoice *billing.Invoice, lineByStatement map[uuid.UUID]uuid.UUID) error {
	args := m.Called(ctx, invoice, lineByStatement)
	return args.Error(0)
}

type MockCreditNoteRepository struct {
	mock.Mock
}

func (m *MockCreditNoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.CreditNote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.CreditNote), args.Error(1)
}

func (m *MockCreditNoteRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]billing.CreditNote, error) {
	args := m.Called(ctx, invoiceID)
	return args.Get(0).([]billing.CreditNote), args.Error(1)
}

func (m *MockCreditNoteRepository) SumAppliedForInvoice(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, invoiceID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockCreditNoteRepository) Save(ctx context.Context, note *billing.CreditNote) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *MockCreditNoteRepository) SaveApplied(ctx context.Context, note *billing.CreditNote, invoice *billing.Invoice) error {
	args := m.Called(ctx, note, invoice)
	return args.Error(0)
}

type MockInvoiceRunRepository struct {
	mock.Mock
}

func (m *MockInvoiceRunRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.InvoiceRun, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.InvoiceRun), args.Error(1)
}

func (m *MockInvoiceRunRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]billing.InvoiceRun, int64, error) {
	args := m.Called(ctx, orgID, filter)
	return args.Get(0).([]billing.InvoiceRun), args.Get(1).(int64), args.Error(2)
}

func (m *MockInvoiceRunRepository) Save(ctx context.Context, run *billing.InvoiceRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

type MockSequenceRepository struct {
	mock.Mock
}

func (m *MockSequenceRepository) NextValue(ctx context.Context, orgID uuid.UUID, scope string) (int64, error) {
	args := m.Called(ctx, orgID, scope)
	return args.Get(0).(int64), args.Error(1)
}

type MockBillingSettingsProvider struct {
	mock.Mock
}

func (m *MockBillingSettingsProvider) SettingsForLease(ctx context.Context, leaseID uuid.UUID) (*billing.BillingSettings, error) {
	args := m.Called(ctx, leaseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.BillingSettings), args.Error(1)
}

type MockLeaseSettingsStore struct {
	mock.Mock
}

func (m *MockLeaseSettingsStore) SettingsForLease(ctx context.Context, leaseID uuid.UUID) (*billing.BillingSettings, error) {
	args := m.Called(ctx, leaseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.BillingSettings), args.Error(1)
}

func (m *MockLeaseSettingsStore) SaveSettings(ctx context.Context, orgID uuid.UUID, settings *billing.BillingSettings, activeFrom time.Time, activeUntil *time.Time) error {
	args := m.Called(ctx, orgID, settings, activeFrom, activeUntil)
	return args.Error(0)
}

type MockLeaseDirectory struct {
	mock.Mock
}

func (m *MockLeaseDirectory) ActiveLeaseIDs(ctx context.Context, orgID uuid.UUID, asOf time.Time) ([]uuid.UUID, error) {
	args := m.Called(ctx, orgID, asOf)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}
