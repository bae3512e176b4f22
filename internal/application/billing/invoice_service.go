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

// InvoiceService drives the invoice lifecycle after generation: issue,
// payment application, void and write-off, plus read operations that
// derive the display status.
type InvoiceService struct {
	invoiceRepo  billing.InvoiceRepository
	creditRepo   billing.CreditNoteRepository
	sequenceRepo billing.SequenceRepository
	settings     billing.BillingSettingsProvider
	now          func() time.Time
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo billing.InvoiceRepository,
	creditRepo billing.CreditNoteRepository,
	sequenceRepo billing.SequenceRepository,
	settings billing.BillingSettingsProvider,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		creditRepo:   creditRepo,
		sequenceRepo: sequenceRepo,
		settings:     settings,
		now:          time.Now,
	}
}

// InvoiceView is the read model for one invoice: the stored aggregate
// plus the states derived on every read.
type InvoiceView struct {
	Invoice       *billing.Invoice      `json:"invoice"`
	DisplayStatus billing.InvoiceStatus `json:"display_status"`
	BalanceAmount decimal.Decimal       `json:"balance_amount"`
	CreditSettled bool                  `json:"credit_settled"`
}

// Issue assigns the next invoice number and transitions the draft to
// Issued. Numbers come from a per-organization monthly sequence, so a
// failed issue after allocation leaves a gap rather than a duplicate.
func (s *InvoiceService) Issue(ctx context.Context, orgID, invoiceID uuid.UUID) (*billing.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByIDForOrg(ctx, orgID, invoiceID)
	if err != nil {
		return nil, err
	}

	settings, err := s.settings.SettingsForLease(ctx, invoice.LeaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load billing settings: %w", err)
	}

	now := s.now().UTC()
	month := now.Format("200601")
	scope := fmt.Sprintf("%s-%s", settings.InvoicePrefix, month)
	seq, err := s.sequenceRepo.NextValue(ctx, orgID, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate invoice number: %w", err)
	}
	number := fmt.Sprintf("%s-%s-%06d", settings.InvoicePrefix, month, seq)

	if err := invoice.Issue(number, now); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// ApplyPayment records a payment against an issued invoice
func (s *InvoiceService) ApplyPayment(ctx context.Context, orgID, invoiceID uuid.UUID, amount decimal.Decimal, reference string) (*billing.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByIDForOrg(ctx, orgID, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := invoice.ApplyPayment(amount, reference, s.now().UTC()); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// Void cancels an issued, unpaid invoice
func (s *InvoiceService) Void(ctx context.Context, orgID, invoiceID uuid.UUID, reason string) (*billing.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByIDForOrg(ctx, orgID, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := invoice.Void(reason, s.now().UTC()); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// WriteOff closes an uncollectable invoice
func (s *InvoiceService) WriteOff(ctx context.Context, orgID, invoiceID uuid.UUID) (*billing.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByIDForOrg(ctx, orgID, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := invoice.WriteOff(s.now().UTC()); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// Get returns one invoice with its derived states. The applied credit
// total is recomputed from the credit note ledger on every read.
func (s *InvoiceService) Get(ctx context.Context, orgID, invoiceID uuid.UUID) (*InvoiceView, error) {
	invoice, err := s.invoiceRepo.FindByIDForOrg(ctx, orgID, invoiceID)
	if err != nil {
		return nil, err
	}

	creditTotal, err := s.creditRepo.SumAppliedForInvoice(ctx, invoice.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum applied credit notes: %w", err)
	}
	invoice.AppliedCreditTotal = creditTotal

	return &InvoiceView{
		Invoice:       invoice,
		DisplayStatus: invoice.DisplayStatus(s.now().UTC()),
		BalanceAmount: invoice.BalanceAmount(),
		CreditSettled: invoice.IsCreditSettled(),
	}, nil
}

// List returns an organization's invoices with derived display statuses
func (s *InvoiceService) List(ctx context.Context, orgID uuid.UUID, filter billing.InvoiceFilter) (*shared.Paginated[InvoiceView], error) {
	invoices, total, err := s.invoiceRepo.FindAllForOrg(ctx, orgID, filter)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	views := make([]InvoiceView, 0, len(invoices))
	for i := range invoices {
		inv := &invoices[i]
		views = append(views, InvoiceView{
			Invoice:       inv,
			DisplayStatus: inv.DisplayStatus(now),
			BalanceAmount: inv.BalanceAmount(),
			CreditSettled: inv.IsCreditSettled(),
		})
	}

	page := shared.NewPaginated(views, total, filter.Page, filter.PageSize)
	return &page, nil
}
