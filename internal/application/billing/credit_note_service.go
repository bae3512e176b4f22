package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/chethandvg/tenantmanagement/internal/domain/billing"
	"github.com/chethandvg/tenantmanagement/internal/domain/shared"
	"github.com/google/uuid"
)

// CreditNoteService corrects issued invoices without mutating them.
// A credit note is a separate ledger entry; its effect on the invoice
// balance is recomputed, never written into the invoice's lines.
type CreditNoteService struct {
	creditRepo  billing.CreditNoteRepository
	invoiceRepo billing.InvoiceRepository
	now         func() time.Time
}

// NewCreditNoteService creates a new CreditNoteService
func NewCreditNoteService(creditRepo billing.CreditNoteRepository, invoiceRepo billing.InvoiceRepository) *CreditNoteService {
	return &CreditNoteService{
		creditRepo:  creditRepo,
		invoiceRepo: invoiceRepo,
		now:         time.Now,
	}
}

// CreateCreditNoteRequest carries the inputs for a new credit note
type CreateCreditNoteRequest struct {
	OrgID     uuid.UUID
	InvoiceID uuid.UUID
	Reason    billing.CreditNoteReason
	Remark    string
	Lines     []billing.CreditNoteLine
}

// Create records an unapplied credit note against an invoice. The note
// total may not exceed what is still owed on the invoice.
func (s *CreditNoteService) Create(ctx context.Context, req CreateCreditNoteRequest) (*billing.CreditNote, error) {
	invoice, err := s.invoiceRepo.FindByIDForOrg(ctx, req.OrgID, req.InvoiceID)
	if err != nil {
		return nil, err
	}
	if !invoice.CanAcceptCreditNote() {
		return nil, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot credit an invoice in %s status", invoice.Status))
	}

	note, err := billing.NewCreditNote(req.OrgID, req.InvoiceID, req.Reason, req.Remark, req.Lines)
	if err != nil {
		return nil, err
	}

	appliedTotal, err := s.creditRepo.SumAppliedForInvoice(ctx, invoice.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum applied credit notes: %w", err)
	}
	invoice.AppliedCreditTotal = appliedTotal
	if note.TotalAmount.GreaterThan(invoice.BalanceAmount()) {
		return nil, billing.ErrCreditExceedsBalance
	}

	if err := s.creditRepo.Save(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to save credit note: %w", err)
	}
	return note, nil
}

// Apply takes an unapplied note into effect and refreshes the invoice's
// cached credit total in the same transaction. Applied notes are
// permanently immutable.
func (s *CreditNoteService) Apply(ctx context.Context, orgID, creditNoteID uuid.UUID) (*billing.CreditNote, error) {
	note, err := s.creditRepo.FindByID(ctx, creditNoteID)
	if err != nil {
		return nil, err
	}
	if note.OrgID != orgID {
		return nil, shared.ErrNotFound
	}

	invoice, err := s.invoiceRepo.FindByIDForOrg(ctx, orgID, note.InvoiceID)
	if err != nil {
		return nil, err
	}
	// The invoice may have been voided since the note was created.
	if !invoice.CanAcceptCreditNote() {
		return nil, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot apply a credit note to an invoice in %s status", invoice.Status))
	}

	appliedTotal, err := s.creditRepo.SumAppliedForInvoice(ctx, invoice.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum applied credit notes: %w", err)
	}
	invoice.AppliedCreditTotal = appliedTotal

	if err := note.Apply(s.now().UTC()); err != nil {
		return nil, err
	}
	if err := invoice.ApplyCreditTotal(appliedTotal.Add(note.TotalAmount)); err != nil {
		return nil, err
	}

	if err := s.creditRepo.SaveApplied(ctx, note, invoice); err != nil {
		return nil, err
	}
	return note, nil
}

// Get returns a credit note scoped to an organization
func (s *CreditNoteService) Get(ctx context.Context, orgID, creditNoteID uuid.UUID) (*billing.CreditNote, error) {
	note, err := s.creditRepo.FindByID(ctx, creditNoteID)
	if err != nil {
		return nil, err
	}
	if note.OrgID != orgID {
		return nil, shared.ErrNotFound
	}
	return note, nil
}

// ListForInvoice returns an invoice's credit notes
func (s *CreditNoteService) ListForInvoice(ctx context.Context, orgID, invoiceID uuid.UUID) ([]billing.CreditNote, error) {
	if _, err := s.invoiceRepo.FindByIDForOrg(ctx, orgID, invoiceID); err != nil {
		return nil, err
	}
	return s.creditRepo.FindByInvoice(ctx, invoiceID)
}
