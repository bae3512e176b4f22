package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chethandvg/tenantmanagement/internal/domain/billing"
	"github.com/chethandvg/tenantmanagement/internal/domain/shared"
	"github.com/google/uuid"
)

// InvoiceGenerator produces or idempotently refreshes the draft invoice
// for a lease and billing period. It is timing-agnostic: the caller
// resolves which calendar period the lease's rent timing maps to and
// hands the generator an explicit period.
type InvoiceGenerator struct {
	aggregator  *ChargeAggregator
	invoiceRepo billing.InvoiceRepository
	settings    billing.BillingSettingsProvider
	now         func() time.Time
}

// NewInvoiceGenerator creates a new InvoiceGenerator
func NewInvoiceGenerator(
	aggregator *ChargeAggregator,
	invoiceRepo billing.InvoiceRepository,
	settings billing.BillingSettingsProvider,
) *InvoiceGenerator {
	return &InvoiceGenerator{
		aggregator:  aggregator,
		invoiceRepo: invoiceRepo,
		settings:    settings,
		now:         time.Now,
	}
}

// Generate builds the draft invoice for a lease and period.
//
// Calling it twice with the same inputs updates the same draft in place
// rather than creating a duplicate. Once the period's invoice has been
// issued the draft is gone for good: regeneration fails and corrections
// go through credit notes.
func (g *InvoiceGenerator) Generate(ctx context.Context, orgID, leaseID uuid.UUID, periodStart, periodEnd time.Time) (*billing.Invoice, error) {
	settings, err := g.settings.SettingsForLease(ctx, leaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load billing settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	existing, err := g.invoiceRepo.FindByLeaseAndPeriod(ctx, orgID, leaseID, periodStart, periodEnd)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up existing invoice: %w", err)
	}
	if existing != nil && existing.Status != billing.InvoiceStatusDraft {
		return nil, billing.ErrAlreadyIssued
	}

	result, err := g.aggregator.BuildLineItems(ctx, orgID, leaseID, periodStart, periodEnd, settings.ProrationMethod)
	if err != nil {
		return nil, err
	}
	if len(result.Lines) == 0 {
		return nil, billing.ErrNoBillableItems
	}

	invoice := existing
	if invoice == nil {
		invoiceDate := g.now().UTC()
		dueDate := invoiceDate.AddDate(0, 0, settings.PaymentTermDays)
		invoice, err = billing.NewDraftInvoice(orgID, leaseID, invoiceDate, dueDate, periodStart, periodEnd, result.Lines)
		if err != nil {
			return nil, err
		}
	} else if err := invoice.ReplaceLines(result.Lines); err != nil {
		return nil, err
	}

	if err := g.invoiceRepo.SaveGenerated(ctx, invoice, result.LineByStatement); err != nil {
		return nil, fmt.Errorf("failed to persist generated invoice: %w", err)
	}
	return invoice, nil
}
