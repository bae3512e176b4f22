package billing

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/chethandvg/tenantmanagement/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the invoice lifecycle states
type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "DRAFT"
	InvoiceStatusIssued        InvoiceStatus = "ISSUED"
	InvoiceStatusPartiallyPaid InvoiceStatus = "PARTIALLY_PAID"
	InvoiceStatusPaid          InvoiceStatus = "PAID"
	// InvoiceStatusOverdue is a derived display state, never persisted:
	// an Issued/PartiallyPaid invoice past its due date with a balance
	// outstanding reads as Overdue without a stored transition.
	InvoiceStatusOverdue    InvoiceStatus = "OVERDUE"
	InvoiceStatusCancelled  InvoiceStatus = "CANCELLED"
	InvoiceStatusWrittenOff InvoiceStatus = "WRITTEN_OFF"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusIssued, InvoiceStatusPartiallyPaid,
		InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled,
		InvoiceStatusWrittenOff:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// IsTerminal returns true for states that permit no further transitions
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusCancelled || s == InvoiceStatusWrittenOff
}

// CanApplyPayment returns true if payments can be applied in this status
func (s InvoiceStatus) CanApplyPayment() bool {
	return s == InvoiceStatusIssued || s == InvoiceStatusPartiallyPaid
}

// LineSource identifies what produced an invoice line
type LineSource string

const (
	LineSourceRent        LineSource = "RENT"
	LineSourceMaintenance LineSource = "MAINTENANCE"
	LineSourceUtility     LineSource = "UTILITY"
	LineSourceManual      LineSource = "MANUAL"
)

// IsValid checks if the source is a known LineSource
func (s LineSource) IsValid() bool {
	switch s {
	case LineSourceRent, LineSourceMaintenance, LineSourceUtility, LineSourceManual:
		return true
	}
	return false
}

// InvoiceLine is one billed item. SourceRefID points back to the
// recurring charge or utility statement that produced the line; it is a
// lookup key for audit, never an ownership reference.
type InvoiceLine struct {
	ID            uuid.UUID       `json:"id"`
	ChargeTypeID  uuid.UUID       `json:"charge_type_id"`
	LineNumber    int             `json:"line_number"` // 1-based, stable ordering
	Description   string          `json:"description"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Amount        decimal.Decimal `json:"amount"`
	TaxRate       decimal.Decimal `json:"tax_rate"` // percent
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Source        LineSource      `json:"source"`
	SourceRefID   *uuid.UUID      `json:"source_ref_id"`
	ServiceStart  *time.Time      `json:"service_start"`
	ServiceEnd    *time.Time      `json:"service_end"`
}

// NewInvoiceLine creates a line, deriving tax and total from the amount
// and the charge type's tax rate (percent).
func NewInvoiceLine(chargeTypeID uuid.UUID, description string, quantity, unitPrice, amount, taxRate decimal.Decimal, source LineSource, sourceRefID *uuid.UUID) (InvoiceLine, error) {
	if chargeTypeID == uuid.Nil {
		return InvoiceLine{}, shared.NewDomainError("INVALID_CHARGE_TYPE", "Charge type ID cannot be empty")
	}
	if description == "" {
		return InvoiceLine{}, shared.NewDomainError("INVALID_DESCRIPTION", "Line description cannot be empty")
	}
	if amount.IsNegative() {
		return InvoiceLine{}, shared.NewDomainError("INVALID_AMOUNT", "Line amount cannot be negative")
	}
	if !source.IsValid() {
		return InvoiceLine{}, shared.NewDomainError("INVALID_LINE_SOURCE", "Line source is not valid")
	}

	taxAmount := amount.Mul(taxRate).Div(decimal.NewFromInt(100)).Round(2)
	return InvoiceLine{
		ID:           uuid.New(),
		ChargeTypeID: chargeTypeID,
		Description:  description,
		Quantity:     quantity,
		UnitPrice:    unitPrice,
		Amount:       amount,
		TaxRate:      taxRate,
		TaxAmount:    taxAmount,
		TotalAmount:  amount.Add(taxAmount),
		Source:       source,
		SourceRefID:  sourceRefID,
	}, nil
}

// WithServicePeriod annotates the line with the date sub-range it bills
func (l InvoiceLine) WithServicePeriod(start, end time.Time) InvoiceLine {
	s, e := truncateToDay(start), truncateToDay(end)
	l.ServiceStart = &s
	l.ServiceEnd = &e
	return l
}

// PaymentEntry records one payment applied to the invoice.
// Stored as JSONB inside the invoice aggregate.
type PaymentEntry struct {
	ID         uuid.UUID       `json:"id"`
	Amount     decimal.Decimal `json:"amount"`
	Reference  string          `json:"reference,omitempty"`
	ReceivedAt time.Time       `json:"received_at"`
}

// PaymentEntries implements GORM Scanner/Valuer for JSONB storage
type PaymentEntries []PaymentEntry

// Value implements driver.Valuer for GORM to store as JSONB
func (p PaymentEntries) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner for GORM to read from JSONB
func (p *PaymentEntries) Scan(value interface{}) error {
	if value == nil {
		*p = PaymentEntries{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan PaymentEntries: unsupported type")
	}

	if len(bytes) == 0 {
		*p = PaymentEntries{}
		return nil
	}

	return json.Unmarshal(bytes, p)
}

// Invoice is the aggregate root for a lease's bill over one period.
// Draft invoices are freely regenerated; once issued, the invoice and
// its lines are immutable and corrections go through credit notes.
type Invoice struct {
	shared.OrgAggregateRoot
	LeaseID            uuid.UUID       `json:"lease_id"`
	InvoiceNumber      string          `json:"invoice_number"` // assigned on issue, immutable after
	Status             InvoiceStatus   `json:"status"`
	InvoiceDate        time.Time       `json:"invoice_date"`
	DueDate            time.Time       `json:"due_date"`
	BillingPeriodStart time.Time       `json:"billing_period_start"`
	BillingPeriodEnd   time.Time       `json:"billing_period_end"`
	Lines              []InvoiceLine   `json:"lines"`
	SubTotal           decimal.Decimal `json:"sub_total"`
	TaxAmount          decimal.Decimal `json:"tax_amount"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	PaidAmount         decimal.Decimal `json:"paid_amount"`
	AppliedCreditTotal decimal.Decimal `json:"applied_credit_total"` // recomputed on every credit application
	Payments           PaymentEntries  `json:"payments"`
	IssuedAtUtc        *time.Time      `json:"issued_at_utc"`
	PaidAtUtc          *time.Time      `json:"paid_at_utc"`
	VoidedAtUtc        *time.Time      `json:"voided_at_utc"`
	VoidReason         string          `json:"void_reason"`
}

// NewDraftInvoice creates a draft invoice from aggregated lines
func NewDraftInvoice(orgID, leaseID uuid.UUID, invoiceDate, dueDate, periodStart, periodEnd time.Time, lines []InvoiceLine) (*Invoice, error) {
	if leaseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LEASE", "Lease ID cannot be empty")
	}
	if truncateToDay(periodEnd).Before(truncateToDay(periodStart)) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Billing period end cannot be before period start")
	}
	if dueDate.Before(invoiceDate) {
		return nil, shared.NewDomainError("INVALID_DUE_DATE", "Due date cannot be before invoice date")
	}
	if len(lines) == 0 {
		return nil, ErrNoBillableItems
	}

	inv := &Invoice{
		OrgAggregateRoot:   shared.NewOrgAggregateRoot(orgID),
		LeaseID:            leaseID,
		Status:             InvoiceStatusDraft,
		InvoiceDate:        truncateToDay(invoiceDate),
		DueDate:            truncateToDay(dueDate),
		BillingPeriodStart: truncateToDay(periodStart),
		BillingPeriodEnd:   truncateToDay(periodEnd),
		PaidAmount:         decimal.Zero,
		AppliedCreditTotal: decimal.Zero,
		Payments:           PaymentEntries{},
	}
	inv.setLines(lines)
	return inv, nil
}

// ReplaceLines swaps the draft's line items, renumbering and recomputing
// totals. Regeneration of a non-draft invoice is forbidden.
func (inv *Invoice) ReplaceLines(lines []InvoiceLine) error {
	if inv.Status != InvoiceStatusDraft {
		return ErrImmutableInvoice
	}
	if len(lines) == 0 {
		return ErrNoBillableItems
	}
	inv.setLines(lines)
	inv.UpdatedAt = time.Now().UTC()
	inv.IncrementVersion()
	return nil
}

// setLines assigns stable 1-based line numbers and recomputes totals
func (inv *Invoice) setLines(lines []InvoiceLine) {
	subTotal := decimal.Zero
	taxTotal := decimal.Zero
	for i := range lines {
		lines[i].LineNumber = i + 1
		subTotal = subTotal.Add(lines[i].Amount)
		taxTotal = taxTotal.Add(lines[i].TaxAmount)
	}
	inv.Lines = lines
	inv.SubTotal = subTotal
	inv.TaxAmount = taxTotal
	inv.TotalAmount = subTotal.Add(taxTotal)
}

// Issue assigns the invoice number and transitions Draft -> Issued.
// Irreversible: there is no un-issue.
func (inv *Invoice) Issue(invoiceNumber string, now time.Time) error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot issue invoice in %s status", inv.Status))
	}
	if len(inv.Lines) == 0 {
		return ErrNoBillableItems
	}
	if !inv.TotalAmount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Cannot issue an invoice with a non-positive total")
	}
	if invoiceNumber == "" {
		return shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}

	issuedAt := now.UTC()
	inv.InvoiceNumber = invoiceNumber
	inv.IssuedAtUtc = &issuedAt
	inv.Status = InvoiceStatusIssued
	inv.UpdatedAt = issuedAt
	inv.IncrementVersion()
	return nil
}

// ApplyPayment records a payment and recomputes the stored status
func (inv *Invoice) ApplyPayment(amount decimal.Decimal, reference string, now time.Time) error {
	if !inv.Status.CanApplyPayment() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot apply payment to invoice in %s status", inv.Status))
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if amount.GreaterThan(inv.BalanceAmount()) {
		return shared.NewDomainError("PAYMENT_EXCEEDS_BALANCE", "Payment amount exceeds invoice balance")
	}

	receivedAt := now.UTC()
	inv.Payments = append(inv.Payments, PaymentEntry{
		ID:         uuid.New(),
		Amount:     amount,
		Reference:  reference,
		ReceivedAt: receivedAt,
	})
	inv.PaidAmount = inv.PaidAmount.Add(amount)

	switch {
	case inv.PaidAmount.GreaterThanOrEqual(inv.TotalAmount):
		inv.Status = InvoiceStatusPaid
		inv.PaidAtUtc = &receivedAt
	case inv.PaidAmount.IsPositive():
		inv.Status = InvoiceStatusPartiallyPaid
	}
	inv.UpdatedAt = receivedAt
	inv.IncrementVersion()
	return nil
}

// Void cancels an issued, unpaid invoice. Terminal: no payments or
// credit notes afterwards.
func (inv *Invoice) Void(reason string, now time.Time) error {
	if inv.PaidAmount.IsPositive() {
		return ErrCannotVoidPaid
	}
	if inv.Status != InvoiceStatusIssued {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot void invoice in %s status", inv.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_VOID_REASON", "Void reason cannot be empty")
	}

	voidedAt := now.UTC()
	inv.VoidedAtUtc = &voidedAt
	inv.VoidReason = reason
	inv.Status = InvoiceStatusCancelled
	inv.UpdatedAt = voidedAt
	inv.IncrementVersion()
	return nil
}

// WriteOff marks an uncollectible invoice. Terminal.
func (inv *Invoice) WriteOff(now time.Time) error {
	if !inv.Status.CanApplyPayment() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot write off invoice in %s status", inv.Status))
	}
	written := now.UTC()
	inv.VoidedAtUtc = &written
	inv.Status = InvoiceStatusWrittenOff
	inv.UpdatedAt = written
	inv.IncrementVersion()
	return nil
}

// ApplyCreditTotal replaces the cached sum of applied credit notes.
// Called after every credit note application with the freshly computed
// sum so the cache cannot drift.
func (inv *Invoice) ApplyCreditTotal(total decimal.Decimal) error {
	if total.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Applied credit total cannot be negative")
	}
	if total.GreaterThan(inv.TotalAmount.Sub(inv.PaidAmount)) {
		return ErrCreditExceedsBalance
	}
	inv.AppliedCreditTotal = total
	inv.UpdatedAt = time.Now().UTC()
	inv.IncrementVersion()
	return nil
}

// BalanceAmount is always derived: total minus payments minus applied
// credit notes.
func (inv *Invoice) BalanceAmount() decimal.Decimal {
	return inv.TotalAmount.Sub(inv.PaidAmount).Sub(inv.AppliedCreditTotal)
}

// IsCreditSettled reports whether the invoice was settled by credit
// notes rather than cash. The distinction stays queryable: PaidAmount is
// untouched by credits.
func (inv *Invoice) IsCreditSettled() bool {
	return inv.Status.CanApplyPayment() &&
		inv.BalanceAmount().IsZero() &&
		inv.PaidAmount.LessThan(inv.TotalAmount)
}

// DisplayStatus resolves the read-time status: credit-settled invoices
// display as Paid, and past-due open invoices display as Overdue.
// Nothing here is persisted.
func (inv *Invoice) DisplayStatus(today time.Time) InvoiceStatus {
	if !inv.Status.CanApplyPayment() {
		return inv.Status
	}
	balance := inv.BalanceAmount()
	if balance.IsZero() {
		return InvoiceStatusPaid
	}
	if balance.IsPositive() && truncateToDay(inv.DueDate).Before(truncateToDay(today)) {
		return InvoiceStatusOverdue
	}
	return inv.Status
}

// CanAcceptCreditNote reports whether a credit note may target this
// invoice. Draft invoices are corrected by regeneration; cancelled
// invoices are terminal.
func (inv *Invoice) CanAcceptCreditNote() bool {
	return inv.Status != InvoiceStatusDraft && inv.Status != InvoiceStatusCancelled
}
