package billing

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/chethandvg/tenantmanagement/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreditNoteReason classifies why a correction was granted
type CreditNoteReason string

const (
	CreditReasonInvoiceError CreditNoteReason = "INVOICE_ERROR"
	CreditReasonDiscount     CreditNoteReason = "DISCOUNT"
	CreditReasonRefund       CreditNoteReason = "REFUND"
	CreditReasonGoodwill     CreditNoteReason = "GOODWILL"
	CreditReasonAdjustment   CreditNoteReason = "ADJUSTMENT"
	CreditReasonOther        CreditNoteReason = "OTHER"
)

// IsValid checks if the reason is a known CreditNoteReason
func (r CreditNoteReason) IsValid() bool {
	switch r {
	case CreditReasonInvoiceError, CreditReasonDiscount, CreditReasonRefund,
		CreditReasonGoodwill, CreditReasonAdjustment, CreditReasonOther:
		return true
	}
	return false
}

// String returns the string representation of CreditNoteReason
func (r CreditNoteReason) String() string {
	return string(r)
}

// CreditNoteLine mirrors one invoice line with the amount credited
// against it.
type CreditNoteLine struct {
	ID            uuid.UUID       `json:"id"`
	InvoiceLineID uuid.UUID       `json:"invoice_line_id"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
}

// CreditNoteLines implements GORM Scanner/Valuer for JSONB storage
type CreditNoteLines []CreditNoteLine

// Value implements driver.Valuer for GORM to store as JSONB
func (l CreditNoteLines) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for GORM to read from JSONB
func (l *CreditNoteLines) Scan(value interface{}) error {
	if value == nil {
		*l = CreditNoteLines{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan CreditNoteLines: unsupported type")
	}

	if len(bytes) == 0 {
		*l = CreditNoteLines{}
		return nil
	}

	return json.Unmarshal(bytes, l)
}

// CreditNote is a ledger-style correction against one invoice. It never
// mutates the invoice's lines; its effect is the recomputed balance.
// Once applied it is permanently immutable - there is no reversal.
type CreditNote struct {
	shared.OrgAggregateRoot
	InvoiceID    uuid.UUID        `json:"invoice_id"`
	Reason       CreditNoteReason `json:"reason"`
	Remark       string           `json:"remark"`
	Lines        CreditNoteLines  `json:"lines"`
	TotalAmount  decimal.Decimal  `json:"total_amount"`
	AppliedAtUtc *time.Time       `json:"applied_at_utc"` // nil = draft, not yet applied
}

// NewCreditNote creates an unapplied credit note against an invoice.
// The caller (service layer) enforces the balance bound against the
// invoice's current state.
func NewCreditNote(orgID, invoiceID uuid.UUID, reason CreditNoteReason, remark string, lines []CreditNoteLine) (*CreditNote, error) {
	if invoiceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INVOICE", "Invoice ID cannot be empty")
	}
	if !reason.IsValid() {
		return nil, shared.NewDomainError("INVALID_CREDIT_REASON", "Credit note reason is not valid")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("INVALID_CREDIT_LINES", "Credit note must have at least one line")
	}

	total := decimal.Zero
	noteLines := make(CreditNoteLines, 0, len(lines))
	for _, line := range lines {
		if line.InvoiceLineID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_CREDIT_LINES", "Credit note line must reference an invoice line")
		}
		if !line.Amount.IsPositive() {
			return nil, shared.NewDomainError("INVALID_AMOUNT", "Credit note line amount must be positive")
		}
		line.ID = uuid.New()
		noteLines = append(noteLines, line)
		total = total.Add(line.Amount)
	}

	return &CreditNote{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		InvoiceID:        invoiceID,
		Reason:           reason,
		Remark:           remark,
		Lines:            noteLines,
		TotalAmount:      total,
	}, nil
}

// IsApplied reports whether the note has taken effect
func (cn *CreditNote) IsApplied() bool {
	return cn.AppliedAtUtc != nil
}

// Apply marks the note as applied. Applied notes are immutable; a second
// apply is rejected.
func (cn *CreditNote) Apply(now time.Time) error {
	if cn.IsApplied() {
		return shared.NewDomainError("CREDIT_NOTE_APPLIED", "Credit note has already been applied")
	}
	appliedAt := now.UTC()
	cn.AppliedAtUtc = &appliedAt
	return nil
}
