package billing

import "github.com/chethandvg/tenantmanagement/internal/domain/shared"

// Business-rule violations. Each carries a reason the caller can act on
// without inspecting internals.
var (
	// ErrAlreadyIssued is returned when regeneration is attempted for a
	// lease/period whose invoice has left Draft. Corrections must go
	// through a credit note instead.
	ErrAlreadyIssued = shared.NewDomainError("ALREADY_ISSUED", "Cannot regenerate issued invoice")

	// ErrNoBillableItems is returned when generation finds no active
	// recurring charges and no pending utility statements for the period.
	ErrNoBillableItems = shared.NewDomainError("NO_BILLABLE_ITEMS", "No billable items found for the billing period")

	// ErrImmutableInvoice is returned on any attempt to alter line items,
	// amounts, or dates of an invoice that has left Draft.
	ErrImmutableInvoice = shared.NewDomainError("IMMUTABLE_INVOICE", "Issued invoices are immutable")

	// ErrCannotVoidPaid is returned when voiding an invoice that has
	// received payments.
	ErrCannotVoidPaid = shared.NewDomainError("CANNOT_VOID_PAID", "Cannot void an invoice with recorded payments")

	// ErrCreditExceedsBalance is returned when a credit note's lines sum
	// to more than the invoice's outstanding balance.
	ErrCreditExceedsBalance = shared.NewDomainError("CREDIT_EXCEEDS_BALANCE", "Credit amount exceeds invoice balance")

	// ErrInvalidReading is returned when a meter statement's current
	// reading is below its previous reading.
	ErrInvalidReading = shared.NewDomainError("INVALID_READING", "Current meter reading cannot be below previous reading")

	// ErrStatementFinal is returned on edits to a finalized utility
	// statement. Corrections create a new revision instead.
	ErrStatementFinal = shared.NewDomainError("STATEMENT_FINAL", "Finalized utility statements cannot be edited")
)
