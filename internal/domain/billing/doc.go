// Package billing contains the lease billing and invoicing domain:
// recurring charges, utility rate plans and statements, invoices with
// their lifecycle state machine, credit notes, and batch invoice runs.
//
// Entities here are pure domain objects. Calendar-aware financial math
// (proration, tiered utility rating) lives beside them as pure functions
// so it can be tested without any infrastructure.
package billing
