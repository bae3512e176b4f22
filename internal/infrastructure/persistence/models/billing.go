package models

import (
	"time"

	"github.com/chethandvg/tenantmanagement/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ChargeTypeModel is the persistence model for the ChargeType aggregate root.
type ChargeTypeModel struct {
	OrgAggregateModel
	Code      billing.ChargeTypeCode `gorm:"type:varchar(30);not null;uniqueIndex:idx_charge_type_org_code,priority:2"`
	Name      string                 `gorm:"type:varchar(100);not null"`
	IsTaxable bool                   `gorm:"not null;default:false"`
	TaxRate   decimal.Decimal        `gorm:"type:decimal(5,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (ChargeTypeModel) TableName() string {
	return "charge_types"
}

// ToDomain converts the persistence model to a domain ChargeType entity.
func (m *ChargeTypeModel) ToDomain() *billing.ChargeType {
	return &billing.ChargeType{
		OrgAggregateRoot: m.ToDomainOrgAggregateRoot(),
		Code:             m.Code,
		Name:             m.Name,
		IsTaxable:        m.IsTaxable,
		TaxRate:          m.TaxRate,
	}
}

// FromDomain populates the persistence model from a domain ChargeType entity.
func (m *ChargeTypeModel) FromDomain(ct *billing.ChargeType) {
	m.FromDomainOrgAggregateRoot(ct.OrgAggregateRoot)
	m.Code = ct.Code
	m.Name = ct.Name
	m.IsTaxable = ct.IsTaxable
	m.TaxRate = ct.TaxRate
}

// ChargeTypeModelFromDomain creates a new persistence model from a domain ChargeType.
func ChargeTypeModelFromDomain(ct *billing.ChargeType) *ChargeTypeModel {
	m := &ChargeTypeModel{}
	m.FromDomain(ct)
	return m
}

// RecurringChargeModel is the persistence model for the RecurringCharge aggregate root.
type RecurringChargeModel struct {
	OrgAggregateModel
	LeaseID      uuid.UUID               `gorm:"type:uuid;not null;index"`
	ChargeTypeID uuid.UUID               `gorm:"type:uuid;not null;index"`
	Amount       decimal.Decimal         `gorm:"type:decimal(18,2);not null"`
	Frequency    billing.ChargeFrequency `gorm:"type:varchar(20);not null"`
	StartDate    time.Time               `gorm:"type:date;not null"`
	EndDate      *time.Time              `gorm:"type:date"`
	IsActive     bool                    `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (RecurringChargeModel) TableName() string {
	return "recurring_charges"
}

// ToDomain converts the persistence model to a domain RecurringCharge entity.
func (m *RecurringChargeModel) ToDomain() *billing.RecurringCharge {
	return &billing.RecurringCharge{
		OrgAggregateRoot: m.ToDomainOrgAggregateRoot(),
		LeaseID:          m.LeaseID,
		ChargeTypeID:     m.ChargeTypeID,
		Amount:           m.Amount,
		Frequency:        m.Frequency,
		StartDate:        m.StartDate,
		EndDate:          m.EndDate,
		IsActive:         m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain RecurringCharge entity.
func (m *RecurringChargeModel) FromDomain(rc *billing.RecurringCharge) {
	m.FromDomainOrgAggregateRoot(rc.OrgAggregateRoot)
	m.LeaseID = rc.LeaseID
	m.ChargeTypeID = rc.ChargeTypeID
	m.Amount = rc.Amount
	m.Frequency = rc.Frequency
	m.StartDate = rc.StartDate
	m.EndDate = rc.EndDate
	m.IsActive = rc.IsActive
}

// RecurringChargeModelFromDomain creates a new persistence model from a domain RecurringCharge.
func RecurringChargeModelFromDomain(rc *billing.RecurringCharge) *RecurringChargeModel {
	m := &RecurringChargeModel{}
	m.FromDomain(rc)
	return m
}

// UtilityRatePlanModel is the persistence model for the UtilityRatePlan aggregate root.
type UtilityRatePlanModel struct {
	OrgAggregateModel
	Name        string              `gorm:"type:varchar(100);not null"`
	UtilityType billing.UtilityType `gorm:"type:varchar(20);not null;index"`
	Slabs       billing.RateSlabs   `gorm:"type:jsonb;not null;default:'[]'"`
}

// TableName returns the table name for GORM
func (UtilityRatePlanModel) TableName() string {
	return "utility_rate_plans"
}

// ToDomain converts the persistence model to a domain UtilityRatePlan entity.
func (m *UtilityRatePlanModel) ToDomain() *billing.UtilityRatePlan {
	return &billing.UtilityRatePlan{
		OrgAggregateRoot: m.ToDomainOrgAggregateRoot(),
		Name:             m.Name,
		UtilityType:      m.UtilityType,
		Slabs:            m.Slabs,
	}
}

// FromDomain populates the persistence model from a domain UtilityRatePlan entity.
func (m *UtilityRatePlanModel) FromDomain(p *billing.UtilityRatePlan) {
	m.FromDomainOrgAggregateRoot(p.OrgAggregateRoot)
	m.Name = p.Name
	m.UtilityType = p.UtilityType
	m.Slabs = p.Slabs
}

// UtilityRatePlanModelFromDomain creates a new persistence model from a domain UtilityRatePlan.
func UtilityRatePlanModelFromDomain(p *billing.UtilityRatePlan) *UtilityRatePlanModel {
	m := &UtilityRatePlanModel{}
	m.FromDomain(p)
	return m
}

// UtilityStatementModel is the persistence model for the UtilityStatement aggregate root.
type UtilityStatementModel struct {
	OrgAggregateModel
	LeaseID            uuid.UUID           `gorm:"type:uuid;not null;index"`
	UtilityType        billing.UtilityType `gorm:"type:varchar(20);not null"`
	BillingPeriodStart time.Time           `gorm:"type:date;not null;index"`
	BillingPeriodEnd   time.Time           `gorm:"type:date;not null;index"`
	IsMeterBased       bool                `gorm:"not null"`
	PreviousReading    *decimal.Decimal    `gorm:"type:decimal(18,4)"`
	CurrentReading     *decimal.Decimal    `gorm:"type:decimal(18,4)"`
	RatePlanID         *uuid.UUID          `gorm:"type:uuid"`
	DirectBillAmount   *decimal.Decimal    `gorm:"type:decimal(18,2)"`
	UnitsConsumed      decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	CalculatedAmount   decimal.Decimal     `gorm:"type:decimal(18,2);not null;default:0"`
	TotalAmount        decimal.Decimal     `gorm:"type:decimal(18,2);not null;default:0"`
	Revision           int                 `gorm:"not null;default:1"`
	IsFinal            bool                `gorm:"not null;default:false;index"`
	InvoiceLineID      *uuid.UUID          `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (UtilityStatementModel) TableName() string {
	return "utility_statements"
}

// ToDomain converts the persistence model to a domain UtilityStatement entity.
func (m *UtilityStatementModel) ToDomain() *billing.UtilityStatement {
	return &billing.UtilityStatement{
		OrgAggregateRoot:   m.ToDomainOrgAggregateRoot(),
		LeaseID:            m.LeaseID,
		UtilityType:        m.UtilityType,
		BillingPeriodStart: m.BillingPeriodStart,
		BillingPeriodEnd:   m.BillingPeriodEnd,
		IsMeterBased:       m.IsMeterBased,
		PreviousReading:    m.PreviousReading,
		CurrentReading:     m.CurrentReading,
		RatePlanID:         m.RatePlanID,
		DirectBillAmount:   m.DirectBillAmount,
		UnitsConsumed:      m.UnitsConsumed,
		CalculatedAmount:   m.CalculatedAmount,
		TotalAmount:        m.TotalAmount,
		Revision:           m.Revision,
		IsFinal:            m.IsFinal,
		InvoiceLineID:      m.InvoiceLineID,
	}
}

// FromDomain populates the persistence model from a domain UtilityStatement entity.
func (m *UtilityStatementModel) FromDomain(s *billing.UtilityStatement) {
	m.FromDomainOrgAggregateRoot(s.OrgAggregateRoot)
	m.LeaseID = s.LeaseID
	m.UtilityType = s.UtilityType
	m.BillingPeriodStart = s.BillingPeriodStart
	m.BillingPeriodEnd = s.BillingPeriodEnd
	m.IsMeterBased = s.IsMeterBased
	m.PreviousReading = s.PreviousReading
	m.CurrentReading = s.CurrentReading
	m.RatePlanID = s.RatePlanID
	m.DirectBillAmount = s.DirectBillAmount
	m.UnitsConsumed = s.UnitsConsumed
	m.CalculatedAmount = s.CalculatedAmount
	m.TotalAmount = s.TotalAmount
	m.Revision = s.Revision
	m.IsFinal = s.IsFinal
	m.InvoiceLineID = s.InvoiceLineID
}

// UtilityStatementModelFromDomain creates a new persistence model from a domain UtilityStatement.
func UtilityStatementModelFromDomain(s *billing.UtilityStatement) *UtilityStatementModel {
	m := &UtilityStatementModel{}
	m.FromDomain(s)
	return m
}

// InvoiceModel is the persistence model for the Invoice aggregate root.
// Lines live in their own table and are loaded with the header.
type InvoiceModel struct {
	OrgAggregateModel
	LeaseID            uuid.UUID              `gorm:"type:uuid;not null;uniqueIndex:idx_invoice_lease_period,priority:2"`
	InvoiceNumber      string                 `gorm:"type:varchar(50);uniqueIndex:idx_invoice_org_number,priority:2,where:invoice_number <> ''"`
	Status             billing.InvoiceStatus  `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	InvoiceDate        time.Time              `gorm:"type:date;not null"`
	DueDate            time.Time              `gorm:"type:date;not null;index"`
	BillingPeriodStart time.Time              `gorm:"type:date;not null;uniqueIndex:idx_invoice_lease_period,priority:3"`
	BillingPeriodEnd   time.Time              `gorm:"type:date;not null;uniqueIndex:idx_invoice_lease_period,priority:4"`
	SubTotal           decimal.Decimal        `gorm:"type:decimal(18,2);not null"`
	TaxAmount          decimal.Decimal        `gorm:"type:decimal(18,2);not null"`
	TotalAmount        decimal.Decimal        `gorm:"type:decimal(18,2);not null"`
	PaidAmount         decimal.Decimal        `gorm:"type:decimal(18,2);not null;default:0"`
	AppliedCreditTotal decimal.Decimal        `gorm:"type:decimal(18,2);not null;default:0"`
	Payments           billing.PaymentEntries `gorm:"type:jsonb;default:'[]'"`
	IssuedAtUtc        *time.Time
	PaidAtUtc          *time.Time
	VoidedAtUtc        *time.Time
	VoidReason         string             `gorm:"type:varchar(500)"`
	Lines              []InvoiceLineModel `gorm:"foreignKey:InvoiceID;references:ID"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice entity.
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	lines := make([]billing.InvoiceLine, len(m.Lines))
	for i, line := range m.Lines {
		lines[i] = line.ToDomain()
	}
	return &billing.Invoice{
		OrgAggregateRoot:   m.ToDomainOrgAggregateRoot(),
		LeaseID:            m.LeaseID,
		InvoiceNumber:      m.InvoiceNumber,
		Status:             m.Status,
		InvoiceDate:        m.InvoiceDate,
		DueDate:            m.DueDate,
		BillingPeriodStart: m.BillingPeriodStart,
		BillingPeriodEnd:   m.BillingPeriodEnd,
		Lines:              lines,
		SubTotal:           m.SubTotal,
		TaxAmount:          m.TaxAmount,
		TotalAmount:        m.TotalAmount,
		PaidAmount:         m.PaidAmount,
		AppliedCreditTotal: m.AppliedCreditTotal,
		Payments:           m.Payments,
		IssuedAtUtc:        m.IssuedAtUtc,
		PaidAtUtc:          m.PaidAtUtc,
		VoidedAtUtc:        m.VoidedAtUtc,
		VoidReason:         m.VoidReason,
	}
}

// FromDomain populates the persistence model from a domain Invoice entity.
func (m *InvoiceModel) FromDomain(inv *billing.Invoice) {
	m.FromDomainOrgAggregateRoot(inv.OrgAggregateRoot)
	m.LeaseID = inv.LeaseID
	m.InvoiceNumber = inv.InvoiceNumber
	m.Status = inv.Status
	m.InvoiceDate = inv.InvoiceDate
	m.DueDate = inv.DueDate
	m.BillingPeriodStart = inv.BillingPeriodStart
	m.BillingPeriodEnd = inv.BillingPeriodEnd
	m.SubTotal = inv.SubTotal
	m.TaxAmount = inv.TaxAmount
	m.TotalAmount = inv.TotalAmount
	m.PaidAmount = inv.PaidAmount
	m.AppliedCreditTotal = inv.AppliedCreditTotal
	m.Payments = inv.Payments
	m.IssuedAtUtc = inv.IssuedAtUtc
	m.PaidAtUtc = inv.PaidAtUtc
	m.VoidedAtUtc = inv.VoidedAtUtc
	m.VoidReason = inv.VoidReason

	m.Lines = make([]InvoiceLineModel, len(inv.Lines))
	for i, line := range inv.Lines {
		m.Lines[i].FromDomain(inv.ID, line)
	}
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice.
func InvoiceModelFromDomain(inv *billing.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

// InvoiceLineModel is the persistence model for one invoice line.
type InvoiceLineModel struct {
	ID           uuid.UUID          `gorm:"type:uuid;primary_key"`
	InvoiceID    uuid.UUID          `gorm:"type:uuid;not null;index"`
	ChargeTypeID uuid.UUID          `gorm:"type:uuid;not null"`
	LineNumber   int                `gorm:"not null"`
	Description  string             `gorm:"type:varchar(300);not null"`
	Quantity     decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:1"`
	UnitPrice    decimal.Decimal    `gorm:"type:decimal(18,2);not null"`
	Amount       decimal.Decimal    `gorm:"type:decimal(18,2);not null"`
	TaxRate      decimal.Decimal    `gorm:"type:decimal(5,2);not null;default:0"`
	TaxAmount    decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
	TotalAmount  decimal.Decimal    `gorm:"type:decimal(18,2);not null"`
	Source       billing.LineSource `gorm:"type:varchar(20);not null"`
	SourceRefID  *uuid.UUID         `gorm:"type:uuid;index"`
	ServiceStart *time.Time         `gorm:"type:date"`
	ServiceEnd   *time.Time         `gorm:"type:date"`
}

// TableName returns the table name for GORM
func (InvoiceLineModel) TableName() string {
	return "invoice_lines"
}

// ToDomain converts the persistence model to a domain InvoiceLine.
func (m *InvoiceLineModel) ToDomain() billing.InvoiceLine {
	return billing.InvoiceLine{
		ID:           m.ID,
		ChargeTypeID: m.ChargeTypeID,
		LineNumber:   m.LineNumber,
		Description:  m.Description,
		Quantity:     m.Quantity,
		UnitPrice:    m.UnitPrice,
		Amount:       m.Amount,
		TaxRate:      m.TaxRate,
		TaxAmount:    m.TaxAmount,
		TotalAmount:  m.TotalAmount,
		Source:       m.Source,
		SourceRefID:  m.SourceRefID,
		ServiceStart: m.ServiceStart,
		ServiceEnd:   m.ServiceEnd,
	}
}

// FromDomain populates the persistence model from a domain InvoiceLine.
func (m *InvoiceLineModel) FromDomain(invoiceID uuid.UUID, line billing.InvoiceLine) {
	m.ID = line.ID
	m.InvoiceID = invoiceID
	m.ChargeTypeID = line.ChargeTypeID
	m.LineNumber = line.LineNumber
	m.Description = line.Description
	m.Quantity = line.Quantity
	m.UnitPrice = line.UnitPrice
	m.Amount = line.Amount
	m.TaxRate = line.TaxRate
	m.TaxAmount = line.TaxAmount
	m.TotalAmount = line.TotalAmount
	m.Source = line.Source
	m.SourceRefID = line.SourceRefID
	m.ServiceStart = line.ServiceStart
	m.ServiceEnd = line.ServiceEnd
}

// CreditNoteModel is the persistence model for the CreditNote aggregate root.
type CreditNoteModel struct {
	OrgAggregateModel
	InvoiceID    uuid.UUID                `gorm:"type:uuid;not null;index"`
	Reason       billing.CreditNoteReason `gorm:"type:varchar(30);not null"`
	Remark       string                   `gorm:"type:text"`
	Lines        billing.CreditNoteLines  `gorm:"type:jsonb;not null;default:'[]'"`
	TotalAmount  decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	AppliedAtUtc *time.Time               `gorm:"index"`
}

// TableName returns the table name for GORM
func (CreditNoteModel) TableName() string {
	return "credit_notes"
}

// ToDomain converts the persistence model to a domain CreditNote entity.
func (m *CreditNoteModel) ToDomain() *billing.CreditNote {
	return &billing.CreditNote{
		OrgAggregateRoot: m.ToDomainOrgAggregateRoot(),
		InvoiceID:        m.InvoiceID,
		Reason:           m.Reason,
		Remark:           m.Remark,
		Lines:            m.Lines,
		TotalAmount:      m.TotalAmount,
		AppliedAtUtc:     m.AppliedAtUtc,
	}
}

// FromDomain populates the persistence model from a domain CreditNote entity.
func (m *CreditNoteModel) FromDomain(cn *billing.CreditNote) {
	m.FromDomainOrgAggregateRoot(cn.OrgAggregateRoot)
	m.InvoiceID = cn.InvoiceID
	m.Reason = cn.Reason
	m.Remark = cn.Remark
	m.Lines = cn.Lines
	m.TotalAmount = cn.TotalAmount
	m.AppliedAtUtc = cn.AppliedAtUtc
}

// CreditNoteModelFromDomain creates a new persistence model from a domain CreditNote.
func CreditNoteModelFromDomain(cn *billing.CreditNote) *CreditNoteModel {
	m := &CreditNoteModel{}
	m.FromDomain(cn)
	return m
}

// InvoiceRunModel is the persistence model for the InvoiceRun aggregate root.
type InvoiceRunModel struct {
	OrgAggregateModel
	RunNumber          string                   `gorm:"type:varchar(50);not null;uniqueIndex:idx_run_org_number,priority:2"`
	BillingPeriodStart time.Time                `gorm:"type:date;not null"`
	BillingPeriodEnd   time.Time                `gorm:"type:date;not null"`
	Status             billing.InvoiceRunStatus `gorm:"type:varchar(30);not null;default:'PENDING';index"`
	StartedAtUtc       *time.Time
	CompletedAtUtc     *time.Time
	TotalLeases        int                  `gorm:"not null;default:0"`
	SuccessCount       int                  `gorm:"not null;default:0"`
	FailureCount       int                  `gorm:"not null;default:0"`
	Items              []InvoiceRunItemModel `gorm:"foreignKey:RunID;references:ID"`
}

// TableName returns the table name for GORM
func (InvoiceRunModel) TableName() string {
	return "invoice_runs"
}

// ToDomain converts the persistence model to a domain InvoiceRun entity.
func (m *InvoiceRunModel) ToDomain() *billing.InvoiceRun {
	items := make([]billing.InvoiceRunItem, len(m.Items))
	for i, item := range m.Items {
		items[i] = item.ToDomain()
	}
	return &billing.InvoiceRun{
		OrgAggregateRoot:   m.ToDomainOrgAggregateRoot(),
		RunNumber:          m.RunNumber,
		BillingPeriodStart: m.BillingPeriodStart,
		BillingPeriodEnd:   m.BillingPeriodEnd,
		Status:             m.Status,
		StartedAtUtc:       m.StartedAtUtc,
		CompletedAtUtc:     m.CompletedAtUtc,
		TotalLeases:        m.TotalLeases,
		SuccessCount:       m.SuccessCount,
		FailureCount:       m.FailureCount,
		Items:              items,
	}
}

// FromDomain populates the persistence model from a domain InvoiceRun entity.
func (m *InvoiceRunModel) FromDomain(run *billing.InvoiceRun) {
	m.FromDomainOrgAggregateRoot(run.OrgAggregateRoot)
	m.RunNumber = run.RunNumber
	m.BillingPeriodStart = run.BillingPeriodStart
	m.BillingPeriodEnd = run.BillingPeriodEnd
	m.Status = run.Status
	m.StartedAtUtc = run.StartedAtUtc
	m.CompletedAtUtc = run.CompletedAtUtc
	m.TotalLeases = run.TotalLeases
	m.SuccessCount = run.SuccessCount
	m.FailureCount = run.FailureCount

	m.Items = make([]InvoiceRunItemModel, len(run.Items))
	for i, item := range run.Items {
		m.Items[i].FromDomain(run.ID, item)
	}
}

// InvoiceRunModelFromDomain creates a new persistence model from a domain InvoiceRun.
func InvoiceRunModelFromDomain(run *billing.InvoiceRun) *InvoiceRunModel {
	m := &InvoiceRunModel{}
	m.FromDomain(run)
	return m
}

// InvoiceRunItemModel is the persistence model for one per-lease run outcome.
type InvoiceRunItemModel struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key"`
	RunID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	LeaseID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	InvoiceID      *uuid.UUID `gorm:"type:uuid"`
	IsSuccess      bool       `gorm:"not null"`
	ErrorMessage   string     `gorm:"type:text"`
	ProcessedAtUtc time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InvoiceRunItemModel) TableName() string {
	return "invoice_run_items"
}

// ToDomain converts the persistence model to a domain InvoiceRunItem.
func (m *InvoiceRunItemModel) ToDomain() billing.InvoiceRunItem {
	return billing.InvoiceRunItem{
		ID:             m.ID,
		LeaseID:        m.LeaseID,
		InvoiceID:      m.InvoiceID,
		IsSuccess:      m.IsSuccess,
		ErrorMessage:   m.ErrorMessage,
		ProcessedAtUtc: m.ProcessedAtUtc,
	}
}

// FromDomain populates the persistence model from a domain InvoiceRunItem.
func (m *InvoiceRunItemModel) FromDomain(runID uuid.UUID, item billing.InvoiceRunItem) {
	m.ID = item.ID
	m.RunID = runID
	m.LeaseID = item.LeaseID
	m.InvoiceID = item.InvoiceID
	m.IsSuccess = item.IsSuccess
	m.ErrorMessage = item.ErrorMessage
	m.ProcessedAtUtc = item.ProcessedAtUtc
}

// SequenceModel is the per-organization document number sequence row.
// NextValue increments it under a row lock, never by counting rows.
type SequenceModel struct {
	OrgID     uuid.UUID `gorm:"type:uuid;primary_key"`
	Scope     string    `gorm:"type:varchar(50);primary_key"`
	LastValue int64     `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SequenceModel) TableName() string {
	return "billing_sequences"
}
