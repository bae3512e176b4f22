package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	billingapp "github.com/chethandvg/tenantmanagement/internal/application/billing"
	"github.com/chethandvg/tenantmanagement/internal/domain/billing"
	"github.com/chethandvg/tenantmanagement/internal/domain/shared"
)

// dateLayout is the wire format for date-only fields
const dateLayout = "2006-01-02"

// InvoiceHandler handles invoice API endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService *billingapp.InvoiceService
	generator      *billingapp.InvoiceGenerator
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *billingapp.InvoiceService, generator *billingapp.InvoiceGenerator) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		generator:      generator,
	}
}

// GenerateInvoiceRequest asks for a draft invoice covering one lease and period
type GenerateInvoiceRequest struct {
	LeaseID     string `json:"lease_id" binding:"required,uuid"`
	PeriodStart string `json:"period_start" binding:"required,datetime=2006-01-02"`
	PeriodEnd   string `json:"period_end" binding:"required,datetime=2006-01-02"`
}

// ApplyPaymentRequest records a payment against an issued invoice
type ApplyPaymentRequest struct {
	Amount    float64 `json:"amount" binding:"required,gt=0"`
	Reference string  `json:"reference" binding:"max=100"`
}

// VoidInvoiceRequest voids an unpaid invoice
type VoidInvoiceRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// Generate creates or regenerates the draft invoice for a lease/period
// POST /api/v1/invoices/generate
func (h *InvoiceHandler) Generate(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Organization context is required")
		return
	}

	var req GenerateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	leaseID := uuid.MustParse(req.LeaseID)
	periodStart, _ := time.Parse(dateLayout, req.PeriodStart)
	periodEnd, _ := time.Parse(dateLayout, req.PeriodEnd)

	invoice, err := h.generator.Generate(c.Request.Context(), orgID, leaseID, periodStart, periodEnd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// Get returns one invoice with its derived read-model fields
// GET /api/v1/invoices/:id
func (h *InvoiceHandler) Get(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Organization context is required")
		return
	}

	var idReq struct {
		ID string `uri:"id" binding:"required,uuid"`
	}
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BindError(c, err)
		return
	}

	view, err := h.invoiceService.Get(c.Request.Context(), orgID, uuid.MustParse(idReq.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// List returns an organization's invoices with filtering
// GET /api/v1/invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Organization context is required")
		return
	}

	var query struct {
		Page     int    `form:"page" binding:"omitempty,min=1"`
		PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
		LeaseID  string `form:"lease_id" binding:"omitempty,uuid"`
		Status   string `form:"status" binding:"omitempty,oneof=DRAFT ISSUED PARTIALLY_PAID PAID OVERDUE CANCELLED WRITTEN_OFF"`
		FromDate string `form:"from_date" binding:"omitempty,datetime=2006-01-02"`
		ToDate   string `form:"to_date" binding:"omitempty,datetime=2006-01-02"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return
	}

	filter := billing.InvoiceFilter{Filter: shared.DefaultFilter()}
	if query.Page > 0 {
		filter.Page = query.Page
	}
	if query.PageSize > 0 {
		filter.PageSize = query.PageSize
	}
	if query.LeaseID != "" {
		leaseID := uuid.MustParse(query.LeaseID)
		filter.LeaseID = &leaseID
	}
	if query.Status != "" {
		status := billing.InvoiceStatus(query.Status)
		filter.Status = &status
	}
	if query.FromDate != "" {
		from, _ := time.Parse(dateLayout, query.FromDate)
		filter.FromDate = &from
	}
	if query.ToDate != "" {
		to, _ := time.Parse(dateLayout, query.ToDate)
		filter.ToDate = &to
	}

	page, err := h.invoiceService.List(c.Request.Context(), orgID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Issue assigns an invoice number and makes the invoice immutable
// POST /api/v1/invoices/:id/issue
func (h *InvoiceHandler) Issue(c *gin.Context) {
	h.transition(c, func(orgID, invoiceID uuid.UUID) (*billing.Invoice, error) {
		return h.invoiceService.Issue(c.Request.Context(), orgID, invoiceID)
	})
}

// ApplyPayment records a payment against an invoice
// POST /api/v1/invoices/:id/payments
func (h *InvoiceHandler) ApplyPayment(c *gin.Context) {
	var req ApplyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	amount := decimal.NewFromFloat(req.Amount)

	h.transition(c, func(orgID, invoiceID uuid.UUID) (*billing.Invoice, error) {
		return h.invoiceService.ApplyPayment(c.Request.Context(), orgID, invoiceID, amount, req.Reference)
	})
}

// Void cancels an unpaid invoice
// POST /api/v1/invoices/:id/void
func (h *InvoiceHandler) Void(c *gin.Context) {
	var req VoidInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	h.transition(c, func(orgID, invoiceID uuid.UUID) (*billing.Invoice, error) {
		return h.invoiceService.Void(c.Request.Context(), orgID, invoiceID, req.Reason)
	})
}

// WriteOff closes an uncollectable invoice
// POST /api/v1/invoices/:id/write-off
func (h *InvoiceHandler) WriteOff(c *gin.Context) {
	h.transition(c, func(orgID, invoiceID uuid.UUID) (*billing.Invoice, error) {
		return h.invoiceService.WriteOff(c.Request.Context(), orgID, invoiceID)
	})
}

// RegisterRoutes registers invoice routes
func (h *InvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invoices := rg.Group("/invoices")
	{
		invoices.POST("/generate", h.Generate)
		invoices.GET("", h.List)
		invoices.GET("/:id", h.Get)
		invoices.POST("/:id/issue", h.Issue)
		invoices.POST("/:id/payments", h.ApplyPayment)
		invoices.POST("/:id/void", h.Void)
		invoices.POST("/:id/write-off", h.WriteOff)
	}
}

// transition runs one invoice state change addressed by path ID
func (h *InvoiceHandler) transition(c *gin.Context, fn func(orgID, invoiceID uuid.UUID) (*billing.Invoice, error)) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Organization context is required")
		return
	}

	var idReq struct {
		ID string `uri:"id" binding:"required,uuid"`
	}
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BindError(c, err)
		return
	}

	invoice, err := fn(orgID, uuid.MustParse(idReq.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}
