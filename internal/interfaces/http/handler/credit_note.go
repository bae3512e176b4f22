package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	billingapp "github.com/chethandvg/tenantmanagement/internal/application/billing"
	"github.com/chethandvg/tenantmanagement/internal/domain/billing"
)

// CreditNoteHandler handles credit note API endpoints
type CreditNoteHandler struct {
	BaseHandler
	creditNoteService *billingapp.CreditNoteService
}

// NewCreditNoteHandler creates a new CreditNoteHandler
func NewCreditNoteHandler(creditNoteService *billingapp.CreditNoteService) *CreditNoteHandler {
	return &CreditNoteHandler{creditNoteService: creditNoteService}
}

// RegisterRoutes registers credit note routes
func (h *CreditNoteHandler) RegisterRoutes(rg *gin.RouterGroup) {
	notes := rg.Group("/credit-notes")
	{
		notes.POST("", h.Create)
		notes.GET("/:id", h.Get)
		notes.POST("/:id/apply", h.Apply)
	}
	rg.GET("/invoices/:id/credit-notes", h.ListForInvoice)
}

// CreditNoteLineRequest is one credited line
type CreditNoteLineRequest struct {
	InvoiceLineID string  `json:"invoice_line_id" binding:"required,uuid"`
	Description   string  `json:"description" binding:"required,max=300"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
}

// CreateCreditNoteRequest creates a credit note against an issued invoice
type CreateCreditNoteRequest struct {
	InvoiceID string                  `json:"invoice_id" binding:"required,uuid"`
	Reason    string                  `json:"reason" binding:"required,oneof=INVOICE_ERROR DISCOUNT REFUND GOODWILL ADJUSTMENT OTHER"`
	Remark    string                  `json:"remark" binding:"max=1000"`
	Lines     []CreditNoteLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// Create records an unapplied credit note
// POST /api/v1/credit-notes
func (h *CreditNoteHandler) Create(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Organization context is required")
		return
	}

	var req CreateCreditNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	lines := make([]billing.CreditNoteLine, len(req.Lines))
	for i, line := range req.Lines {
		lines[i] = billing.CreditNoteLine{
			InvoiceLineID: uuid.MustParse(line.InvoiceLineID),
			Description:   line.Description,
			Amount:        decimal.NewFromFloat(line.Amount),
		}
	}

	note, err := h.creditNoteService.Create(c.Request.Context(), billingapp.CreateCreditNoteRequest{
		OrgID:     orgID,
		InvoiceID: uuid.MustParse(req.InvoiceID),
		Reason:    billing.CreditNoteReason(req.Reason),
		Remark:    req.Remark,
		Lines:     lines,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, note)
}

// Get returns a single credit note
// GET /api/v1/credit-notes/:id
func (h *CreditNoteHandler) Get(c *gin.Context) {
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

	note, err := h.creditNoteService.Get(c.Request.Context(), orgID, uuid.MustParse(idReq.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, note)
}

// Apply settles the note against its invoice's balance
// POST /api/v1/credit-notes/:id/apply
func (h *CreditNoteHandler) Apply(c *gin.Context) {
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

	note, err := h.creditNoteService.Apply(c.Request.Context(), orgID, uuid.MustParse(idReq.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, note)
}

// ListForInvoice returns an invoice's credit notes
// GET /api/v1/invoices/:id/credit-notes
func (h *CreditNoteHandler) ListForInvoice(c *gin.Context) {
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

	notes, err := h.creditNoteService.ListForInvoice(c.Request.Context(), orgID, uuid.MustParse(idReq.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, notes)
}
