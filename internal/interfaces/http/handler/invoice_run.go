package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	billingapp "github.com/chethandvg/tenantmanagement/internal/application/billing"
	"github.com/chethandvg/tenantmanagement/internal/domain/shared"
)

// InvoiceRunHandler handles batch invoice run API endpoints
type InvoiceRunHandler struct {
	BaseHandler
	orchestrator *billingapp.InvoiceRunOrchestrator
}

// NewInvoiceRunHandler creates a new InvoiceRunHandler
func NewInvoiceRunHandler(orchestrator *billingapp.InvoiceRunOrchestrator) *InvoiceRunHandler {
	return &InvoiceRunHandler{orchestrator: orchestrator}
}

// RegisterRoutes registers invoice run routes
func (h *InvoiceRunHandler) RegisterRoutes(rg *gin.RouterGroup) {
	runs := rg.Group("/invoice-runs")
	{
		runs.POST("", h.Start)
		runs.GET("", h.List)
		runs.GET("/:id", h.Get)
	}
}

// StartInvoiceRunRequest starts a batch run over all active leases
type StartInvoiceRunRequest struct {
	PeriodStart string `json:"period_start" binding:"required,datetime=2006-01-02"`
	PeriodEnd   string `json:"period_end" binding:"required,datetime=2006-01-02"`
}

// Start executes a batch invoice run. The call returns when the run has
// finished; per-lease outcomes are in the run's items.
// POST /api/v1/invoice-runs
func (h *InvoiceRunHandler) Start(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Organization context is required")
		return
	}

	var req StartInvoiceRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	periodStart, _ := time.Parse(dateLayout, req.PeriodStart)
	periodEnd, _ := time.Parse(dateLayout, req.PeriodEnd)

	run, err := h.orchestrator.Execute(c.Request.Context(), orgID, periodStart, periodEnd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, run)
}

// Get returns one run with its per-lease items
// GET /api/v1/invoice-runs/:id
func (h *InvoiceRunHandler) Get(c *gin.Context) {
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

	run, err := h.orchestrator.GetRun(c.Request.Context(), orgID, uuid.MustParse(idReq.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, run)
}

// List returns an organization's runs, newest first
// GET /api/v1/invoice-runs
func (h *InvoiceRunHandler) List(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Organization context is required")
		return
	}

	var query struct {
		Page     int `form:"page" binding:"omitempty,min=1"`
		PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return
	}

	filter := shared.DefaultFilter()
	if query.Page > 0 {
		filter.Page = query.Page
	}
	if query.PageSize > 0 {
		filter.PageSize = query.PageSize
	}

	page, err := h.orchestrator.ListRuns(c.Request.Context(), orgID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}
