package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	billingapp "github.com/chethandvg/tenantmanagement/internal/application/billing"
	"github.com/chethandvg/tenantmanagement/internal/domain/billing"
)

// LeaseSettingsHandler handles lease billing settings API endpoints
type LeaseSettingsHandler struct {
	BaseHandler
	settingsService *billingapp.LeaseSettingsService
}

// NewLeaseSettingsHandler creates a new LeaseSettingsHandler
func NewLeaseSettingsHandler(settingsService *billingapp.LeaseSettingsService) *LeaseSettingsHandler {
	return &LeaseSettingsHandler{settingsService: settingsService}
}

// RegisterRoutes registers lease billing settings routes
func (h *LeaseSettingsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	leases := rg.Group("/leases")
	{
		leases.PUT("/:id/billing-settings", h.Upsert)
		leases.GET("/:id/billing-settings", h.Get)
	}
}

// UpsertLeaseSettingsRequest carries a lease's billing contract
type UpsertLeaseSettingsRequest struct {
	BillingDay      int    `json:"billing_day" binding:"required,min=1,max=28"`
	PaymentTermDays int    `json:"payment_term_days" binding:"gte=0"`
	ProrationMethod string `json:"proration_method" binding:"required,oneof=ACTUAL_DAYS_IN_MONTH THIRTY_DAY_MONTH"`
	InvoicePrefix   string `json:"invoice_prefix" binding:"required,max=20"`
	RentTiming      string `json:"rent_timing" binding:"required,oneof=ADVANCE ARREARS"`
	ActiveFrom      string `json:"active_from" binding:"required,datetime=2006-01-02"`
	ActiveUntil     string `json:"active_until" binding:"omitempty,datetime=2006-01-02"`
}

// Upsert stores a lease's billing settings
// PUT /api/v1/leases/:id/billing-settings
func (h *LeaseSettingsHandler) Upsert(c *gin.Context) {
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
	var req UpsertLeaseSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	activeFrom, _ := time.Parse(dateLayout, req.ActiveFrom)
	var activeUntil *time.Time
	if req.ActiveUntil != "" {
		parsed, _ := time.Parse(dateLayout, req.ActiveUntil)
		activeUntil = &parsed
	}

	settings, err := h.settingsService.Upsert(c.Request.Context(), billingapp.UpsertSettingsRequest{
		OrgID: orgID,
		Settings: billing.BillingSettings{
			LeaseID:         uuid.MustParse(idReq.ID),
			BillingDay:      req.BillingDay,
			PaymentTermDays: req.PaymentTermDays,
			ProrationMethod: billing.ProrationMethod(req.ProrationMethod),
			InvoicePrefix:   req.InvoicePrefix,
			RentTiming:      billing.RentTiming(req.RentTiming),
		},
		ActiveFrom:  activeFrom,
		ActiveUntil: activeUntil,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, settings)
}

// Get returns a lease's billing settings
// GET /api/v1/leases/:id/billing-settings
func (h *LeaseSettingsHandler) Get(c *gin.Context) {
	if _, err := getOrgID(c); err != nil {
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

	settings, err := h.settingsService.Get(c.Request.Context(), uuid.MustParse(idReq.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, settings)
}
