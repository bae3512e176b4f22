package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	billingapp "github.com/chethandvg/tenantmanagement/internal/application/billing"
	"github.com/chethandvg/tenantmanagement/internal/domain/billing"
)

// ChargeHandler handles charge type and recurring charge API endpoints
type ChargeHandler struct {
	BaseHandler
	chargeService *billingapp.ChargeService
}

// NewChargeHandler creates a new ChargeHandler
func NewChargeHandler(chargeService *billingapp.ChargeService) *ChargeHandler {
	return &ChargeHandler{chargeService: chargeService}
}

// RegisterRoutes registers charge type and recurring charge routes
func (h *ChargeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	chargeTypes := rg.Group("/charge-types")
	{
		chargeTypes.POST("", h.CreateChargeType)
		chargeTypes.GET("", h.ListChargeTypes)
	}
	charges := rg.Group("/recurring-charges")
	{
		charges.POST("", h.CreateRecurringCharge)
		charges.POST("/:id/end", h.EndRecurringCharge)
	}
}

// CreateChargeTypeRequest registers a charge type
type CreateChargeTypeRequest struct {
	Code      string  `json:"code" binding:"required,oneof=RENT MAINTENANCE ELECTRICITY WATER GAS LATE_FEE ADJUSTMENT CUSTOM"`
	Name      string  `json:"name" binding:"required,max=100"`
	IsTaxable bool    `json:"is_taxable"`
	TaxRate   float64 `json:"tax_rate" binding:"gte=0,lte=100"`
}

// CreateRecurringChargeRequest attaches a charge to a lease
type CreateRecurringChargeRequest struct {
	LeaseID      string  `json:"lease_id" binding:"required,uuid"`
	ChargeTypeID string  `json:"charge_type_id" binding:"required,uuid"`
	Amount       float64 `json:"amount" binding:"required,gt=0"`
	Frequency    string  `json:"frequency" binding:"required,oneof=ONE_TIME MONTHLY QUARTERLY YEARLY"`
	StartDate    string  `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate      string  `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
}

// EndRecurringChargeRequest closes a charge's validity window
type EndRecurringChargeRequest struct {
	EndDate string `json:"end_date" binding:"required,datetime=2006-01-02"`
}

// CreateChargeType registers a charge type for the organization
// POST /api/v1/charge-types
func (h *ChargeHandler) CreateChargeType(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Organization context is required")
		return
	}

	var req CreateChargeTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	chargeType, err := h.chargeService.CreateChargeType(c.Request.Context(), billingapp.CreateChargeTypeRequest{
		OrgID:     orgID,
		Code:      billing.ChargeTypeCode(req.Code),
		Name:      req.Name,
		IsTaxable: req.IsTaxable,
		TaxRate:   decimal.NewFromFloat(req.TaxRate),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, chargeType)
}

// ListChargeTypes lists the organization's charge types
// GET /api/v1/charge-types
func (h *ChargeHandler) ListChargeTypes(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Organization context is required")
		return
	}

	chargeTypes, err := h.chargeService.ListChargeTypes(c.Request.Context(), orgID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, chargeTypes)
}

// CreateRecurringCharge attaches a recurring charge to a lease
// POST /api/v1/recurring-charges
func (h *ChargeHandler) CreateRecurringCharge(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Organization context is required")
		return
	}

	var req CreateRecurringChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	startDate, _ := time.Parse(dateLayout, req.StartDate)
	var endDate *time.Time
	if req.EndDate != "" {
		parsed, _ := time.Parse(dateLayout, req.EndDate)
		endDate = &parsed
	}

	charge, err := h.chargeService.CreateRecurringCharge(c.Request.Context(), billingapp.CreateRecurringChargeRequest{
		OrgID:        orgID,
		LeaseID:      uuid.MustParse(req.LeaseID),
		ChargeTypeID: uuid.MustParse(req.ChargeTypeID),
		Amount:       decimal.NewFromFloat(req.Amount),
		Frequency:    billing.ChargeFrequency(req.Frequency),
		StartDate:    startDate,
		EndDate:      endDate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, charge)
}

// EndRecurringCharge closes a charge's validity window
// POST /api/v1/recurring-charges/:id/end
func (h *ChargeHandler) EndRecurringCharge(c *gin.Context) {
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
	var req EndRecurringChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	endDate, _ := time.Parse(dateLayout, req.EndDate)

	charge, err := h.chargeService.EndRecurringCharge(c.Request.Context(), orgID, uuid.MustParse(idReq.ID), endDate)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, charge)
}
