package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	billingapp "github.com/chethandvg/tenantmanagement/internal/application/billing"
	"github.com/chethandvg/tenantmanagement/internal/domain/billing"
)

// UtilityHandler handles rate plan and utility statement API endpoints
type UtilityHandler struct {
	BaseHandler
	ratePlanService  *billingapp.RatePlanService
	statementService *billingapp.UtilityStatementService
}

// NewUtilityHandler creates a new UtilityHandler
func NewUtilityHandler(ratePlanService *billingapp.RatePlanService, statementService *billingapp.UtilityStatementService) *UtilityHandler {
	return &UtilityHandler{
		ratePlanService:  ratePlanService,
		statementService: statementService,
	}
}

// RegisterRoutes registers rate plan and utility statement routes
func (h *UtilityHandler) RegisterRoutes(rg *gin.RouterGroup) {
	plans := rg.Group("/rate-plans")
	{
		plans.POST("", h.CreateRatePlan)
		plans.GET("/:id", h.GetRatePlan)
	}
	statements := rg.Group("/utility-statements")
	{
		statements.POST("/meter", h.RecordMeterStatement)
		statements.POST("/direct", h.RecordDirectStatement)
		statements.POST("/:id/finalize", h.Finalize)
		statements.POST("/:id/correct-readings", h.CorrectReadings)
		statements.POST("/:id/correct-amount", h.CorrectDirectAmount)
	}
}

// RateSlabRequest is one consumption tier
type RateSlabRequest struct {
	LowerBound  float64  `json:"lower_bound" binding:"gte=0"`
	UpperBound  *float64 `json:"upper_bound" binding:"omitempty,gt=0"`
	RatePerUnit float64  `json:"rate_per_unit" binding:"gte=0"`
}

// CreateRatePlanRequest registers a tiered rate plan
type CreateRatePlanRequest struct {
	Name        string            `json:"name" binding:"required,max=100"`
	UtilityType string            `json:"utility_type" binding:"required,oneof=ELECTRICITY WATER GAS"`
	Slabs       []RateSlabRequest `json:"slabs" binding:"required,min=1,dive"`
}

// RecordMeterStatementRequest records meter readings for a period
type RecordMeterStatementRequest struct {
	LeaseID         string  `json:"lease_id" binding:"required,uuid"`
	UtilityType     string  `json:"utility_type" binding:"required,oneof=ELECTRICITY WATER GAS"`
	PeriodStart     string  `json:"period_start" binding:"required,datetime=2006-01-02"`
	PeriodEnd       string  `json:"period_end" binding:"required,datetime=2006-01-02"`
	PreviousReading float64 `json:"previous_reading" binding:"gte=0"`
	CurrentReading  float64 `json:"current_reading" binding:"gte=0"`
	RatePlanID      string  `json:"rate_plan_id" binding:"required,uuid"`
}

// RecordDirectStatementRequest records a provider bill passed through as-is
type RecordDirectStatementRequest struct {
	LeaseID      string  `json:"lease_id" binding:"required,uuid"`
	UtilityType  string  `json:"utility_type" binding:"required,oneof=ELECTRICITY WATER GAS"`
	PeriodStart  string  `json:"period_start" binding:"required,datetime=2006-01-02"`
	PeriodEnd    string  `json:"period_end" binding:"required,datetime=2006-01-02"`
	DirectAmount float64 `json:"direct_amount" binding:"required,gt=0"`
}

// CorrectReadingsRequest supersedes a finalized meter statement
type CorrectReadingsRequest struct {
	PreviousReading float64 `json:"previous_reading" binding:"gte=0"`
	CurrentReading  float64 `json:"current_reading" binding:"gte=0"`
}

// CorrectDirectAmountRequest supersedes a finalized pass-through statement
type CorrectDirectAmountRequest struct {
	DirectAmount float64 `json:"direct_amount" binding:"required,gt=0"`
}

// CreateRatePlan registers a rate plan
// POST /api/v1/rate-plans
func (h *UtilityHandler) CreateRatePlan(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Organization context is required")
		return
	}

	var req CreateRatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	slabs := make([]billing.RateSlab, len(req.Slabs))
	for i, slab := range req.Slabs {
		slabs[i] = billing.RateSlab{
			LowerBound:  decimal.NewFromFloat(slab.LowerBound),
			RatePerUnit: decimal.NewFromFloat(slab.RatePerUnit),
		}
		if slab.UpperBound != nil {
			upper := decimal.NewFromFloat(*slab.UpperBound)
			slabs[i].UpperBound = &upper
		}
	}

	plan, err := h.ratePlanService.CreateRatePlan(c.Request.Context(), billingapp.CreateRatePlanRequest{
		OrgID:       orgID,
		Name:        req.Name,
		UtilityType: billing.UtilityType(req.UtilityType),
		Slabs:       slabs,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, plan)
}

// GetRatePlan returns one rate plan
// GET /api/v1/rate-plans/:id
func (h *UtilityHandler) GetRatePlan(c *gin.Context) {
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

	plan, err := h.ratePlanService.GetRatePlan(c.Request.Context(), orgID, uuid.MustParse(idReq.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, plan)
}

// RecordMeterStatement rates meter readings against a tiered plan
// POST /api/v1/utility-statements/meter
func (h *UtilityHandler) RecordMeterStatement(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Organization context is required")
		return
	}

	var req RecordMeterStatementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	periodStart, _ := time.Parse(dateLayout, req.PeriodStart)
	periodEnd, _ := time.Parse(dateLayout, req.PeriodEnd)

	stmt, err := h.statementService.RecordMeterStatement(c.Request.Context(), billingapp.RecordMeterStatementRequest{
		OrgID:           orgID,
		LeaseID:         uuid.MustParse(req.LeaseID),
		UtilityType:     billing.UtilityType(req.UtilityType),
		PeriodStart:     periodStart,
		PeriodEnd:       periodEnd,
		PreviousReading: decimal.NewFromFloat(req.PreviousReading),
		CurrentReading:  decimal.NewFromFloat(req.CurrentReading),
		RatePlanID:      uuid.MustParse(req.RatePlanID),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, stmt)
}

// RecordDirectStatement records a pass-through statement
// POST /api/v1/utility-statements/direct
func (h *UtilityHandler) RecordDirectStatement(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.BadRequest(c, "Organization context is required")
		return
	}

	var req RecordDirectStatementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	periodStart, _ := time.Parse(dateLayout, req.PeriodStart)
	periodEnd, _ := time.Parse(dateLayout, req.PeriodEnd)

	stmt, err := h.statementService.RecordDirectStatement(c.Request.Context(), billingapp.RecordDirectStatementRequest{
		OrgID:        orgID,
		LeaseID:      uuid.MustParse(req.LeaseID),
		UtilityType:  billing.UtilityType(req.UtilityType),
		PeriodStart:  periodStart,
		PeriodEnd:    periodEnd,
		DirectAmount: decimal.NewFromFloat(req.DirectAmount),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, stmt)
}

// Finalize seals a statement, making it eligible for invoicing
// POST /api/v1/utility-statements/:id/finalize
func (h *UtilityHandler) Finalize(c *gin.Context) {
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

	stmt, err := h.statementService.Finalize(c.Request.Context(), orgID, uuid.MustParse(idReq.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stmt)
}

// CorrectReadings supersedes a finalized meter statement with new readings
// POST /api/v1/utility-statements/:id/correct-readings
func (h *UtilityHandler) CorrectReadings(c *gin.Context) {
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
	var req CorrectReadingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	next, err := h.statementService.CorrectReadings(c.Request.Context(), orgID, uuid.MustParse(idReq.ID),
		decimal.NewFromFloat(req.PreviousReading), decimal.NewFromFloat(req.CurrentReading))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, next)
}

// CorrectDirectAmount supersedes a finalized pass-through statement
// POST /api/v1/utility-statements/:id/correct-amount
func (h *UtilityHandler) CorrectDirectAmount(c *gin.Context) {
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
	var req CorrectDirectAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	next, err := h.statementService.CorrectDirectAmount(c.Request.Context(), orgID, uuid.MustParse(idReq.ID),
		decimal.NewFromFloat(req.DirectAmount))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, next)
}
