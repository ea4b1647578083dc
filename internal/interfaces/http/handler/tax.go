package handler

import (
	settingsapp "github.com/erp/backoffice/internal/application/settings"
	"github.com/erp/backoffice/internal/domain/settings"
	"github.com/erp/backoffice/internal/infrastructure/i18n"
	"github.com/erp/backoffice/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaxHandler handles tax setting endpoints
type TaxHandler struct {
	BaseHandler
	taxes *settingsapp.TaxService
}

// NewTaxHandler creates a new TaxHandler
func NewTaxHandler(taxes *settingsapp.TaxService) *TaxHandler {
	return &TaxHandler{taxes: taxes}
}

// TaxRequest is the body for creating or updating a tax setting. The account
// must be a liability account.
type TaxRequest struct {
	Name        string          `json:"name" binding:"required,max=100" example:"VAT 15%"`
	Rate        decimal.Decimal `json:"rate" binding:"gte=0,lte=100" swaggertype:"string" example:"15"`
	AccountID   string          `json:"account_id" binding:"required,uuid"`
	Description string          `json:"description" binding:"max=1000"`
	IsActive    *bool           `json:"is_active" example:"true"`
}

func (r TaxRequest) details() settings.TaxDetails {
	return settings.TaxDetails{
		Name:        r.Name,
		Rate:        r.Rate,
		AccountID:   uuid.MustParse(r.AccountID),
		Description: r.Description,
		IsActive:    boolOr(r.IsActive, true),
	}
}

// List godoc
// @ID           listTaxSettings
// @Summary      List tax settings
// @Tags         settings
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Name"
// @Param        is_active query bool false "Active flag"
// @Success      200 {object} APIResponse[[]settings.TaxSetting]
// @Security     BearerAuth
// @Router       /settings/taxes [get]
func (h *TaxHandler) List(c *gin.Context) {
	var q ActiveListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.taxes.List(c.Request.Context(), q.filter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	paginated(c, page)
}

// Get godoc
// @ID           getTaxSetting
// @Summary      Get a tax setting
// @Tags         settings
// @Produce      json
// @Param        id path string true "Tax setting ID" format(uuid)
// @Success      200 {object} APIResponse[settings.TaxSetting]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /settings/taxes/{id} [get]
func (h *TaxHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	t, err := h.taxes.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, t)
}

// Create godoc
// @ID           createTaxSetting
// @Summary      Create a tax setting
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        request body TaxRequest true "Tax setting"
// @Success      201 {object} APIResponse[settings.TaxSetting]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /settings/taxes [post]
func (h *TaxHandler) Create(c *gin.Context) {
	var req TaxRequest
	if !h.bindJSON(c, &req) {
		return
	}
	t, err := h.taxes.Create(c.Request.Context(), middleware.GetActor(c), req.details())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, t, i18n.EntityTaxSetting)
}

// Update godoc
// @ID           updateTaxSetting
// @Summary      Update a tax setting
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        id path string true "Tax setting ID" format(uuid)
// @Param        request body TaxRequest true "Tax setting"
// @Success      200 {object} APIResponse[settings.TaxSetting]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /settings/taxes/{id} [put]
func (h *TaxHandler) Update(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var req TaxRequest
	if !h.bindJSON(c, &req) {
		return
	}
	t, err := h.taxes.Update(c.Request.Context(), middleware.GetActor(c), id, req.details())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Done(c, t, i18n.EntityTaxSetting, i18n.ActionUpdated)
}

// Delete godoc
// @ID           deleteTaxSetting
// @Summary      Delete a tax setting
// @Description  Rejected while a product references it
// @Tags         settings
// @Produce      json
// @Param        id path string true "Tax setting ID" format(uuid)
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /settings/taxes/{id} [delete]
func (h *TaxHandler) Delete(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	if err := h.taxes.Delete(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Done(c, nil, i18n.EntityTaxSetting, i18n.ActionDeleted)
}
