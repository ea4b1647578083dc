package handler

import (
	ledgerapp "github.com/erp/backoffice/internal/application/ledger"
	"github.com/erp/backoffice/internal/infrastructure/i18n"
	"github.com/erp/backoffice/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// FinancialYearHandler handles financial year endpoints
type FinancialYearHandler struct {
	BaseHandler
	years *ledgerapp.FinancialYearService
}

// NewFinancialYearHandler creates a new FinancialYearHandler
func NewFinancialYearHandler(years *ledgerapp.FinancialYearService) *FinancialYearHandler {
	return &FinancialYearHandler{years: years}
}

// FinancialYearRequest is the body for creating or updating a financial year.
// Ranges are inclusive and must not overlap another year.
type FinancialYearRequest struct {
	Name      string `json:"name" binding:"required,max=50" example:"FY 2024-25"`
	StartDate string `json:"start_date" binding:"required,datetime=2006-01-02" example:"2024-07-01"`
	EndDate   string `json:"end_date" binding:"required,datetime=2006-01-02" example:"2025-06-30"`
	// Activate makes the new year the active one. Ignored on update.
	Activate bool `json:"activate" example:"false"`
}

func (r FinancialYearRequest) input() ledgerapp.FinancialYearInput {
	return ledgerapp.FinancialYearInput{
		Name:      r.Name,
		StartDate: parseDate(r.StartDate),
		EndDate:   parseDate(r.EndDate),
		Activate:  r.Activate,
	}
}

// List godoc
// @ID           listFinancialYears
// @Summary      List financial years
// @Tags         ledger
// @Produce      json
// @Success      200 {object} APIResponse[[]ledger.FinancialYear]
// @Security     BearerAuth
// @Router       /ledger/financial-years [get]
func (h *FinancialYearHandler) List(c *gin.Context) {
	years, err := h.years.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, years)
}

// Get godoc
// @ID           getFinancialYear
// @Summary      Get a financial year
// @Tags         ledger
// @Produce      json
// @Param        id path string true "Financial year ID" format(uuid)
// @Success      200 {object} APIResponse[ledger.FinancialYear]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ledger/financial-years/{id} [get]
func (h *FinancialYearHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	fy, err := h.years.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, fy)
}

// Active godoc
// @ID           getActiveFinancialYear
// @Summary      The active financial year
// @Tags         ledger
// @Produce      json
// @Success      200 {object} APIResponse[ledger.FinancialYear]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ledger/financial-years/active [get]
func (h *FinancialYearHandler) Active(c *gin.Context) {
	fy, err := h.years.GetActive(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, fy)
}

// Create godoc
// @ID           createFinancialYear
// @Summary      Create a financial year
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        request body FinancialYearRequest true "Financial year"
// @Success      201 {object} APIResponse[ledger.FinancialYear]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ledger/financial-years [post]
func (h *FinancialYearHandler) Create(c *gin.Context) {
	var req FinancialYearRequest
	if !h.bindJSON(c, &req) {
		return
	}
	fy, err := h.years.Create(c.Request.Context(), middleware.GetActor(c), req.input())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, fy, i18n.EntityFinancialYear)
}

// Update godoc
// @ID           updateFinancialYear
// @Summary      Update a financial year
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        id path string true "Financial year ID" format(uuid)
// @Param        request body FinancialYearRequest true "Financial year"
// @Success      200 {object} APIResponse[ledger.FinancialYear]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ledger/financial-years/{id} [put]
func (h *FinancialYearHandler) Update(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var req FinancialYearRequest
	if !h.bindJSON(c, &req) {
		return
	}
	fy, err := h.years.Update(c.Request.Context(), middleware.GetActor(c), id, req.input())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Done(c, fy, i18n.EntityFinancialYear, i18n.ActionUpdated)
}

// Activate godoc
// @ID           activateFinancialYear
// @Summary      Activate a financial year
// @Description  Deactivates every other year in the same transaction
// @Tags         ledger
// @Produce      json
// @Param        id path string true "Financial year ID" format(uuid)
// @Success      200 {object} APIResponse[ledger.FinancialYear]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ledger/financial-years/{id}/activate [post]
func (h *FinancialYearHandler) Activate(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	fy, err := h.years.Activate(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Done(c, fy, i18n.EntityFinancialYear, i18n.ActionActivated)
}

// Deactivate godoc
// @ID           deactivateFinancialYear
// @Summary      Deactivate a financial year
// @Tags         ledger
// @Produce      json
// @Param        id path string true "Financial year ID" format(uuid)
// @Success      200 {object} APIResponse[ledger.FinancialYear]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ledger/financial-years/{id}/deactivate [post]
func (h *FinancialYearHandler) Deactivate(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	fy, err := h.years.Deactivate(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Done(c, fy, i18n.EntityFinancialYear, i18n.ActionDeactivated)
}

// Delete godoc
// @ID           deleteFinancialYear
// @Summary      Delete a financial year
// @Description  The active year and years with journal entries cannot be deleted
// @Tags         ledger
// @Produce      json
// @Param        id path string true "Financial year ID" format(uuid)
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ledger/financial-years/{id} [delete]
func (h *FinancialYearHandler) Delete(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	if err := h.years.Delete(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Done(c, nil, i18n.EntityFinancialYear, i18n.ActionDeleted)
}
