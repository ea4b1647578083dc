package handler

import (
	stockapp "github.com/erp/backoffice/internal/application/stock"
	"github.com/erp/backoffice/internal/infrastructure/i18n"
	"github.com/erp/backoffice/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// WarehouseHandler handles warehouse endpoints
type WarehouseHandler struct {
	BaseHandler
	warehouses *stockapp.WarehouseService
}

// NewWarehouseHandler creates a new WarehouseHandler
func NewWarehouseHandler(warehouses *stockapp.WarehouseService) *WarehouseHandler {
	return &WarehouseHandler{warehouses: warehouses}
}

// WarehouseRequest is the body for creating or updating a warehouse
//
//	@Description	Request body for creating or updating a warehouse
type WarehouseRequest struct {
	Code     string `json:"code" binding:"required,max=50" example:"WH-DHK"`
	Name     string `json:"name" binding:"required,max=100" example:"Dhaka Central"`
	Address  string `json:"address" binding:"max=255" example:"Tejgaon Industrial Area, Dhaka"`
	IsActive *bool  `json:"is_active" example:"true"`
}

func (r WarehouseRequest) input() stockapp.WarehouseInput {
	return stockapp.WarehouseInput{
		Code:     r.Code,
		Name:     r.Name,
		Address:  r.Address,
		IsActive: boolOr(r.IsActive, true),
	}
}

// List godoc
// @ID           listWarehouses
// @Summary      List warehouses
// @Tags         stock
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Code or name"
// @Param        is_active query bool false "Active flag"
// @Success      200 {object} APIResponse[[]stock.Warehouse]
// @Security     BearerAuth
// @Router       /stock/warehouses [get]
func (h *WarehouseHandler) List(c *gin.Context) {
	var q ActiveListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.warehouses.List(c.Request.Context(), q.filter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	paginated(c, page)
}

// Get godoc
// @ID           getWarehouse
// @Summary      Get a warehouse
// @Tags         stock
// @Produce      json
// @Param        id path string true "Warehouse ID" format(uuid)
// @Success      200 {object} APIResponse[stock.Warehouse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stock/warehouses/{id} [get]
func (h *WarehouseHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	w, err := h.warehouses.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, w)
}

// Create godoc
// @ID           createWarehouse
// @Summary      Create a warehouse
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        request body WarehouseRequest true "Warehouse"
// @Success      201 {object} APIResponse[stock.Warehouse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stock/warehouses [post]
func (h *WarehouseHandler) Create(c *gin.Context) {
	var req WarehouseRequest
	if !h.bindJSON(c, &req) {
		return
	}
	w, err := h.warehouses.Create(c.Request.Context(), middleware.GetActor(c), req.input())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, w, i18n.EntityWarehouse)
}

// Update godoc
// @ID           updateWarehouse
// @Summary      Update a warehouse
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        id path string true "Warehouse ID" format(uuid)
// @Param        request body WarehouseRequest true "Warehouse"
// @Success      200 {object} APIResponse[stock.Warehouse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stock/warehouses/{id} [put]
func (h *WarehouseHandler) Update(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var req WarehouseRequest
	if !h.bindJSON(c, &req) {
		return
	}
	w, err := h.warehouses.Update(c.Request.Context(), middleware.GetActor(c), id, req.input())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Done(c, w, i18n.EntityWarehouse, i18n.ActionUpdated)
}

// Delete godoc
// @ID           deleteWarehouse
// @Summary      Delete a warehouse
// @Description  Rejected while it holds stock or has movements
// @Tags         stock
// @Produce      json
// @Param        id path string true "Warehouse ID" format(uuid)
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stock/warehouses/{id} [delete]
func (h *WarehouseHandler) Delete(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	if err := h.warehouses.Delete(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Done(c, nil, i18n.EntityWarehouse, i18n.ActionDeleted)
}
