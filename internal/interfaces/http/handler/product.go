package handler

import (
	stockapp "github.com/erp/backoffice/internal/application/stock"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/stock"
	"github.com/erp/backoffice/internal/infrastructure/i18n"
	"github.com/erp/backoffice/internal/interfaces/http/dto"
	"github.com/erp/backoffice/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// ProductHandler handles product endpoints
type ProductHandler struct {
	BaseHandler
	products *stockapp.ProductService
	stock    *stockapp.StockService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products *stockapp.ProductService, stockService *stockapp.StockService) *ProductHandler {
	return &ProductHandler{products: products, stock: stockService}
}

// ActiveListQuery is a list query with an optional is_active filter
type ActiveListQuery struct {
	dto.ListRequest
	IsActive *bool `form:"is_active"`
}

func (q ActiveListQuery) filter() shared.Filter {
	f := q.ToFilter()
	if q.IsActive != nil {
		f.Filters["is_active"] = *q.IsActive
	}
	return f
}

// ProductRequest is the body for creating or updating a product
type ProductRequest struct {
	SKU          string `json:"sku" binding:"required,max=50" example:"RICE-25KG"`
	Name         string `json:"name" binding:"required,max=200" example:"Miniket Rice 25kg"`
	Unit         string `json:"unit" binding:"omitempty,max=20" example:"bag"`
	TaxSettingID string `json:"tax_setting_id" binding:"omitempty,uuid"`
	IsActive     *bool  `json:"is_active" example:"true"`
}

func (r ProductRequest) details() stock.ProductDetails {
	return stock.ProductDetails{
		SKU:          r.SKU,
		Name:         r.Name,
		Unit:         r.Unit,
		TaxSettingID: optionalUUID(r.TaxSettingID),
		IsActive:     boolOr(r.IsActive, true),
	}
}

// List godoc
// @ID           listProducts
// @Summary      List products
// @Tags         stock
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "SKU or name"
// @Param        is_active query bool false "Active flag"
// @Success      200 {object} APIResponse[[]stock.Product]
// @Security     BearerAuth
// @Router       /stock/products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var q ActiveListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.products.List(c.Request.Context(), q.filter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	paginated(c, page)
}

// Get godoc
// @ID           getProduct
// @Summary      Get a product
// @Tags         stock
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[stock.Product]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stock/products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	p, err := h.products.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// Total godoc
// @ID           getProductStockTotal
// @Summary      On-hand quantity of a product
// @Description  Sum over all warehouses with the per-warehouse balances
// @Tags         stock
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[stockapp.ProductTotal]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stock/products/{id}/total [get]
func (h *ProductHandler) Total(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	total, err := h.stock.GetProductTotal(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, total)
}

// Create godoc
// @ID           createProduct
// @Summary      Create a product
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        request body ProductRequest true "Product"
// @Success      201 {object} APIResponse[stock.Product]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stock/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req ProductRequest
	if !h.bindJSON(c, &req) {
		return
	}
	p, err := h.products.Create(c.Request.Context(), middleware.GetActor(c), req.details())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, p, i18n.EntityProduct)
}

// Update godoc
// @ID           updateProduct
// @Summary      Update a product
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body ProductRequest true "Product"
// @Success      200 {object} APIResponse[stock.Product]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stock/products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var req ProductRequest
	if !h.bindJSON(c, &req) {
		return
	}
	p, err := h.products.Update(c.Request.Context(), middleware.GetActor(c), id, req.details())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Done(c, p, i18n.EntityProduct, i18n.ActionUpdated)
}

// Delete godoc
// @ID           deleteProduct
// @Summary      Delete a product
// @Description  Rejected while stock balances or movements reference it
// @Tags         stock
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stock/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	if err := h.products.Delete(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Done(c, nil, i18n.EntityProduct, i18n.ActionDeleted)
}
