package handler

import (
	ledgerapp "github.com/erp/backoffice/internal/application/ledger"
	"github.com/erp/backoffice/internal/domain/ledger"
	"github.com/erp/backoffice/internal/infrastructure/i18n"
	"github.com/erp/backoffice/internal/interfaces/http/dto"
	"github.com/erp/backoffice/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// CategoryHandler handles account category endpoints
type CategoryHandler struct {
	BaseHandler
	categories *ledgerapp.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categories *ledgerapp.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// ListCategoriesQuery filters the category list
type ListCategoriesQuery struct {
	dto.ListRequest
	Type string `form:"type" binding:"omitempty,oneof=asset liability equity revenue expense"`
}

// CategoryRequest is the body for creating or updating an account category
type CategoryRequest struct {
	Name        string `json:"name" binding:"required,max=100" example:"Current Assets"`
	Type        string `json:"type" binding:"required,oneof=asset liability equity revenue expense" example:"asset"`
	Description string `json:"description" binding:"max=1000"`
}

func (r CategoryRequest) input() ledgerapp.CategoryInput {
	return ledgerapp.CategoryInput{Name: r.Name, Type: ledger.AccountType(r.Type), Description: r.Description}
}

// List godoc
// @ID           listAccountCategories
// @Summary      List account categories
// @Tags         ledger
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Name or description"
// @Param        type query string false "Account type" Enums(asset, liability, equity, revenue, expense)
// @Success      200 {object} APIResponse[[]ledger.AccountCategory]
// @Security     BearerAuth
// @Router       /ledger/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	var q ListCategoriesQuery
	if !h.bindQuery(c, &q) {
		return
	}
	filter := q.ToFilter()
	if q.Type != "" {
		filter.Filters["type"] = q.Type
	}
	page, err := h.categories.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	paginated(c, page)
}

// Get godoc
// @ID           getAccountCategory
// @Summary      Get an account category
// @Tags         ledger
// @Produce      json
// @Param        id path string true "Category ID" format(uuid)
// @Success      200 {object} APIResponse[ledger.AccountCategory]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ledger/categories/{id} [get]
func (h *CategoryHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	cat, err := h.categories.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cat)
}

// Create godoc
// @ID           createAccountCategory
// @Summary      Create an account category
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        request body CategoryRequest true "Category"
// @Success      201 {object} APIResponse[ledger.AccountCategory]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ledger/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req CategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	cat, err := h.categories.Create(c.Request.Context(), middleware.GetActor(c), req.input())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, cat, i18n.EntityAccountCategory)
}

// Update godoc
// @ID           updateAccountCategory
// @Summary      Update an account category
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        id path string true "Category ID" format(uuid)
// @Param        request body CategoryRequest true "Category"
// @Success      200 {object} APIResponse[ledger.AccountCategory]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ledger/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var req CategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	cat, err := h.categories.Update(c.Request.Context(), middleware.GetActor(c), id, req.input())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Done(c, cat, i18n.EntityAccountCategory, i18n.ActionUpdated)
}

// Delete godoc
// @ID           deleteAccountCategory
// @Summary      Delete an account category
// @Description  Rejected with CATEGORY_HAS_ACCOUNTS while accounts reference it
// @Tags         ledger
// @Produce      json
// @Param        id path string true "Category ID" format(uuid)
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ledger/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	if err := h.categories.Delete(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Done(c, nil, i18n.EntityAccountCategory, i18n.ActionDeleted)
}
