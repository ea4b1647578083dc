package handler

import (
	orgapp "github.com/erp/backoffice/internal/application/organization"
	"github.com/erp/backoffice/internal/infrastructure/i18n"
	"github.com/erp/backoffice/internal/interfaces/http/dto"
	"github.com/erp/backoffice/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DesignationHandler handles designation endpoints
type DesignationHandler struct {
	BaseHandler
	designations *orgapp.DesignationService
}

// NewDesignationHandler creates a new DesignationHandler
func NewDesignationHandler(designations *orgapp.DesignationService) *DesignationHandler {
	return &DesignationHandler{designations: designations}
}

// ListDesignationsQuery filters the designation list
type ListDesignationsQuery struct {
	dto.ListRequest
	DepartmentID string `form:"department_id" binding:"omitempty,uuid"`
}

// DesignationRequest is the body for creating or updating a designation
type DesignationRequest struct {
	DepartmentID string `json:"department_id" binding:"required,uuid" example:"3f1c9a52-8d0e-4f6b-a2c1-7e5d9b0a4c11"`
	Name         string `json:"name" binding:"required,max=100" example:"Senior Accountant"`
	Description  string `json:"description" binding:"max=1000"`
}

func (r DesignationRequest) input() orgapp.DesignationInput {
	return orgapp.DesignationInput{
		DepartmentID: uuid.MustParse(r.DepartmentID),
		Name:         r.Name,
		Description:  r.Description,
	}
}

// List godoc
// @ID           listDesignations
// @Summary      List designations
// @Tags         designations
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Name"
// @Param        department_id query string false "Department ID" format(uuid)
// @Success      200 {object} APIResponse[[]organization.Designation]
// @Security     BearerAuth
// @Router       /designations [get]
func (h *DesignationHandler) List(c *gin.Context) {
	var q ListDesignationsQuery
	if !h.bindQuery(c, &q) {
		return
	}
	filter := q.ToFilter()
	if id := optionalUUID(q.DepartmentID); id != nil {
		filter.Filters["department_id"] = *id
	}
	page, err := h.designations.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	paginated(c, page)
}

// Get godoc
// @ID           getDesignation
// @Summary      Get a designation
// @Tags         designations
// @Produce      json
// @Param        id path string true "Designation ID" format(uuid)
// @Success      200 {object} APIResponse[organization.Designation]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /designations/{id} [get]
func (h *DesignationHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	d, err := h.designations.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, d)
}

// Create godoc
// @ID           createDesignation
// @Summary      Create a designation
// @Tags         designations
// @Accept       json
// @Produce      json
// @Param        request body DesignationRequest true "Designation"
// @Success      201 {object} APIResponse[organization.Designation]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /designations [post]
func (h *DesignationHandler) Create(c *gin.Context) {
	var req DesignationRequest
	if !h.bindJSON(c, &req) {
		return
	}
	d, err := h.designations.Create(c.Request.Context(), middleware.GetActor(c), req.input())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, d, i18n.EntityDesignation)
}

// Update godoc
// @ID           updateDesignation
// @Summary      Update a designation
// @Tags         designations
// @Accept       json
// @Produce      json
// @Param        id path string true "Designation ID" format(uuid)
// @Param        request body DesignationRequest true "Designation"
// @Success      200 {object} APIResponse[organization.Designation]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /designations/{id} [put]
func (h *DesignationHandler) Update(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var req DesignationRequest
	if !h.bindJSON(c, &req) {
		return
	}
	d, err := h.designations.Update(c.Request.Context(), middleware.GetActor(c), id, req.input())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Done(c, d, i18n.EntityDesignation, i18n.ActionUpdated)
}

// Delete godoc
// @ID           deleteDesignation
// @Summary      Delete a designation
// @Description  Rejected while employees hold it
// @Tags         designations
// @Produce      json
// @Param        id path string true "Designation ID" format(uuid)
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /designations/{id} [delete]
func (h *DesignationHandler) Delete(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	if err := h.designations.Delete(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Done(c, nil, i18n.EntityDesignation, i18n.ActionDeleted)
}
