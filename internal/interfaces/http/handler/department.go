package handler

import (
	orgapp "github.com/erp/backoffice/internal/application/organization"
	"github.com/erp/backoffice/internal/infrastructure/i18n"
	"github.com/erp/backoffice/internal/interfaces/http/dto"
	"github.com/erp/backoffice/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// DepartmentHandler handles department endpoints
type DepartmentHandler struct {
	BaseHandler
	departments  *orgapp.DepartmentService
	designations *orgapp.DesignationService
}

// NewDepartmentHandler creates a new DepartmentHandler
func NewDepartmentHandler(departments *orgapp.DepartmentService, designations *orgapp.DesignationService) *DepartmentHandler {
	return &DepartmentHandler{departments: departments, designations: designations}
}

// DepartmentRequest is the body for creating or updating a department
type DepartmentRequest struct {
	Name        string `json:"name" binding:"required,max=100" example:"Accounts"`
	Description string `json:"description" binding:"max=1000" example:"Finance and accounting"`
}

func (r DepartmentRequest) input() orgapp.DepartmentInput {
	return orgapp.DepartmentInput{Name: r.Name, Description: r.Description}
}

// List godoc
// @ID           listDepartments
// @Summary      List departments
// @Tags         departments
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Name"
// @Success      200 {object} APIResponse[[]organization.Department]
// @Security     BearerAuth
// @Router       /departments [get]
func (h *DepartmentHandler) List(c *gin.Context) {
	var q dto.ListRequest
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.departments.List(c.Request.Context(), q.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	paginated(c, page)
}

// Get godoc
// @ID           getDepartment
// @Summary      Get a department
// @Tags         departments
// @Produce      json
// @Param        id path string true "Department ID" format(uuid)
// @Success      200 {object} APIResponse[organization.Department]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /departments/{id} [get]
func (h *DepartmentHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	dept, err := h.departments.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dept)
}

// Designations godoc
// @ID           listDepartmentDesignations
// @Summary      Designations of a department
// @Description  Options for the dependent designation dropdown
// @Tags         departments
// @Produce      json
// @Param        id path string true "Department ID" format(uuid)
// @Success      200 {object} APIResponse[[]organization.Designation]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /departments/{id}/designations [get]
func (h *DepartmentHandler) Designations(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	list, err := h.designations.ByDepartment(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, list)
}

// Create godoc
// @ID           createDepartment
// @Summary      Create a department
// @Tags         departments
// @Accept       json
// @Produce      json
// @Param        request body DepartmentRequest true "Department"
// @Success      201 {object} APIResponse[organization.Department]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /departments [post]
func (h *DepartmentHandler) Create(c *gin.Context) {
	var req DepartmentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	dept, err := h.departments.Create(c.Request.Context(), middleware.GetActor(c), req.input())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, dept, i18n.EntityDepartment)
}

// Update godoc
// @ID           updateDepartment
// @Summary      Update a department
// @Tags         departments
// @Accept       json
// @Produce      json
// @Param        id path string true "Department ID" format(uuid)
// @Param        request body DepartmentRequest true "Department"
// @Success      200 {object} APIResponse[organization.Department]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /departments/{id} [put]
func (h *DepartmentHandler) Update(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var req DepartmentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	dept, err := h.departments.Update(c.Request.Context(), middleware.GetActor(c), id, req.input())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Done(c, dept, i18n.EntityDepartment, i18n.ActionUpdated)
}

// Delete godoc
// @ID           deleteDepartment
// @Summary      Delete a department
// @Description  Rejected while designations or employees reference it
// @Tags         departments
// @Produce      json
// @Param        id path string true "Department ID" format(uuid)
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /departments/{id} [delete]
func (h *DepartmentHandler) Delete(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	if err := h.departments.Delete(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Done(c, nil, i18n.EntityDepartment, i18n.ActionDeleted)
}
