package handler

import (
	orgapp "github.com/erp/backoffice/internal/application/organization"
	"github.com/erp/backoffice/internal/domain/organization"
	"github.com/erp/backoffice/internal/infrastructure/i18n"
	"github.com/erp/backoffice/internal/interfaces/http/dto"
	"github.com/erp/backoffice/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EmployeeHandler handles employee endpoints
type EmployeeHandler struct {
	BaseHandler
	employees *orgapp.EmployeeService
}

// NewEmployeeHandler creates a new EmployeeHandler
func NewEmployeeHandler(employees *orgapp.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employees: employees}
}

// ListEmployeesQuery filters the employee list
type ListEmployeesQuery struct {
	dto.ListRequest
	DepartmentID  string `form:"department_id" binding:"omitempty,uuid"`
	DesignationID string `form:"designation_id" binding:"omitempty,uuid"`
}

// EmployeeRequest is the body for creating or updating an employee. The
// designation must belong to the department.
type EmployeeRequest struct {
	EmployeeCode  string `json:"employee_code" binding:"required,max=30" example:"EMP-0012"`
	Name          string `json:"name" binding:"required,max=100" example:"Nusrat Jahan"`
	Email         string `json:"email" binding:"omitempty,email,max=200" example:"nusrat@example.com"`
	DepartmentID  string `json:"department_id" binding:"required,uuid"`
	DesignationID string `json:"designation_id" binding:"required,uuid"`
	UserID        string `json:"user_id" binding:"omitempty,uuid"`
	JoinedAt      string `json:"joined_at" binding:"omitempty,datetime=2006-01-02" example:"2024-03-01"`
	IsActive      *bool  `json:"is_active" example:"true"`
}

func (r EmployeeRequest) input() orgapp.EmployeeInput {
	return orgapp.EmployeeInput{
		EmployeeCode:  r.EmployeeCode,
		Name:          r.Name,
		Email:         r.Email,
		DepartmentID:  uuid.MustParse(r.DepartmentID),
		DesignationID: uuid.MustParse(r.DesignationID),
		UserID:        optionalUUID(r.UserID),
		JoinedAt:      optionalDate(r.JoinedAt),
		IsActive:      boolOr(r.IsActive, true),
	}
}

// List godoc
// @ID           listEmployees
// @Summary      List employees
// @Tags         employees
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Code, name or email"
// @Param        department_id query string false "Department ID" format(uuid)
// @Param        designation_id query string false "Designation ID" format(uuid)
// @Success      200 {object} APIResponse[[]organization.Employee]
// @Security     BearerAuth
// @Router       /employees [get]
func (h *EmployeeHandler) List(c *gin.Context) {
	var q ListEmployeesQuery
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.employees.List(c.Request.Context(), organization.EmployeeFilter{
		Filter:        q.ToFilter(),
		DepartmentID:  optionalUUID(q.DepartmentID),
		DesignationID: optionalUUID(q.DesignationID),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	paginated(c, page)
}

// Get godoc
// @ID           getEmployee
// @Summary      Get an employee
// @Tags         employees
// @Produce      json
// @Param        id path string true "Employee ID" format(uuid)
// @Success      200 {object} APIResponse[organization.Employee]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /employees/{id} [get]
func (h *EmployeeHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	e, err := h.employees.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, e)
}

// Create godoc
// @ID           createEmployee
// @Summary      Create an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        request body EmployeeRequest true "Employee"
// @Success      201 {object} APIResponse[organization.Employee]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /employees [post]
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req EmployeeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	e, err := h.employees.Create(c.Request.Context(), middleware.GetActor(c), req.input())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, e, i18n.EntityEmployee)
}

// Update godoc
// @ID           updateEmployee
// @Summary      Update an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        id path string true "Employee ID" format(uuid)
// @Param        request body EmployeeRequest true "Employee"
// @Success      200 {object} APIResponse[organization.Employee]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /employees/{id} [put]
func (h *EmployeeHandler) Update(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var req EmployeeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	e, err := h.employees.Update(c.Request.Context(), middleware.GetActor(c), id, req.input())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Done(c, e, i18n.EntityEmployee, i18n.ActionUpdated)
}

// Delete godoc
// @ID           deleteEmployee
// @Summary      Delete an employee
// @Tags         employees
// @Produce      json
// @Param        id path string true "Employee ID" format(uuid)
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /employees/{id} [delete]
func (h *EmployeeHandler) Delete(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	if err := h.employees.Delete(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Done(c, nil, i18n.EntityEmployee, i18n.ActionDeleted)
}
