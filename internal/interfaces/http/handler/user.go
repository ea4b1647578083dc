package handler

import (
	identityapp "github.com/erp/backoffice/internal/application/identity"
	"github.com/erp/backoffice/internal/domain/identity"
	"github.com/erp/backoffice/internal/infrastructure/i18n"
	"github.com/erp/backoffice/internal/interfaces/http/dto"
	"github.com/erp/backoffice/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// UserHandler handles user administration endpoints
type UserHandler struct {
	BaseHandler
	userService *identityapp.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *identityapp.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// ListUsersQuery filters the user list
type ListUsersQuery struct {
	dto.ListRequest
	Role     string `form:"role" binding:"omitempty,oneof=admin accountant manager user"`
	IsActive *bool  `form:"is_active"`
}

// CreateUserRequest represents a request to create a user
//
//	@Description	Request body for creating a user
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required,max=100" example:"Karim Hossain"`
	Email    string `json:"email" binding:"required,email,max=200" example:"karim@example.com"`
	Password string `json:"password" binding:"required,min=8,max=128" example:"s3cret-pass"`
	Role     string `json:"role" binding:"required,oneof=admin accountant manager user" example:"accountant"`
	IsActive *bool  `json:"is_active" example:"true"`
}

// UpdateUserRequest represents a request to update a user. An empty password
// keeps the current one.
//
//	@Description	Request body for updating a user
type UpdateUserRequest struct {
	Name     string `json:"name" binding:"required,max=100" example:"Karim Hossain"`
	Email    string `json:"email" binding:"required,email,max=200" example:"karim@example.com"`
	Password string `json:"password" binding:"omitempty,min=8,max=128"`
	Role     string `json:"role" binding:"required,oneof=admin accountant manager user" example:"manager"`
	IsActive *bool  `json:"is_active" example:"true"`
}

// RoleResponse is a role lookup option with its permissions
type RoleResponse struct {
	Value       string   `json:"value" example:"accountant"`
	Label       string   `json:"label" example:"Accountant"`
	Permissions []string `json:"permissions"`
}

// List godoc
// @ID           listUsers
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Name or email"
// @Param        role query string false "Role" Enums(admin, accountant, manager, user)
// @Param        is_active query bool false "Active flag"
// @Success      200 {object} APIResponse[[]identity.User]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users [get]
func (h *UserHandler) List(c *gin.Context) {
	var q ListUsersQuery
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.userService.List(c.Request.Context(), identity.UserFilter{
		Filter:   q.ToFilter(),
		Role:     identity.Role(q.Role),
		IsActive: q.IsActive,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	paginated(c, page)
}

// Get godoc
// @ID           getUser
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} APIResponse[identity.User]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	user, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Create godoc
// @ID           createUser
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body CreateUserRequest true "User"
// @Success      201 {object} APIResponse[identity.User]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if !h.bindJSON(c, &req) {
		return
	}
	user, err := h.userService.Create(c.Request.Context(), middleware.GetActor(c), identityapp.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     identity.Role(req.Role),
		IsActive: boolOr(req.IsActive, true),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user, i18n.EntityUser)
}

// Update godoc
// @ID           updateUser
// @Summary      Update a user
// @Description  Users cannot deactivate themselves or change their own role
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Param        request body UpdateUserRequest true "User"
// @Success      200 {object} APIResponse[identity.User]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var req UpdateUserRequest
	if !h.bindJSON(c, &req) {
		return
	}
	user, err := h.userService.Update(c.Request.Context(), middleware.GetActor(c), id, identityapp.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     identity.Role(req.Role),
		IsActive: boolOr(req.IsActive, true),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Done(c, user, i18n.EntityUser, i18n.ActionUpdated)
}

// ToggleStatus godoc
// @ID           toggleUserStatus
// @Summary      Activate or deactivate a user
// @Description  Flips is_active. Deactivation revokes the user's tokens.
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} APIResponse[identity.User]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id}/toggle-status [patch]
func (h *UserHandler) ToggleStatus(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	user, err := h.userService.ToggleStatus(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Done(c, user, i18n.EntityUser, i18n.ActionStatusChanged)
}

// Delete godoc
// @ID           deleteUser
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} MessageResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	if err := h.userService.Delete(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Done(c, nil, i18n.EntityUser, i18n.ActionDeleted)
}

// Roles godoc
// @ID           listRoles
// @Summary      Role lookup
// @Description  Every role with its localized label and permissions
// @Tags         users
// @Produce      json
// @Success      200 {object} APIResponse[[]RoleResponse]
// @Security     BearerAuth
// @Router       /roles [get]
func (h *UserHandler) Roles(c *gin.Context) {
	tr := middleware.GetTranslator(c)
	lang := middleware.GetLocale(c)

	options := h.userService.Roles()
	out := make([]RoleResponse, 0, len(options))
	for _, o := range options {
		label := string(o.Value)
		if tr != nil {
			label = tr.Label(lang, "role", string(o.Value))
		}
		out = append(out, RoleResponse{Value: string(o.Value), Label: label, Permissions: o.Permissions})
	}
	h.Success(c, out)
}
