package handler

import (
	settingsapp "github.com/erp/backoffice/internal/application/settings"
	"github.com/erp/backoffice/internal/domain/settings"
	"github.com/erp/backoffice/internal/infrastructure/i18n"
	"github.com/erp/backoffice/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// CompanyHandler handles the company profile and its logo
type CompanyHandler struct {
	BaseHandler
	company *settingsapp.CompanyService
}

// NewCompanyHandler creates a new CompanyHandler
func NewCompanyHandler(company *settingsapp.CompanyService) *CompanyHandler {
	return &CompanyHandler{company: company}
}

// CompanyRequest is the body for updating the company profile
type CompanyRequest struct {
	CompanyName          string `json:"company_name" binding:"required,max=150" example:"Padma Traders Ltd."`
	Email                string `json:"email" binding:"omitempty,email,max=255" example:"accounts@padmatraders.com.bd"`
	Phone                string `json:"phone" binding:"omitempty,max=30" example:"+8801711000000"`
	Address              string `json:"address" binding:"max=1000"`
	Currency             string `json:"currency" binding:"required,len=3,uppercase" example:"BDT"`
	FiscalYearStartMonth int    `json:"fiscal_year_start_month" binding:"required,min=1,max=12" example:"7"`
}

// LogoUploadRequest asks for a presigned logo upload slot
type LogoUploadRequest struct {
	ContentType string `json:"content_type" binding:"required,oneof=image/png image/jpeg image/webp" example:"image/png"`
}

// ConfirmLogoRequest points the company at an uploaded logo object
type ConfirmLogoRequest struct {
	StorageKey string `json:"storage_key" binding:"required,max=255"`
}

// Get godoc
// @ID           getCompanySettings
// @Summary      Get the company profile
// @Tags         settings
// @Produce      json
// @Success      200 {object} APIResponse[settingsapp.CompanyView]
// @Security     BearerAuth
// @Router       /settings/company [get]
func (h *CompanyHandler) Get(c *gin.Context) {
	view, err := h.company.Get(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// Update godoc
// @ID           updateCompanySettings
// @Summary      Update the company profile
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        request body CompanyRequest true "Company profile"
// @Success      200 {object} APIResponse[settingsapp.CompanyView]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /settings/company [put]
func (h *CompanyHandler) Update(c *gin.Context) {
	var req CompanyRequest
	if !h.bindJSON(c, &req) {
		return
	}
	view, err := h.company.Update(c.Request.Context(), middleware.GetActor(c), settings.CompanyDetails{
		CompanyName:          req.CompanyName,
		Email:                req.Email,
		Phone:                req.Phone,
		Address:              req.Address,
		Currency:             req.Currency,
		FiscalYearStartMonth: req.FiscalYearStartMonth,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Done(c, view, i18n.EntityCompanySetting, i18n.ActionUpdated)
}

// RequestLogoUpload godoc
// @ID           requestCompanyLogoUpload
// @Summary      Request a logo upload URL
// @Description  Returns a presigned PUT URL. Upload the file there, then confirm the storage key.
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        request body LogoUploadRequest true "Content type"
// @Success      200 {object} APIResponse[settingsapp.LogoUpload]
// @Failure      400 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /settings/company/logo/upload-url [post]
func (h *CompanyHandler) RequestLogoUpload(c *gin.Context) {
	var req LogoUploadRequest
	if !h.bindJSON(c, &req) {
		return
	}
	upload, err := h.company.RequestLogoUpload(c.Request.Context(), req.ContentType)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, upload, i18n.MsgUploadReady)
}

// ConfirmLogo godoc
// @ID           confirmCompanyLogo
// @Summary      Confirm an uploaded logo
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        request body ConfirmLogoRequest true "Storage key"
// @Success      200 {object} APIResponse[settingsapp.CompanyView]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /settings/company/logo [put]
func (h *CompanyHandler) ConfirmLogo(c *gin.Context) {
	var req ConfirmLogoRequest
	if !h.bindJSON(c, &req) {
		return
	}
	view, err := h.company.ConfirmLogo(c.Request.Context(), middleware.GetActor(c), req.StorageKey)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Done(c, view, i18n.EntityLogo, i18n.ActionUpdated)
}
