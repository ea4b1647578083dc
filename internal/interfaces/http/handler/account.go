package handler

import (
	ledgerapp "github.com/erp/backoffice/internal/application/ledger"
	"github.com/erp/backoffice/internal/domain/ledger"
	"github.com/erp/backoffice/internal/infrastructure/i18n"
	"github.com/erp/backoffice/internal/interfaces/http/dto"
	"github.com/erp/backoffice/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AccountHandler handles chart of accounts endpoints
type AccountHandler struct {
	BaseHandler
	accounts *ledgerapp.AccountService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accounts *ledgerapp.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// AccountRequest is the body for creating or updating an account
type AccountRequest struct {
	AccountCode string `json:"account_code" binding:"required,max=20" example:"1010"`
	Name        string `json:"name" binding:"required,max=150" example:"Cash in Hand"`
	CategoryID  string `json:"category_id" binding:"required,uuid"`
	Description string `json:"description" binding:"max=1000"`
	IsActive    *bool  `json:"is_active" example:"true"`
}

func (r AccountRequest) details() ledger.AccountDetails {
	return ledger.AccountDetails{
		AccountCode: r.AccountCode,
		Name:        r.Name,
		CategoryID:  uuid.MustParse(r.CategoryID),
		Description: r.Description,
		IsActive:    boolOr(r.IsActive, true),
	}
}

// AsOfQuery limits a balance to entries dated on or before as_of
type AsOfQuery struct {
	AsOf string `form:"as_of" binding:"omitempty,datetime=2006-01-02" example:"2024-06-30"`
}

// AccountTypeOption is an account type lookup option
type AccountTypeOption struct {
	Value      string `json:"value" example:"asset"`
	Label      string `json:"label" example:"Asset"`
	NormalSide string `json:"normal_side" example:"debit"`
}

// List godoc
// @ID           listAccounts
// @Summary      List accounts
// @Tags         ledger
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Code or name"
// @Success      200 {object} APIResponse[[]ledger.ChartOfAccount]
// @Security     BearerAuth
// @Router       /ledger/accounts [get]
func (h *AccountHandler) List(c *gin.Context) {
	var q dto.ListRequest
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.accounts.List(c.Request.Context(), q.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	paginated(c, page)
}

// Get godoc
// @ID           getAccount
// @Summary      Get an account
// @Tags         ledger
// @Produce      json
// @Param        id path string true "Account ID" format(uuid)
// @Success      200 {object} APIResponse[ledger.ChartOfAccount]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ledger/accounts/{id} [get]
func (h *AccountHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	account, err := h.accounts.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// Create godoc
// @ID           createAccount
// @Summary      Create an account
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        request body AccountRequest true "Account"
// @Success      201 {object} APIResponse[ledger.ChartOfAccount]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ledger/accounts [post]
func (h *AccountHandler) Create(c *gin.Context) {
	var req AccountRequest
	if !h.bindJSON(c, &req) {
		return
	}
	account, err := h.accounts.Create(c.Request.Context(), middleware.GetActor(c), req.details())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, account, i18n.EntityAccount)
}

// Update godoc
// @ID           updateAccount
// @Summary      Update an account
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        id path string true "Account ID" format(uuid)
// @Param        request body AccountRequest true "Account"
// @Success      200 {object} APIResponse[ledger.ChartOfAccount]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ledger/accounts/{id} [put]
func (h *AccountHandler) Update(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var req AccountRequest
	if !h.bindJSON(c, &req) {
		return
	}
	account, err := h.accounts.Update(c.Request.Context(), middleware.GetActor(c), id, req.details())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Done(c, account, i18n.EntityAccount, i18n.ActionUpdated)
}

// Delete godoc
// @ID           deleteAccount
// @Summary      Delete an account
// @Description  Rejected while journal lines, tax settings or stock movements reference it
// @Tags         ledger
// @Produce      json
// @Param        id path string true "Account ID" format(uuid)
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ledger/accounts/{id} [delete]
func (h *AccountHandler) Delete(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	if err := h.accounts.Delete(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Done(c, nil, i18n.EntityAccount, i18n.ActionDeleted)
}

// Balance godoc
// @ID           getAccountBalance
// @Summary      Account balance
// @Description  Posted debit and credit totals and the balance on the account's normal side
// @Tags         ledger
// @Produce      json
// @Param        id path string true "Account ID" format(uuid)
// @Param        as_of query string false "Inclusive cut-off date" format(date)
// @Success      200 {object} APIResponse[ledgerapp.AccountBalance]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ledger/accounts/{id}/balance [get]
func (h *AccountHandler) Balance(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var q AsOfQuery
	if !h.bindQuery(c, &q) {
		return
	}
	balance, err := h.accounts.Balance(c.Request.Context(), id, optionalDate(q.AsOf))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, balance)
}

// AccountTypes godoc
// @ID           listAccountTypes
// @Summary      Account type lookup
// @Tags         ledger
// @Produce      json
// @Success      200 {object} APIResponse[[]AccountTypeOption]
// @Security     BearerAuth
// @Router       /ledger/account-types [get]
func (h *AccountHandler) AccountTypes(c *gin.Context) {
	tr := middleware.GetTranslator(c)
	lang := middleware.GetLocale(c)

	types := ledger.AllAccountTypes()
	out := make([]AccountTypeOption, 0, len(types))
	for _, t := range types {
		label := string(t)
		if tr != nil {
			label = tr.Label(lang, "account_type", string(t))
		}
		out = append(out, AccountTypeOption{Value: string(t), Label: label, NormalSide: string(t.NormalSide())})
	}
	h.Success(c, out)
}
