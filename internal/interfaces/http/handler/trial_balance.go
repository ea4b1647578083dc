package handler

import (
	ledgerapp "github.com/erp/backoffice/internal/application/ledger"
	"github.com/gin-gonic/gin"
)

// TrialBalanceHandler serves the trial balance report
type TrialBalanceHandler struct {
	BaseHandler
	accounts *ledgerapp.AccountService
}

// NewTrialBalanceHandler creates a new TrialBalanceHandler
func NewTrialBalanceHandler(accounts *ledgerapp.AccountService) *TrialBalanceHandler {
	return &TrialBalanceHandler{accounts: accounts}
}

// Get godoc
// @ID           getTrialBalance
// @Summary      Trial balance
// @Description  Every active account with its posted totals. balanced is true when total debits equal total credits.
// @Tags         ledger
// @Produce      json
// @Param        as_of query string false "Inclusive cut-off date" format(date)
// @Success      200 {object} APIResponse[ledgerapp.TrialBalance]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ledger/trial-balance [get]
func (h *TrialBalanceHandler) Get(c *gin.Context) {
	var q AsOfQuery
	if !h.bindQuery(c, &q) {
		return
	}
	tb, err := h.accounts.TrialBalance(c.Request.Context(), optionalDate(q.AsOf))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tb)
}
