package handler

import (
	ledgerapp "github.com/erp/backoffice/internal/application/ledger"
	"github.com/erp/backoffice/internal/domain/ledger"
	"github.com/erp/backoffice/internal/infrastructure/i18n"
	"github.com/erp/backoffice/internal/interfaces/http/dto"
	"github.com/erp/backoffice/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// JournalHandler handles journal entry endpoints
type JournalHandler struct {
	BaseHandler
	journals *ledgerapp.JournalService
}

// NewJournalHandler creates a new JournalHandler
func NewJournalHandler(journals *ledgerapp.JournalService) *JournalHandler {
	return &JournalHandler{journals: journals}
}

// ListJournalsQuery filters the journal list. Dates are inclusive.
type ListJournalsQuery struct {
	dto.ListRequest
	FinancialYearID string `form:"financial_year_id" binding:"omitempty,uuid"`
	Status          string `form:"status" binding:"omitempty,oneof=draft posted"`
	From            string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To              string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

// JournalLineRequest is one debit or credit line. Exactly one side is non-zero.
type JournalLineRequest struct {
	AccountID string          `json:"account_id" binding:"required,uuid"`
	Debit     decimal.Decimal `json:"debit" binding:"gte=0" swaggertype:"string" example:"1500.00"`
	Credit    decimal.Decimal `json:"credit" binding:"gte=0" swaggertype:"string" example:"0"`
	Memo      string          `json:"memo" binding:"max=255"`
}

// JournalRequest is the body for creating or updating a draft entry. Without
// financial_year_id the year containing entry_date is used.
type JournalRequest struct {
	FinancialYearID string               `json:"financial_year_id" binding:"omitempty,uuid"`
	EntryDate       string               `json:"entry_date" binding:"required,datetime=2006-01-02" example:"2024-08-15"`
	Description     string               `json:"description" binding:"max=1000" example:"Office rent for August"`
	Lines           []JournalLineRequest `json:"lines" binding:"required,min=2,dive"`
}

func (r JournalRequest) input() ledgerapp.JournalInput {
	lines := make([]ledger.JournalLine, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, ledger.JournalLine{
			AccountID: uuid.MustParse(l.AccountID),
			Debit:     l.Debit,
			Credit:    l.Credit,
			Memo:      l.Memo,
		})
	}
	return ledgerapp.JournalInput{
		FinancialYearID: optionalUUID(r.FinancialYearID),
		EntryDate:       parseDate(r.EntryDate),
		Description:     r.Description,
		Lines:           lines,
	}
}

// List godoc
// @ID           listJournalEntries
// @Summary      List journal entries
// @Tags         ledger
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Entry number or description"
// @Param        financial_year_id query string false "Financial year ID" format(uuid)
// @Param        status query string false "Status" Enums(draft, posted)
// @Param        from query string false "From date" format(date)
// @Param        to query string false "To date" format(date)
// @Success      200 {object} APIResponse[[]ledger.JournalEntry]
// @Security     BearerAuth
// @Router       /ledger/journal-entries [get]
func (h *JournalHandler) List(c *gin.Context) {
	var q ListJournalsQuery
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.journals.List(c.Request.Context(), ledger.JournalFilter{
		Filter:          q.ToFilter(),
		FinancialYearID: optionalUUID(q.FinancialYearID),
		Status:          ledger.JournalStatus(q.Status),
		From:            optionalDate(q.From),
		To:              optionalDate(q.To),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	paginated(c, page)
}

// Get godoc
// @ID           getJournalEntry
// @Summary      Get a journal entry with its lines
// @Tags         ledger
// @Produce      json
// @Param        id path string true "Journal entry ID" format(uuid)
// @Success      200 {object} APIResponse[ledger.JournalEntry]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ledger/journal-entries/{id} [get]
func (h *JournalHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	entry, err := h.journals.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// Create godoc
// @ID           createJournalEntry
// @Summary      Create a draft journal entry
// @Description  Lines must balance. The entry date must fall inside the financial year.
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        request body JournalRequest true "Journal entry"
// @Success      201 {object} APIResponse[ledger.JournalEntry]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ledger/journal-entries [post]
func (h *JournalHandler) Create(c *gin.Context) {
	var req JournalRequest
	if !h.bindJSON(c, &req) {
		return
	}
	entry, err := h.journals.Create(c.Request.Context(), middleware.GetActor(c), req.input())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, entry, i18n.EntityJournalEntry)
}

// Update godoc
// @ID           updateJournalEntry
// @Summary      Update a draft journal entry
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        id path string true "Journal entry ID" format(uuid)
// @Param        request body JournalRequest true "Journal entry"
// @Success      200 {object} APIResponse[ledger.JournalEntry]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ledger/journal-entries/{id} [put]
func (h *JournalHandler) Update(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var req JournalRequest
	if !h.bindJSON(c, &req) {
		return
	}
	entry, err := h.journals.Update(c.Request.Context(), middleware.GetActor(c), id, req.input())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Done(c, entry, i18n.EntityJournalEntry, i18n.ActionUpdated)
}

// Post godoc
// @ID           postJournalEntry
// @Summary      Post a draft journal entry
// @Description  Posted entries count toward balances and can no longer change
// @Tags         ledger
// @Produce      json
// @Param        id path string true "Journal entry ID" format(uuid)
// @Success      200 {object} APIResponse[ledger.JournalEntry]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ledger/journal-entries/{id}/post [post]
func (h *JournalHandler) Post(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	entry, err := h.journals.Post(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Done(c, entry, i18n.EntityJournalEntry, i18n.ActionPosted)
}

// Delete godoc
// @ID           deleteJournalEntry
// @Summary      Delete a draft journal entry
// @Tags         ledger
// @Produce      json
// @Param        id path string true "Journal entry ID" format(uuid)
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ledger/journal-entries/{id} [delete]
func (h *JournalHandler) Delete(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	if err := h.journals.Delete(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Done(c, nil, i18n.EntityJournalEntry, i18n.ActionDeleted)
}
