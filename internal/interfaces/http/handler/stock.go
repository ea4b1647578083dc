package handler

import (
	"net/http"

	stockapp "github.com/erp/backoffice/internal/application/stock"
	"github.com/erp/backoffice/internal/domain/stock"
	"github.com/erp/backoffice/internal/infrastructure/i18n"
	"github.com/erp/backoffice/internal/interfaces/http/dto"
	"github.com/erp/backoffice/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockHandler handles stock movements, transfers and balances
type StockHandler struct {
	BaseHandler
	stock *stockapp.StockService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService *stockapp.StockService) *StockHandler {
	return &StockHandler{stock: stockService}
}

// TransferRequest moves quantity of a product between two warehouses
type TransferRequest struct {
	ProductID       string          `json:"product_id" binding:"required,uuid"`
	FromWarehouseID string          `json:"from_warehouse_id" binding:"required,uuid"`
	ToWarehouseID   string          `json:"to_warehouse_id" binding:"required,uuid,nefield=FromWarehouseID"`
	Quantity        decimal.Decimal `json:"quantity" binding:"gt=0" swaggertype:"string" example:"12"`
	TransferDate    string          `json:"transfer_date" binding:"omitempty,datetime=2006-01-02" example:"2024-08-20"`
	Notes           string          `json:"notes" binding:"max=1000"`
}

// ReceiveRequest books incoming stock at a unit cost
type ReceiveRequest struct {
	ProductID   string          `json:"product_id" binding:"required,uuid"`
	WarehouseID string          `json:"warehouse_id" binding:"required,uuid"`
	Quantity    decimal.Decimal `json:"quantity" binding:"gt=0" swaggertype:"string" example:"100"`
	UnitCost    decimal.Decimal `json:"unit_cost" binding:"gte=0" swaggertype:"string" example:"1850.00"`
	Date        string          `json:"date" binding:"omitempty,datetime=2006-01-02" example:"2024-08-01"`
	Reference   string          `json:"reference" binding:"max=50" example:"GRN-1042"`
	Notes       string          `json:"notes" binding:"max=1000"`
}

// IssueRequest books outgoing stock
type IssueRequest struct {
	ProductID   string          `json:"product_id" binding:"required,uuid"`
	WarehouseID string          `json:"warehouse_id" binding:"required,uuid"`
	Quantity    decimal.Decimal `json:"quantity" binding:"gt=0" swaggertype:"string" example:"5"`
	Date        string          `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Reference   string          `json:"reference" binding:"max=50" example:"INV-2201"`
	Notes       string          `json:"notes" binding:"max=1000"`
}

// AdjustRequest corrects a balance by a signed, non-zero delta
type AdjustRequest struct {
	ProductID   string          `json:"product_id" binding:"required,uuid"`
	WarehouseID string          `json:"warehouse_id" binding:"required,uuid"`
	Delta       decimal.Decimal `json:"delta" binding:"required" swaggertype:"string" example:"-3"`
	UnitCost    decimal.Decimal `json:"unit_cost" binding:"gte=0" swaggertype:"string" example:"0"`
	Date        string          `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Reason      string          `json:"reason" binding:"required,max=1000" example:"Damaged in storage"`
}

// ListBalancesQuery filters stock balances
type ListBalancesQuery struct {
	dto.ListRequest
	ProductID   string `form:"product_id" binding:"omitempty,uuid"`
	WarehouseID string `form:"warehouse_id" binding:"omitempty,uuid"`
	NonZero     bool   `form:"non_zero"`
}

// ListMovementsQuery filters stock movements. Dates are inclusive.
type ListMovementsQuery struct {
	dto.ListRequest
	ProductID   string `form:"product_id" binding:"omitempty,uuid"`
	WarehouseID string `form:"warehouse_id" binding:"omitempty,uuid"`
	Type        string `form:"type" binding:"omitempty,oneof=purchase sale transfer_in transfer_out adjustment_in adjustment_out"`
	Reference   string `form:"reference" binding:"omitempty,max=50"`
	From        string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To          string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

// TransferReferenceRequest is the :reference path parameter
type TransferReferenceRequest struct {
	Reference string `uri:"reference" binding:"required,max=50"`
}

// Transfer godoc
// @ID           transferStock
// @Summary      Transfer stock between warehouses
// @Description  Atomic: a short source changes nothing. Writes a transfer_out and a transfer_in movement sharing one reference.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        request body TransferRequest true "Transfer"
// @Success      201 {object} APIResponse[stockapp.TransferResult]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stock/transfers [post]
func (h *StockHandler) Transfer(c *gin.Context) {
	var req TransferRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.stock.Transfer(c.Request.Context(), middleware.GetActor(c), stockapp.TransferInput{
		ProductID:       uuid.MustParse(req.ProductID),
		FromWarehouseID: uuid.MustParse(req.FromWarehouseID),
		ToWarehouseID:   uuid.MustParse(req.ToWarehouseID),
		Quantity:        req.Quantity,
		TransferDate:    parseDate(req.TransferDate),
		Notes:           req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.created(c, result, i18n.ActionTransferred)
}

// GetTransfer godoc
// @ID           getStockTransfer
// @Summary      Movements of a transfer
// @Tags         stock
// @Produce      json
// @Param        reference path string true "Transfer reference"
// @Success      200 {object} APIResponse[[]stock.StockMovement]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stock/transfers/{reference} [get]
func (h *StockHandler) GetTransfer(c *gin.Context) {
	var req TransferReferenceRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	movements, err := h.stock.GetTransfer(c.Request.Context(), req.Reference)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, movements)
}

// Receive godoc
// @ID           receiveStock
// @Summary      Receive stock
// @Description  Adds quantity and recomputes the weighted average cost
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        request body ReceiveRequest true "Receipt"
// @Success      201 {object} APIResponse[stockapp.MovementResult]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stock/receive [post]
func (h *StockHandler) Receive(c *gin.Context) {
	var req ReceiveRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.stock.Receive(c.Request.Context(), middleware.GetActor(c), stockapp.ReceiveInput{
		ProductID:   uuid.MustParse(req.ProductID),
		WarehouseID: uuid.MustParse(req.WarehouseID),
		Quantity:    req.Quantity,
		UnitCost:    req.UnitCost,
		Date:        parseDate(req.Date),
		Reference:   req.Reference,
		Notes:       req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.created(c, result, i18n.ActionReceived)
}

// Issue godoc
// @ID           issueStock
// @Summary      Issue stock
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        request body IssueRequest true "Issue"
// @Success      201 {object} APIResponse[stockapp.MovementResult]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stock/issue [post]
func (h *StockHandler) Issue(c *gin.Context) {
	var req IssueRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.stock.Issue(c.Request.Context(), middleware.GetActor(c), stockapp.IssueInput{
		ProductID:   uuid.MustParse(req.ProductID),
		WarehouseID: uuid.MustParse(req.WarehouseID),
		Quantity:    req.Quantity,
		Date:        parseDate(req.Date),
		Reference:   req.Reference,
		Notes:       req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.created(c, result, i18n.ActionIssued)
}

// Adjust godoc
// @ID           adjustStock
// @Summary      Adjust stock
// @Description  Positive deltas add stock at unit_cost (zero keeps the average); negative deltas remove it
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        request body AdjustRequest true "Adjustment"
// @Success      201 {object} APIResponse[stockapp.MovementResult]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stock/adjust [post]
func (h *StockHandler) Adjust(c *gin.Context) {
	var req AdjustRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.stock.Adjust(c.Request.Context(), middleware.GetActor(c), stockapp.AdjustInput{
		ProductID:   uuid.MustParse(req.ProductID),
		WarehouseID: uuid.MustParse(req.WarehouseID),
		Delta:       req.Delta,
		UnitCost:    req.UnitCost,
		Date:        parseDate(req.Date),
		Reason:      req.Reason,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.created(c, result, i18n.ActionAdjusted)
}

// Balances godoc
// @ID           listStockBalances
// @Summary      List stock balances
// @Tags         stock
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        product_id query string false "Product ID" format(uuid)
// @Param        warehouse_id query string false "Warehouse ID" format(uuid)
// @Param        non_zero query bool false "Only rows with quantity"
// @Success      200 {object} APIResponse[[]stock.StockBalance]
// @Security     BearerAuth
// @Router       /stock/balances [get]
func (h *StockHandler) Balances(c *gin.Context) {
	var q ListBalancesQuery
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.stock.ListBalances(c.Request.Context(), stock.BalanceFilter{
		Filter:      q.ToFilter(),
		ProductID:   optionalUUID(q.ProductID),
		WarehouseID: optionalUUID(q.WarehouseID),
		NonZeroOnly: q.NonZero,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	paginated(c, page)
}

// Movements godoc
// @ID           listStockMovements
// @Summary      List stock movements
// @Tags         stock
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        product_id query string false "Product ID" format(uuid)
// @Param        warehouse_id query string false "Warehouse ID" format(uuid)
// @Param        type query string false "Movement type" Enums(purchase, sale, transfer_in, transfer_out, adjustment_in, adjustment_out)
// @Param        reference query string false "Reference number"
// @Param        from query string false "From date" format(date)
// @Param        to query string false "To date" format(date)
// @Success      200 {object} APIResponse[[]stock.StockMovement]
// @Security     BearerAuth
// @Router       /stock/movements [get]
func (h *StockHandler) Movements(c *gin.Context) {
	var q ListMovementsQuery
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.stock.ListMovements(c.Request.Context(), stock.MovementFilter{
		Filter:      q.ToFilter(),
		ProductID:   optionalUUID(q.ProductID),
		WarehouseID: optionalUUID(q.WarehouseID),
		Type:        stock.MovementType(q.Type),
		Reference:   q.Reference,
		From:        optionalDate(q.From),
		To:          optionalDate(q.To),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	paginated(c, page)
}

// MovementTypes godoc
// @ID           listMovementTypes
// @Summary      Movement type lookup
// @Tags         stock
// @Produce      json
// @Success      200 {object} APIResponse[[]LookupOption]
// @Security     BearerAuth
// @Router       /stock/movement-types [get]
func (h *StockHandler) MovementTypes(c *gin.Context) {
	tr := middleware.GetTranslator(c)
	lang := middleware.GetLocale(c)

	types := stock.AllMovementTypes()
	out := make([]LookupOption, 0, len(types))
	for _, t := range types {
		label := string(t)
		if tr != nil {
			label = tr.Label(lang, "movement_type", string(t))
		}
		out = append(out, LookupOption{Value: string(t), Label: label})
	}
	h.Success(c, out)
}

func (h *StockHandler) created(c *gin.Context, data any, action i18n.Action) {
	c.JSON(http.StatusCreated, dto.NewMessageResponse(data, actionMessage(c, i18n.EntityStock, action)))
}
