package stock

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/erp/backoffice/internal/application/scope"
	"github.com/erp/backoffice/internal/domain/audit"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// StockMetrics receives movement activity
type StockMetrics interface {
	RecordStockMovement(ctx context.Context, movementType stock.MovementType, quantity decimal.Decimal)
}

// StockService runs quantity-changing operations. Each one locks the
// affected balance rows, writes the movements and the audit entry, and
// commits them together.
type StockService struct {
	repos   scope.Repositories
	tx      scope.TransactionScope
	logger  *zap.Logger
	metrics StockMetrics
}

// NewStockService creates a new StockService
func NewStockService(repos scope.Repositories, tx scope.TransactionScope, logger *zap.Logger) *StockService {
	return &StockService{repos: repos, tx: tx, logger: logger}
}

// SetMetrics attaches a metrics sink
func (s *StockService) SetMetrics(m StockMetrics) {
	s.metrics = m
}

// TransferInput moves quantity of a product between two warehouses
type TransferInput struct {
	ProductID       uuid.UUID
	FromWarehouseID uuid.UUID
	ToWarehouseID   uuid.UUID
	Quantity        decimal.Decimal
	TransferDate    time.Time
	Notes           string
}

// ReceiveInput books incoming stock at a unit cost
type ReceiveInput struct {
	ProductID   uuid.UUID
	WarehouseID uuid.UUID
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
	Date        time.Time
	Reference   string
	Notes       string
}

// IssueInput books outgoing stock
type IssueInput struct {
	ProductID   uuid.UUID
	WarehouseID uuid.UUID
	Quantity    decimal.Decimal
	Date        time.Time
	Reference   string
	Notes       string
}

// AdjustInput corrects a balance by a signed delta. UnitCost applies to
// positive deltas; zero means the current average cost.
type AdjustInput struct {
	ProductID   uuid.UUID
	WarehouseID uuid.UUID
	Delta       decimal.Decimal
	UnitCost    decimal.Decimal
	Date        time.Time
	Reason      string
}

// TransferResult is the outcome of a transfer
type TransferResult struct {
	Reference   string                `json:"reference"`
	Movements   []stock.StockMovement `json:"movements"`
	FromBalance *stock.StockBalance   `json:"from_balance"`
	ToBalance   *stock.StockBalance   `json:"to_balance"`
}

// MovementResult is the outcome of a single-warehouse operation
type MovementResult struct {
	Movement *stock.StockMovement `json:"movement"`
	Balance  *stock.StockBalance  `json:"balance"`
}

// ProductTotal is a product's on-hand quantity across warehouses
type ProductTotal struct {
	ProductID uuid.UUID            `json:"product_id"`
	Quantity  decimal.Decimal      `json:"quantity"`
	Balances  []stock.StockBalance `json:"balances"`
}

// Transfer moves stock between warehouses. A short source aborts before any
// row changes; any later failure rolls back both balances and both movements.
func (s *StockService) Transfer(ctx context.Context, actor audit.Actor, input TransferInput) (*TransferResult, error) {
	if err := stock.ValidateQuantity(input.Quantity); err != nil {
		return nil, err
	}
	if input.FromWarehouseID == input.ToWarehouseID {
		return nil, shared.NewDomainError("SAME_WAREHOUSE", "Source and destination warehouses must differ")
	}

	var result *TransferResult
	err := s.tx.Execute(ctx, func(repos scope.Repositories) error {
		if err := checkTargets(ctx, repos, input.ProductID, input.FromWarehouseID, input.ToWarehouseID); err != nil {
			return err
		}

		from, to, err := lockTransferPair(ctx, repos, input)
		if err != nil {
			return err
		}

		moved, err := stock.Transfer(from, to, input.Quantity, input.TransferDate, input.Notes, actor.ID)
		if err != nil {
			return err
		}
		if err := repos.Balances().SaveWithLock(ctx, from); err != nil {
			return err
		}
		if err := repos.Balances().SaveWithLock(ctx, to); err != nil {
			return err
		}
		if err := repos.Movements().CreateBatch(ctx, []*stock.StockMovement{moved.Out, moved.In}); err != nil {
			return err
		}

		result = &TransferResult{
			Reference:   moved.Reference,
			Movements:   []stock.StockMovement{*moved.Out, *moved.In},
			FromBalance: from,
			ToBalance:   to,
		}
		return repos.Audit().Record(ctx, audit.Entry{
			Actor:       actor,
			SubjectType: audit.SubjectProduct,
			SubjectID:   input.ProductID,
			Action:      audit.ActionTransferred,
			NewValues: audit.Payload{
				"reference":         moved.Reference,
				"from_warehouse_id": input.FromWarehouseID.String(),
				"to_warehouse_id":   input.ToWarehouseID.String(),
				"quantity":          input.Quantity.String(),
				"unit_cost":         moved.Out.UnitCost.String(),
			},
		})
	})
	if err != nil {
		if errors.Is(err, shared.ErrInsufficientStock) {
			s.logger.Warn("Transfer rejected: insufficient stock",
				zap.String("product_id", input.ProductID.String()),
				zap.String("from_warehouse_id", input.FromWarehouseID.String()),
				zap.String("quantity", input.Quantity.String()))
		}
		return nil, err
	}

	s.record(ctx, stock.MovementTransferOut, input.Quantity)
	s.logger.Info("Stock transferred",
		zap.String("reference", result.Reference),
		zap.String("product_id", input.ProductID.String()),
		zap.String("quantity", input.Quantity.String()))
	return result, nil
}

// lockTransferPair locks both balance rows in warehouse-ID order so that two
// opposite transfers cannot deadlock. The source must already hold the quantity.
func lockTransferPair(ctx context.Context, repos scope.Repositories, input TransferInput) (from, to *stock.StockBalance, err error) {
	lockSource := func() error {
		from, err = repos.Balances().FindForUpdate(ctx, input.ProductID, input.FromWarehouseID)
		if errors.Is(err, shared.ErrNotFound) {
			return shared.ErrInsufficientStock
		}
		if err != nil {
			return err
		}
		if !from.CanFulfill(input.Quantity) {
			return shared.ErrInsufficientStock
		}
		return nil
	}
	lockDestination := func() error {
		to, err = repos.Balances().GetOrCreateForUpdate(ctx, input.ProductID, input.ToWarehouseID)
		return err
	}

	first, second := lockSource, lockDestination
	if strings.Compare(input.FromWarehouseID.String(), input.ToWarehouseID.String()) > 0 {
		first, second = lockDestination, lockSource
	}
	if err := first(); err != nil {
		return nil, nil, err
	}
	if err := second(); err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

// Receive books a purchase into a warehouse at unit cost
func (s *StockService) Receive(ctx context.Context, actor audit.Actor, input ReceiveInput) (*MovementResult, error) {
	if err := stock.ValidateQuantity(input.Quantity); err != nil {
		return nil, err
	}
	if err := stock.ValidateUnitCost(input.UnitCost); err != nil {
		return nil, err
	}
	if err := stock.ValidateUserReference(input.Reference); err != nil {
		return nil, err
	}

	var result *MovementResult
	err := s.tx.Execute(ctx, func(repos scope.Repositories) error {
		if err := checkTargets(ctx, repos, input.ProductID, input.WarehouseID); err != nil {
			return err
		}
		balance, err := repos.Balances().GetOrCreateForUpdate(ctx, input.ProductID, input.WarehouseID)
		if err != nil {
			return err
		}
		before := balance.Quantity
		if err := balance.Increase(input.Quantity, input.UnitCost); err != nil {
			return err
		}
		ref := referenceOr(input.Reference, stock.PrefixPurchase, input.Date)
		m, err := stock.Record(balance, stock.MovementPurchase, input.Quantity, input.UnitCost, before, ref, input.Date, input.Notes, actor.ID)
		if err != nil {
			return err
		}
		if err := s.persist(ctx, repos, balance, m); err != nil {
			return err
		}
		result = &MovementResult{Movement: m, Balance: balance}
		return repos.Audit().Record(ctx, movementAudit(actor, audit.ActionReceived, m))
	})
	if err != nil {
		return nil, err
	}
	s.record(ctx, stock.MovementPurchase, input.Quantity)
	return result, nil
}

// Issue books a sale out of a warehouse at the current average cost
func (s *StockService) Issue(ctx context.Context, actor audit.Actor, input IssueInput) (*MovementResult, error) {
	if err := stock.ValidateQuantity(input.Quantity); err != nil {
		return nil, err
	}
	if err := stock.ValidateUserReference(input.Reference); err != nil {
		return nil, err
	}

	var result *MovementResult
	err := s.tx.Execute(ctx, func(repos scope.Repositories) error {
		if err := checkTargets(ctx, repos, input.ProductID, input.WarehouseID); err != nil {
			return err
		}
		balance, err := repos.Balances().FindForUpdate(ctx, input.ProductID, input.WarehouseID)
		if errors.Is(err, shared.ErrNotFound) {
			return shared.ErrInsufficientStock
		}
		if err != nil {
			return err
		}
		before := balance.Quantity
		if err := balance.Decrease(input.Quantity); err != nil {
			return err
		}
		ref := referenceOr(input.Reference, stock.PrefixSale, input.Date)
		m, err := stock.Record(balance, stock.MovementSale, input.Quantity, balance.AverageCost, before, ref, input.Date, input.Notes, actor.ID)
		if err != nil {
			return err
		}
		if err := s.persist(ctx, repos, balance, m); err != nil {
			return err
		}
		result = &MovementResult{Movement: m, Balance: balance}
		return repos.Audit().Record(ctx, movementAudit(actor, audit.ActionIssued, m))
	})
	if err != nil {
		return nil, err
	}
	s.record(ctx, stock.MovementSale, input.Quantity)
	return result, nil
}

// Adjust corrects a balance by a signed delta; the result never goes below zero
func (s *StockService) Adjust(ctx context.Context, actor audit.Actor, input AdjustInput) (*MovementResult, error) {
	if input.Delta.IsZero() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Adjustment quantity cannot be zero")
	}
	if err := stock.ValidateQuantity(input.Delta.Abs()); err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return nil, shared.NewDomainError("ADJUSTMENT_REASON_REQUIRED", "A reason is required for stock adjustments")
	}
	if input.UnitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	movementType := stock.MovementAdjustmentIn
	if input.Delta.IsNegative() {
		movementType = stock.MovementAdjustmentOut
	}
	quantity := input.Delta.Abs()

	var result *MovementResult
	err := s.tx.Execute(ctx, func(repos scope.Repositories) error {
		if err := checkTargets(ctx, repos, input.ProductID, input.WarehouseID); err != nil {
			return err
		}
		var (
			balance *stock.StockBalance
			err     error
		)
		if movementType == stock.MovementAdjustmentIn {
			balance, err = repos.Balances().GetOrCreateForUpdate(ctx, input.ProductID, input.WarehouseID)
		} else {
			balance, err = repos.Balances().FindForUpdate(ctx, input.ProductID, input.WarehouseID)
			if errors.Is(err, shared.ErrNotFound) {
				return shared.ErrInsufficientStock
			}
		}
		if err != nil {
			return err
		}

		before := balance.Quantity
		cost := balance.AverageCost
		if movementType == stock.MovementAdjustmentIn {
			if input.UnitCost.IsPositive() {
				cost = input.UnitCost
			}
			err = balance.Increase(quantity, cost)
		} else {
			err = balance.Decrease(quantity)
		}
		if err != nil {
			return err
		}

		ref := stock.NewReference(stock.PrefixAdjustment, input.Date)
		m, err := stock.Record(balance, movementType, quantity, cost, before, ref, input.Date, reason, actor.ID)
		if err != nil {
			return err
		}
		if err := s.persist(ctx, repos, balance, m); err != nil {
			return err
		}
		result = &MovementResult{Movement: m, Balance: balance}
		return repos.Audit().Record(ctx, movementAudit(actor, audit.ActionAdjusted, m))
	})
	if err != nil {
		return nil, err
	}
	s.record(ctx, movementType, quantity)
	return result, nil
}

// ListBalances returns a page of balances
func (s *StockService) ListBalances(ctx context.Context, filter stock.BalanceFilter) (shared.Paginated[stock.StockBalance], error) {
	filter.Filter = filter.Filter.Normalize()
	items, total, err := s.repos.Balances().FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[stock.StockBalance]{}, err
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// ListMovements returns a page of movements
func (s *StockService) ListMovements(ctx context.Context, filter stock.MovementFilter) (shared.Paginated[stock.StockMovement], error) {
	filter.Filter = filter.Filter.Normalize()
	items, total, err := s.repos.Movements().FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[stock.StockMovement]{}, err
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// GetTransfer returns both legs of a transfer by its reference, with or without leg suffix
func (s *StockService) GetTransfer(ctx context.Context, reference string) ([]stock.StockMovement, error) {
	base := stock.BaseReference(strings.TrimSpace(reference))
	if !strings.HasPrefix(base, stock.PrefixTransfer+"-") {
		return nil, shared.NewDomainError("TRANSFER_NOT_FOUND", "Transfer not found")
	}
	found, err := s.repos.Movements().FindByReferencePrefix(ctx, base+"-")
	if err != nil {
		return nil, err
	}
	legs := found[:0]
	for i := range found {
		if stock.IsTransferLeg(&found[i], base) {
			legs = append(legs, found[i])
		}
	}
	if len(legs) == 0 {
		return nil, shared.NewDomainError("TRANSFER_NOT_FOUND", "Transfer not found")
	}
	return legs, nil
}

// GetProductTotal sums a product's quantity over every warehouse
func (s *StockService) GetProductTotal(ctx context.Context, productID uuid.UUID) (*ProductTotal, error) {
	if _, err := s.repos.Products().FindByID(ctx, productID); err != nil {
		return nil, notFound(err, "PRODUCT_NOT_FOUND", "Product not found")
	}
	total, err := s.repos.Balances().SumQuantityByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	filter := shared.DefaultFilter()
	filter.PageSize = 100
	balances, _, err := s.repos.Balances().FindAll(ctx, stock.BalanceFilter{Filter: filter, ProductID: &productID})
	if err != nil {
		return nil, err
	}
	return &ProductTotal{ProductID: productID, Quantity: total, Balances: balances}, nil
}

func (s *StockService) persist(ctx context.Context, repos scope.Repositories, b *stock.StockBalance, m *stock.StockMovement) error {
	if err := repos.Balances().SaveWithLock(ctx, b); err != nil {
		return err
	}
	return repos.Movements().Create(ctx, m)
}

func (s *StockService) record(ctx context.Context, t stock.MovementType, quantity decimal.Decimal) {
	if s.metrics != nil {
		s.metrics.RecordStockMovement(ctx, t, quantity)
	}
}

// checkTargets verifies the product and warehouses exist and are active
func checkTargets(ctx context.Context, repos scope.Repositories, productID uuid.UUID, warehouseIDs ...uuid.UUID) error {
	product, err := repos.Products().FindByID(ctx, productID)
	if err != nil {
		return notFound(err, "PRODUCT_NOT_FOUND", "Product not found")
	}
	if !product.IsActive {
		return shared.NewDomainError("PRODUCT_INACTIVE", "Product is inactive")
	}
	for _, id := range warehouseIDs {
		w, err := repos.Warehouses().FindByID(ctx, id)
		if err != nil {
			return notFound(err, "WAREHOUSE_NOT_FOUND", "Warehouse not found")
		}
		if !w.IsActive {
			return shared.NewDomainError("WAREHOUSE_INACTIVE", "Warehouse "+w.Code+" is inactive")
		}
	}
	return nil
}

func referenceOr(reference, prefix string, date time.Time) string {
	if r := strings.TrimSpace(reference); r != "" {
		return r
	}
	return stock.NewReference(prefix, date)
}

func movementAudit(actor audit.Actor, action audit.Action, m *stock.StockMovement) audit.Entry {
	return audit.Entry{
		Actor:       actor,
		SubjectType: audit.SubjectProduct,
		SubjectID:   m.ProductID,
		Action:      action,
		OldValues:   audit.Payload{"quantity": m.BalanceBefore.String()},
		NewValues: audit.Payload{
			"warehouse_id": m.WarehouseID.String(),
			"type":         string(m.Type),
			"reference":    m.ReferenceNumber,
			"moved":        m.Quantity.String(),
			"quantity":     m.BalanceAfter.String(),
		},
	}
}
