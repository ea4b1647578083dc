package stock

import (
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockBalance is the on-hand quantity of one product at one warehouse.
// Quantity never goes negative.
type StockBalance struct {
	shared.BaseAggregateRoot
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_balance_product_warehouse,priority:1" json:"product_id"`
	WarehouseID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_balance_product_warehouse,priority:2;index" json:"warehouse_id"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"quantity"`
	AverageCost decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"average_cost"`
}

// TableName returns the table name for GORM
func (StockBalance) TableName() string {
	return "stock_balances"
}

// NewStockBalance creates an empty balance row
func NewStockBalance(productID, warehouseID uuid.UUID) (*StockBalance, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	return &StockBalance{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		WarehouseID:       warehouseID,
		Quantity:          decimal.Zero,
		AverageCost:       decimal.Zero,
	}, nil
}

// ValidateQuantity accepts positive quantities that fit the stored scale
func ValidateQuantity(quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if !shared.FitsScale(quantity) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity can have at most 4 decimal places")
	}
	return nil
}

// ValidateUnitCost accepts non-negative costs that fit the stored scale
func ValidateUnitCost(unitCost decimal.Decimal) error {
	if unitCost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}
	if !shared.FitsScale(unitCost) {
		return shared.NewDomainError("INVALID_COST", "Unit cost can have at most 4 decimal places")
	}
	return nil
}

// Increase adds stock and folds the unit cost into the moving weighted average
func (b *StockBalance) Increase(quantity, unitCost decimal.Decimal) error {
	if err := ValidateQuantity(quantity); err != nil {
		return err
	}
	if err := ValidateUnitCost(unitCost); err != nil {
		return err
	}

	// (oldQty*oldCost + qty*cost) / (oldQty + qty)
	if b.Quantity.IsZero() {
		b.AverageCost = unitCost.Round(4)
	} else {
		total := b.Quantity.Mul(b.AverageCost).Add(quantity.Mul(unitCost))
		b.AverageCost = total.Div(b.Quantity.Add(quantity)).Round(4)
	}
	b.Quantity = b.Quantity.Add(quantity)
	b.Touch()
	return nil
}

// Decrease removes stock, refusing to go below zero
func (b *StockBalance) Decrease(quantity decimal.Decimal) error {
	if err := ValidateQuantity(quantity); err != nil {
		return err
	}
	if !b.CanFulfill(quantity) {
		return shared.ErrInsufficientStock
	}
	b.Quantity = b.Quantity.Sub(quantity)
	b.Touch()
	return nil
}

// CanFulfill reports whether quantity is available
func (b *StockBalance) CanFulfill(quantity decimal.Decimal) bool {
	return b.Quantity.GreaterThanOrEqual(quantity)
}

// TotalValue returns quantity times average cost
func (b *StockBalance) TotalValue() decimal.Decimal {
	return b.Quantity.Mul(b.AverageCost).Round(4)
}
