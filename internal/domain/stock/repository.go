package stock

import (
	"context"
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductRepository persists products
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, int64, error)
	ExistsBySKU(ctx context.Context, sku string, excludeID uuid.UUID) (bool, error)
	Save(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByTaxSetting(ctx context.Context, taxSettingID uuid.UUID) (int64, error)
}

// WarehouseRepository persists warehouses
type WarehouseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Warehouse, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Warehouse, int64, error)
	ExistsByCode(ctx context.Context, code string, excludeID uuid.UUID) (bool, error)
	Save(ctx context.Context, w *Warehouse) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// BalanceFilter narrows a stock balance listing
type BalanceFilter struct {
	shared.Filter
	ProductID   *uuid.UUID
	WarehouseID *uuid.UUID
	NonZeroOnly bool
}

// BalanceRepository persists stock balances
type BalanceRepository interface {
	Find(ctx context.Context, productID, warehouseID uuid.UUID) (*StockBalance, error)
	// FindForUpdate locks the row for the rest of the transaction.
	FindForUpdate(ctx context.Context, productID, warehouseID uuid.UUID) (*StockBalance, error)
	// GetOrCreateForUpdate returns the locked row, inserting an empty one first when missing.
	GetOrCreateForUpdate(ctx context.Context, productID, warehouseID uuid.UUID) (*StockBalance, error)
	// SaveWithLock writes the row only if its version is unchanged since it was read.
	SaveWithLock(ctx context.Context, b *StockBalance) error
	FindAll(ctx context.Context, filter BalanceFilter) ([]StockBalance, int64, error)
	SumQuantityByProduct(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error)
	CountNonZeroByWarehouse(ctx context.Context, warehouseID uuid.UUID) (int64, error)
}

// MovementFilter narrows a movement listing
type MovementFilter struct {
	shared.Filter
	ProductID   *uuid.UUID
	WarehouseID *uuid.UUID
	Type        MovementType
	Reference   string
	From        *time.Time
	To          *time.Time
}

// MovementRepository stores immutable movements
type MovementRepository interface {
	Create(ctx context.Context, m *StockMovement) error
	CreateBatch(ctx context.Context, ms []*StockMovement) error
	FindAll(ctx context.Context, filter MovementFilter) ([]StockMovement, int64, error)
	FindByReferencePrefix(ctx context.Context, prefix string) ([]StockMovement, error)
	CountByWarehouse(ctx context.Context, warehouseID uuid.UUID) (int64, error)
	CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
}
