package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductRepository implements stock.ProductRepository
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.Product, error) {
	var p stock.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, translateError(err)
	}
	return &p, nil
}

// FindAll lists products; Filters accepts is_active
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]stock.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&stock.Product{})
	query = searchLike(query, filter.Search, "sku", "name")
	if v, ok := filter.Filters["is_active"]; ok {
		query = query.Where("is_active = ?", v)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []stock.Product
	if err := paginate(query, filter, ProductSortFields, "name").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ExistsBySKU checks SKU uniqueness
func (r *GormProductRepository) ExistsBySKU(ctx context.Context, sku string, exclude uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&stock.Product{}).Where("sku = ?", strings.ToUpper(sku))
	if err := excludeID(query, exclude).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, p *stock.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// Delete removes a product
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&stock.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountByTaxSetting counts products using the tax setting
func (r *GormProductRepository) CountByTaxSetting(ctx context.Context, taxSettingID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&stock.Product{}).Where("tax_setting_id = ?", taxSettingID).Count(&count).Error
	return count, err
}

// GormWarehouseRepository implements stock.WarehouseRepository
type GormWarehouseRepository struct {
	db *gorm.DB
}

// NewGormWarehouseRepository creates a new GormWarehouseRepository
func NewGormWarehouseRepository(db *gorm.DB) *GormWarehouseRepository {
	return &GormWarehouseRepository{db: db}
}

// FindByID finds a warehouse by ID
func (r *GormWarehouseRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.Warehouse, error) {
	var w stock.Warehouse
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&w).Error; err != nil {
		return nil, translateError(err)
	}
	return &w, nil
}

// FindAll lists warehouses; Filters accepts is_active
func (r *GormWarehouseRepository) FindAll(ctx context.Context, filter shared.Filter) ([]stock.Warehouse, int64, error) {
	query := r.db.WithContext(ctx).Model(&stock.Warehouse{})
	query = searchLike(query, filter.Search, "code", "name")
	if v, ok := filter.Filters["is_active"]; ok {
		query = query.Where("is_active = ?", v)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []stock.Warehouse
	if err := paginate(query, filter, WarehouseSortFields, "code").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ExistsByCode checks warehouse code uniqueness
func (r *GormWarehouseRepository) ExistsByCode(ctx context.Context, code string, exclude uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&stock.Warehouse{}).Where("code = ?", strings.ToUpper(code))
	if err := excludeID(query, exclude).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a warehouse
func (r *GormWarehouseRepository) Save(ctx context.Context, w *stock.Warehouse) error {
	return r.db.WithContext(ctx).Save(w).Error
}

// Delete removes a warehouse
func (r *GormWarehouseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&stock.Warehouse{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormStockBalanceRepository implements stock.BalanceRepository
type GormStockBalanceRepository struct {
	db *gorm.DB
}

// NewGormStockBalanceRepository creates a new GormStockBalanceRepository
func NewGormStockBalanceRepository(db *gorm.DB) *GormStockBalanceRepository {
	return &GormStockBalanceRepository{db: db}
}

// Find returns the balance row for a product at a warehouse
func (r *GormStockBalanceRepository) Find(ctx context.Context, productID, warehouseID uuid.UUID) (*stock.StockBalance, error) {
	var b stock.StockBalance
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).
		First(&b).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &b, nil
}

// FindForUpdate returns the balance row with a row lock held until the transaction ends
func (r *GormStockBalanceRepository) FindForUpdate(ctx context.Context, productID, warehouseID uuid.UUID) (*stock.StockBalance, error) {
	var b stock.StockBalance
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).
		First(&b).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &b, nil
}

// GetOrCreateForUpdate locks the balance row, inserting an empty one first if needed
func (r *GormStockBalanceRepository) GetOrCreateForUpdate(ctx context.Context, productID, warehouseID uuid.UUID) (*stock.StockBalance, error) {
	b, err := r.FindForUpdate(ctx, productID, warehouseID)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	b, err = stock.NewStockBalance(productID, warehouseID)
	if err != nil {
		return nil, err
	}

	// A concurrent insert of the same pair wins; we then lock its row.
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}, {Name: "warehouse_id"}},
			DoNothing: true,
		}).
		Create(b)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return r.FindForUpdate(ctx, productID, warehouseID)
	}
	return b, nil
}

// SaveWithLock writes quantity and cost only if the row still carries the version
// that was read, then bumps the version.
func (r *GormStockBalanceRepository) SaveWithLock(ctx context.Context, b *stock.StockBalance) error {
	result := r.db.WithContext(ctx).
		Model(&stock.StockBalance{}).
		Where("id = ? AND version = ?", b.ID, b.Version).
		Updates(map[string]interface{}{
			"quantity":     b.Quantity,
			"average_cost": b.AverageCost,
			"version":      b.Version + 1,
			"updated_at":   b.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_FAILED", "Stock balance was modified by another transaction")
	}
	b.IncrementVersion()
	return nil
}

// FindAll lists balances
func (r *GormStockBalanceRepository) FindAll(ctx context.Context, filter stock.BalanceFilter) ([]stock.StockBalance, int64, error) {
	query := r.db.WithContext(ctx).Model(&stock.StockBalance{})
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.WarehouseID != nil {
		query = query.Where("warehouse_id = ?", *filter.WarehouseID)
	}
	if filter.NonZeroOnly {
		query = query.Where("quantity <> 0")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []stock.StockBalance
	if err := paginate(query, filter.Filter, BalanceSortFields, "updated_at").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// SumQuantityByProduct totals on-hand quantity across warehouses
func (r *GormStockBalanceRepository) SumQuantityByProduct(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	var total struct {
		Quantity decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&stock.StockBalance{}).
		Select("COALESCE(SUM(quantity), 0) AS quantity").
		Where("product_id = ?", productID).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total.Quantity, nil
}

// CountNonZeroByWarehouse counts balances holding stock at the warehouse
func (r *GormStockBalanceRepository) CountNonZeroByWarehouse(ctx context.Context, warehouseID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&stock.StockBalance{}).
		Where("warehouse_id = ? AND quantity <> 0", warehouseID).
		Count(&count).Error
	return count, err
}

// GormStockMovementRepository implements stock.MovementRepository
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// Create inserts one movement
func (r *GormStockMovementRepository) Create(ctx context.Context, m *stock.StockMovement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// CreateBatch inserts several movements in one statement
func (r *GormStockMovementRepository) CreateBatch(ctx context.Context, ms []*stock.StockMovement) error {
	if len(ms) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(ms).Error
}

// FindAll lists movements
func (r *GormStockMovementRepository) FindAll(ctx context.Context, filter stock.MovementFilter) ([]stock.StockMovement, int64, error) {
	query := r.db.WithContext(ctx).Model(&stock.StockMovement{})
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.WarehouseID != nil {
		query = query.Where("warehouse_id = ?", *filter.WarehouseID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Reference != "" {
		query = query.Where("reference_number LIKE ?", filter.Reference+"%")
	}
	if filter.From != nil {
		query = query.Where("movement_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("movement_date <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []stock.StockMovement
	if err := paginate(query, filter.Filter, MovementSortFields, "created_at").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// FindByReferencePrefix returns every movement whose reference starts with prefix
func (r *GormStockMovementRepository) FindByReferencePrefix(ctx context.Context, prefix string) ([]stock.StockMovement, error) {
	var items []stock.StockMovement
	err := r.db.WithContext(ctx).
		Where("reference_number LIKE ?", prefix+"%").
		Order("reference_number ASC").
		Find(&items).Error
	return items, err
}

// CountByWarehouse counts movements at a warehouse
func (r *GormStockMovementRepository) CountByWarehouse(ctx context.Context, warehouseID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&stock.StockMovement{}).Where("warehouse_id = ?", warehouseID).Count(&count).Error
	return count, err
}

// CountByProduct counts movements of a product
func (r *GormStockMovementRepository) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&stock.StockMovement{}).Where("product_id = ?", productID).Count(&count).Error
	return count, err
}

var (
	_ stock.ProductRepository   = (*GormProductRepository)(nil)
	_ stock.WarehouseRepository = (*GormWarehouseRepository)(nil)
	_ stock.BalanceRepository   = (*GormStockBalanceRepository)(nil)
	_ stock.MovementRepository  = (*GormStockMovementRepository)(nil)
)
