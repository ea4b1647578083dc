package stock_test

import (
	"context"
	"strings"
	"testing"
	"time"

	stockapp "github.com/erp/backoffice/internal/application/stock"
	"github.com/erp/backoffice/internal/domain/audit"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/stock"
	"github.com/erp/backoffice/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testActor = audit.Actor{ID: uuid.New(), Email: "storekeeper@example.com"}

type stockFixture struct {
	db         *testutil.SQLiteDB
	products   *stockapp.ProductService
	warehouses *stockapp.WarehouseService
	stock      *stockapp.StockService
	metrics    *metricsRecorder

	product *stock.Product
	main    *stock.Warehouse
	branch  *stock.Warehouse
}

type metricsRecorder struct {
	movements map[stock.MovementType]decimal.Decimal
}

func (m *metricsRecorder) RecordStockMovement(_ context.Context, t stock.MovementType, q decimal.Decimal) {
	m.movements[t] = m.movements[t].Add(q)
}

func newStockFixture(t *testing.T) *stockFixture {
	t.Helper()
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t)
	log := zap.NewNop()

	f := &stockFixture{
		db:         db,
		products:   stockapp.NewProductService(db.Repos, db.Scope, log),
		warehouses: stockapp.NewWarehouseService(db.Repos, db.Scope, log),
		stock:      stockapp.NewStockService(db.Repos, db.Scope, log),
		metrics:    &metricsRecorder{movements: map[stock.MovementType]decimal.Decimal{}},
	}
	f.stock.SetMetrics(f.metrics)

	var err error
	f.product, err = f.products.Create(ctx, testActor, stock.ProductDetails{SKU: "rice-5kg", Name: "Rice 5kg", Unit: "bag", IsActive: true})
	require.NoError(t, err)
	f.main, err = f.warehouses.Create(ctx, testActor, stockapp.WarehouseInput{Code: "MAIN", Name: "Main Store", IsActive: true})
	require.NoError(t, err)
	f.branch, err = f.warehouses.Create(ctx, testActor, stockapp.WarehouseInput{Code: "BR1", Name: "Branch One", IsActive: true})
	require.NoError(t, err)
	return f
}

func (f *stockFixture) receive(t *testing.T, w *stock.Warehouse, qty, cost int64) {
	t.Helper()
	_, err := f.stock.Receive(context.Background(), testActor, stockapp.ReceiveInput{
		ProductID:   f.product.ID,
		WarehouseID: w.ID,
		Quantity:    decimal.NewFromInt(qty),
		UnitCost:    decimal.NewFromInt(cost),
		Date:        time.Now(),
	})
	require.NoError(t, err)
}

func (f *stockFixture) quantity(t *testing.T, w *stock.Warehouse) decimal.Decimal {
	t.Helper()
	b, err := f.db.Repos.Balances().Find(context.Background(), f.product.ID, w.ID)
	if err != nil {
		require.ErrorIs(t, err, shared.ErrNotFound)
		return decimal.Zero
	}
	return b.Quantity
}

func TestStockService_Transfer(t *testing.T) {
	f := newStockFixture(t)
	ctx := context.Background()
	f.receive(t, f.main, 100, 10)

	result, err := f.stock.Transfer(ctx, testActor, stockapp.TransferInput{
		ProductID:       f.product.ID,
		FromWarehouseID: f.main.ID,
		ToWarehouseID:   f.branch.ID,
		Quantity:        decimal.NewFromInt(30),
		TransferDate:    time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Notes:           "restock branch",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result.Reference, "TRF-20240315-"))
	require.Len(t, result.Movements, 2)
	assert.Equal(t, result.Reference+stock.SuffixOut, result.Movements[0].ReferenceNumber)
	assert.Equal(t, result.Reference+stock.SuffixIn, result.Movements[1].ReferenceNumber)
	assert.Equal(t, stock.MovementTransferOut, result.Movements[0].Type)
	assert.Equal(t, stock.MovementTransferIn, result.Movements[1].Type)

	assert.True(t, f.quantity(t, f.main).Equal(decimal.NewFromInt(70)))
	assert.True(t, f.quantity(t, f.branch).Equal(decimal.NewFromInt(30)))

	total, err := f.stock.GetProductTotal(ctx, f.product.ID)
	require.NoError(t, err)
	assert.True(t, total.Quantity.Equal(decimal.NewFromInt(100)), "transfer must conserve the total")
	assert.Len(t, total.Balances, 2)

	legs, err := f.stock.GetTransfer(ctx, result.Reference+stock.SuffixIn)
	require.NoError(t, err)
	assert.Len(t, legs, 2)

	var entry audit.AuditLog
	require.NoError(t, f.db.DB.Where("action = ?", audit.ActionTransferred).First(&entry).Error)
	assert.Equal(t, result.Reference, entry.NewValues["reference"])
	assert.Equal(t, f.main.ID.String(), entry.NewValues["from_warehouse_id"])

	assert.True(t, f.metrics.movements[stock.MovementTransferOut].Equal(decimal.NewFromInt(30)))
}

func TestStockService_Transfer_InsufficientStock(t *testing.T) {
	f := newStockFixture(t)
	ctx := context.Background()
	f.receive(t, f.main, 10, 5)

	_, err := f.stock.Transfer(ctx, testActor, stockapp.TransferInput{
		ProductID:       f.product.ID,
		FromWarehouseID: f.main.ID,
		ToWarehouseID:   f.branch.ID,
		Quantity:        decimal.NewFromInt(11),
	})
	require.Error(t, err)
	assert.Equal(t, "INSUFFICIENT_STOCK", shared.ErrorCode(err))

	assert.True(t, f.quantity(t, f.main).Equal(decimal.NewFromInt(10)))
	assert.True(t, f.quantity(t, f.branch).IsZero())

	var count int64
	require.NoError(t, f.db.DB.Model(&stock.StockMovement{}).Where("reference_number LIKE ?", "TRF-%").Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, f.db.DB.Model(&stock.StockBalance{}).Where("warehouse_id = ?", f.branch.ID).Count(&count).Error)
	assert.Zero(t, count, "destination row must not be left behind")
}

func TestStockService_Transfer_NoSourceRow(t *testing.T) {
	f := newStockFixture(t)

	_, err := f.stock.Transfer(context.Background(), testActor, stockapp.TransferInput{
		ProductID:       f.product.ID,
		FromWarehouseID: f.branch.ID,
		ToWarehouseID:   f.main.ID,
		Quantity:        decimal.NewFromInt(1),
	})
	assert.Equal(t, "INSUFFICIENT_STOCK", shared.ErrorCode(err))
}

func TestStockService_Transfer_Guards(t *testing.T) {
	f := newStockFixture(t)
	ctx := context.Background()
	f.receive(t, f.main, 10, 5)

	closed, err := f.warehouses.Create(ctx, testActor, stockapp.WarehouseInput{Code: "OLD", Name: "Closed", IsActive: false})
	require.NoError(t, err)

	tests := []struct {
		name  string
		input stockapp.TransferInput
		code  string
	}{
		{"same warehouse", stockapp.TransferInput{ProductID: f.product.ID, FromWarehouseID: f.main.ID, ToWarehouseID: f.main.ID, Quantity: decimal.NewFromInt(1)}, "SAME_WAREHOUSE"},
		{"zero quantity", stockapp.TransferInput{ProductID: f.product.ID, FromWarehouseID: f.main.ID, ToWarehouseID: f.branch.ID}, "INVALID_QUANTITY"},
		{"unknown product", stockapp.TransferInput{ProductID: uuid.New(), FromWarehouseID: f.main.ID, ToWarehouseID: f.branch.ID, Quantity: decimal.NewFromInt(1)}, "PRODUCT_NOT_FOUND"},
		{"unknown warehouse", stockapp.TransferInput{ProductID: f.product.ID, FromWarehouseID: f.main.ID, ToWarehouseID: uuid.New(), Quantity: decimal.NewFromInt(1)}, "WAREHOUSE_NOT_FOUND"},
		{"inactive warehouse", stockapp.TransferInput{ProductID: f.product.ID, FromWarehouseID: f.main.ID, ToWarehouseID: closed.ID, Quantity: decimal.NewFromInt(1)}, "WAREHOUSE_INACTIVE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.stock.Transfer(ctx, testActor, tt.input)
			assert.Equal(t, tt.code, shared.ErrorCode(err))
		})
	}
	assert.True(t, f.quantity(t, f.main).Equal(decimal.NewFromInt(10)))
}

func TestStockService_ReceiveIssue_AverageCost(t *testing.T) {
	f := newStockFixture(t)
	ctx := context.Background()
	f.receive(t, f.main, 10, 100)
	f.receive(t, f.main, 10, 200)

	result, err := f.stock.Issue(ctx, testActor, stockapp.IssueInput{
		ProductID:   f.product.ID,
		WarehouseID: f.main.ID,
		Quantity:    decimal.NewFromInt(5),
	})
	require.NoError(t, err)
	assert.True(t, result.Movement.UnitCost.Equal(decimal.NewFromInt(150)))
	assert.True(t, result.Movement.BalanceBefore.Equal(decimal.NewFromInt(20)))
	assert.True(t, result.Movement.BalanceAfter.Equal(decimal.NewFromInt(15)))
	assert.True(t, strings.HasPrefix(result.Movement.ReferenceNumber, stock.PrefixSale+"-"))

	_, err = f.stock.Issue(ctx, testActor, stockapp.IssueInput{
		ProductID:   f.product.ID,
		WarehouseID: f.branch.ID,
		Quantity:    decimal.NewFromInt(1),
	})
	assert.Equal(t, "INSUFFICIENT_STOCK", shared.ErrorCode(err))
}

func TestStockService_Adjust(t *testing.T) {
	f := newStockFixture(t)
	ctx := context.Background()
	f.receive(t, f.main, 10, 10)

	_, err := f.stock.Adjust(ctx, testActor, stockapp.AdjustInput{ProductID: f.product.ID, WarehouseID: f.main.ID, Delta: decimal.NewFromInt(-2)})
	assert.Equal(t, "ADJUSTMENT_REASON_REQUIRED", shared.ErrorCode(err))

	_, err = f.stock.Adjust(ctx, testActor, stockapp.AdjustInput{ProductID: f.product.ID, WarehouseID: f.main.ID, Reason: "count"})
	assert.Equal(t, "INVALID_QUANTITY", shared.ErrorCode(err))

	_, err = f.stock.Adjust(ctx, testActor, stockapp.AdjustInput{ProductID: f.product.ID, WarehouseID: f.main.ID, Delta: decimal.NewFromInt(-11), Reason: "count"})
	assert.Equal(t, "INSUFFICIENT_STOCK", shared.ErrorCode(err))

	result, err := f.stock.Adjust(ctx, testActor, stockapp.AdjustInput{ProductID: f.product.ID, WarehouseID: f.main.ID, Delta: decimal.NewFromInt(-3), Reason: "damaged"})
	require.NoError(t, err)
	assert.Equal(t, stock.MovementAdjustmentOut, result.Movement.Type)
	assert.Equal(t, "damaged", result.Movement.Notes)
	assert.True(t, f.quantity(t, f.main).Equal(decimal.NewFromInt(7)))

	result, err = f.stock.Adjust(ctx, testActor, stockapp.AdjustInput{ProductID: f.product.ID, WarehouseID: f.branch.ID, Delta: decimal.NewFromInt(4), Reason: "found"})
	require.NoError(t, err)
	assert.Equal(t, stock.MovementAdjustmentIn, result.Movement.Type)
	assert.True(t, f.quantity(t, f.branch).Equal(decimal.NewFromInt(4)))

	page, err := f.stock.ListMovements(ctx, stock.MovementFilter{Filter: shared.DefaultFilter(), Type: stock.MovementAdjustmentOut})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
}

func TestStockService_RejectsQuantitiesFinerThanStoredScale(t *testing.T) {
	f := newStockFixture(t)
	ctx := context.Background()
	f.receive(t, f.main, 1, 10)
	tiny := decimal.RequireFromString("0.00005")

	_, err := f.stock.Transfer(ctx, testActor, stockapp.TransferInput{
		ProductID: f.product.ID, FromWarehouseID: f.main.ID, ToWarehouseID: f.branch.ID, Quantity: tiny,
	})
	assert.Equal(t, "INVALID_QUANTITY", shared.ErrorCode(err))

	_, err = f.stock.Receive(ctx, testActor, stockapp.ReceiveInput{
		ProductID: f.product.ID, WarehouseID: f.main.ID, Quantity: tiny, UnitCost: decimal.NewFromInt(1),
	})
	assert.Equal(t, "INVALID_QUANTITY", shared.ErrorCode(err))

	_, err = f.stock.Receive(ctx, testActor, stockapp.ReceiveInput{
		ProductID: f.product.ID, WarehouseID: f.main.ID, Quantity: decimal.NewFromInt(1), UnitCost: decimal.RequireFromString("9.99999"),
	})
	assert.Equal(t, "INVALID_COST", shared.ErrorCode(err))

	_, err = f.stock.Issue(ctx, testActor, stockapp.IssueInput{ProductID: f.product.ID, WarehouseID: f.main.ID, Quantity: tiny})
	assert.Equal(t, "INVALID_QUANTITY", shared.ErrorCode(err))

	_, err = f.stock.Adjust(ctx, testActor, stockapp.AdjustInput{
		ProductID: f.product.ID, WarehouseID: f.main.ID, Delta: tiny.Neg(), Reason: "rounding",
	})
	assert.Equal(t, "INVALID_QUANTITY", shared.ErrorCode(err))

	total, err := f.stock.GetProductTotal(ctx, f.product.ID)
	require.NoError(t, err)
	assert.True(t, total.Quantity.Equal(decimal.NewFromInt(1)), "got %s", total.Quantity)
	assert.True(t, f.quantity(t, f.branch).IsZero())
}

func TestStockService_TransferReferencesAreReserved(t *testing.T) {
	f := newStockFixture(t)
	ctx := context.Background()
	f.receive(t, f.main, 20, 10)

	for _, ref := range []string{"TRF-20240101-ABCDEF12-X", "trf-20240101-abcdef12", "ADJ-20240101-00000001"} {
		_, err := f.stock.Receive(ctx, testActor, stockapp.ReceiveInput{
			ProductID: f.product.ID, WarehouseID: f.main.ID, Quantity: decimal.NewFromInt(1), UnitCost: decimal.NewFromInt(1), Reference: ref,
		})
		assert.Equal(t, "INVALID_REFERENCE", shared.ErrorCode(err), ref)
		_, err = f.stock.Issue(ctx, testActor, stockapp.IssueInput{
			ProductID: f.product.ID, WarehouseID: f.main.ID, Quantity: decimal.NewFromInt(1), Reference: ref,
		})
		assert.Equal(t, "INVALID_REFERENCE", shared.ErrorCode(err), ref)
	}

	result, err := f.stock.Transfer(ctx, testActor, stockapp.TransferInput{
		ProductID: f.product.ID, FromWarehouseID: f.main.ID, ToWarehouseID: f.branch.ID, Quantity: decimal.NewFromInt(5),
	})
	require.NoError(t, err)

	// a row written before references were reserved
	require.NoError(t, f.db.DB.Create(&stock.StockMovement{
		ID:              uuid.New(),
		ProductID:       f.product.ID,
		WarehouseID:     f.main.ID,
		Type:            stock.MovementPurchase,
		Quantity:        decimal.NewFromInt(1),
		BalanceBefore:   decimal.Zero,
		BalanceAfter:    decimal.NewFromInt(1),
		ReferenceNumber: result.Reference + "-X",
		MovementDate:    time.Now(),
		CreatedAt:       time.Now(),
	}).Error)

	legs, err := f.stock.GetTransfer(ctx, result.Reference)
	require.NoError(t, err)
	require.Len(t, legs, 2)
	for _, leg := range legs {
		assert.NotEqual(t, stock.MovementPurchase, leg.Type)
	}
}

func TestStockService_GetTransfer_NotFound(t *testing.T) {
	f := newStockFixture(t)
	ctx := context.Background()

	_, err := f.stock.GetTransfer(ctx, "TRF-20240101-DEADBEEF")
	assert.Equal(t, "TRANSFER_NOT_FOUND", shared.ErrorCode(err))
	_, err = f.stock.GetTransfer(ctx, "PUR-20240101-DEADBEEF")
	assert.Equal(t, "TRANSFER_NOT_FOUND", shared.ErrorCode(err))
}

func TestWarehouseService_Delete_Guards(t *testing.T) {
	f := newStockFixture(t)
	ctx := context.Background()
	f.receive(t, f.main, 1, 1)

	err := f.warehouses.Delete(ctx, testActor, f.main.ID)
	assert.Equal(t, "WAREHOUSE_HAS_MOVEMENTS", shared.ErrorCode(err))

	require.NoError(t, f.warehouses.Delete(ctx, testActor, f.branch.ID))
	_, err = f.warehouses.Get(ctx, f.branch.ID)
	assert.Equal(t, "WAREHOUSE_NOT_FOUND", shared.ErrorCode(err))
}

func TestProductService_Guards(t *testing.T) {
	f := newStockFixture(t)
	ctx := context.Background()

	_, err := f.products.Create(ctx, testActor, stock.ProductDetails{SKU: "RICE-5KG", Name: "Duplicate", Unit: "bag"})
	assert.Equal(t, "PRODUCT_SKU_EXISTS", shared.ErrorCode(err))

	missing := uuid.New()
	_, err = f.products.Create(ctx, testActor, stock.ProductDetails{SKU: "OIL-1L", Name: "Oil", Unit: "bottle", TaxSettingID: &missing})
	assert.Equal(t, "TAX_SETTING_NOT_FOUND", shared.ErrorCode(err))

	f.receive(t, f.main, 1, 1)
	err = f.products.Delete(ctx, testActor, f.product.ID)
	assert.Equal(t, "PRODUCT_HAS_MOVEMENTS", shared.ErrorCode(err))
}
