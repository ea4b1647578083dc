package stock

import (
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferResult is the pair of movements produced by a transfer
type TransferResult struct {
	Reference string
	Out       *StockMovement
	In        *StockMovement
}

// Transfer moves quantity from one balance to another of the same product.
// Source quantity is checked before either balance changes, so a rejected
// transfer leaves both untouched. The destination takes the source's
// average cost into its moving average.
func Transfer(from, to *StockBalance, quantity decimal.Decimal, date time.Time, notes string, actorID uuid.UUID) (*TransferResult, error) {
	if err := ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	if from.ProductID != to.ProductID {
		return nil, shared.NewDomainError("PRODUCT_MISMATCH", "Transfer balances must be for the same product")
	}
	if from.WarehouseID == to.WarehouseID {
		return nil, shared.NewDomainError("SAME_WAREHOUSE", "Source and destination warehouses must differ")
	}
	if !from.CanFulfill(quantity) {
		return nil, shared.ErrInsufficientStock
	}

	cost := from.AverageCost
	fromBefore, toBefore := from.Quantity, to.Quantity
	if err := from.Decrease(quantity); err != nil {
		return nil, err
	}
	if err := to.Increase(quantity, cost); err != nil {
		return nil, err
	}

	ref := NewReference(PrefixTransfer, date)
	out, err := Record(from, MovementTransferOut, quantity, cost, fromBefore, ref+SuffixOut, date, notes, actorID)
	if err != nil {
		return nil, err
	}
	in, err := Record(to, MovementTransferIn, quantity, cost, toBefore, ref+SuffixIn, date, notes, actorID)
	if err != nil {
		return nil, err
	}
	return &TransferResult{Reference: ref, Out: out, In: in}, nil
}
