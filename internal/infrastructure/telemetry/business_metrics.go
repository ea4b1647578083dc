package telemetry

import (
	"context"
	"errors"

	"github.com/erp/backoffice/internal/domain/stock"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when BusinessMetrics is built without a meter
var ErrMeterNil = errors.New("meter cannot be nil")

// BusinessMetrics counts back-office activity: posted journal entries and
// stock movements. It satisfies the metrics hooks of the ledger and stock services.
type BusinessMetrics struct {
	journalPosted       metric.Int64Counter
	journalPostedAmount metric.Float64Counter
	stockMovements      metric.Int64Counter
	stockQuantity       metric.Float64Counter
}

// NewBusinessMetrics registers the business instruments on meter
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	bm := &BusinessMetrics{}
	var err error

	bm.journalPosted, err = meter.Int64Counter("erp_journal_posted_total",
		metric.WithDescription("Total number of journal entries posted"),
		metric.WithUnit("{entries}"))
	if err != nil {
		return nil, err
	}
	bm.journalPostedAmount, err = meter.Float64Counter("erp_journal_posted_amount_total",
		metric.WithDescription("Sum of debit totals of posted journal entries"),
		metric.WithUnit("{currency}"))
	if err != nil {
		return nil, err
	}
	bm.stockMovements, err = meter.Int64Counter("erp_stock_movement_total",
		metric.WithDescription("Total number of stock movement operations"),
		metric.WithUnit("{movements}"))
	if err != nil {
		return nil, err
	}
	bm.stockQuantity, err = meter.Float64Counter("erp_stock_movement_quantity_total",
		metric.WithDescription("Quantity moved by stock operations"),
		metric.WithUnit("{units}"))
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// RecordJournalPosted counts one posted entry and its amount
func (bm *BusinessMetrics) RecordJournalPosted(ctx context.Context, amount decimal.Decimal) {
	bm.journalPosted.Add(ctx, 1)
	bm.journalPostedAmount.Add(ctx, amount.InexactFloat64())
}

// RecordStockMovement counts one stock operation by movement type
func (bm *BusinessMetrics) RecordStockMovement(ctx context.Context, movementType stock.MovementType, quantity decimal.Decimal) {
	attrs := metric.WithAttributes(attribute.String("movement_type", string(movementType)))
	bm.stockMovements.Add(ctx, 1, attrs)
	bm.stockQuantity.Add(ctx, quantity.Abs().InexactFloat64(), attrs)
}
