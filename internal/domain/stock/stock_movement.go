package stock

import (
	"strings"
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementType is the kind of quantity change a movement records
type MovementType string

const (
	MovementPurchase      MovementType = "purchase"
	MovementSale          MovementType = "sale"
	MovementTransferIn    MovementType = "transfer_in"
	MovementTransferOut   MovementType = "transfer_out"
	MovementAdjustmentIn  MovementType = "adjustment_in"
	MovementAdjustmentOut MovementType = "adjustment_out"
)

// AllMovementTypes lists every movement type
func AllMovementTypes() []MovementType {
	return []MovementType{
		MovementPurchase,
		MovementSale,
		MovementTransferIn,
		MovementTransferOut,
		MovementAdjustmentIn,
		MovementAdjustmentOut,
	}
}

// IsValid returns true if the movement type is known
func (t MovementType) IsValid() bool {
	switch t {
	case MovementPurchase, MovementSale, MovementTransferIn, MovementTransferOut,
		MovementAdjustmentIn, MovementAdjustmentOut:
		return true
	}
	return false
}

// IsIncrease returns true if the movement adds stock
func (t MovementType) IsIncrease() bool {
	return t == MovementPurchase || t == MovementTransferIn || t == MovementAdjustmentIn
}

// StockMovement is an immutable record of a quantity change
type StockMovement struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	WarehouseID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"warehouse_id"`
	Type            MovementType    `gorm:"type:varchar(30);not null;index" json:"type"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity"`
	UnitCost        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"unit_cost"`
	TotalCost       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"total_cost"`
	BalanceBefore   decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"balance_before"`
	BalanceAfter    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"balance_after"`
	ReferenceNumber string          `gorm:"type:varchar(50);not null;index" json:"reference_number"`
	MovementDate    time.Time       `gorm:"type:date;not null;index" json:"movement_date"`
	Notes           string          `gorm:"type:text" json:"notes"`
	CreatedBy       *uuid.UUID      `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt       time.Time       `gorm:"not null" json:"created_at"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// Record captures how a balance changed as a movement row.
// before is the balance quantity prior to the change.
func Record(b *StockBalance, t MovementType, quantity, unitCost, before decimal.Decimal, reference string, date time.Time, notes string, actorID uuid.UUID) (*StockMovement, error) {
	if !t.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Movement type is not valid")
	}
	if err := ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	if strings.TrimSpace(reference) == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Reference number is required")
	}
	m := &StockMovement{
		ID:              uuid.New(),
		ProductID:       b.ProductID,
		WarehouseID:     b.WarehouseID,
		Type:            t,
		Quantity:        quantity,
		UnitCost:        unitCost,
		TotalCost:       quantity.Mul(unitCost).Round(4),
		BalanceBefore:   before,
		BalanceAfter:    b.Quantity,
		ReferenceNumber: reference,
		MovementDate:    dateOnly(date),
		Notes:           strings.TrimSpace(notes),
		CreatedAt:       time.Now(),
	}
	if actorID != uuid.Nil {
		m.CreatedBy = &actorID
	}
	return m, nil
}

func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		t = time.Now()
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
