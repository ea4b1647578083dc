package settings

import (
	"strings"

	"github.com/erp/backoffice/internal/domain/ledger"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// TaxSetting is a tax rate posted to a liability account
type TaxSetting struct {
	shared.BaseEntity
	Name        string          `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Rate        decimal.Decimal `gorm:"type:decimal(7,4);not null" json:"rate"`
	AccountID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"account_id"`
	Description string          `gorm:"type:text" json:"description"`
	IsActive    bool            `gorm:"not null" json:"is_active"`
}

// TableName returns the table name for GORM
func (TaxSetting) TableName() string {
	return "tax_settings"
}

// TaxDetails holds the editable tax fields
type TaxDetails struct {
	Name        string
	Rate        decimal.Decimal
	AccountID   uuid.UUID
	Description string
	IsActive    bool
}

// NewTaxSetting creates a validated tax setting. accountType is the type of the
// referenced account and must be liability.
func NewTaxSetting(d TaxDetails, accountType ledger.AccountType) (*TaxSetting, error) {
	t := &TaxSetting{BaseEntity: shared.NewBaseEntity()}
	if err := t.apply(d, accountType); err != nil {
		return nil, err
	}
	return t, nil
}

// Update replaces the editable fields
func (t *TaxSetting) Update(d TaxDetails, accountType ledger.AccountType) error {
	if err := t.apply(d, accountType); err != nil {
		return err
	}
	t.Touch()
	return nil
}

func (t *TaxSetting) apply(d TaxDetails, accountType ledger.AccountType) error {
	name := strings.TrimSpace(d.Name)
	if name == "" || len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Tax name must be 1-100 characters")
	}
	if d.Rate.IsNegative() || d.Rate.GreaterThan(hundred) {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 100")
	}
	if d.AccountID == uuid.Nil {
		return shared.NewDomainError("INVALID_ACCOUNT", "Tax account is required")
	}
	if accountType != ledger.AccountTypeLiability {
		return shared.NewDomainError("TAX_ACCOUNT_NOT_LIABILITY", "Tax account must be a liability account")
	}
	t.Name = name
	t.Rate = d.Rate.Round(4)
	t.AccountID = d.AccountID
	t.Description = strings.TrimSpace(d.Description)
	t.IsActive = d.IsActive
	return nil
}

// Amount computes the tax on a base amount
func (t *TaxSetting) Amount(base decimal.Decimal) decimal.Decimal {
	return base.Mul(t.Rate).Div(hundred).Round(2)
}
