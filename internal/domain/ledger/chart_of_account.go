package ledger

import (
	"strings"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// ChartOfAccount is a ledger account that journal items post against.
// Its balance is never stored; see SignedBalance.
type ChartOfAccount struct {
	shared.BaseEntity
	AccountCode string           `gorm:"type:varchar(20);not null;uniqueIndex" json:"account_code"`
	Name        string           `gorm:"type:varchar(150);not null" json:"name"`
	CategoryID  uuid.UUID        `gorm:"type:uuid;not null;index" json:"category_id"`
	Category    *AccountCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Description string           `gorm:"type:text" json:"description"`
	IsActive    bool             `gorm:"not null" json:"is_active"`
}

// TableName returns the table name for GORM
func (ChartOfAccount) TableName() string {
	return "chart_of_accounts"
}

// AccountDetails holds the editable fields of an account
type AccountDetails struct {
	AccountCode string
	Name        string
	CategoryID  uuid.UUID
	Description string
	IsActive    bool
}

// NewChartOfAccount creates a validated account
func NewChartOfAccount(d AccountDetails) (*ChartOfAccount, error) {
	a := &ChartOfAccount{BaseEntity: shared.NewBaseEntity()}
	if err := a.apply(d); err != nil {
		return nil, err
	}
	return a, nil
}

// Update replaces the editable fields
func (a *ChartOfAccount) Update(d AccountDetails) error {
	if err := a.apply(d); err != nil {
		return err
	}
	a.Touch()
	return nil
}

func (a *ChartOfAccount) apply(d AccountDetails) error {
	code := strings.ToUpper(strings.TrimSpace(d.AccountCode))
	if code == "" || len(code) > 20 {
		return shared.NewDomainError("INVALID_ACCOUNT_CODE", "Account code must be 1-20 characters")
	}
	name := strings.TrimSpace(d.Name)
	if name == "" || len(name) > 150 {
		return shared.NewDomainError("INVALID_NAME", "Account name must be 1-150 characters")
	}
	if d.CategoryID == uuid.Nil {
		return shared.NewDomainError("INVALID_CATEGORY", "Account category is required")
	}
	a.AccountCode = code
	a.Name = name
	a.CategoryID = d.CategoryID
	a.Description = strings.TrimSpace(d.Description)
	a.IsActive = d.IsActive
	return nil
}

// Type returns the account type through the loaded category
func (a *ChartOfAccount) Type() AccountType {
	if a.Category == nil {
		return ""
	}
	return a.Category.Type
}
