package ledger

import (
	"strings"

	"github.com/erp/backoffice/internal/domain/shared"
)

// AccountCategory groups chart-of-account rows under one account type
type AccountCategory struct {
	shared.BaseEntity
	Name        string      `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Type        AccountType `gorm:"type:varchar(20);not null;index" json:"type"`
	Description string      `gorm:"type:text" json:"description"`
}

// TableName returns the table name for GORM
func (AccountCategory) TableName() string {
	return "account_categories"
}

// NewAccountCategory creates a validated category
func NewAccountCategory(name string, accountType AccountType, description string) (*AccountCategory, error) {
	c := &AccountCategory{BaseEntity: shared.NewBaseEntity()}
	if err := c.apply(name, accountType, description); err != nil {
		return nil, err
	}
	return c, nil
}

// Update changes the category's editable fields
func (c *AccountCategory) Update(name string, accountType AccountType, description string) error {
	if err := c.apply(name, accountType, description); err != nil {
		return err
	}
	c.Touch()
	return nil
}

func (c *AccountCategory) apply(name string, accountType AccountType, description string) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Category name must be 1-100 characters")
	}
	if !accountType.IsValid() {
		return shared.NewDomainError("INVALID_ACCOUNT_TYPE", "Account type is not valid")
	}
	c.Name = name
	c.Type = accountType
	c.Description = strings.TrimSpace(description)
	return nil
}
