// Package settings holds the singleton company configuration and tax rates.
package settings

import (
	"net/mail"
	"strings"

	"github.com/erp/backoffice/internal/domain/shared"
)

// CompanySettingKey is the fixed singleton key; a unique index on it
// keeps the table at one row.
const CompanySettingKey = "default"

// CompanySetting is the single-row company configuration
type CompanySetting struct {
	shared.BaseEntity
	SingletonKey         string `gorm:"type:varchar(20);not null;uniqueIndex" json:"-"`
	CompanyName          string `gorm:"type:varchar(150);not null" json:"company_name"`
	Email                string `gorm:"type:varchar(255)" json:"email"`
	Phone                string `gorm:"type:varchar(30)" json:"phone"`
	Address              string `gorm:"type:text" json:"address"`
	Currency             string `gorm:"type:varchar(3);not null;default:'BDT'" json:"currency"`
	FiscalYearStartMonth int    `gorm:"not null;default:7" json:"fiscal_year_start_month"`
	LogoKey              string `gorm:"type:varchar(255)" json:"logo_key"`
}

// TableName returns the table name for GORM
func (CompanySetting) TableName() string {
	return "company_settings"
}

// DefaultCompanySetting returns the row created on first read
func DefaultCompanySetting() *CompanySetting {
	return &CompanySetting{
		BaseEntity:           shared.NewBaseEntity(),
		SingletonKey:         CompanySettingKey,
		CompanyName:          "My Company",
		Currency:             "BDT",
		FiscalYearStartMonth: 7,
	}
}

// CompanyDetails holds the editable company fields
type CompanyDetails struct {
	CompanyName          string
	Email                string
	Phone                string
	Address              string
	Currency             string
	FiscalYearStartMonth int
}

// Update validates and replaces the editable fields
func (c *CompanySetting) Update(d CompanyDetails) error {
	name := strings.TrimSpace(d.CompanyName)
	if name == "" || len(name) > 150 {
		return shared.NewDomainError("INVALID_NAME", "Company name must be 1-150 characters")
	}
	email := strings.TrimSpace(d.Email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return shared.NewDomainError("INVALID_EMAIL", "Email address is not valid")
		}
	}
	currency := strings.ToUpper(strings.TrimSpace(d.Currency))
	if len(currency) != 3 {
		return shared.NewDomainError("INVALID_CURRENCY", "Currency must be a 3-letter code")
	}
	if d.FiscalYearStartMonth < 1 || d.FiscalYearStartMonth > 12 {
		return shared.NewDomainError("INVALID_MONTH", "Fiscal year start month must be between 1 and 12")
	}
	c.CompanyName = name
	c.Email = email
	c.Phone = strings.TrimSpace(d.Phone)
	c.Address = strings.TrimSpace(d.Address)
	c.Currency = currency
	c.FiscalYearStartMonth = d.FiscalYearStartMonth
	c.Touch()
	return nil
}

// SetLogo records the object storage key of the company logo
func (c *CompanySetting) SetLogo(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return shared.NewDomainError("INVALID_LOGO", "Logo storage key is required")
	}
	c.LogoKey = key
	c.Touch()
	return nil
}
