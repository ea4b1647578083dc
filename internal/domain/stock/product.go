// Package stock models products, warehouses and the per-warehouse quantity ledger.
package stock

import (
	"strings"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// Product is a stocked item
type Product struct {
	shared.BaseEntity
	SKU          string     `gorm:"column:sku;type:varchar(50);not null;uniqueIndex" json:"sku"`
	Name         string     `gorm:"type:varchar(200);not null" json:"name"`
	Unit         string     `gorm:"type:varchar(20);not null;default:'pcs'" json:"unit"`
	TaxSettingID *uuid.UUID `gorm:"type:uuid;index" json:"tax_setting_id,omitempty"`
	IsActive     bool       `gorm:"not null" json:"is_active"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// ProductDetails holds the editable fields of a product
type ProductDetails struct {
	SKU          string
	Name         string
	Unit         string
	TaxSettingID *uuid.UUID
	IsActive     bool
}

// NewProduct creates a validated product
func NewProduct(d ProductDetails) (*Product, error) {
	p := &Product{BaseEntity: shared.NewBaseEntity()}
	if err := p.apply(d); err != nil {
		return nil, err
	}
	return p, nil
}

// Update replaces the editable fields
func (p *Product) Update(d ProductDetails) error {
	if err := p.apply(d); err != nil {
		return err
	}
	p.Touch()
	return nil
}

func (p *Product) apply(d ProductDetails) error {
	sku := strings.ToUpper(strings.TrimSpace(d.SKU))
	if sku == "" || len(sku) > 50 {
		return shared.NewDomainError("INVALID_SKU", "SKU must be 1-50 characters")
	}
	name := strings.TrimSpace(d.Name)
	if name == "" || len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name must be 1-200 characters")
	}
	unit := strings.TrimSpace(d.Unit)
	if unit == "" {
		unit = "pcs"
	}
	p.SKU = sku
	p.Name = name
	p.Unit = unit
	p.TaxSettingID = d.TaxSettingID
	p.IsActive = d.IsActive
	return nil
}
