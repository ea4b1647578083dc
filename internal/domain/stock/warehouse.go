package stock

import (
	"strings"

	"github.com/erp/backoffice/internal/domain/shared"
)

// Warehouse is a physical stock location
type Warehouse struct {
	shared.BaseEntity
	Code     string `gorm:"type:varchar(50);not null;uniqueIndex" json:"code"`
	Name     string `gorm:"type:varchar(100);not null" json:"name"`
	Address  string `gorm:"type:varchar(255)" json:"address"`
	IsActive bool   `gorm:"not null" json:"is_active"`
}

// TableName returns the table name for GORM
func (Warehouse) TableName() string {
	return "warehouses"
}

// NewWarehouse creates a validated warehouse
func NewWarehouse(code, name, address string, active bool) (*Warehouse, error) {
	w := &Warehouse{BaseEntity: shared.NewBaseEntity()}
	if err := w.apply(code, name, address, active); err != nil {
		return nil, err
	}
	return w, nil
}

// Update replaces the editable fields
func (w *Warehouse) Update(code, name, address string, active bool) error {
	if err := w.apply(code, name, address, active); err != nil {
		return err
	}
	w.Touch()
	return nil
}

func (w *Warehouse) apply(code, name, address string, active bool) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Warehouse code must be 1-50 characters")
	}
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Warehouse name must be 1-100 characters")
	}
	w.Code = code
	w.Name = name
	w.Address = strings.TrimSpace(address)
	w.IsActive = active
	return nil
}
