// Package organization models departments, designations and employees.
package organization

import (
	"strings"

	"github.com/erp/backoffice/internal/domain/shared"
)

// Department is an organizational unit
type Department struct {
	shared.BaseEntity
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}

// TableName returns the table name for GORM
func (Department) TableName() string {
	return "departments"
}

// NewDepartment creates a validated department
func NewDepartment(name, description string) (*Department, error) {
	d := &Department{BaseEntity: shared.NewBaseEntity()}
	if err := d.apply(name, description); err != nil {
		return nil, err
	}
	return d, nil
}

// Update replaces the editable fields
func (d *Department) Update(name, description string) error {
	if err := d.apply(name, description); err != nil {
		return err
	}
	d.Touch()
	return nil
}

func (d *Department) apply(name, description string) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Department name must be 1-100 characters")
	}
	d.Name = name
	d.Description = strings.TrimSpace(description)
	return nil
}
