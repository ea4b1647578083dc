package organization

import (
	"strings"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// Designation is a job title within a department
type Designation struct {
	shared.BaseEntity
	DepartmentID uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_designation_department_name,priority:1" json:"department_id"`
	Department   *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Name         string      `gorm:"type:varchar(100);not null;uniqueIndex:idx_designation_department_name,priority:2" json:"name"`
	Description  string      `gorm:"type:text" json:"description"`
}

// TableName returns the table name for GORM
func (Designation) TableName() string {
	return "designations"
}

// NewDesignation creates a validated designation
func NewDesignation(departmentID uuid.UUID, name, description string) (*Designation, error) {
	d := &Designation{BaseEntity: shared.NewBaseEntity()}
	if err := d.apply(departmentID, name, description); err != nil {
		return nil, err
	}
	return d, nil
}

// Update replaces the editable fields
func (d *Designation) Update(departmentID uuid.UUID, name, description string) error {
	if err := d.apply(departmentID, name, description); err != nil {
		return err
	}
	d.Touch()
	return nil
}

func (d *Designation) apply(departmentID uuid.UUID, name, description string) error {
	if departmentID == uuid.Nil {
		return shared.NewDomainError("INVALID_DEPARTMENT", "Department is required")
	}
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Designation name must be 1-100 characters")
	}
	d.DepartmentID = departmentID
	d.Name = name
	d.Description = strings.TrimSpace(description)
	return nil
}
