package organization

import (
	"strings"
	"time"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// Employee is a staff member, optionally linked to a login account
type Employee struct {
	shared.BaseEntity
	EmployeeCode  string       `gorm:"type:varchar(30);not null;uniqueIndex" json:"employee_code"`
	Name          string       `gorm:"type:varchar(100);not null" json:"name"`
	Email         string       `gorm:"type:varchar(200)" json:"email"`
	DepartmentID  uuid.UUID    `gorm:"type:uuid;not null;index" json:"department_id"`
	DesignationID uuid.UUID    `gorm:"type:uuid;not null;index" json:"designation_id"`
	Designation   *Designation `gorm:"foreignKey:DesignationID" json:"designation,omitempty"`
	UserID        *uuid.UUID   `gorm:"type:uuid;uniqueIndex" json:"user_id,omitempty"`
	JoinedAt      *time.Time   `gorm:"type:date" json:"joined_at,omitempty"`
	IsActive      bool         `gorm:"not null" json:"is_active"`
}

// TableName returns the table name for GORM
func (Employee) TableName() string {
	return "employees"
}

// EmployeeDetails holds the editable employee fields
type EmployeeDetails struct {
	EmployeeCode string
	Name         string
	Email        string
	UserID       *uuid.UUID
	JoinedAt     *time.Time
	IsActive     bool
}

// NewEmployee creates an employee placed under the given designation
func NewEmployee(d EmployeeDetails, designation *Designation) (*Employee, error) {
	e := &Employee{BaseEntity: shared.NewBaseEntity()}
	if err := e.apply(d, designation); err != nil {
		return nil, err
	}
	return e, nil
}

// Update replaces the editable fields
func (e *Employee) Update(d EmployeeDetails, designation *Designation) error {
	if err := e.apply(d, designation); err != nil {
		return err
	}
	e.Touch()
	return nil
}

func (e *Employee) apply(d EmployeeDetails, designation *Designation) error {
	code := strings.ToUpper(strings.TrimSpace(d.EmployeeCode))
	if code == "" || len(code) > 30 {
		return shared.NewDomainError("INVALID_CODE", "Employee code must be 1-30 characters")
	}
	name := strings.TrimSpace(d.Name)
	if name == "" || len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Employee name must be 1-100 characters")
	}
	if designation == nil {
		return shared.NewDomainError("INVALID_DESIGNATION", "Designation is required")
	}
	if d.UserID != nil && *d.UserID == uuid.Nil {
		d.UserID = nil
	}
	e.EmployeeCode = code
	e.Name = name
	e.Email = strings.ToLower(strings.TrimSpace(d.Email))
	e.DepartmentID = designation.DepartmentID
	e.DesignationID = designation.ID
	e.UserID = d.UserID
	e.JoinedAt = d.JoinedAt
	e.IsActive = d.IsActive
	return nil
}
