package organization

import (
	"context"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// DepartmentRepository persists departments
type DepartmentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Department, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Department, int64, error)
	ExistsByName(ctx context.Context, name string, excludeID uuid.UUID) (bool, error)
	Save(ctx context.Context, d *Department) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// DesignationRepository persists designations
type DesignationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Designation, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Designation, int64, error)
	FindByDepartment(ctx context.Context, departmentID uuid.UUID) ([]Designation, error)
	ExistsByName(ctx context.Context, departmentID uuid.UUID, name string, excludeID uuid.UUID) (bool, error)
	Save(ctx context.Context, d *Designation) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByDepartment(ctx context.Context, departmentID uuid.UUID) (int64, error)
}

// EmployeeFilter narrows an employee listing
type EmployeeFilter struct {
	shared.Filter
	DepartmentID  *uuid.UUID
	DesignationID *uuid.UUID
}

// EmployeeRepository persists employees
type EmployeeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Employee, error)
	FindAll(ctx context.Context, filter EmployeeFilter) ([]Employee, int64, error)
	ExistsByCode(ctx context.Context, code string, excludeID uuid.UUID) (bool, error)
	ExistsByUser(ctx context.Context, userID uuid.UUID, excludeID uuid.UUID) (bool, error)
	Save(ctx context.Context, e *Employee) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByDepartment(ctx context.Context, departmentID uuid.UUID) (int64, error)
	CountByDesignation(ctx context.Context, designationID uuid.UUID) (int64, error)
}
