package organization

import (
	"context"
	"time"

	"github.com/erp/backoffice/internal/application/scope"
	"github.com/erp/backoffice/internal/domain/audit"
	"github.com/erp/backoffice/internal/domain/organization"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EmployeeInput holds the editable employee fields
type EmployeeInput struct {
	EmployeeCode  string
	Name          string
	Email         string
	DepartmentID  uuid.UUID
	DesignationID uuid.UUID
	UserID        *uuid.UUID
	JoinedAt      *time.Time
	IsActive      bool
}

func (in EmployeeInput) details() organization.EmployeeDetails {
	return organization.EmployeeDetails{
		EmployeeCode: in.EmployeeCode,
		Name:         in.Name,
		Email:        in.Email,
		UserID:       in.UserID,
		JoinedAt:     in.JoinedAt,
		IsActive:     in.IsActive,
	}
}

// EmployeeService manages employees
type EmployeeService struct {
	repos  scope.Repositories
	tx     scope.TransactionScope
	logger *zap.Logger
}

// NewEmployeeService creates a new EmployeeService
func NewEmployeeService(repos scope.Repositories, tx scope.TransactionScope, logger *zap.Logger) *EmployeeService {
	return &EmployeeService{repos: repos, tx: tx, logger: logger}
}

// List returns a page of employees
func (s *EmployeeService) List(ctx context.Context, filter organization.EmployeeFilter) (shared.Paginated[organization.Employee], error) {
	filter.Filter = filter.Filter.Normalize()
	items, total, err := s.repos.Employees().FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[organization.Employee]{}, err
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Get returns one employee
func (s *EmployeeService) Get(ctx context.Context, id uuid.UUID) (*organization.Employee, error) {
	e, err := s.repos.Employees().FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "EMPLOYEE_NOT_FOUND", "Employee not found")
	}
	return e, nil
}

// Create adds an employee under a designation of the chosen department
func (s *EmployeeService) Create(ctx context.Context, actor audit.Actor, input EmployeeInput) (*organization.Employee, error) {
	var e *organization.Employee
	err := s.tx.Execute(ctx, func(repos scope.Repositories) error {
		designation, err := resolveDesignation(ctx, repos, input)
		if err != nil {
			return err
		}
		e, err = organization.NewEmployee(input.details(), designation)
		if err != nil {
			return err
		}
		if err := s.checkEmployee(ctx, repos, e); err != nil {
			return err
		}
		if err := repos.Employees().Save(ctx, e); err != nil {
			return err
		}
		return repos.Audit().Record(ctx, audit.Created(actor, audit.SubjectEmployee, e.ID, e))
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Employee created",
		zap.String("employee_id", e.ID.String()),
		zap.String("employee_code", e.EmployeeCode))
	return e, nil
}

// Update edits an employee
func (s *EmployeeService) Update(ctx context.Context, actor audit.Actor, id uuid.UUID, input EmployeeInput) (*organization.Employee, error) {
	var e *organization.Employee
	err := s.tx.Execute(ctx, func(repos scope.Repositories) error {
		var err error
		e, err = repos.Employees().FindByID(ctx, id)
		if err != nil {
			return notFound(err, "EMPLOYEE_NOT_FOUND", "Employee not found")
		}
		e.Designation = nil
		before := *e

		designation, err := resolveDesignation(ctx, repos, input)
		if err != nil {
			return err
		}
		if err := e.Update(input.details(), designation); err != nil {
			return err
		}
		if err := s.checkEmployee(ctx, repos, e); err != nil {
			return err
		}
		if err := repos.Employees().Save(ctx, e); err != nil {
			return err
		}
		return repos.Audit().Record(ctx, audit.Updated(actor, audit.SubjectEmployee, e.ID, before, e))
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Delete removes an employee
func (s *EmployeeService) Delete(ctx context.Context, actor audit.Actor, id uuid.UUID) error {
	err := s.tx.Execute(ctx, func(repos scope.Repositories) error {
		e, err := repos.Employees().FindByID(ctx, id)
		if err != nil {
			return notFound(err, "EMPLOYEE_NOT_FOUND", "Employee not found")
		}
		if err := repos.Employees().Delete(ctx, id); err != nil {
			return err
		}
		e.Designation = nil
		return repos.Audit().Record(ctx, audit.Deleted(actor, audit.SubjectEmployee, id, e))
	})
	if err != nil {
		return err
	}
	s.logger.Info("Employee deleted", zap.String("employee_id", id.String()))
	return nil
}

// resolveDesignation loads the designation and checks it belongs to the chosen department
func resolveDesignation(ctx context.Context, repos scope.Repositories, input EmployeeInput) (*organization.Designation, error) {
	designation, err := repos.Designations().FindByID(ctx, input.DesignationID)
	if err != nil {
		return nil, notFound(err, "DESIGNATION_NOT_FOUND", "Designation not found")
	}
	if input.DepartmentID != uuid.Nil && designation.DepartmentID != input.DepartmentID {
		return nil, shared.NewDomainError("DESIGNATION_DEPARTMENT_MISMATCH", "Designation does not belong to the selected department")
	}
	return designation, nil
}

func (s *EmployeeService) checkEmployee(ctx context.Context, repos scope.Repositories, e *organization.Employee) error {
	exists, err := repos.Employees().ExistsByCode(ctx, e.EmployeeCode, e.ID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("EMPLOYEE_CODE_EXISTS", "Employee code already exists")
	}
	if e.UserID == nil {
		return nil
	}
	if _, err := repos.Users().FindByID(ctx, *e.UserID); err != nil {
		return notFound(err, "USER_NOT_FOUND", "User not found")
	}
	linked, err := repos.Employees().ExistsByUser(ctx, *e.UserID, e.ID)
	if err != nil {
		return err
	}
	if linked {
		s.logger.Warn("Employee user link rejected", zap.String("user_id", e.UserID.String()))
		return shared.NewDomainError("USER_ALREADY_LINKED", "User is already linked to another employee")
	}
	return nil
}
