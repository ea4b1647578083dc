package organization

import (
	"context"

	"github.com/erp/backoffice/internal/application/scope"
	"github.com/erp/backoffice/internal/domain/audit"
	"github.com/erp/backoffice/internal/domain/organization"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DepartmentInput holds the editable department fields
type DepartmentInput struct {
	Name        string
	Description string
}

// DepartmentService manages departments
type DepartmentService struct {
	repos  scope.Repositories
	tx     scope.TransactionScope
	logger *zap.Logger
}

// NewDepartmentService creates a new DepartmentService
func NewDepartmentService(repos scope.Repositories, tx scope.TransactionScope, logger *zap.Logger) *DepartmentService {
	return &DepartmentService{repos: repos, tx: tx, logger: logger}
}

// List returns a page of departments
func (s *DepartmentService) List(ctx context.Context, filter shared.Filter) (shared.Paginated[organization.Department], error) {
	filter = filter.Normalize()
	items, total, err := s.repos.Departments().FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[organization.Department]{}, err
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Get returns one department
func (s *DepartmentService) Get(ctx context.Context, id uuid.UUID) (*organization.Department, error) {
	d, err := s.repos.Departments().FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "DEPARTMENT_NOT_FOUND", "Department not found")
	}
	return d, nil
}

// Create adds a department with a unique name
func (s *DepartmentService) Create(ctx context.Context, actor audit.Actor, input DepartmentInput) (*organization.Department, error) {
	d, err := organization.NewDepartment(input.Name, input.Description)
	if err != nil {
		return nil, err
	}
	err = s.tx.Execute(ctx, func(repos scope.Repositories) error {
		if err := checkDepartmentName(ctx, repos, d); err != nil {
			return err
		}
		if err := repos.Departments().Save(ctx, d); err != nil {
			return err
		}
		return repos.Audit().Record(ctx, audit.Created(actor, audit.SubjectDepartment, d.ID, d))
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Department created", zap.String("department_id", d.ID.String()), zap.String("name", d.Name))
	return d, nil
}

// Update edits a department
func (s *DepartmentService) Update(ctx context.Context, actor audit.Actor, id uuid.UUID, input DepartmentInput) (*organization.Department, error) {
	var d *organization.Department
	err := s.tx.Execute(ctx, func(repos scope.Repositories) error {
		var err error
		d, err = repos.Departments().FindByID(ctx, id)
		if err != nil {
			return notFound(err, "DEPARTMENT_NOT_FOUND", "Department not found")
		}
		before := *d
		if err := d.Update(input.Name, input.Description); err != nil {
			return err
		}
		if err := checkDepartmentName(ctx, repos, d); err != nil {
			return err
		}
		if err := repos.Departments().Save(ctx, d); err != nil {
			return err
		}
		return repos.Audit().Record(ctx, audit.Updated(actor, audit.SubjectDepartment, d.ID, before, d))
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Delete removes a department without designations or employees
func (s *DepartmentService) Delete(ctx context.Context, actor audit.Actor, id uuid.UUID) error {
	err := s.tx.Execute(ctx, func(repos scope.Repositories) error {
		d, err := repos.Departments().FindByID(ctx, id)
		if err != nil {
			return notFound(err, "DEPARTMENT_NOT_FOUND", "Department not found")
		}

		designations, err := repos.Designations().CountByDepartment(ctx, id)
		if err != nil {
			return err
		}
		if designations > 0 {
			s.logger.Warn("Department delete rejected",
				zap.String("department_id", id.String()),
				zap.Int64("designations", designations))
			return shared.NewDomainError("DEPARTMENT_HAS_DESIGNATIONS", "Department has designations")
		}
		employees, err := repos.Employees().CountByDepartment(ctx, id)
		if err != nil {
			return err
		}
		if employees > 0 {
			s.logger.Warn("Department delete rejected",
				zap.String("department_id", id.String()),
				zap.Int64("employees", employees))
			return shared.NewDomainError("DEPARTMENT_HAS_EMPLOYEES", "Department has employees")
		}

		if err := repos.Departments().Delete(ctx, id); err != nil {
			return err
		}
		return repos.Audit().Record(ctx, audit.Deleted(actor, audit.SubjectDepartment, id, d))
	})
	if err != nil {
		return err
	}
	s.logger.Info("Department deleted", zap.String("department_id", id.String()))
	return nil
}

func checkDepartmentName(ctx context.Context, repos scope.Repositories, d *organization.Department) error {
	exists, err := repos.Departments().ExistsByName(ctx, d.Name, d.ID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("DEPARTMENT_NAME_EXISTS", "Department name already exists")
	}
	return nil
}
