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

// DesignationInput holds the editable designation fields
type DesignationInput struct {
	DepartmentID uuid.UUID
	Name         string
	Description  string
}

// DesignationService manages designations
type DesignationService struct {
	repos  scope.Repositories
	tx     scope.TransactionScope
	logger *zap.Logger
}

// NewDesignationService creates a new DesignationService
func NewDesignationService(repos scope.Repositories, tx scope.TransactionScope, logger *zap.Logger) *DesignationService {
	return &DesignationService{repos: repos, tx: tx, logger: logger}
}

// List returns a page of designations with their departments
func (s *DesignationService) List(ctx context.Context, filter shared.Filter) (shared.Paginated[organization.Designation], error) {
	filter = filter.Normalize()
	items, total, err := s.repos.Designations().FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[organization.Designation]{}, err
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Get returns one designation
func (s *DesignationService) Get(ctx context.Context, id uuid.UUID) (*organization.Designation, error) {
	d, err := s.repos.Designations().FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "DESIGNATION_NOT_FOUND", "Designation not found")
	}
	return d, nil
}

// ByDepartment lists the designations of one department, for dependent dropdowns
func (s *DesignationService) ByDepartment(ctx context.Context, departmentID uuid.UUID) ([]organization.Designation, error) {
	if _, err := s.repos.Departments().FindByID(ctx, departmentID); err != nil {
		return nil, notFound(err, "DEPARTMENT_NOT_FOUND", "Department not found")
	}
	return s.repos.Designations().FindByDepartment(ctx, departmentID)
}

// Create adds a designation, unique by name within its department
func (s *DesignationService) Create(ctx context.Context, actor audit.Actor, input DesignationInput) (*organization.Designation, error) {
	d, err := organization.NewDesignation(input.DepartmentID, input.Name, input.Description)
	if err != nil {
		return nil, err
	}
	err = s.tx.Execute(ctx, func(repos scope.Repositories) error {
		if err := checkDesignation(ctx, repos, d); err != nil {
			return err
		}
		if err := repos.Designations().Save(ctx, d); err != nil {
			return err
		}
		return repos.Audit().Record(ctx, audit.Created(actor, audit.SubjectDesignation, d.ID, d))
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Designation created",
		zap.String("designation_id", d.ID.String()),
		zap.String("department_id", d.DepartmentID.String()))
	return d, nil
}

// Update edits a designation. Moving it to another department is refused
// while employees hold it, since they would end up outside their department.
func (s *DesignationService) Update(ctx context.Context, actor audit.Actor, id uuid.UUID, input DesignationInput) (*organization.Designation, error) {
	var d *organization.Designation
	err := s.tx.Execute(ctx, func(repos scope.Repositories) error {
		var err error
		d, err = repos.Designations().FindByID(ctx, id)
		if err != nil {
			return notFound(err, "DESIGNATION_NOT_FOUND", "Designation not found")
		}
		d.Department = nil
		before := *d
		if err := d.Update(input.DepartmentID, input.Name, input.Description); err != nil {
			return err
		}
		if before.DepartmentID != d.DepartmentID {
			count, err := repos.Employees().CountByDesignation(ctx, id)
			if err != nil {
				return err
			}
			if count > 0 {
				s.logger.Warn("Designation move rejected", zap.String("designation_id", id.String()), zap.Int64("employees", count))
				return shared.NewDomainError("DESIGNATION_HAS_EMPLOYEES", "Designation has employees")
			}
		}
		if err := checkDesignation(ctx, repos, d); err != nil {
			return err
		}
		if err := repos.Designations().Save(ctx, d); err != nil {
			return err
		}
		return repos.Audit().Record(ctx, audit.Updated(actor, audit.SubjectDesignation, d.ID, before, d))
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Delete removes a designation no employee holds
func (s *DesignationService) Delete(ctx context.Context, actor audit.Actor, id uuid.UUID) error {
	err := s.tx.Execute(ctx, func(repos scope.Repositories) error {
		d, err := repos.Designations().FindByID(ctx, id)
		if err != nil {
			return notFound(err, "DESIGNATION_NOT_FOUND", "Designation not found")
		}
		count, err := repos.Employees().CountByDesignation(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			s.logger.Warn("Designation delete rejected", zap.String("designation_id", id.String()), zap.Int64("employees", count))
			return shared.NewDomainError("DESIGNATION_HAS_EMPLOYEES", "Designation has employees")
		}
		if err := repos.Designations().Delete(ctx, id); err != nil {
			return err
		}
		d.Department = nil
		return repos.Audit().Record(ctx, audit.Deleted(actor, audit.SubjectDesignation, id, d))
	})
	if err != nil {
		return err
	}
	s.logger.Info("Designation deleted", zap.String("designation_id", id.String()))
	return nil
}

func checkDesignation(ctx context.Context, repos scope.Repositories, d *organization.Designation) error {
	if _, err := repos.Departments().FindByID(ctx, d.DepartmentID); err != nil {
		return notFound(err, "DEPARTMENT_NOT_FOUND", "Department not found")
	}
	exists, err := repos.Designations().ExistsByName(ctx, d.DepartmentID, d.Name, d.ID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("DESIGNATION_NAME_EXISTS", "Designation name already exists in this department")
	}
	return nil
}
