package persistence

import (
	"context"

	"github.com/erp/backoffice/internal/domain/organization"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDepartmentRepository implements organization.DepartmentRepository
type GormDepartmentRepository struct {
	db *gorm.DB
}

// NewGormDepartmentRepository creates a new GormDepartmentRepository
func NewGormDepartmentRepository(db *gorm.DB) *GormDepartmentRepository {
	return &GormDepartmentRepository{db: db}
}

// FindByID finds a department by ID
func (r *GormDepartmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*organization.Department, error) {
	var d organization.Department
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&d).Error; err != nil {
		return nil, translateError(err)
	}
	return &d, nil
}

// FindAll lists departments
func (r *GormDepartmentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]organization.Department, int64, error) {
	query := searchLike(r.db.WithContext(ctx).Model(&organization.Department{}), filter.Search, "name")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []organization.Department
	if err := paginate(query, filter, DepartmentSortFields, "name").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ExistsByName checks department name uniqueness
func (r *GormDepartmentRepository) ExistsByName(ctx context.Context, name string, exclude uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&organization.Department{}).Where("LOWER(name) = LOWER(?)", name)
	if err := excludeID(query, exclude).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a department
func (r *GormDepartmentRepository) Save(ctx context.Context, d *organization.Department) error {
	return r.db.WithContext(ctx).Save(d).Error
}

// Delete removes a department
func (r *GormDepartmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&organization.Department{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormDesignationRepository implements organization.DesignationRepository
type GormDesignationRepository struct {
	db *gorm.DB
}

// NewGormDesignationRepository creates a new GormDesignationRepository
func NewGormDesignationRepository(db *gorm.DB) *GormDesignationRepository {
	return &GormDesignationRepository{db: db}
}

// FindByID finds a designation by ID
func (r *GormDesignationRepository) FindByID(ctx context.Context, id uuid.UUID) (*organization.Designation, error) {
	var d organization.Designation
	if err := r.db.WithContext(ctx).Preload("Department").Where("id = ?", id).First(&d).Error; err != nil {
		return nil, translateError(err)
	}
	return &d, nil
}

// FindAll lists designations; Filters accepts department_id
func (r *GormDesignationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]organization.Designation, int64, error) {
	query := searchLike(r.db.WithContext(ctx).Model(&organization.Designation{}), filter.Search, "name")
	if v, ok := filter.Filters["department_id"]; ok {
		query = query.Where("department_id = ?", v)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []organization.Designation
	if err := paginate(query.Preload("Department"), filter, DesignationSortFields, "name").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// FindByDepartment returns a department's designations ordered by name
func (r *GormDesignationRepository) FindByDepartment(ctx context.Context, departmentID uuid.UUID) ([]organization.Designation, error) {
	var items []organization.Designation
	err := r.db.WithContext(ctx).Where("department_id = ?", departmentID).Order("name ASC").Find(&items).Error
	return items, err
}

// ExistsByName checks name uniqueness within a department
func (r *GormDesignationRepository) ExistsByName(ctx context.Context, departmentID uuid.UUID, name string, exclude uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&organization.Designation{}).
		Where("department_id = ? AND LOWER(name) = LOWER(?)", departmentID, name)
	if err := excludeID(query, exclude).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a designation
func (r *GormDesignationRepository) Save(ctx context.Context, d *organization.Designation) error {
	return r.db.WithContext(ctx).Omit("Department").Save(d).Error
}

// Delete removes a designation
func (r *GormDesignationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&organization.Designation{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountByDepartment counts designations in a department
func (r *GormDesignationRepository) CountByDepartment(ctx context.Context, departmentID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&organization.Designation{}).Where("department_id = ?", departmentID).Count(&count).Error
	return count, err
}

// GormEmployeeRepository implements organization.EmployeeRepository
type GormEmployeeRepository struct {
	db *gorm.DB
}

// NewGormEmployeeRepository creates a new GormEmployeeRepository
func NewGormEmployeeRepository(db *gorm.DB) *GormEmployeeRepository {
	return &GormEmployeeRepository{db: db}
}

// FindByID finds an employee with designation
func (r *GormEmployeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*organization.Employee, error) {
	var e organization.Employee
	if err := r.db.WithContext(ctx).Preload("Designation").Where("id = ?", id).First(&e).Error; err != nil {
		return nil, translateError(err)
	}
	return &e, nil
}

// FindAll lists employees
func (r *GormEmployeeRepository) FindAll(ctx context.Context, filter organization.EmployeeFilter) ([]organization.Employee, int64, error) {
	query := searchLike(r.db.WithContext(ctx).Model(&organization.Employee{}), filter.Search, "employee_code", "name", "email")
	if filter.DepartmentID != nil {
		query = query.Where("department_id = ?", *filter.DepartmentID)
	}
	if filter.DesignationID != nil {
		query = query.Where("designation_id = ?", *filter.DesignationID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []organization.Employee
	if err := paginate(query.Preload("Designation"), filter.Filter, EmployeeSortFields, "employee_code").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ExistsByCode checks employee code uniqueness
func (r *GormEmployeeRepository) ExistsByCode(ctx context.Context, code string, exclude uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&organization.Employee{}).Where("employee_code = UPPER(?)", code)
	if err := excludeID(query, exclude).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByUser reports whether another employee is linked to the user
func (r *GormEmployeeRepository) ExistsByUser(ctx context.Context, userID uuid.UUID, exclude uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&organization.Employee{}).Where("user_id = ?", userID)
	if err := excludeID(query, exclude).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an employee
func (r *GormEmployeeRepository) Save(ctx context.Context, e *organization.Employee) error {
	return r.db.WithContext(ctx).Omit("Designation").Save(e).Error
}

// Delete removes an employee
func (r *GormEmployeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&organization.Employee{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountByDepartment counts employees in a department
func (r *GormEmployeeRepository) CountByDepartment(ctx context.Context, departmentID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&organization.Employee{}).Where("department_id = ?", departmentID).Count(&count).Error
	return count, err
}

// CountByDesignation counts employees holding a designation
func (r *GormEmployeeRepository) CountByDesignation(ctx context.Context, designationID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&organization.Employee{}).Where("designation_id = ?", designationID).Count(&count).Error
	return count, err
}

var (
	_ organization.DepartmentRepository  = (*GormDepartmentRepository)(nil)
	_ organization.DesignationRepository = (*GormDesignationRepository)(nil)
	_ organization.EmployeeRepository    = (*GormEmployeeRepository)(nil)
)
