package organization_test

import (
	"context"
	"testing"

	orgapp "github.com/erp/backoffice/internal/application/organization"
	"github.com/erp/backoffice/internal/domain/audit"
	"github.com/erp/backoffice/internal/domain/identity"
	"github.com/erp/backoffice/internal/domain/organization"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var testActor = audit.Actor{ID: uuid.New(), Email: "hr@example.com"}

type orgFixture struct {
	db           *testutil.SQLiteDB
	departments  *orgapp.DepartmentService
	designations *orgapp.DesignationService
	employees    *orgapp.EmployeeService
}

func newOrgFixture(t *testing.T) *orgFixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	log := zap.NewNop()
	return &orgFixture{
		db:           db,
		departments:  orgapp.NewDepartmentService(db.Repos, db.Scope, log),
		designations: orgapp.NewDesignationService(db.Repos, db.Scope, log),
		employees:    orgapp.NewEmployeeService(db.Repos, db.Scope, log),
	}
}

func (f *orgFixture) department(t *testing.T, name string) *organization.Department {
	t.Helper()
	d, err := f.departments.Create(context.Background(), testActor, orgapp.DepartmentInput{Name: name})
	require.NoError(t, err)
	return d
}

func (f *orgFixture) designation(t *testing.T, dept *organization.Department, name string) *organization.Designation {
	t.Helper()
	d, err := f.designations.Create(context.Background(), testActor, orgapp.DesignationInput{DepartmentID: dept.ID, Name: name})
	require.NoError(t, err)
	return d
}

func (f *orgFixture) employee(t *testing.T, desig *organization.Designation, code string) *organization.Employee {
	t.Helper()
	e, err := f.employees.Create(context.Background(), testActor, orgapp.EmployeeInput{
		EmployeeCode: code, Name: "Rahim", DepartmentID: desig.DepartmentID, DesignationID: desig.ID, IsActive: true,
	})
	require.NoError(t, err)
	return e
}

func TestDepartmentService_Create(t *testing.T) {
	f := newOrgFixture(t)
	ctx := context.Background()

	d := f.department(t, "Finance")

	_, err := f.departments.Create(ctx, testActor, orgapp.DepartmentInput{Name: "Finance"})
	assert.Equal(t, "DEPARTMENT_NAME_EXISTS", shared.ErrorCode(err))

	_, err = f.departments.Create(ctx, testActor, orgapp.DepartmentInput{Name: "  "})
	assert.Equal(t, "INVALID_NAME", shared.ErrorCode(err))

	var entry audit.AuditLog
	require.NoError(t, f.db.DB.Where("subject_id = ? AND action = ?", d.ID, audit.ActionCreated).First(&entry).Error)
	assert.Equal(t, string(audit.SubjectDepartment), string(entry.SubjectType))
	assert.Equal(t, "Finance", entry.NewValues["name"])
}

func TestDepartmentService_Update(t *testing.T) {
	f := newOrgFixture(t)
	ctx := context.Background()
	d := f.department(t, "Finance")
	f.department(t, "Sales")

	_, err := f.departments.Update(ctx, testActor, d.ID, orgapp.DepartmentInput{Name: "Sales"})
	assert.Equal(t, "DEPARTMENT_NAME_EXISTS", shared.ErrorCode(err))

	updated, err := f.departments.Update(ctx, testActor, d.ID, orgapp.DepartmentInput{Name: "Accounts", Description: "Books"})
	require.NoError(t, err)
	assert.Equal(t, "Accounts", updated.Name)

	var entry audit.AuditLog
	require.NoError(t, f.db.DB.Where("subject_id = ? AND action = ?", d.ID, audit.ActionUpdated).First(&entry).Error)
	assert.Equal(t, "Finance", entry.OldValues["name"])
	assert.Equal(t, "Accounts", entry.NewValues["name"])
}

func TestDepartmentService_Delete_Guards(t *testing.T) {
	f := newOrgFixture(t)
	ctx := context.Background()
	d := f.department(t, "Finance")
	desig := f.designation(t, d, "Clerk")

	err := f.departments.Delete(ctx, testActor, d.ID)
	assert.Equal(t, "DEPARTMENT_HAS_DESIGNATIONS", shared.ErrorCode(err))

	_, err = f.departments.Get(ctx, d.ID)
	require.NoError(t, err, "department must survive a rejected delete")

	require.NoError(t, f.designations.Delete(ctx, testActor, desig.ID))
	require.NoError(t, f.departments.Delete(ctx, testActor, d.ID))

	_, err = f.departments.Get(ctx, d.ID)
	assert.Equal(t, "DEPARTMENT_NOT_FOUND", shared.ErrorCode(err))

	var entry audit.AuditLog
	require.NoError(t, f.db.DB.Where("subject_id = ? AND action = ?", d.ID, audit.ActionDeleted).First(&entry).Error)
	assert.Equal(t, "Finance", entry.OldValues["name"])
}

func TestDesignationService(t *testing.T) {
	f := newOrgFixture(t)
	ctx := context.Background()
	finance := f.department(t, "Finance")
	sales := f.department(t, "Sales")

	clerk := f.designation(t, finance, "Clerk")
	f.designation(t, finance, "Officer")
	f.designation(t, sales, "Clerk")

	t.Run("name unique per department", func(t *testing.T) {
		_, err := f.designations.Create(ctx, testActor, orgapp.DesignationInput{DepartmentID: finance.ID, Name: "clerk"})
		assert.Equal(t, "DESIGNATION_NAME_EXISTS", shared.ErrorCode(err))
	})

	t.Run("unknown department", func(t *testing.T) {
		_, err := f.designations.Create(ctx, testActor, orgapp.DesignationInput{DepartmentID: uuid.New(), Name: "Ghost"})
		assert.Equal(t, "DEPARTMENT_NOT_FOUND", shared.ErrorCode(err))
	})

	t.Run("by department", func(t *testing.T) {
		items, err := f.designations.ByDepartment(ctx, finance.ID)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "Clerk", items[0].Name)
		assert.Equal(t, "Officer", items[1].Name)

		_, err = f.designations.ByDepartment(ctx, uuid.New())
		assert.Equal(t, "DEPARTMENT_NOT_FOUND", shared.ErrorCode(err))
	})

	t.Run("delete guarded by employees", func(t *testing.T) {
		f.employee(t, clerk, "E-100")
		err := f.designations.Delete(ctx, testActor, clerk.ID)
		assert.Equal(t, "DESIGNATION_HAS_EMPLOYEES", shared.ErrorCode(err))

		_, err = f.designations.Update(ctx, testActor, clerk.ID, orgapp.DesignationInput{DepartmentID: sales.ID, Name: "Senior Clerk"})
		assert.Equal(t, "DESIGNATION_HAS_EMPLOYEES", shared.ErrorCode(err))

		renamed, err := f.designations.Update(ctx, testActor, clerk.ID, orgapp.DesignationInput{DepartmentID: finance.ID, Name: "Senior Clerk"})
		require.NoError(t, err)
		assert.Equal(t, "Senior Clerk", renamed.Name)
	})
}

func TestEmployeeService(t *testing.T) {
	f := newOrgFixture(t)
	ctx := context.Background()
	finance := f.department(t, "Finance")
	sales := f.department(t, "Sales")
	clerk := f.designation(t, finance, "Clerk")
	rep := f.designation(t, sales, "Representative")

	e := f.employee(t, clerk, "e-001")
	assert.Equal(t, "E-001", e.EmployeeCode)
	assert.Equal(t, finance.ID, e.DepartmentID)

	t.Run("code unique", func(t *testing.T) {
		_, err := f.employees.Create(ctx, testActor, orgapp.EmployeeInput{
			EmployeeCode: "E-001", Name: "Karim", DepartmentID: finance.ID, DesignationID: clerk.ID,
		})
		assert.Equal(t, "EMPLOYEE_CODE_EXISTS", shared.ErrorCode(err))
	})

	t.Run("designation outside department", func(t *testing.T) {
		_, err := f.employees.Create(ctx, testActor, orgapp.EmployeeInput{
			EmployeeCode: "E-002", Name: "Karim", DepartmentID: finance.ID, DesignationID: rep.ID,
		})
		assert.Equal(t, "DESIGNATION_DEPARTMENT_MISMATCH", shared.ErrorCode(err))
	})

	t.Run("user link", func(t *testing.T) {
		identity.PasswordHashCost = bcrypt.MinCost
		u, err := identity.NewUser("Karim", "karim@example.com", "karim-pass-1", identity.RoleUser)
		require.NoError(t, err)
		require.NoError(t, f.db.Repos.Users().Save(ctx, u))

		_, err = f.employees.Create(ctx, testActor, orgapp.EmployeeInput{
			EmployeeCode: "E-003", Name: "Ghost", DepartmentID: finance.ID, DesignationID: clerk.ID, UserID: ptr(uuid.New()),
		})
		assert.Equal(t, "USER_NOT_FOUND", shared.ErrorCode(err))

		linked, err := f.employees.Create(ctx, testActor, orgapp.EmployeeInput{
			EmployeeCode: "E-004", Name: "Karim", DepartmentID: finance.ID, DesignationID: clerk.ID, UserID: &u.ID, IsActive: true,
		})
		require.NoError(t, err)
		require.NotNil(t, linked.UserID)

		_, err = f.employees.Create(ctx, testActor, orgapp.EmployeeInput{
			EmployeeCode: "E-005", Name: "Twin", DepartmentID: finance.ID, DesignationID: clerk.ID, UserID: &u.ID,
		})
		assert.Equal(t, "USER_ALREADY_LINKED", shared.ErrorCode(err))

		// Re-saving the same employee keeps its own link.
		_, err = f.employees.Update(ctx, testActor, linked.ID, orgapp.EmployeeInput{
			EmployeeCode: "E-004", Name: "Karim Uddin", DepartmentID: finance.ID, DesignationID: clerk.ID, UserID: &u.ID, IsActive: true,
		})
		require.NoError(t, err)
	})

	t.Run("transfer to another department", func(t *testing.T) {
		moved, err := f.employees.Update(ctx, testActor, e.ID, orgapp.EmployeeInput{
			EmployeeCode: "E-001", Name: "Rahim", DepartmentID: sales.ID, DesignationID: rep.ID, IsActive: true,
		})
		require.NoError(t, err)
		assert.Equal(t, sales.ID, moved.DepartmentID)

		page, err := f.employees.List(ctx, organization.EmployeeFilter{Filter: shared.DefaultFilter(), DepartmentID: &sales.ID})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, e.ID, page.Items[0].ID)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, f.employees.Delete(ctx, testActor, e.ID))
		_, err := f.employees.Get(ctx, e.ID)
		assert.Equal(t, "EMPLOYEE_NOT_FOUND", shared.ErrorCode(err))
	})
}

func ptr[T any](v T) *T {
	return &v
}
