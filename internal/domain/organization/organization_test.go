package organization

import (
	"testing"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDesignation(t *testing.T) {
	_, err := NewDesignation(uuid.Nil, "Clerk", "")
	assert.Equal(t, "INVALID_DEPARTMENT", shared.ErrorCode(err))

	dept, err := NewDepartment(" Accounts ", "")
	require.NoError(t, err)
	assert.Equal(t, "Accounts", dept.Name)

	des, err := NewDesignation(dept.ID, "Clerk", "")
	require.NoError(t, err)
	assert.Equal(t, dept.ID, des.DepartmentID)
}

func TestEmployee_TakesDepartmentFromDesignation(t *testing.T) {
	dept, _ := NewDepartment("Stores", "")
	des, _ := NewDesignation(dept.ID, "Storekeeper", "")
	nilUser := uuid.Nil

	e, err := NewEmployee(EmployeeDetails{EmployeeCode: "e-01", Name: "Karim", UserID: &nilUser, IsActive: true}, des)
	require.NoError(t, err)
	assert.Equal(t, "E-01", e.EmployeeCode)
	assert.Equal(t, dept.ID, e.DepartmentID)
	assert.Equal(t, des.ID, e.DesignationID)
	assert.Nil(t, e.UserID)

	_, err = NewEmployee(EmployeeDetails{EmployeeCode: "e-02", Name: "Karim"}, nil)
	assert.Equal(t, "INVALID_DESIGNATION", shared.ErrorCode(err))
}
