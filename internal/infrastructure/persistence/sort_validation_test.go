package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"asc", "ASC"},
		{" ASC ", "ASC"},
		{"desc", "DESC"},
		{"", "DESC"},
		{"; DROP TABLE users", "DESC"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidateSortOrder(tt.in), tt.in)
	}
}

func TestValidateSortField(t *testing.T) {
	assert.Equal(t, "account_code", ValidateSortField("account_code", AccountSortFields, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("password_hash", UserSortFields, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("", AccountSortFields, "created_at"))
	assert.True(t, EmployeeSortFields["id"])
	assert.False(t, AuditSortFields["id"])
}
