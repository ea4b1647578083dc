package identity

import (
	"testing"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	PasswordHashCost = bcrypt.MinCost
}

func TestNewUser(t *testing.T) {
	u, err := NewUser("Rahim", " Rahim@Example.COM ", "secret123", RoleAccountant)
	require.NoError(t, err)
	assert.Equal(t, "rahim@example.com", u.Email)
	assert.True(t, u.IsActive)
	assert.True(t, u.VerifyPassword("secret123"))
	assert.False(t, u.VerifyPassword("wrong-pass"))

	_, err = NewUser("Rahim", "bad", "secret123", RoleUser)
	assert.Equal(t, "INVALID_EMAIL", shared.ErrorCode(err))

	_, err = NewUser("Rahim", "r@example.com", "short", RoleUser)
	assert.Equal(t, "INVALID_PASSWORD", shared.ErrorCode(err))

	_, err = NewUser("Rahim", "r@example.com", "secret123", Role("root"))
	assert.Equal(t, "INVALID_ROLE", shared.ErrorCode(err))
}

func TestUser_SelfGuards(t *testing.T) {
	u, err := NewUser("Admin", "admin@example.com", "secret123", RoleAdmin)
	require.NoError(t, err)

	t.Run("cannot toggle own status", func(t *testing.T) {
		err := u.ToggleStatus(u.ID)
		assert.Equal(t, "CANNOT_DEACTIVATE_SELF", shared.ErrorCode(err))
		assert.True(t, u.IsActive)
	})

	t.Run("cannot delete self", func(t *testing.T) {
		assert.Equal(t, "CANNOT_DELETE_SELF", shared.ErrorCode(u.CanDelete(u.ID)))
		assert.NoError(t, u.CanDelete(uuid.New()))
	})

	t.Run("cannot change own role", func(t *testing.T) {
		err := u.UpdateProfile(u.ID, "Admin", "admin@example.com", RoleUser)
		assert.Equal(t, "CANNOT_CHANGE_OWN_ROLE", shared.ErrorCode(err))
		assert.Equal(t, RoleAdmin, u.Role)
	})

	t.Run("another admin can toggle", func(t *testing.T) {
		require.NoError(t, u.ToggleStatus(uuid.New()))
		assert.False(t, u.IsActive)
	})
}

func TestRolePermissions(t *testing.T) {
	for _, p := range AllPermissions() {
		assert.True(t, RoleAdmin.Can(p), p)
	}
	assert.True(t, RoleAccountant.Can(PermJournalPost))
	assert.False(t, RoleAccountant.Can(PermUsersManage))
	assert.True(t, RoleManager.Can(PermStockWrite))
	assert.False(t, RoleManager.Can(PermLedgerWrite))
	assert.False(t, RoleUser.Can(PermStockWrite))
	assert.False(t, Role("ghost").Can(PermLedgerRead))
	assert.Equal(t, []string{"ledger:read", "stock:read"}, RoleUser.PermissionStrings())

	perms := RoleUser.Permissions()
	perms[0] = PermUsersManage
	assert.False(t, RoleUser.Can(PermUsersManage))
}
