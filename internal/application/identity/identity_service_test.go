package identity_test

import (
	"context"
	"testing"
	"time"

	identityapp "github.com/erp/backoffice/internal/application/identity"
	"github.com/erp/backoffice/internal/domain/audit"
	"github.com/erp/backoffice/internal/domain/identity"
	"github.com/erp/backoffice/internal/domain/organization"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/auth"
	"github.com/erp/backoffice/internal/infrastructure/config"
	"github.com/erp/backoffice/tests/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	identity.PasswordHashCost = bcrypt.MinCost
}

type identityFixture struct {
	db        *testutil.SQLiteDB
	jwt       *auth.JWTService
	blacklist *auth.InMemoryTokenBlacklist
	auth      *identityapp.AuthService
	users     *identityapp.UserService

	admin      *identity.User
	adminActor audit.Actor
}

func newIdentityFixture(t *testing.T) *identityFixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	log := zap.NewNop()

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "backoffice-test",
		MaxRefreshCount:        5,
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	authService := identityapp.NewAuthService(db.Repos, db.Scope, jwtService, blacklist, log)

	f := &identityFixture{
		db:        db,
		jwt:       jwtService,
		blacklist: blacklist,
		auth:      authService,
		users:     identityapp.NewUserService(db.Repos, db.Scope, authService, log),
	}

	admin, err := f.users.Create(context.Background(), audit.SystemActor, identityapp.CreateUserInput{
		Name: "Admin", Email: "admin@example.com", Password: "admin-pass-1", Role: identity.RoleAdmin, IsActive: true,
	})
	require.NoError(t, err)
	f.admin = admin
	f.adminActor = audit.Actor{ID: admin.ID, Email: admin.Email}
	return f
}

func (f *identityFixture) createUser(t *testing.T, email string, role identity.Role) *identity.User {
	t.Helper()
	u, err := f.users.Create(context.Background(), f.adminActor, identityapp.CreateUserInput{
		Name: "Staff", Email: email, Password: "staff-pass-1", Role: role, IsActive: true,
	})
	require.NoError(t, err)
	return u
}

func TestUserService_Create(t *testing.T) {
	f := newIdentityFixture(t)
	ctx := context.Background()

	u := f.createUser(t, "Clerk@Example.com ", identity.RoleUser)
	assert.Equal(t, "clerk@example.com", u.Email)
	assert.True(t, u.VerifyPassword("staff-pass-1"))

	_, err := f.users.Create(ctx, f.adminActor, identityapp.CreateUserInput{
		Name: "Other", Email: "clerk@example.com", Password: "another-pass", Role: identity.RoleUser, IsActive: true,
	})
	assert.Equal(t, "USER_EMAIL_EXISTS", shared.ErrorCode(err))

	_, err = f.users.Create(ctx, f.adminActor, identityapp.CreateUserInput{
		Name: "Short", Email: "short@example.com", Password: "short", Role: identity.RoleUser, IsActive: true,
	})
	assert.Equal(t, "INVALID_PASSWORD", shared.ErrorCode(err))

	var created audit.AuditLog
	require.NoError(t, f.db.DB.Where("subject_id = ? AND action = ?", u.ID, audit.ActionCreated).First(&created).Error)
	assert.NotContains(t, created.NewValues, "password_hash")
	assert.Equal(t, "clerk@example.com", created.NewValues["email"])
}

func TestUserService_Create_Inactive(t *testing.T) {
	f := newIdentityFixture(t)

	u, err := f.users.Create(context.Background(), f.adminActor, identityapp.CreateUserInput{
		Name: "Dormant", Email: "dormant@example.com", Password: "dormant-pass", Role: identity.RoleUser, IsActive: false,
	})
	require.NoError(t, err)

	reloaded, err := f.users.Get(context.Background(), u.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsActive)
}

func TestUserService_ToggleStatus_Self(t *testing.T) {
	f := newIdentityFixture(t)

	_, err := f.users.ToggleStatus(context.Background(), f.adminActor, f.admin.ID)
	assert.Equal(t, "CANNOT_DEACTIVATE_SELF", shared.ErrorCode(err))

	reloaded, err := f.users.Get(context.Background(), f.admin.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.IsActive)
}

func TestUserService_ToggleStatus(t *testing.T) {
	f := newIdentityFixture(t)
	ctx := context.Background()
	u := f.createUser(t, "clerk@example.com", identity.RoleUser)

	toggled, err := f.users.ToggleStatus(ctx, f.adminActor, u.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)

	var entry audit.AuditLog
	require.NoError(t, f.db.DB.Where("subject_id = ? AND action = ?", u.ID, audit.ActionDeactivated).First(&entry).Error)
	assert.Equal(t, true, entry.OldValues["is_active"])
	assert.Equal(t, false, entry.NewValues["is_active"])

	invalidated, err := f.blacklist.IsUserTokenInvalidated(ctx, u.ID.String(), time.Now().Add(-time.Minute))
	require.NoError(t, err)
	assert.True(t, invalidated)

	toggled, err = f.users.ToggleStatus(ctx, f.adminActor, u.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsActive)
}

func TestUserService_Update(t *testing.T) {
	f := newIdentityFixture(t)
	ctx := context.Background()
	u := f.createUser(t, "clerk@example.com", identity.RoleUser)
	f.createUser(t, "taken@example.com", identity.RoleUser)

	t.Run("own role", func(t *testing.T) {
		_, err := f.users.Update(ctx, f.adminActor, f.admin.ID, identityapp.UpdateUserInput{
			Name: "Admin", Email: "admin@example.com", Role: identity.RoleUser, IsActive: true,
		})
		assert.Equal(t, "CANNOT_CHANGE_OWN_ROLE", shared.ErrorCode(err))
	})

	t.Run("own status", func(t *testing.T) {
		_, err := f.users.Update(ctx, f.adminActor, f.admin.ID, identityapp.UpdateUserInput{
			Name: "Admin", Email: "admin@example.com", Role: identity.RoleAdmin, IsActive: false,
		})
		assert.Equal(t, "CANNOT_DEACTIVATE_SELF", shared.ErrorCode(err))
	})

	t.Run("email taken", func(t *testing.T) {
		_, err := f.users.Update(ctx, f.adminActor, u.ID, identityapp.UpdateUserInput{
			Name: "Clerk", Email: "taken@example.com", Role: identity.RoleUser, IsActive: true,
		})
		assert.Equal(t, "USER_EMAIL_EXISTS", shared.ErrorCode(err))
	})

	t.Run("role and password", func(t *testing.T) {
		updated, err := f.users.Update(ctx, f.adminActor, u.ID, identityapp.UpdateUserInput{
			Name: "Clerk", Email: "clerk@example.com", Password: "brand-new-pass", Role: identity.RoleAccountant, IsActive: true,
		})
		require.NoError(t, err)
		assert.Equal(t, identity.RoleAccountant, updated.Role)
		assert.True(t, updated.VerifyPassword("brand-new-pass"))

		var entry audit.AuditLog
		require.NoError(t, f.db.DB.Where("subject_id = ? AND action = ?", u.ID, audit.ActionUpdated).First(&entry).Error)
		assert.Equal(t, "user", entry.OldValues["role"])
		assert.Equal(t, "accountant", entry.NewValues["role"])
		assert.NotContains(t, entry.NewValues, "password_hash")
	})

	t.Run("keeps own email change", func(t *testing.T) {
		updated, err := f.users.Update(ctx, f.adminActor, f.admin.ID, identityapp.UpdateUserInput{
			Name: "Head Admin", Email: "head@example.com", Role: identity.RoleAdmin, IsActive: true,
		})
		require.NoError(t, err)
		assert.Equal(t, "head@example.com", updated.Email)
		assert.True(t, updated.VerifyPassword("admin-pass-1"))
	})
}

func TestUserService_Delete(t *testing.T) {
	f := newIdentityFixture(t)
	ctx := context.Background()

	t.Run("self", func(t *testing.T) {
		err := f.users.Delete(ctx, f.adminActor, f.admin.ID)
		assert.Equal(t, "CANNOT_DELETE_SELF", shared.ErrorCode(err))
	})

	t.Run("linked to employee", func(t *testing.T) {
		u := f.createUser(t, "linked@example.com", identity.RoleUser)
		dept, err := organization.NewDepartment("Finance", "")
		require.NoError(t, err)
		require.NoError(t, f.db.Repos.Departments().Save(ctx, dept))
		desig, err := organization.NewDesignation(dept.ID, "Clerk", "")
		require.NoError(t, err)
		require.NoError(t, f.db.Repos.Designations().Save(ctx, desig))
		emp, err := organization.NewEmployee(organization.EmployeeDetails{
			EmployeeCode: "E-001", Name: "Linked", UserID: &u.ID, IsActive: true,
		}, desig)
		require.NoError(t, err)
		require.NoError(t, f.db.Repos.Employees().Save(ctx, emp))

		err = f.users.Delete(ctx, f.adminActor, u.ID)
		assert.Equal(t, "USER_LINKED_TO_EMPLOYEE", shared.ErrorCode(err))

		_, err = f.users.Get(ctx, u.ID)
		assert.NoError(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		err := f.users.Delete(ctx, f.adminActor, uuid.New())
		assert.Equal(t, "USER_NOT_FOUND", shared.ErrorCode(err))
	})

	t.Run("success", func(t *testing.T) {
		u := f.createUser(t, "gone@example.com", identity.RoleUser)
		require.NoError(t, f.users.Delete(ctx, f.adminActor, u.ID))

		_, err := f.users.Get(ctx, u.ID)
		assert.Equal(t, "USER_NOT_FOUND", shared.ErrorCode(err))

		var entry audit.AuditLog
		require.NoError(t, f.db.DB.Where("subject_id = ? AND action = ?", u.ID, audit.ActionDeleted).First(&entry).Error)
		assert.Equal(t, "gone@example.com", entry.OldValues["email"])
	})
}

func TestUserService_List(t *testing.T) {
	f := newIdentityFixture(t)
	f.createUser(t, "acc@example.com", identity.RoleAccountant)
	f.createUser(t, "clerk@example.com", identity.RoleUser)

	filter := identity.UserFilter{Filter: shared.DefaultFilter(), Role: identity.RoleAccountant}
	page, err := f.users.List(context.Background(), filter)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "acc@example.com", page.Items[0].Email)
	assert.Equal(t, int64(1), page.Total)
}

func TestUserService_Roles(t *testing.T) {
	f := newIdentityFixture(t)
	roles := f.users.Roles()
	require.Len(t, roles, 4)
	assert.Equal(t, identity.RoleAdmin, roles[0].Value)
	assert.Contains(t, roles[0].Permissions, string(identity.PermUsersManage))
	assert.NotContains(t, roles[3].Permissions, string(identity.PermUsersManage))
}

func TestAuthService_Login(t *testing.T) {
	f := newIdentityFixture(t)
	ctx := context.Background()

	result, err := f.auth.Login(ctx, identityapp.LoginInput{Email: " ADMIN@example.com", Password: "admin-pass-1", IP: "10.0.0.1"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, "Bearer", result.TokenType)
	assert.Equal(t, identity.RoleAdmin, result.User.Role)
	assert.Contains(t, result.User.Permissions, string(identity.PermAuditRead))

	claims, err := f.jwt.ValidateAccessToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, f.admin.ID.String(), claims.UserID)
	assert.True(t, claims.HasPermission(string(identity.PermUsersManage)))

	reloaded, err := f.users.Get(ctx, f.admin.ID)
	require.NoError(t, err)
	assert.NotNil(t, reloaded.LastLoginAt)

	var entry audit.AuditLog
	require.NoError(t, f.db.DB.Where("subject_id = ? AND action = ?", f.admin.ID, audit.ActionLoggedIn).First(&entry).Error)
	assert.Equal(t, "10.0.0.1", entry.NewValues["ip"])
}

func TestAuthService_Login_Rejected(t *testing.T) {
	f := newIdentityFixture(t)
	ctx := context.Background()
	u := f.createUser(t, "clerk@example.com", identity.RoleUser)
	_, err := f.users.ToggleStatus(ctx, f.adminActor, u.ID)
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		code     string
	}{
		{"unknown email", "nobody@example.com", "whatever-pass", "INVALID_CREDENTIALS"},
		{"wrong password", "admin@example.com", "wrong-pass-1", "INVALID_CREDENTIALS"},
		{"inactive", "clerk@example.com", "staff-pass-1", "ACCOUNT_INACTIVE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.auth.Login(ctx, identityapp.LoginInput{Email: tt.email, Password: tt.password})
			assert.Equal(t, tt.code, shared.ErrorCode(err))
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	f := newIdentityFixture(t)
	ctx := context.Background()

	login, err := f.auth.Login(ctx, identityapp.LoginInput{Email: "admin@example.com", Password: "admin-pass-1"})
	require.NoError(t, err)

	refreshed, err := f.auth.RefreshToken(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	claims, err := f.jwt.ValidateRefreshToken(refreshed.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, 1, claims.RefreshCount)

	// The consumed token cannot be replayed.
	_, err = f.auth.RefreshToken(ctx, login.RefreshToken)
	assert.Equal(t, "TOKEN_REVOKED", shared.ErrorCode(err))

	_, err = f.auth.RefreshToken(ctx, login.AccessToken)
	assert.Equal(t, "TOKEN_INVALID", shared.ErrorCode(err))
}

func TestAuthService_RefreshToken_RevokedUser(t *testing.T) {
	f := newIdentityFixture(t)
	ctx := context.Background()
	u := f.createUser(t, "clerk@example.com", identity.RoleUser)

	login, err := f.auth.Login(ctx, identityapp.LoginInput{Email: "clerk@example.com", Password: "staff-pass-1"})
	require.NoError(t, err)

	_, err = f.users.ToggleStatus(ctx, f.adminActor, u.ID)
	require.NoError(t, err)

	_, err = f.auth.RefreshToken(ctx, login.RefreshToken)
	assert.Equal(t, "TOKEN_REVOKED", shared.ErrorCode(err))
}

func TestAuthService_Logout(t *testing.T) {
	f := newIdentityFixture(t)
	ctx := context.Background()

	login, err := f.auth.Login(ctx, identityapp.LoginInput{Email: "admin@example.com", Password: "admin-pass-1"})
	require.NoError(t, err)
	access, err := f.jwt.ValidateAccessToken(login.AccessToken)
	require.NoError(t, err)
	refresh, err := f.jwt.ValidateRefreshToken(login.RefreshToken)
	require.NoError(t, err)

	require.NoError(t, f.auth.Logout(ctx, identityapp.LogoutInput{
		UserID:         f.admin.ID,
		AccessTokenJTI: access.ID,
		AccessTokenTTL: access.GetRemainingTTL(),
		RefreshToken:   login.RefreshToken,
	}))

	revoked, err := f.blacklist.IsBlacklisted(ctx, access.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
	revoked, err = f.blacklist.IsBlacklisted(ctx, refresh.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestAuthService_Me(t *testing.T) {
	f := newIdentityFixture(t)

	me, err := f.auth.Me(context.Background(), f.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", me.Email)
	assert.ElementsMatch(t, identity.RoleAdmin.PermissionStrings(), me.Permissions)

	_, err = f.auth.Me(context.Background(), uuid.New())
	assert.Equal(t, "USER_NOT_FOUND", shared.ErrorCode(err))
}
