package identity

import (
	"time"

	"github.com/erp/backoffice/internal/domain/identity"
	"github.com/google/uuid"
)

// LoginInput contains the input for user login
type LoginInput struct {
	Email    string
	Password string
	IP       string // Client IP for login tracking
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	User                  UserInfo
}

// UserInfo contains basic user information returned after login
type UserInfo struct {
	ID          uuid.UUID
	Name        string
	Email       string
	Role        identity.Role
	Permissions []string
	LastLoginAt *time.Time
}

// RefreshTokenResult contains the result of a token refresh
type RefreshTokenResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}

// LogoutInput contains the input for user logout
type LogoutInput struct {
	UserID         uuid.UUID
	AccessTokenJTI string
	AccessTokenTTL time.Duration
	RefreshToken   string // optional, revoked as well when present
}

// CreateUserInput contains input for creating a user
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     identity.Role
	IsActive bool
}

// UpdateUserInput contains input for updating a user. An empty Password keeps the current one.
type UpdateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     identity.Role
	IsActive bool
}

// RoleOption is a role with its permissions, served as a lookup
type RoleOption struct {
	Value       identity.Role `json:"value"`
	Permissions []string      `json:"permissions"`
}

func toUserInfo(u *identity.User) UserInfo {
	return UserInfo{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		Permissions: u.Role.PermissionStrings(),
		LastLoginAt: u.LastLoginAt,
	}
}
