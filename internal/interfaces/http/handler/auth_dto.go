package handler

import (
	"time"

	identityapp "github.com/erp/backoffice/internal/application/identity"
	"github.com/google/uuid"
)

// LoginRequest represents the request body for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=200" example:"admin@example.com"`
	Password string `json:"password" binding:"required,max=128" example:"secret-password"`
}

// RefreshTokenRequest represents the request body for token refresh
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest optionally carries the refresh token so it is revoked too
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenResponse represents the token data in auth responses
type TokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type" example:"Bearer"`
}

// AuthUserResponse represents user data in auth responses
type AuthUserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name" example:"Rahim Uddin"`
	Email       string     `json:"email" example:"rahim@example.com"`
	Role        string     `json:"role" example:"accountant"`
	Permissions []string   `json:"permissions"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// LoginResponse represents the response body for successful login
type LoginResponse struct {
	Token TokenResponse    `json:"token"`
	User  AuthUserResponse `json:"user"`
}

// RefreshTokenResponse represents the response body for successful token refresh
type RefreshTokenResponse struct {
	Token TokenResponse `json:"token"`
}

func toAuthUserResponse(u identityapp.UserInfo) AuthUserResponse {
	perms := u.Permissions
	if perms == nil {
		perms = []string{}
	}
	return AuthUserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        string(u.Role),
		Permissions: perms,
		LastLoginAt: u.LastLoginAt,
	}
}
