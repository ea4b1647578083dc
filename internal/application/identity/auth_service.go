package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/backoffice/internal/application/scope"
	"github.com/erp/backoffice/internal/domain/audit"
	"github.com/erp/backoffice/internal/domain/identity"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthService handles authentication operations
type AuthService struct {
	repos      scope.Repositories
	tx         scope.TransactionScope
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service. blacklist may be nil,
// which turns logout into a client-side operation.
func NewAuthService(
	repos scope.Repositories,
	tx scope.TransactionScope,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		repos:      repos,
		tx:         tx,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
	}
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := identity.NormalizeEmail(input.Email)

	user, err := s.repos.Users().FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("User not found during login", zap.String("email", email))
			return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
		}
		return nil, err
	}

	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("email", email))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}
	if !user.IsActive {
		s.logger.Warn("Login attempt for inactive account", zap.String("email", email))
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account has been deactivated")
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(tokenInput(user))
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	err = s.tx.Execute(ctx, func(repos scope.Repositories) error {
		user.RecordLogin()
		if err := repos.Users().Save(ctx, user); err != nil {
			return err
		}
		return repos.Audit().Record(ctx, audit.Entry{
			Actor:       audit.Actor{ID: user.ID, Email: user.Email},
			SubjectType: audit.SubjectUser,
			SubjectID:   user.ID,
			Action:      audit.ActionLoggedIn,
			NewValues:   audit.Payload{"ip": input.IP},
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("User logged in successfully",
		zap.String("email", email),
		zap.String("user_id", user.ID.String()))

	return &LoginResult{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
		User:                  toUserInfo(user),
	}, nil
}

// RefreshToken exchanges a valid refresh token for a new pair. The used
// refresh token is revoked so it cannot be replayed.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*RefreshTokenResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		s.logger.Warn("Refresh token validation failed", zap.Error(err))
		return nil, mapTokenError(err)
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, err
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid user ID in token")
	}

	user, err := s.repos.Users().FindByID(ctx, userID)
	if err != nil {
		s.logger.Warn("User not found during token refresh", zap.String("user_id", userID.String()))
		return nil, notFound(err, "USER_NOT_FOUND", "User not found")
	}
	if !user.IsActive {
		s.logger.Warn("Token refresh for inactive user", zap.String("user_id", userID.String()))
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is no longer active")
	}

	tokenPair, err := s.jwtService.RefreshTokenPair(claims, tokenInput(user))
	if err != nil {
		s.logger.Warn("Token refresh failed", zap.Error(err))
		return nil, mapTokenError(err)
	}

	if s.blacklist != nil {
		if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
			s.logger.Error("Failed to revoke used refresh token", zap.Error(err))
		}
	}

	s.logger.Info("Token refreshed successfully", zap.String("user_id", userID.String()))

	return &RefreshTokenResult{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
	}, nil
}

// Logout revokes the caller's access token and, when given, its refresh token
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	s.logger.Info("User logout", zap.String("user_id", input.UserID.String()))

	if s.blacklist == nil {
		return nil
	}

	if input.AccessTokenJTI != "" && input.AccessTokenTTL > 0 {
		if err := s.blacklist.AddToBlacklist(ctx, input.AccessTokenJTI, input.AccessTokenTTL); err != nil {
			return fmt.Errorf("revoke access token: %w", err)
		}
	}

	if input.RefreshToken == "" {
		return nil
	}
	claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil || claims.UserID != input.UserID.String() {
		// Already unusable or not the caller's.
		return nil
	}
	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// Me returns the signed-in user's profile and permissions
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.repos.Users().FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "USER_NOT_FOUND", "User not found")
	}
	info := toUserInfo(user)
	return &info, nil
}

// RevokeUserSessions invalidates every token issued to the user before now
func (s *AuthService) RevokeUserSessions(ctx context.Context, userID uuid.UUID) error {
	if s.blacklist == nil {
		return nil
	}
	if err := s.blacklist.AddUserTokensToBlacklist(ctx, userID.String(), s.jwtService.GetRefreshTokenExpiration()); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	s.logger.Info("User sessions revoked", zap.String("user_id", userID.String()))
	return nil
}

func (s *AuthService) checkRevoked(ctx context.Context, claims *auth.Claims) error {
	if s.blacklist == nil {
		return nil
	}
	revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return fmt.Errorf("check token blacklist: %w", err)
	}
	if !revoked {
		revoked, err = s.blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.GetIssuedAtTime())
		if err != nil {
			return fmt.Errorf("check user revocation: %w", err)
		}
	}
	if revoked {
		s.logger.Warn("Revoked refresh token presented", zap.String("user_id", claims.UserID))
		return shared.NewDomainError("TOKEN_REVOKED", "Token has been revoked")
	}
	return nil
}

func tokenInput(u *identity.User) auth.TokenInput {
	return auth.TokenInput{
		UserID:      u.ID,
		Email:       u.Email,
		Role:        string(u.Role),
		Permissions: u.Role.PermissionStrings(),
	}
}

func mapTokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again")
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidTokenType), errors.Is(err, auth.ErrInvalidClaims):
		return shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	default:
		return shared.NewDomainError("TOKEN_ERROR", "Failed to validate refresh token")
	}
}
