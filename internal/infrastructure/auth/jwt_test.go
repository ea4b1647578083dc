package auth

import (
	"testing"
	"time"

	"github.com/erp/backoffice/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        10,
	}
}

func newTestJWTService() *JWTService {
	return NewJWTService(testJWTConfig())
}

func newTestInput() TokenInput {
	return TokenInput{
		UserID:      uuid.New(),
		Email:       "accountant@example.com",
		Role:        "accountant",
		Permissions: []string{"ledger:read", "ledger:write", "journal:post"},
	}
}

func TestNewJWTService(t *testing.T) {
	cfg := testJWTConfig()
	cfg.MaxRefreshCount = 5

	svc := NewJWTService(cfg)

	assert.Equal(t, []byte(cfg.Secret), svc.accessSecret)
	assert.Equal(t, []byte(cfg.RefreshSecret), svc.refreshSecret)
	assert.Equal(t, cfg.AccessTokenExpiration, svc.GetAccessTokenExpiration())
	assert.Equal(t, cfg.RefreshTokenExpiration, svc.GetRefreshTokenExpiration())
	assert.Equal(t, 5, svc.maxRefreshCount)
}

func TestNewJWTService_UsesSecretForRefreshIfNotProvided(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "test-secret"})

	assert.Equal(t, []byte("test-secret"), svc.refreshSecret)
}

func TestGenerateTokenPair(t *testing.T) {
	svc := newTestJWTService()

	pair, err := svc.GenerateTokenPair(newTestInput())

	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.True(t, pair.RefreshTokenExpiresAt.After(pair.AccessTokenExpiresAt))
}

func TestValidateAccessToken_Success(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()

	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)

	require.NoError(t, err)
	assert.Equal(t, input.UserID.String(), claims.UserID)
	assert.Equal(t, input.Email, claims.Email)
	assert.Equal(t, "accountant", claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.Equal(t, input.Permissions, claims.Permissions)
	assert.NotEmpty(t, claims.ID)

	id, err := claims.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, input.UserID, id)
}

func TestValidateAccessToken_ExpiredToken(t *testing.T) {
	cfg := testJWTConfig()
	cfg.AccessTokenExpiration = -1 * time.Hour
	svc := NewJWTService(cfg)

	pair, err := svc.GenerateTokenPair(newTestInput())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateAccessToken_InvalidToken(t *testing.T) {
	_, err := newTestJWTService().ValidateAccessToken("invalid-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateAccessToken_WrongIssuer(t *testing.T) {
	pair, err := newTestJWTService().GenerateTokenPair(newTestInput())
	require.NoError(t, err)

	cfg := testJWTConfig()
	cfg.Issuer = "someone-else"
	_, err = NewJWTService(cfg).ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_WrongTokenType(t *testing.T) {
	cfg := testJWTConfig()
	cfg.RefreshSecret = cfg.Secret
	svc := NewJWTService(cfg)

	pair, err := svc.GenerateTokenPair(newTestInput())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)

	_, err = svc.ValidateRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestValidateAccessToken_DifferentSecret(t *testing.T) {
	pair, err := newTestJWTService().GenerateTokenPair(newTestInput())
	require.NoError(t, err)

	cfg := testJWTConfig()
	cfg.Secret = "different-secret-key-32-chars!"
	_, err = NewJWTService(cfg).ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRefreshToken_CarriesNoPermissions(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()

	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)

	claims, err := svc.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, input.UserID.String(), claims.UserID)
	assert.Equal(t, TokenTypeRefresh, claims.TokenType)
	assert.Equal(t, 0, claims.RefreshCount)
	assert.Empty(t, claims.Permissions)
	assert.Empty(t, claims.Role)
}

func TestRefreshTokenPair(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()

	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)
	refresh, err := svc.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)

	input.Role = "user"
	input.Permissions = []string{"ledger:read"}
	next, err := svc.RefreshTokenPair(refresh, input)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	access, err := svc.ValidateAccessToken(next.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user", access.Role)
	assert.Equal(t, []string{"ledger:read"}, access.Permissions)

	refresh, err = svc.ValidateRefreshToken(next.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, 1, refresh.RefreshCount)
}

func TestRefreshTokenPair_MaxRefreshExceeded(t *testing.T) {
	cfg := testJWTConfig()
	cfg.MaxRefreshCount = 2
	svc := NewJWTService(cfg)
	input := newTestInput()

	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		claims, err := svc.ValidateRefreshToken(pair.RefreshToken)
		require.NoError(t, err)
		pair, err = svc.RefreshTokenPair(claims, input)
		require.NoError(t, err)
	}

	claims, err := svc.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	_, err = svc.RefreshTokenPair(claims, input)
	assert.ErrorIs(t, err, ErrMaxRefreshExceeded)
}

func TestRefreshTokenPair_Rejects(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()

	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)

	access, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	_, err = svc.RefreshTokenPair(access, input)
	assert.ErrorIs(t, err, ErrInvalidTokenType)

	refresh, err := svc.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	other := newTestInput()
	_, err = svc.RefreshTokenPair(refresh, other)
	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestClaims_Permissions(t *testing.T) {
	claims := &Claims{Permissions: []string{"stock:read", "stock:write"}}

	assert.True(t, claims.HasPermission("stock:read"))
	assert.False(t, claims.HasPermission("users:manage"))
	assert.True(t, claims.HasAnyPermission("users:manage", "stock:write"))
	assert.False(t, claims.HasAnyPermission("users:manage", "audit:read"))
	assert.False(t, claims.HasAnyPermission())
}

func TestClaims_Times(t *testing.T) {
	pair, err := newTestJWTService().GenerateTokenPair(newTestInput())
	require.NoError(t, err)
	claims, err := newTestJWTService().ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	assert.WithinDuration(t, time.Now(), claims.GetIssuedAtTime(), 2*time.Second)
	assert.InDelta(t, (15 * time.Minute).Seconds(), claims.GetRemainingTTL().Seconds(), 2)
	assert.Zero(t, (&Claims{}).GetRemainingTTL())
}
