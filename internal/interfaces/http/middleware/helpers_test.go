package middleware

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/erp/backoffice/internal/domain/identity"
	"github.com/erp/backoffice/internal/infrastructure/auth"
	"github.com/erp/backoffice/internal/infrastructure/config"
	"github.com/erp/backoffice/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "middleware-test-secret-32-characters",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "erp-test",
		MaxRefreshCount:        3,
	})
}

func issueToken(t *testing.T, svc *auth.JWTService, role identity.Role) (*auth.TokenPair, uuid.UUID) {
	t.Helper()
	userID := uuid.New()
	pair, err := svc.GenerateTokenPair(auth.TokenInput{
		UserID:      userID,
		Email:       string(role) + "@example.com",
		Role:        string(role),
		Permissions: role.PermissionStrings(),
	})
	require.NoError(t, err)
	return pair, userID
}

func decode(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}
