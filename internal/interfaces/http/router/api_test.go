package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	auditapp "github.com/erp/backoffice/internal/application/audit"
	identityapp "github.com/erp/backoffice/internal/application/identity"
	ledgerapp "github.com/erp/backoffice/internal/application/ledger"
	orgapp "github.com/erp/backoffice/internal/application/organization"
	settingsapp "github.com/erp/backoffice/internal/application/settings"
	stockapp "github.com/erp/backoffice/internal/application/stock"
	"github.com/erp/backoffice/internal/domain/identity"
	"github.com/erp/backoffice/internal/infrastructure/auth"
	"github.com/erp/backoffice/internal/infrastructure/cache"
	"github.com/erp/backoffice/internal/infrastructure/config"
	"github.com/erp/backoffice/internal/infrastructure/i18n"
	"github.com/erp/backoffice/internal/infrastructure/storage"
	"github.com/erp/backoffice/internal/interfaces/http/dto"
	"github.com/erp/backoffice/internal/interfaces/http/handler"
	"github.com/erp/backoffice/internal/interfaces/http/middleware"
	"github.com/erp/backoffice/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testAPI struct {
	engine  *gin.Engine
	jwt     *auth.JWTService
	objects *storage.MemoryStorage
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	middleware.SetupValidator()
	db := testutil.NewSQLiteDB(t)
	log := zap.NewNop()
	repos, tx := db.Repos, db.Scope

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "router-test-secret-32-characters-x",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "erp-test",
		MaxRefreshCount:        3,
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	tr, err := i18n.New("en")
	require.NoError(t, err)

	authService := identityapp.NewAuthService(repos, tx, jwtService, blacklist, log)
	accounts := ledgerapp.NewAccountService(repos, tx, log)
	departments := orgapp.NewDepartmentService(repos, tx, log)
	designations := orgapp.NewDesignationService(repos, tx, log)
	stockService := stockapp.NewStockService(repos, tx, log)
	objects := storage.NewMemoryStorage("http://objects.test/erp")

	h := Handlers{
		System:        handler.NewSystemHandler(nil, "test"),
		Auth:          handler.NewAuthHandler(authService),
		User:          handler.NewUserHandler(identityapp.NewUserService(repos, tx, authService, log)),
		Department:    handler.NewDepartmentHandler(departments, designations),
		Designation:   handler.NewDesignationHandler(designations),
		Employee:      handler.NewEmployeeHandler(orgapp.NewEmployeeService(repos, tx, log)),
		Category:      handler.NewCategoryHandler(ledgerapp.NewCategoryService(repos, tx, log)),
		Account:       handler.NewAccountHandler(accounts),
		TrialBalance:  handler.NewTrialBalanceHandler(accounts),
		FinancialYear: handler.NewFinancialYearHandler(ledgerapp.NewFinancialYearService(repos, tx, log)),
		Journal:       handler.NewJournalHandler(ledgerapp.NewJournalService(repos, tx, log)),
		Product:       handler.NewProductHandler(stockapp.NewProductService(repos, tx, log), stockService),
		Warehouse:     handler.NewWarehouseHandler(stockapp.NewWarehouseService(repos, tx, log)),
		Stock:         handler.NewStockHandler(stockService),
		Company:       handler.NewCompanyHandler(settingsapp.NewCompanyService(repos, tx, objects, log)),
		Tax:           handler.NewTaxHandler(settingsapp.NewTaxService(repos, tx, log)),
		Audit:         handler.NewAuditHandler(auditapp.NewAuditService(repos, log)),
	}

	cfg := &config.Config{
		App: config.AppConfig{Name: "erp-backoffice", Env: "test"},
		HTTP: config.HTTPConfig{
			MaxBodySize:           1 << 20,
			AuthRateLimitEnabled:  true,
			AuthRateLimitRequests: 2,
			AuthRateLimitWindow:   time.Minute,
			IdempotencyTTL:        time.Hour,
		},
		Swagger: config.SwaggerConfig{Enabled: false},
	}

	keys := cache.NewMemoryKeyStore()
	t.Cleanup(func() { _ = keys.Close() })

	engine := NewEngine(Options{
		Config:      cfg,
		Logger:      log,
		Translator:  tr,
		JWT:         jwtService,
		Blacklist:   blacklist,
		AuthLimiter: middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow),
		RequestKeys: keys,
	}, h)

	return &testAPI{engine: engine, jwt: jwtService, objects: objects}
}

func (a *testAPI) token(t *testing.T, role identity.Role) string {
	t.Helper()
	pair, err := a.jwt.GenerateTokenPair(auth.TokenInput{
		UserID:      uuid.New(),
		Email:       string(role) + "@example.com",
		Role:        string(role),
		Permissions: role.PermissionStrings(),
	})
	require.NoError(t, err)
	return pair.AccessToken
}

func (a *testAPI) request(method, path, token string, body any) *httptest.ResponseRecorder {
	return a.requestWithKey(method, path, token, "", body)
}

func (a *testAPI) requestWithKey(method, path, token, key string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Language", "en")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if key != "" {
		req.Header.Set(middleware.IdempotencyKeyHeader, key)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	require.NotNil(t, resp.Error, w.Body.String())
	return resp.Error.Code
}

func TestNewEngine_PublicRoutes(t *testing.T) {
	api := newTestAPI(t)

	w := api.request(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, "en", w.Header().Get("Content-Language"))

	w = api.request(http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = api.request(http.MethodGet, "/swagger/index.html", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNewEngine_RequiresToken(t *testing.T) {
	api := newTestAPI(t)

	for _, path := range []string{"/api/v1/stock/products", "/api/v1/ledger/accounts", "/api/v1/auth/me", "/api/v1/settings/company"} {
		w := api.request(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	w := api.request(http.MethodGet, "/api/v1/stock/products", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestNewEngine_Permissions(t *testing.T) {
	api := newTestAPI(t)
	user := api.token(t, identity.RoleUser)
	manager := api.token(t, identity.RoleManager)
	accountant := api.token(t, identity.RoleAccountant)
	admin := api.token(t, identity.RoleAdmin)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   any
		want   int
	}{
		{"user reads stock", http.MethodGet, "/api/v1/stock/products", user, nil, http.StatusOK},
		{"user reads ledger", http.MethodGet, "/api/v1/ledger/accounts", user, nil, http.StatusOK},
		{"user reads company", http.MethodGet, "/api/v1/settings/company", user, nil, http.StatusOK},
		{"user cannot write stock", http.MethodPost, "/api/v1/stock/warehouses", user, gin.H{"code": "W1", "name": "Main"}, http.StatusForbidden},
		{"user cannot manage users", http.MethodGet, "/api/v1/users", user, nil, http.StatusForbidden},
		{"user cannot read audit", http.MethodGet, "/api/v1/audit-logs", user, nil, http.StatusForbidden},
		{"manager writes stock", http.MethodPost, "/api/v1/stock/warehouses", manager, gin.H{"code": "W1", "name": "Main"}, http.StatusCreated},
		{"manager manages hr", http.MethodGet, "/api/v1/departments", manager, nil, http.StatusOK},
		{"manager cannot write ledger", http.MethodPost, "/api/v1/ledger/categories", manager, gin.H{"name": "Cash", "type": "asset"}, http.StatusForbidden},
		{"accountant cannot write stock", http.MethodPost, "/api/v1/stock/receive", accountant, gin.H{}, http.StatusForbidden},
		{"accountant cannot manage hr", http.MethodGet, "/api/v1/employees", accountant, nil, http.StatusForbidden},
		{"accountant reads audit", http.MethodGet, "/api/v1/audit-logs", accountant, nil, http.StatusOK},
		{"admin manages users", http.MethodGet, "/api/v1/users", admin, nil, http.StatusOK},
		{"admin lists roles", http.MethodGet, "/api/v1/roles", admin, nil, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := api.request(tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
			if tt.want == http.StatusForbidden {
				assert.Equal(t, dto.ErrCodeForbidden, errorCode(t, w))
			}
		})
	}
}

func TestNewEngine_RevokedTokenRejected(t *testing.T) {
	api := newTestAPI(t)
	token := api.token(t, identity.RoleAdmin)

	w := api.request(http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.request(http.MethodGet, "/api/v1/users", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "TOKEN_REVOKED", errorCode(t, w))
}

func TestNewEngine_LoginRateLimited(t *testing.T) {
	api := newTestAPI(t)
	body := gin.H{"email": "nobody@example.com", "password": "wrong-password"}

	for i := 0; i < 2; i++ {
		w := api.request(http.MethodPost, "/api/v1/auth/login", "", body)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "INVALID_CREDENTIALS", errorCode(t, w))
	}

	w := api.request(http.MethodPost, "/api/v1/auth/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func createdID(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data.(map[string]any)["id"].(string)
}

func TestNewEngine_IdempotentStockReceipt(t *testing.T) {
	api := newTestAPI(t)
	manager := api.token(t, identity.RoleManager)

	product := createdID(t, api.request(http.MethodPost, "/api/v1/stock/products", manager,
		gin.H{"sku": "OIL-5L", "name": "Soybean Oil 5L", "unit": "bottle"}))
	warehouse := createdID(t, api.request(http.MethodPost, "/api/v1/stock/warehouses", manager,
		gin.H{"code": "WH-1", "name": "Main"}))
	receipt := gin.H{"product_id": product, "warehouse_id": warehouse, "quantity": "12", "unit_cost": "850"}

	w := api.requestWithKey(http.MethodPost, "/api/v1/stock/receive", manager, "grn-77", receipt)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = api.requestWithKey(http.MethodPost, "/api/v1/stock/receive", manager, "grn-77", receipt)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, dto.ErrCodeDuplicateRequest, errorCode(t, w))

	w = api.request(http.MethodGet, "/api/v1/stock/movements?type=purchase", manager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.Meta.Total)
}

func TestNewEngine_CompanyLogoFlow(t *testing.T) {
	api := newTestAPI(t)
	admin := api.token(t, identity.RoleAdmin)

	slot := func() map[string]any {
		w := api.request(http.MethodPost, "/api/v1/settings/company/logo/upload-url", admin, gin.H{"content_type": "image/png"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return resp.Data.(map[string]any)
	}

	first := slot()
	firstKey := first["storage_key"].(string)
	assert.True(t, strings.HasPrefix(first["upload_url"].(string), "http://objects.test/erp/"+firstKey))

	w := api.request(http.MethodPut, "/api/v1/settings/company/logo", admin, gin.H{"storage_key": firstKey})
	assert.Equal(t, "LOGO_NOT_UPLOADED", errorCode(t, w))

	api.objects.Put(firstKey, []byte("png-1"))
	w = api.request(http.MethodPut, "/api/v1/settings/company/logo", admin, gin.H{"storage_key": firstKey})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	second := slot()["storage_key"].(string)
	api.objects.Put(second, []byte("png-2"))
	w = api.request(http.MethodPut, "/api/v1/settings/company/logo", admin, gin.H{"storage_key": second})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 1, api.objects.Len(), "previous logo is removed")

	w = api.request(http.MethodGet, "/api/v1/settings/company", api.token(t, identity.RoleUser), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	company := resp.Data.(map[string]any)
	assert.Equal(t, second, company["logo_key"])
	assert.Contains(t, company["logo_url"], second)
}
