package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func ok(body string) gin.HandlerFunc {
	return func(c *gin.Context) { c.String(http.StatusOK, body) }
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "/api/v1", r.Prefix())
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "/api/v2", r.Prefix())
}

func TestDomainGroup_Methods(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("stock", "/stock")
	g.GET("/warehouses", ok("list")).
		POST("/warehouses", ok("create")).
		PUT("/warehouses/:id", ok("update")).
		PATCH("/warehouses/:id", ok("patch")).
		DELETE("/warehouses/:id", ok("delete"))
	NewRouter(engine).Register(g).Setup()

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/api/v1/stock/warehouses", "list"},
		{http.MethodPost, "/api/v1/stock/warehouses", "create"},
		{http.MethodPut, "/api/v1/stock/warehouses/1", "update"},
		{http.MethodPatch, "/api/v1/stock/warehouses/1", "patch"},
		{http.MethodDelete, "/api/v1/stock/warehouses/1", "delete"},
	}
	for _, tt := range tests {
		w := serve(engine, tt.method, tt.path)
		assert.Equal(t, http.StatusOK, w.Code, "%s %s", tt.method, tt.path)
		assert.Equal(t, tt.body, w.Body.String())
	}

	assert.Equal(t, "stock", g.Name())
	assert.Equal(t, "/stock", g.Prefix())
}

func TestDomainGroup_MiddlewareAndSubgroups(t *testing.T) {
	engine := gin.New()
	ledger := NewDomainGroup("ledger", "/ledger")
	ledger.Use(func(c *gin.Context) {
		c.Header("X-Module", "ledger")
		c.Next()
	})
	ledger.Group("accounts", "/accounts").GET("", ok("accounts"))
	ledger.Group("journals", "/journal-entries").GET("", ok("journals"))

	other := NewDomainGroup("stock", "/stock")
	other.GET("/products", ok("products"))

	NewRouter(engine).Register(ledger).Register(other).Setup()

	w := serve(engine, http.MethodGet, "/api/v1/ledger/accounts")
	assert.Equal(t, "accounts", w.Body.String())
	assert.Equal(t, "ledger", w.Header().Get("X-Module"))

	w = serve(engine, http.MethodGet, "/api/v1/ledger/journal-entries")
	assert.Equal(t, "journals", w.Body.String())

	w = serve(engine, http.MethodGet, "/api/v1/stock/products")
	assert.Equal(t, "products", w.Body.String())
	assert.Empty(t, w.Header().Get("X-Module"))
}

func TestRouter_Use(t *testing.T) {
	engine := gin.New()
	engine.GET("/health", ok("up"))

	g := NewDomainGroup("audit", "/audit-logs")
	g.GET("", ok("logs"))

	NewRouter(engine).
		Use(func(c *gin.Context) {
			c.AbortWithStatus(http.StatusUnauthorized)
		}).
		Register(g).
		Setup()

	assert.Equal(t, http.StatusUnauthorized, serve(engine, http.MethodGet, "/api/v1/audit-logs").Code)
	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/health").Code)
}

func TestRouter_Routes(t *testing.T) {
	stock := NewDomainGroup("stock", "/stock")
	stock.GET("/balances", ok("balances")).POST("/transfers", ok("transfer"))
	stock.Group("reports", "/reports").GET("", ok("reports"))

	health := NewDomainGroup("system", "/health")
	health.GET("", ok("up"))

	r := NewRouter(gin.New(), WithAPIVersion("v2")).Register(stock).Register(health)
	assert.Equal(t, []string{
		"GET /api/v2/stock/balances",
		"POST /api/v2/stock/transfers",
		"GET /api/v2/stock/reports",
		"GET /api/v2/health",
	}, r.Routes())
}
