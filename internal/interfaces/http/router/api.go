package router

import (
	"github.com/erp/backoffice/internal/domain/identity"
	"github.com/erp/backoffice/internal/infrastructure/auth"
	"github.com/erp/backoffice/internal/infrastructure/config"
	"github.com/erp/backoffice/internal/infrastructure/i18n"
	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/erp/backoffice/internal/interfaces/http/handler"
	"github.com/erp/backoffice/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Handlers are the HTTP handlers mounted by NewEngine
type Handlers struct {
	System        *handler.SystemHandler
	Auth          *handler.AuthHandler
	User          *handler.UserHandler
	Department    *handler.DepartmentHandler
	Designation   *handler.DesignationHandler
	Employee      *handler.EmployeeHandler
	Category      *handler.CategoryHandler
	Account       *handler.AccountHandler
	TrialBalance  *handler.TrialBalanceHandler
	FinancialYear *handler.FinancialYearHandler
	Journal       *handler.JournalHandler
	Product       *handler.ProductHandler
	Warehouse     *handler.WarehouseHandler
	Stock         *handler.StockHandler
	Company       *handler.CompanyHandler
	Tax           *handler.TaxHandler
	Audit         *handler.AuditHandler
}

// Options carries the infrastructure the middleware chain needs. Limiter,
// AuthLimiter, RequestKeys, Meter and TracerProvider are optional.
type Options struct {
	Config         *config.Config
	Logger         *zap.Logger
	Translator     *i18n.Translator
	JWT            *auth.JWTService
	Blacklist      auth.TokenBlacklist
	Limiter        middleware.Limiter
	AuthLimiter    middleware.Limiter
	RequestKeys    middleware.KeyStore
	Meter          metric.Meter
	TracerProvider trace.TracerProvider
}

// NewEngine builds the gin engine with the full middleware chain and every
// API route. Middleware order:
//
//	RequestID, Recovery, Tracing, request logging, Locale, security headers,
//	CORS, body limit, metrics, rate limit, profiling
//
// The /api/v1 group adds JWT authentication and span enrichment; each route
// then checks its own permission.
func NewEngine(opts Options, h Handlers) *gin.Engine {
	cfg := opts.Config
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName:    cfg.Telemetry.ServiceName,
		Enabled:        cfg.Telemetry.Enabled,
		TracerProvider: opts.TracerProvider,
	}))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Locale(opts.Translator))
	engine.Use(middleware.Secure(middleware.DefaultSecurityConfig(cfg.App.IsProduction())))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfigFromHTTP(cfg.HTTP)))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.HTTPMetrics(opts.Meter, log))
	if cfg.HTTP.RateLimitEnabled && opts.Limiter != nil {
		engine.Use(middleware.RateLimit(opts.Limiter, log))
	}
	engine.Use(middleware.Profiling(cfg.Telemetry.ProfilingEnabled))

	engine.GET("/health", h.System.Health)
	engine.GET("/swagger/*any", middleware.SwaggerProtection(cfg.Swagger), ginSwagger.WrapHandler(swaggerFiles.Handler))

	r := NewRouter(engine, WithAPIVersion("v1"))
	r.Use(
		middleware.JWTAuth(middleware.DefaultJWTConfig(opts.JWT, opts.Blacklist, log)),
		middleware.SpanEnricher(),
	)

	var once gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if opts.RequestKeys != nil {
		once = middleware.Idempotency(opts.RequestKeys, cfg.HTTP.IdempotencyTTL, log)
	}

	systemRoutes := NewDomainGroup("system", "/health")
	systemRoutes.GET("", h.System.Health)

	r.Register(systemRoutes).
		Register(authRoutes(opts, log, h)).
		Register(adminRoutes(h)).
		Register(organizationRoutes(h)).
		Register(ledgerRoutes(h, once)).
		Register(stockRoutes(h, once)).
		Register(settingsRoutes(h)).
		Register(auditRoutes(h))
	r.Setup()

	return engine
}

func authRoutes(opts Options, log *zap.Logger, h Handlers) *DomainGroup {
	g := NewDomainGroup("auth", "/auth")

	var public []gin.HandlerFunc
	if opts.Config.HTTP.AuthRateLimitEnabled && opts.AuthLimiter != nil {
		public = append(public, middleware.RateLimit(opts.AuthLimiter, log))
	}
	g.POST("/login", append(public, h.Auth.Login)...)
	g.POST("/refresh", append(public, h.Auth.RefreshToken)...)
	g.POST("/logout", h.Auth.Logout)
	g.GET("/me", h.Auth.Me)
	return g
}

func adminRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("admin", "")
	g.Use(middleware.RequirePermission(identity.PermUsersManage))

	g.GET("/roles", h.User.Roles)
	g.GET("/users", h.User.List)
	g.POST("/users", h.User.Create)
	g.GET("/users/:id", h.User.Get)
	g.PUT("/users/:id", h.User.Update)
	g.PATCH("/users/:id/toggle-status", h.User.ToggleStatus)
	g.DELETE("/users/:id", h.User.Delete)
	return g
}

func organizationRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("organization", "")
	g.Use(middleware.RequirePermission(identity.PermHRManage))

	g.GET("/departments", h.Department.List)
	g.POST("/departments", h.Department.Create)
	g.GET("/departments/:id", h.Department.Get)
	g.GET("/departments/:id/designations", h.Department.Designations)
	g.PUT("/departments/:id", h.Department.Update)
	g.DELETE("/departments/:id", h.Department.Delete)

	g.GET("/designations", h.Designation.List)
	g.POST("/designations", h.Designation.Create)
	g.GET("/designations/:id", h.Designation.Get)
	g.PUT("/designations/:id", h.Designation.Update)
	g.DELETE("/designations/:id", h.Designation.Delete)

	g.GET("/employees", h.Employee.List)
	g.POST("/employees", h.Employee.Create)
	g.GET("/employees/:id", h.Employee.Get)
	g.PUT("/employees/:id", h.Employee.Update)
	g.DELETE("/employees/:id", h.Employee.Delete)
	return g
}

// ledgerRoutes mounts the ledger. Journal entry creation and posting accept
// an Idempotency-Key through once.
func ledgerRoutes(h Handlers, once gin.HandlerFunc) *DomainGroup {
	read := middleware.RequirePermission(identity.PermLedgerRead)
	write := middleware.RequirePermission(identity.PermLedgerWrite)
	post := middleware.RequirePermission(identity.PermJournalPost)

	g := NewDomainGroup("ledger", "/ledger")
	g.GET("/account-types", read, h.Account.AccountTypes)

	g.GET("/categories", read, h.Category.List)
	g.POST("/categories", write, h.Category.Create)
	g.GET("/categories/:id", read, h.Category.Get)
	g.PUT("/categories/:id", write, h.Category.Update)
	g.DELETE("/categories/:id", write, h.Category.Delete)

	g.GET("/accounts", read, h.Account.List)
	g.POST("/accounts", write, h.Account.Create)
	g.GET("/accounts/:id", read, h.Account.Get)
	g.GET("/accounts/:id/balance", read, h.Account.Balance)
	g.PUT("/accounts/:id", write, h.Account.Update)
	g.DELETE("/accounts/:id", write, h.Account.Delete)
	g.GET("/trial-balance", read, h.TrialBalance.Get)

	g.GET("/financial-years", read, h.FinancialYear.List)
	g.GET("/financial-years/active", read, h.FinancialYear.Active)
	g.POST("/financial-years", write, h.FinancialYear.Create)
	g.GET("/financial-years/:id", read, h.FinancialYear.Get)
	g.PUT("/financial-years/:id", write, h.FinancialYear.Update)
	g.POST("/financial-years/:id/activate", write, h.FinancialYear.Activate)
	g.POST("/financial-years/:id/deactivate", write, h.FinancialYear.Deactivate)
	g.DELETE("/financial-years/:id", write, h.FinancialYear.Delete)

	g.GET("/journal-entries", read, h.Journal.List)
	g.POST("/journal-entries", write, once, h.Journal.Create)
	g.GET("/journal-entries/:id", read, h.Journal.Get)
	g.PUT("/journal-entries/:id", write, h.Journal.Update)
	g.POST("/journal-entries/:id/post", post, once, h.Journal.Post)
	g.DELETE("/journal-entries/:id", write, h.Journal.Delete)
	return g
}

func stockRoutes(h Handlers, once gin.HandlerFunc) *DomainGroup {
	read := middleware.RequirePermission(identity.PermStockRead)
	write := middleware.RequirePermission(identity.PermStockWrite)

	g := NewDomainGroup("stock", "/stock")
	g.GET("/movement-types", read, h.Stock.MovementTypes)

	g.GET("/products", read, h.Product.List)
	g.POST("/products", write, h.Product.Create)
	g.GET("/products/:id", read, h.Product.Get)
	g.GET("/products/:id/total", read, h.Product.Total)
	g.PUT("/products/:id", write, h.Product.Update)
	g.DELETE("/products/:id", write, h.Product.Delete)

	g.GET("/warehouses", read, h.Warehouse.List)
	g.POST("/warehouses", write, h.Warehouse.Create)
	g.GET("/warehouses/:id", read, h.Warehouse.Get)
	g.PUT("/warehouses/:id", write, h.Warehouse.Update)
	g.DELETE("/warehouses/:id", write, h.Warehouse.Delete)

	g.POST("/receive", write, once, h.Stock.Receive)
	g.POST("/issue", write, once, h.Stock.Issue)
	g.POST("/adjust", write, once, h.Stock.Adjust)
	g.POST("/transfers", write, once, h.Stock.Transfer)
	g.GET("/transfers/:reference", read, h.Stock.GetTransfer)
	g.GET("/balances", read, h.Stock.Balances)
	g.GET("/movements", read, h.Stock.Movements)
	return g
}

func settingsRoutes(h Handlers) *DomainGroup {
	write := middleware.RequirePermission(identity.PermSettingsWrite)

	g := NewDomainGroup("settings", "/settings")
	g.GET("/company", h.Company.Get)
	g.PUT("/company", write, h.Company.Update)
	g.POST("/company/logo/upload-url", write, h.Company.RequestLogoUpload)
	g.PUT("/company/logo", write, h.Company.ConfirmLogo)

	g.GET("/taxes", h.Tax.List)
	g.POST("/taxes", write, h.Tax.Create)
	g.GET("/taxes/:id", h.Tax.Get)
	g.PUT("/taxes/:id", write, h.Tax.Update)
	g.DELETE("/taxes/:id", write, h.Tax.Delete)
	return g
}

func auditRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("audit", "/audit-logs")
	g.Use(middleware.RequirePermission(identity.PermAuditRead))
	g.GET("", h.Audit.List)
	g.GET("/:id", h.Audit.Get)
	return g
}
