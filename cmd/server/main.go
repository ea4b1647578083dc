package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	auditapp "github.com/erp/backoffice/internal/application/audit"
	identityapp "github.com/erp/backoffice/internal/application/identity"
	ledgerapp "github.com/erp/backoffice/internal/application/ledger"
	orgapp "github.com/erp/backoffice/internal/application/organization"
	settingsapp "github.com/erp/backoffice/internal/application/settings"
	stockapp "github.com/erp/backoffice/internal/application/stock"
	"github.com/erp/backoffice/internal/infrastructure/auth"
	"github.com/erp/backoffice/internal/infrastructure/cache"
	"github.com/erp/backoffice/internal/infrastructure/config"
	"github.com/erp/backoffice/internal/infrastructure/i18n"
	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/erp/backoffice/internal/infrastructure/migration"
	"github.com/erp/backoffice/internal/infrastructure/persistence"
	"github.com/erp/backoffice/internal/infrastructure/storage"
	"github.com/erp/backoffice/internal/infrastructure/telemetry"
	"github.com/erp/backoffice/internal/interfaces/http/handler"
	"github.com/erp/backoffice/internal/interfaces/http/middleware"
	"github.com/erp/backoffice/internal/interfaces/http/router"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	_ "github.com/erp/backoffice/docs"
)

//	@title			ERP Back Office API
//	@version		1.0
//	@description	Back-office API for the general ledger, stock, company settings, staff administration and the audit trail.

//	@contact.name	API Support
//	@contact.email	support@erp.example.com

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	tel, err := telemetry.Setup(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			log.Error("Telemetry shutdown failed", zap.Error(err))
		}
	}()
	log = tel.Logs.Bridge(log)

	log.Info("Starting ERP back office",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", telemetry.ServiceVersion),
	)

	db, err := persistence.NewDatabase(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: time.Duration(cfg.Database.SlowQueryMillis) * time.Millisecond,
		DBName:          cfg.Database.DBName,
	}, log); err != nil {
		log.Warn("Failed to register database tracing", zap.Error(err))
	}

	if cfg.Database.AutoMigrate {
		if err := migrate(db, log); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() { _ = redisClient.Close() }()
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}

	var (
		blacklist   auth.TokenBlacklist
		limiter     middleware.Limiter
		authLimiter middleware.Limiter
	)
	if redisClient != nil {
		blacklist = auth.NewRedisTokenBlacklistWithClient(redisClient)
		limiter = middleware.NewRedisRateLimiter(redisClient, "backoffice:ratelimit:", cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		authLimiter = middleware.NewRedisRateLimiter(redisClient, "backoffice:ratelimit:auth:", cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
	} else {
		log.Warn("Redis disabled, token revocation and rate limits are local to this instance")
		blacklist = auth.NewInMemoryTokenBlacklist()
		local := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer local.Close()
		localAuth := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		defer localAuth.Close()
		limiter, authLimiter = local, localAuth
	}
	requestKeys := cache.NewKeyStore(redisClient, cache.DefaultKeyPrefix)
	defer func() { _ = requestKeys.Close() }()

	var objects settingsapp.ObjectStorage
	if cfg.Storage.Enabled {
		s3, err := storage.NewS3Storage(ctx, cfg.Storage, log)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		if err := s3.EnsureBucket(ctx); err != nil {
			log.Warn("Failed to ensure storage bucket", zap.String("bucket", s3.Bucket()), zap.Error(err))
		}
		objects = s3
	}

	tr, err := i18n.New(cfg.I18n.DefaultLanguage)
	if err != nil {
		log.Fatal("Failed to load translations", zap.Error(err))
	}
	middleware.SetupValidator()

	var meter metric.Meter
	if tel.Meter.IsEnabled() {
		meter = tel.Meter.Meter(cfg.Telemetry.ServiceName)
	}

	jwtService := auth.NewJWTService(cfg.JWT)
	handlers, err := buildHandlers(db, jwtService, blacklist, objects, meter, log)
	if err != nil {
		log.Fatal("Failed to initialize services", zap.Error(err))
	}

	engine := router.NewEngine(router.Options{
		Config:      cfg,
		Logger:      log,
		Translator:  tr,
		JWT:         jwtService,
		Blacklist:   blacklist,
		Limiter:     limiter,
		AuthLimiter: authLimiter,
		RequestKeys: requestKeys,
		Meter:       meter,
	}, handlers)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}
	log.Info("Server exited gracefully")
}

// buildHandlers wires repositories, services and handlers
func buildHandlers(db *persistence.Database, jwtService *auth.JWTService, blacklist auth.TokenBlacklist, objects settingsapp.ObjectStorage, meter metric.Meter, log *zap.Logger) (router.Handlers, error) {
	repos, tx := db.Repositories(), db.Scope()

	authService := identityapp.NewAuthService(repos, tx, jwtService, blacklist, log)
	accounts := ledgerapp.NewAccountService(repos, tx, log)
	journals := ledgerapp.NewJournalService(repos, tx, log)
	departments := orgapp.NewDepartmentService(repos, tx, log)
	designations := orgapp.NewDesignationService(repos, tx, log)
	stockService := stockapp.NewStockService(repos, tx, log)

	if meter != nil {
		metrics, err := telemetry.NewBusinessMetrics(meter)
		if err != nil {
			return router.Handlers{}, err
		}
		journals.SetMetrics(metrics)
		stockService.SetMetrics(metrics)
	}

	return router.Handlers{
		System:        handler.NewSystemHandler(db, telemetry.ServiceVersion),
		Auth:          handler.NewAuthHandler(authService),
		User:          handler.NewUserHandler(identityapp.NewUserService(repos, tx, authService, log)),
		Department:    handler.NewDepartmentHandler(departments, designations),
		Designation:   handler.NewDesignationHandler(designations),
		Employee:      handler.NewEmployeeHandler(orgapp.NewEmployeeService(repos, tx, log)),
		Category:      handler.NewCategoryHandler(ledgerapp.NewCategoryService(repos, tx, log)),
		Account:       handler.NewAccountHandler(accounts),
		TrialBalance:  handler.NewTrialBalanceHandler(accounts),
		FinancialYear: handler.NewFinancialYearHandler(ledgerapp.NewFinancialYearService(repos, tx, log)),
		Journal:       handler.NewJournalHandler(journals),
		Product:       handler.NewProductHandler(stockapp.NewProductService(repos, tx, log), stockService),
		Warehouse:     handler.NewWarehouseHandler(stockapp.NewWarehouseService(repos, tx, log)),
		Stock:         handler.NewStockHandler(stockService),
		Company:       handler.NewCompanyHandler(settingsapp.NewCompanyService(repos, tx, objects, log)),
		Tax:           handler.NewTaxHandler(settingsapp.NewTaxService(repos, tx, log)),
		Audit:         handler.NewAuditHandler(auditapp.NewAuditService(repos, log)),
	}, nil
}

// migrate applies the embedded migrations on the open connection
func migrate(db *persistence.Database, log *zap.Logger) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	m, err := migration.New(sqlDB, log)
	if err != nil {
		return err
	}
	return m.Up()
}
