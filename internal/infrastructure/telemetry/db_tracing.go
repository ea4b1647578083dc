package telemetry

import (
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool // include bound variables in span statements; never in production
	SlowQueryThresh time.Duration
	DBName          string
	TracerProvider  trace.TracerProvider // nil uses the global provider
}

const queryStartedKey = "telemetry:query_started_at"

// RegisterDBTracing installs the otelgorm plugin plus a slow-query marker on db
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBName)}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if cfg.TracerProvider != nil {
		opts = append(opts, otelgorm.WithTracerProvider(cfg.TracerProvider))
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	if cfg.SlowQueryThresh > 0 {
		if err := registerSlowQueryCallbacks(db, cfg.SlowQueryThresh, logger); err != nil {
			return err
		}
	}

	logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", cfg.LogFullSQL),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThresh),
	)
	return nil
}

func registerSlowQueryCallbacks(db *gorm.DB, threshold time.Duration, logger *zap.Logger) error {
	before := func(tx *gorm.DB) {
		tx.InstanceSet(queryStartedKey, time.Now())
	}
	after := func(tx *gorm.DB) {
		v, ok := tx.InstanceGet(queryStartedKey)
		if !ok {
			return
		}
		started, ok := v.(time.Time)
		if !ok {
			return
		}
		elapsed := time.Since(started)
		if elapsed < threshold {
			return
		}
		span := trace.SpanFromContext(tx.Statement.Context)
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.duration_ms", elapsed.Milliseconds()),
		)
		logger.Warn("Slow query",
			zap.String("table", tx.Statement.Table),
			zap.Duration("elapsed", elapsed),
			zap.String("trace_id", span.SpanContext().TraceID().String()),
		)
	}

	cb := db.Callback()
	return errors.Join(
		cb.Create().Before("gorm:create").Register("telemetry:before_create", before),
		cb.Create().After("gorm:create").Register("telemetry:after_create", after),
		cb.Query().Before("gorm:query").Register("telemetry:before_query", before),
		cb.Query().After("gorm:query").Register("telemetry:after_query", after),
		cb.Update().Before("gorm:update").Register("telemetry:before_update", before),
		cb.Update().After("gorm:update").Register("telemetry:after_update", after),
		cb.Delete().Before("gorm:delete").Register("telemetry:before_delete", before),
		cb.Delete().After("gorm:delete").Register("telemetry:after_delete", after),
		cb.Row().Before("gorm:row").Register("telemetry:before_row", before),
		cb.Row().After("gorm:row").Register("telemetry:after_row", after),
		cb.Raw().Before("gorm:raw").Register("telemetry:before_raw", before),
		cb.Raw().After("gorm:raw").Register("telemetry:after_raw", after),
	)
}
