package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erp/backoffice/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGormLogger(cfg config.DatabaseConfig) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), cfg), recorded
}

func sqlFunc(sql string, rows int64) func() (string, int64) {
	return func() (string, int64) { return sql, rows }
}

func TestNewGormLogger_Threshold(t *testing.T) {
	l, _ := newObservedGormLogger(config.DatabaseConfig{})
	assert.Equal(t, defaultSlowThreshold, l.slowThreshold)
	assert.Equal(t, gormlogger.Warn, l.logLevel)

	l, _ = newObservedGormLogger(config.DatabaseConfig{SlowQueryMillis: 500, LogLevel: "info"})
	assert.Equal(t, 500*time.Millisecond, l.slowThreshold)
	assert.Equal(t, gormlogger.Info, l.logLevel)

	l, _ = newObservedGormLogger(config.DatabaseConfig{SlowQueryMillis: -1})
	assert.Zero(t, l.slowThreshold)
}

func TestGormLogger_LogMode(t *testing.T) {
	l, _ := newObservedGormLogger(config.DatabaseConfig{LogLevel: "info"})
	silent := l.LogMode(gormlogger.Silent)

	assert.Equal(t, gormlogger.Info, l.logLevel)
	assert.Equal(t, gormlogger.Silent, silent.(*GormLogger).logLevel)
}

func TestGormLogger_Trace(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-5")

	t.Run("query at info", func(t *testing.T) {
		l, recorded := newObservedGormLogger(config.DatabaseConfig{LogLevel: "info"})
		l.Trace(ctx, time.Now(), sqlFunc("SELECT 1", 1), nil)

		entries := recorded.FilterMessage("SQL Query").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "SELECT 1", entries[0].ContextMap()["sql"])
		assert.Equal(t, "req-5", entries[0].ContextMap()["request_id"])
	})

	t.Run("query hidden at warn", func(t *testing.T) {
		l, recorded := newObservedGormLogger(config.DatabaseConfig{LogLevel: "warn"})
		l.Trace(ctx, time.Now(), sqlFunc("SELECT 1", 1), nil)
		assert.Zero(t, recorded.Len())
	})

	t.Run("slow query", func(t *testing.T) {
		l, recorded := newObservedGormLogger(config.DatabaseConfig{LogLevel: "warn", SlowQueryMillis: 10})
		l.Trace(ctx, time.Now().Add(-time.Second), sqlFunc("SELECT pg_sleep(1)", 1), nil)

		entries := recorded.FilterMessage("Slow SQL").All()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	})

	t.Run("error", func(t *testing.T) {
		l, recorded := newObservedGormLogger(config.DatabaseConfig{LogLevel: "error"})
		l.Trace(ctx, time.Now(), sqlFunc("INSERT", 0), errors.New("duplicate key"))
		assert.Equal(t, 1, recorded.FilterMessage("SQL Error").Len())
	})

	t.Run("record not found ignored", func(t *testing.T) {
		l, recorded := newObservedGormLogger(config.DatabaseConfig{LogLevel: "error"})
		l.Trace(ctx, time.Now(), sqlFunc("SELECT", 0), gormlogger.ErrRecordNotFound)
		assert.Zero(t, recorded.Len())
	})

	t.Run("silent", func(t *testing.T) {
		l, recorded := newObservedGormLogger(config.DatabaseConfig{LogLevel: "silent"})
		l.Trace(ctx, time.Now(), sqlFunc("INSERT", 0), errors.New("boom"))
		assert.Zero(t, recorded.Len())
	})
}

func TestGormLogger_Printf(t *testing.T) {
	l, recorded := newObservedGormLogger(config.DatabaseConfig{LogLevel: "warn"})
	ctx := context.Background()

	l.Info(ctx, "migrated %d tables", 3)
	l.Warn(ctx, "deprecated %s", "column")
	l.Error(ctx, "failed %s", "insert")

	assert.Zero(t, recorded.FilterMessage("migrated 3 tables").Len())
	assert.Equal(t, 1, recorded.FilterMessage("deprecated column").Len())
	assert.Equal(t, 1, recorded.FilterMessage("failed insert").Len())
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("warn"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("loud"))
}
