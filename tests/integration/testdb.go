// Package integration runs the back office against a real PostgreSQL started
// with testcontainers. Tests skip in -short mode.
package integration

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/erp/backoffice/internal/application/scope"
	"github.com/erp/backoffice/internal/infrastructure/config"
	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/erp/backoffice/internal/infrastructure/migration"
	"github.com/erp/backoffice/internal/infrastructure/persistence"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// TestDB is a migrated database in its own container
type TestDB struct {
	DB        *gorm.DB
	SqlDB     *sql.DB
	Repos     scope.Repositories
	Scope     scope.TransactionScope
	Container testcontainers.Container
	DSN       string
}

func skipIfShort(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
}

// NewTestDB starts PostgreSQL, applies the embedded migrations and registers
// cleanup of both the connection and the container.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	skipIfShort(t)
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("erp_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("admin123"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, sqlDB := connect(t, dsn)
	t.Cleanup(func() { _ = sqlDB.Close() })

	m, err := migration.New(migrationConn(t, dsn), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up())
	_ = m.Close()

	return &TestDB{
		DB:        db,
		SqlDB:     sqlDB,
		Repos:     persistence.NewRepositories(db),
		Scope:     persistence.NewGormTransactionScope(db),
		Container: container,
		DSN:       dsn,
	}
}

// migrationConn opens a dedicated lib/pq handle; closing the migrator closes it.
func migrationConn(t *testing.T, dsn string) *sql.DB {
	t.Helper()
	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	return db
}

func connect(t *testing.T, dsn string) (*gorm.DB, *sql.DB) {
	t.Helper()
	level := "silent"
	if os.Getenv("TEST_DB_DEBUG") != "" {
		level = "info"
	}
	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger:                 logger.NewGormLogger(zap.NewNop(), config.DatabaseConfig{LogLevel: level}),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err, "Failed to connect to database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	return db, sqlDB
}

// CleanTables truncates every application table
func (tdb *TestDB) CleanTables(t *testing.T) {
	t.Helper()
	var tables []string
	err := tdb.DB.Raw(`
		SELECT tablename FROM pg_tables
		WHERE schemaname = 'public' AND tablename != 'schema_migrations'
	`).Scan(&tables).Error
	require.NoError(t, err)
	for _, table := range tables {
		require.NoError(t, tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %q CASCADE", table)).Error)
	}
}

// Count returns the row count of table
func (tdb *TestDB) Count(t *testing.T, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, tdb.DB.Table(table).Count(&n).Error)
	return n
}
