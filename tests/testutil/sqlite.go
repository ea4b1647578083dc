// Package testutil holds shared fixtures for unit and handler tests: an
// in-memory database with the full schema and JSON request helpers.
package testutil

import (
	"testing"

	"github.com/erp/backoffice/internal/application/scope"
	"github.com/erp/backoffice/internal/infrastructure/persistence"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLiteDB is an in-memory database migrated with every persisted model
type SQLiteDB struct {
	DB    *gorm.DB
	Repos scope.Repositories
	Scope scope.TransactionScope
}

// NewSQLiteDB opens a private in-memory SQLite database. The pool is pinned
// to one connection so every query sees the same memory database.
func NewSQLiteDB(t *testing.T) *SQLiteDB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to open sqlite")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(persistence.AllModels()...), "Failed to migrate sqlite schema")

	return &SQLiteDB{
		DB:    db,
		Repos: persistence.NewRepositories(db),
		Scope: persistence.NewGormTransactionScope(db),
	}
}
