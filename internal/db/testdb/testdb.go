// Package testdb opens migrated in-memory SQLite databases for tests.
package testdb

import (
	"fmt"
	"sync/atomic"
	"testing"

	"bsg-portal/registry/internal/db"

	"github.com/jmoiron/sqlx"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var seq atomic.Int64

// New returns a fresh, migrated database private to the test.
func New(t *testing.T) *gorm.DB {
	t.Helper()

	// Named shared-cache DSN so each test gets its own database even if a
	// pooled connection is reopened.
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", seq.Add(1))
	gdb, err := gorm.Open(sqlite.Open(dsn), db.GormConfig())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return gdb
}

// SQLX wraps the same connection pool for raw-SQL repositories.
func SQLX(t *testing.T, gdb *gorm.DB) *sqlx.DB {
	t.Helper()
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	return sqlx.NewDb(sqlDB, "sqlite3")
}
