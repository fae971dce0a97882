package db

import (
	"fmt"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/roomfinder-backend/internal/platform/logger"
)

// MemoryDSN is a private in-memory database shared by the connections of
// one pool.
const MemoryDSN = "file::memory:?cache=shared&_busy_timeout=5000"

// OpenSQLite opens a single-connection SQLite database. path may be a file
// path or MemoryDSN.
func OpenSQLite(logg *logger.Logger, path string, quiet bool) (*gorm.DB, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = MemoryDSN
	}
	lg := newGormLogger()
	if quiet {
		lg = gormLogger.Default.LogMode(gormLogger.Silent)
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   lg,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %q: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	// SQLite allows one writer; a single connection keeps transactions from
	// tripping over SQLITE_BUSY.
	sqlDB.SetMaxOpenConns(1)

	if logg != nil {
		logg.With("service", "SQLite").Info("Opened SQLite database", "path", path)
	}
	return db, nil
}
