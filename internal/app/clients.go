package app

import (
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/roomfinder-backend/internal/data/db"
	"github.com/yungbote/roomfinder-backend/internal/platform/logger"
	"github.com/yungbote/roomfinder-backend/internal/platform/userlock"
)

// OpenDB connects to the configured database. It does not migrate.
func OpenDB(log *logger.Logger, cfg Config) (*gorm.DB, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.DBDriver)) {
	case DriverSQLite:
		conn, err := db.OpenSQLite(log, cfg.SQLitePath, false)
		if err != nil {
			return nil, fmt.Errorf("init sqlite: %w", err)
		}
		return conn, nil
	default:
		pg, err := db.NewPostgresService(log, cfg.Postgres())
		if err != nil {
			return nil, fmt.Errorf("init postgres: %w", err)
		}
		return pg.DB(), nil
	}
}

// OpenMigratedDB connects and brings the schema up to date.
func OpenMigratedDB(log *logger.Logger, cfg Config) (*gorm.DB, error) {
	conn, err := OpenDB(log, cfg)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrateAll(conn); err != nil {
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	return conn, nil
}

// wireLocker picks the per-user lock: Redis when configured so several
// replicas share it, otherwise in-process.
func wireLocker(log *logger.Logger, cfg Config) (userlock.Locker, *goredis.Client, error) {
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		log.Info("Using in-process user locks")
		return userlock.NewLocalLocker(), nil, nil
	}
	rdb, err := userlock.NewRedisClient(cfg.RedisAddr)
	if err != nil {
		return nil, nil, fmt.Errorf("init redis: %w", err)
	}
	log.Info("Using Redis user locks", "addr", cfg.RedisAddr)
	return userlock.NewRedisLocker(log, rdb, cfg.LockTTL), rdb, nil
}
