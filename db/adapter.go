// Package db opens the relational database holding the audit trail. The
// document store keeps the application data; this connection exists only
// for append-heavy tables that would bloat the JSON snapshot.
package db

import (
	"fmt"

	"github.com/socialshowcase/backend/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	ModeSQLite = "sqlite"
	ModeMySQL  = "mysql"
	ModeOff    = "off"
)

// Open returns a *gorm.DB for the configured audit mode. ModeOff returns
// (nil, nil); callers treat a nil DB as auditing disabled.
func Open(cfg config.AuditConfig) (*gorm.DB, error) {
	switch cfg.Mode {
	case ModeSQLite:
		return open(sqlite.Open(cfg.SQLitePath), nil)
	case ModeMySQL:
		return open(mysql.Open(cfg.MySQLDSN), &cfg)
	case ModeOff, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("db: unknown audit mode %q", cfg.Mode)
	}
}

// open dials through gorm with SQL logging silenced; request logging already
// covers the audit path. Pool limits apply only to server-backed modes.
func open(dialector gorm.Dialector, cfg *config.AuditConfig) (*gorm.DB, error) {
	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if cfg != nil {
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(cfg.MaxOpen)
		sqlDB.SetMaxIdleConns(cfg.MaxIdle)
		sqlDB.SetConnMaxLifetime(cfg.MaxLife)
	}
	return gdb, nil
}
