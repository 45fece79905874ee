package db

import (
	"fmt"

	"github.com/warchest-gg/server/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	ModeSQLite = "sqlite"
	ModeMySQL  = "mysql"
)

// Open connects to the configured database. SQLite needs only a file
// path (or a file: DSN for in-memory databases); MySQL additionally
// gets its connection pool sized from the config. Debug mode turns on
// gorm statement logging.
func Open(cfg config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	if debug {
		gormCfg.Logger = logger.Default.LogMode(logger.Info)
	}

	switch cfg.Mode {
	case ModeSQLite:
		return gorm.Open(sqlite.Open(cfg.SQLitePath), gormCfg)
	case ModeMySQL:
		gdb, err := gorm.Open(mysql.Open(cfg.MySQLDSN), gormCfg)
		if err != nil {
			return nil, err
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(cfg.MySQLMaxOpen)
		sqlDB.SetMaxIdleConns(cfg.MySQLMaxIdle)
		sqlDB.SetConnMaxLifetime(cfg.MySQLMaxLife)
		return gdb, nil
	default:
		return nil, fmt.Errorf("db: unknown mode %q", cfg.Mode)
	}
}
