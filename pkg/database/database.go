package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the database for driver ("postgres" or "sqlite") and dsn.
func Connect(driver, dsn string, level logger.LogLevel) (*gorm.DB, error) {
	switch driver {
	case "postgres":
		return OpenPostgres(dsn, level)
	case "sqlite":
		return OpenSQLite(dsn, level)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func OpenPostgres(dsn string, level logger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // Disables implicit prepared statements for poolers in transaction mode
	}), NewConfig(level))
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Database connection established (postgres)")
	return db, nil
}

// OpenSQLite opens a SQLite file (or ":memory:"). Writers are serialized
// through a single connection, which also keeps ":memory:" on one database.
func OpenSQLite(path string, level logger.LogLevel) (*gorm.DB, error) {
	dsn := "file::memory:?_foreign_keys=on"
	if path != ":memory:" {
		dsn = path + "?_foreign_keys=on&_busy_timeout=5000"
	}

	db, err := gorm.Open(sqlite.Open(dsn), NewConfig(level))
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

// NewConfig is the gorm configuration shared by every driver. Timestamps are
// always written in UTC.
func NewConfig(level logger.LogLevel) *gorm.Config {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	return &gorm.Config{
		Logger:         newLogger,
		PrepareStmt:    false,
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// ParseLogLevel maps DB_LOG_LEVEL values onto gorm log levels.
func ParseLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
