// Package db opens the relational store and keeps its schema up to date
package db

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pypanta/blog-comments-api/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var ErrUnknownDriver = errors.New("unknown database driver")

// New opens the database behind dsn with the given driver and migrates
// all tables
func New(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch driver {
	case DriverSQLite:
		// If running in a docker container don't allow the sqlite file to be created.
		// The host should instead mount it using volumes
		if inDocker() && !strings.Contains(dsn, ":memory:") {
			if _, err := os.Stat(sqlitePath(dsn)); errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("SQLite database file not mounted, please use docker volumes to mount it to %s", sqlitePath(dsn))
			}
		}

		dialector = sqlite.Open(withForeignKeys(dsn))
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database, %w", driver, err)
	}

	if driver == DriverSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql.DB, %w", err)
		}

		// SQLite serializes writers anyway and in-memory databases only
		// live as long as their connection
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	// Users first so the comments table can reference it
	if err := db.AutoMigrate(&model.User{}, &model.Comment{}, &model.Contact{}); err != nil {
		return fmt.Errorf("failed to automigrate tables, %w", err)
	}

	return nil
}

// withForeignKeys turns on FK enforcement, which SQLite leaves off per
// connection by default
func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys=") || strings.Contains(dsn, "_fk=") {
		return dsn
	}

	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=on"
	}

	return dsn + "?_foreign_keys=on"
}

func sqlitePath(dsn string) string {
	p, _, _ := strings.Cut(strings.TrimPrefix(dsn, "file:"), "?")
	return p
}

func inDocker() bool {
	_, err := os.Stat("/.dockerenv")
	return err == nil
}
