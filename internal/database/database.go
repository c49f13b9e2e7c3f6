package database

import (
	"log/slog"

	"storefront/internal/config"
	"storefront/internal/models"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open connects to the configured database. TranslateError is enabled so
// unique-index violations surface as gorm.ErrDuplicatedKey on every driver.
func Open(cfg config.DatabaseConfig, logger *slog.Logger, debug bool) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, errors.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newGormSlogLogger(logger, debug),
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to %s database", cfg.Driver)
	}
	return db, nil
}

// Migrate creates or updates the tables and unique indexes for all models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Store{}, &models.Product{}); err != nil {
		return errors.Wrap(err, "failed to migrate database")
	}
	return nil
}
