package db

import (
	"fmt"

	"github.com/diewo77/go-facturas/internal/config"
	"github.com/diewo77/go-facturas/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the configured driver. The default is an in-memory sqlite database.
func Open(cfg config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	logLevel := logger.Silent
	if debug {
		logLevel = logger.Info
	}
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "", "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "postgres":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("DB_DSN is required for the postgres driver")
		}
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, gcfg)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}
	if err := db.Exec("SELECT 1").Error; err != nil {
		return nil, fmt.Errorf("db ping failed: %w", err)
	}
	return db, nil
}

// Migrate runs AutoMigrate for all models.
// Call this at application startup or as part of a migration step.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Invoice{})
}

// Seed inserts the invoice fixture. It is idempotent: rows are matched by id
// and never overwritten, so a restart does not duplicate data.
func Seed(db *gorm.DB) error {
	for _, inv := range Fixtures() {
		if v := inv.Validate(); !v.Empty() {
			return fmt.Errorf("fixture invoice %d is invalid: %v", inv.ID, v)
		}
		if err := db.Where("id = ?", inv.ID).FirstOrCreate(&inv).Error; err != nil {
			return fmt.Errorf("seed invoice %d: %w", inv.ID, err)
		}
	}
	return nil
}
