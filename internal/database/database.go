package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gradebook/internal/config"
	"gradebook/internal/store"
)

// InitDB opens the database for the configured store driver, migrates the
// records table and purges rows left by an earlier process. The memory driver
// needs no database and returns nil.
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.StoreDriver {
	case "memory":
		return nil, nil
	case "sqlite":
		dialector = sqlite.Open(cfg.DBDSN)
	case "postgres":
		dialector = postgres.Open(cfg.PostgresDSN())
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	if err := Purge(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the records table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&store.RecordRow{}); err != nil {
		return fmt.Errorf("failed to auto-migrate the database: %w", err)
	}
	return nil
}

// Purge deletes every stored record. Sessions live in memory, so rows found at
// startup belong to sessions no cookie can resolve any more.
func Purge(db *gorm.DB) error {
	if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&store.RecordRow{}).Error; err != nil {
		return fmt.Errorf("failed to purge stale records: %w", err)
	}
	return nil
}
