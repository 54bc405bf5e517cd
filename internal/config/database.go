package config

import (
	"fmt"

	logrus "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"trip_tracker/internal/logger"
	"trip_tracker/internal/storage"
)

// InitDB applies pending migrations (when AUTO_MIGRATE is on) and opens the
// configured database.
func InitDB(cfg *Config) (*gorm.DB, error) {
	if cfg.AutoMigrate {
		if err := storage.Migrate(cfg.DBDriver, cfg.DSN()); err != nil {
			return nil, fmt.Errorf("auto-migration failed: %w", err)
		}
		logrus.WithField("driver", cfg.DBDriver).Info("InitDB: schema up to date")
	}

	db, err := storage.Open(cfg.DBDriver, cfg.DSN(), storage.Options{
		MaxOpenConns: cfg.DBMaxOpenConns,
		Logger:       logger.GormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}
