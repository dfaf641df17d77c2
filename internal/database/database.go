package database

import (
	"strings"

	"github.com/etymograph/moderation/internal/config"
	"github.com/etymograph/moderation/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel(cfg.DBLogLevel)),
	})
	if err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates the moderation tables. The content table belongs to the
// authoring service; it is migrated here so the service can run standalone.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.ModerationRecord{},
		&model.CrisisAlert{},
		&model.Notification{},
		&model.Content{},
	)
}

func logLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
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
