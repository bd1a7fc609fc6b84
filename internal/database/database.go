package database

import (
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"easetest-backend/internal/config"
	"easetest-backend/internal/store"
)

// Connect opens the device-local SQLite database file.
func Connect(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}

	logger.Info("database connected", zap.String("path", cfg.DBPath))
	return db, nil
}

// Migrate creates the record table the store persists into.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&store.Record{})
}
