package db

import (
	"fmt"

	"bsg-portal/registry/internal/constants"
	"bsg-portal/registry/internal/logging"
	gormModels "bsg-portal/registry/internal/models/gorm"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// GormConfig is shared by the postgres and sqlite openers. TranslateError makes
// unique violations surface as gorm.ErrDuplicatedKey on both dialects.
func GormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	}
}

func InitPostgresORM(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), GormConfig())

	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	logging.Info("Connected to Postgres via GORM")
	return db, nil
}

// Migrate creates or updates every table and seeds the uid counter row.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(gormModels.AllModels()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	seed := gormModels.UIDCounter{Name: constants.UIDCounterName, Value: 0}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return fmt.Errorf("failed to seed uid counter: %w", err)
	}
	return nil
}
