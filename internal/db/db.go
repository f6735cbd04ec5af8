package db

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"battery-rental-backend/config"
	"battery-rental-backend/internal/model"
)

// Init initializes the database connection and runs migrations.
func Init(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)

	log.Println("Running database migrations...")
	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database initialization complete.")
	return db, nil
}

// Migrate creates the schema and the integrity indexes. It is also used by
// tests against in-memory SQLite, so everything here must run on both
// PostgreSQL and SQLite.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.MarketDefinition{},
		&model.Customer{},
		&model.Battery{},
		&model.Market{},
		&model.Rental{},
	); err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}

	// At most one active GIVEN rental per (market, serial). Two checkouts
	// racing through the availability check both try to insert; the second
	// insert fails here and the rejection propagates to the caller.
	ddl := "CREATE UNIQUE INDEX IF NOT EXISTS idx_rentals_active_serial " +
		"ON rentals (market_id, battery_serial) WHERE status = 'GIVEN'"
	if err := db.Exec(ddl).Error; err != nil {
		return fmt.Errorf("active-rental index DDL failed: %w", err)
	}
	return nil
}
