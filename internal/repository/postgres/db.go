package postgres

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// maxConnectAttempts bounds the startup retry loop; the database container is often
// still booting when the server starts.
const maxConnectAttempts = 15

// NewPostgres opens a gorm connection to dsn, retrying with exponential backoff
// capped at 10 seconds.
func NewPostgres(dsn string) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	log.Printf("INFO: Attempting to connect to PostgreSQL...")

	for i := 1; i <= maxConnectAttempts; i++ {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		if err == nil {
			sqlDB, dbErr := db.DB()
			if dbErr == nil {
				if err = sqlDB.Ping(); err == nil {
					log.Printf("INFO: PostgreSQL connected (attempt %d)", i)
					return db, nil
				}
			} else {
				err = dbErr
			}
		}

		log.Printf("WARN: PostgreSQL connect attempt %d failed: %v", i, err)

		waitTime := time.Duration(1<<uint(i-1)) * time.Second
		if waitTime > 10*time.Second {
			waitTime = 10 * time.Second
		}
		time.Sleep(waitTime)
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxConnectAttempts, err)
}

// AutoMigrateTables creates or updates the tables for the given models.
func AutoMigrateTables(db *gorm.DB, models ...interface{}) error {
	for _, model := range models {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model: %w", err)
		}
	}
	return nil
}
