package database

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/laiysh/guestlist/internal/models"
)

func NewPostgresDB(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.Guest{}); err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}

	// Case-insensitive dedupe key; model tags can't express the lower() index
	db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_guest_email_lower
		ON guests (lower(email))
	`)

	return db
}
