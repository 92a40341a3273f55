package database

import (
	"log"

	"github.com/assessio/assessment-service/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgresDB(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.SpecialUser{},
		&models.Organization{},
		&models.Test{},
		&models.TestBooking{},
		&models.TestResult{},
	); err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}

	// Lookup paths the migrator doesn't cover. Note: NO unique index on
	// (test_id, candidate_sap_id) — duplicate active bookings are allowed.
	db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_booking_candidate_test
		ON test_bookings (candidate_sap_id, test_id)
	`)
	db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_org_active_token
		ON organizations (access_token)
		WHERE token_active
	`)

	return db
}
