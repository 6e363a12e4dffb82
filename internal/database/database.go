package database

import (
	"log"

	"github.com/acro-planner/acro-planner-api/internal/config"
	"github.com/acro-planner/acro-planner-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto Migrate
	err = db.AutoMigrate(
		&models.User{},
		&models.Convention{},
		&models.Location{},
		&models.Equipment{},
		&models.Capability{},
		&models.Workshop{},
		&models.HostWorkshop{},
		&models.EventSlot{},
		&models.Attendee{},
		&models.Host{},
		&models.Admin{},
		&models.Selection{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}

	return db
}
