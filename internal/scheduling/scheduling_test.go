package scheduling

import (
	"testing"
	"time"

	"github.com/acro-planner/acro-planner-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.Convention{}, &models.Location{}, &models.Equipment{},
		&models.Capability{}, &models.Workshop{}, &models.HostWorkshop{},
		&models.EventSlot{}, &models.User{}, &models.Attendee{},
		&models.Host{}, &models.Admin{}, &models.Selection{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedConvention(t *testing.T, db *gorm.DB, days int) (models.Convention, models.Location) {
	t.Helper()
	start := time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC)
	convention := models.Convention{
		ID:        uuid.NewString(),
		Name:      "Summer Acro Convention",
		StartDate: start,
		EndDate:   start.AddDate(0, 0, days-1),
		IsActive:  true,
	}
	if err := db.Create(&convention).Error; err != nil {
		t.Fatalf("failed to create convention: %v", err)
	}
	location := models.Location{
		ID:           uuid.NewString(),
		ConventionID: convention.ID,
		Name:         "Main Hall",
		Capacity:     50,
	}
	if err := db.Create(&location).Error; err != nil {
		t.Fatalf("failed to create location: %v", err)
	}
	return convention, location
}

func seedCapability(t *testing.T, db *gorm.DB, name string, parentIDs ...string) models.Capability {
	t.Helper()
	capability := models.Capability{
		ID:                  uuid.NewString(),
		Name:                name,
		ParentCapabilityIDs: parentIDs,
	}
	if err := db.Create(&capability).Error; err != nil {
		t.Fatalf("failed to create capability %s: %v", name, err)
	}
	return capability
}

func seedWorkshop(t *testing.T, db *gorm.DB, conventionID, name string, maxStudents int, prereqIDs ...string) models.Workshop {
	t.Helper()
	workshop := models.Workshop{
		ID:              uuid.NewString(),
		ConventionID:    conventionID,
		Name:            name,
		MaxStudents:     maxStudents,
		PrerequisiteIDs: prereqIDs,
	}
	if err := db.Create(&workshop).Error; err != nil {
		t.Fatalf("failed to create workshop %s: %v", name, err)
	}
	return workshop
}

func seedSlot(t *testing.T, db *gorm.DB, conventionID, locationID string, start, end time.Time) models.EventSlot {
	t.Helper()
	slot := models.EventSlot{
		ID:           uuid.NewString(),
		ConventionID: conventionID,
		LocationID:   locationID,
		StartTime:    start,
		EndTime:      end,
		DayNumber:    1,
	}
	if err := db.Create(&slot).Error; err != nil {
		t.Fatalf("failed to create slot: %v", err)
	}
	return slot
}

func seedAttendee(t *testing.T, db *gorm.DB, conventionID string) models.Attendee {
	t.Helper()
	user := models.User{ID: uuid.NewString(), Email: uuid.NewString() + "@example.com", Name: "Attendee"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	attendee := models.Attendee{
		ID:           uuid.NewString(),
		UserID:       user.ID,
		ConventionID: &conventionID,
		IsRegistered: true,
	}
	if err := db.Create(&attendee).Error; err != nil {
		t.Fatalf("failed to create attendee: %v", err)
	}
	return attendee
}

// seedHost creates a user, attendee and host record, and binds the
// host to the given workshops.
func seedHost(t *testing.T, db *gorm.DB, conventionID string, workshopIDs ...string) models.Host {
	t.Helper()
	attendee := seedAttendee(t, db, conventionID)
	host := models.Host{
		ID:         uuid.NewString(),
		UserID:     attendee.UserID,
		AttendeeID: attendee.ID,
	}
	if err := db.Create(&host).Error; err != nil {
		t.Fatalf("failed to create host: %v", err)
	}
	for _, wid := range workshopIDs {
		binding := models.HostWorkshop{ID: uuid.NewString(), HostID: host.ID, WorkshopID: wid}
		if err := db.Create(&binding).Error; err != nil {
			t.Fatalf("failed to bind host to workshop: %v", err)
		}
	}
	return host
}
