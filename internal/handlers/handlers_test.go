package handlers

import (
	"errors"
	"testing"
	"time"

	"github.com/acro-planner/acro-planner-api/internal/auth"
	"github.com/acro-planner/acro-planner-api/internal/config"
	"github.com/acro-planner/acro-planner-api/internal/models"
	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fixture struct {
	db   *gorm.DB
	auth *auth.AuthHandler

	adminCookie    string
	hostCookie     string
	attendeeCookie string

	convention models.Convention
	location   models.Location
	host       models.Host
	attendee   models.Attendee
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{}, &models.Convention{}, &models.Location{}, &models.Equipment{},
		&models.Capability{}, &models.Workshop{}, &models.HostWorkshop{},
		&models.EventSlot{}, &models.Attendee{}, &models.Host{}, &models.Admin{},
		&models.Selection{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	cfg := &config.Config{JWTSecret: "test-secret"}
	authHandler := auth.NewAuthHandler(cfg, db)

	f := &fixture{db: db, auth: authHandler}

	start := time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC)
	f.convention = models.Convention{
		ID:        uuid.NewString(),
		Name:      "Summer Acro Convention",
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 2),
		IsActive:  true,
	}
	mustCreate(t, db, &f.convention)
	f.location = models.Location{
		ID:           uuid.NewString(),
		ConventionID: f.convention.ID,
		Name:         "Main Hall",
		Capacity:     50,
	}
	mustCreate(t, db, &f.location)

	// Admin
	adminUser := models.User{ID: uuid.NewString(), Email: "admin@example.com", Name: "admin"}
	mustCreate(t, db, &adminUser)
	mustCreate(t, db, &models.Admin{ID: uuid.NewString(), UserID: adminUser.ID})
	f.adminCookie = cookieFor(t, authHandler, adminUser.ID)

	// Host (with its own attendee record)
	hostUser := models.User{ID: uuid.NewString(), Email: "host@example.com", Name: "host"}
	mustCreate(t, db, &hostUser)
	hostAttendee := models.Attendee{ID: uuid.NewString(), UserID: hostUser.ID, ConventionID: &f.convention.ID, IsRegistered: true}
	mustCreate(t, db, &hostAttendee)
	f.host = models.Host{ID: uuid.NewString(), UserID: hostUser.ID, AttendeeID: hostAttendee.ID}
	mustCreate(t, db, &f.host)
	f.hostCookie = cookieFor(t, authHandler, hostUser.ID)

	// Attendee
	attendeeUser := models.User{ID: uuid.NewString(), Email: "attendee@example.com", Name: "attendee"}
	mustCreate(t, db, &attendeeUser)
	f.attendee = models.Attendee{ID: uuid.NewString(), UserID: attendeeUser.ID, ConventionID: &f.convention.ID, IsRegistered: true}
	mustCreate(t, db, &f.attendee)
	f.attendeeCookie = cookieFor(t, authHandler, attendeeUser.ID)

	return f
}

func mustCreate(t *testing.T, db *gorm.DB, value interface{}) {
	t.Helper()
	if err := db.Create(value).Error; err != nil {
		t.Fatalf("failed to create %T: %v", value, err)
	}
}

func cookieFor(t *testing.T, authHandler *auth.AuthHandler, userID string) string {
	t.Helper()
	token, err := authHandler.GenerateToken(userID)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return "auth_token=" + token
}

// wantStatus asserts the error is a huma status error with the given
// HTTP status.
func wantStatus(t *testing.T, err error, status int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected status %d error, got nil", status)
	}
	var statusErr huma.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected huma status error, got %v", err)
	}
	if statusErr.GetStatus() != status {
		t.Fatalf("expected status %d, got %d (%v)", status, statusErr.GetStatus(), err)
	}
}

func (f *fixture) newSlot(t *testing.T, start, end time.Time) models.EventSlot {
	t.Helper()
	slot := models.EventSlot{
		ID:           uuid.NewString(),
		ConventionID: f.convention.ID,
		LocationID:   f.location.ID,
		StartTime:    start,
		EndTime:      end,
		DayNumber:    1,
	}
	mustCreate(t, f.db, &slot)
	return slot
}

func (f *fixture) newHostedWorkshop(t *testing.T, name string, maxStudents int, prereqIDs ...string) models.Workshop {
	t.Helper()
	workshop := models.Workshop{
		ID:              uuid.NewString(),
		ConventionID:    f.convention.ID,
		Name:            name,
		MaxStudents:     maxStudents,
		PrerequisiteIDs: prereqIDs,
	}
	mustCreate(t, f.db, &workshop)
	mustCreate(t, f.db, &models.HostWorkshop{ID: uuid.NewString(), HostID: f.host.ID, WorkshopID: workshop.ID})
	return workshop
}
