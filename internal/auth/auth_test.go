package auth

import (
	"context"
	"testing"

	"github.com/acro-planner/acro-planner-api/internal/config"
	"github.com/acro-planner/acro-planner-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestHandleMe(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	db.AutoMigrate(&models.User{}, &models.Admin{}, &models.Host{}, &models.Attendee{})

	user := models.User{
		ID:    uuid.NewString(),
		Email: "test@example.com",
		Name:  "testuser",
	}
	db.Create(&user)
	db.Create(&models.Admin{ID: uuid.NewString(), UserID: user.ID})

	cfg := &config.Config{JWTSecret: "test-secret"}
	handler := NewAuthHandler(cfg, db)

	t.Run("Authenticated", func(t *testing.T) {
		token, _ := handler.GenerateToken(user.ID)
		input := &MeInput{}
		input.Cookie = "auth_token=" + token

		resp, err := handler.HandleMe(context.Background(), input)
		if err != nil {
			t.Fatalf("HandleMe returned error: %v", err)
		}

		if resp.Body.Email != user.Email {
			t.Errorf("expected email %s, got %s", user.Email, resp.Body.Email)
		}
		if len(resp.Body.Roles) != 1 || resp.Body.Roles[0] != "admin" {
			t.Errorf("expected roles [admin], got %v", resp.Body.Roles)
		}
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		input := &MeInput{}
		_, err := handler.HandleMe(context.Background(), input)
		if err == nil {
			t.Fatal("expected error for unauthenticated request, got nil")
		}
	})

	t.Run("GarbageToken", func(t *testing.T) {
		input := &MeInput{}
		input.Cookie = "auth_token=not-a-jwt"
		if _, err := handler.HandleMe(context.Background(), input); err == nil {
			t.Fatal("expected error for garbage token, got nil")
		}
	})
}

func TestRolesFor(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	db.AutoMigrate(&models.User{}, &models.Admin{}, &models.Host{}, &models.Attendee{})

	user := models.User{ID: uuid.NewString(), Email: "host@example.com", Name: "host"}
	db.Create(&user)
	db.Create(&models.Attendee{ID: uuid.NewString(), UserID: user.ID})
	db.Create(&models.Host{ID: uuid.NewString(), UserID: user.ID})

	roles, err := RolesFor(db, user.ID)
	if err != nil {
		t.Fatalf("RolesFor returned error: %v", err)
	}
	if !roles.Has(RoleHost) || !roles.Has(RoleAttendee) {
		t.Errorf("expected host and attendee roles, got %v", roles.List())
	}
	if roles.Has(RoleAdmin) {
		t.Error("did not expect admin role")
	}

	t.Run("NoRoles", func(t *testing.T) {
		roles, err := RolesFor(db, "unknown-user")
		if err != nil {
			t.Fatalf("RolesFor returned error: %v", err)
		}
		if len(roles.List()) != 0 {
			t.Errorf("expected no roles, got %v", roles.List())
		}
	})
}
