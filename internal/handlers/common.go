package handlers

import (
	"context"
	"errors"

	"github.com/acro-planner/acro-planner-api/internal/auth"
	"github.com/acro-planner/acro-planner-api/internal/models"
	"github.com/acro-planner/acro-planner-api/internal/scheduling"
	"github.com/danielgtaylor/huma/v2"
	"gorm.io/gorm"
)

// authorize resolves the caller's user id and role set in one step.
func authorize(ctx context.Context, a *auth.AuthHandler, db *gorm.DB, cookie string) (string, auth.RoleSet, error) {
	userID, err := a.Authorize(ctx, cookie)
	if err != nil {
		return "", nil, err
	}
	roles, err := auth.RolesFor(db, userID)
	if err != nil {
		return "", nil, huma.Error500InternalServerError("Failed to resolve roles")
	}
	return userID, roles, nil
}

func requireAny(roles auth.RoleSet, wanted ...auth.Role) error {
	for _, role := range wanted {
		if roles.Has(role) {
			return nil
		}
	}
	return huma.Error403Forbidden("Insufficient role")
}

// callerFor builds the identity the scheduling core uses for its
// permission decisions.
func callerFor(userID string, roles auth.RoleSet) scheduling.Caller {
	return scheduling.Caller{UserID: userID, Admin: roles.Has(auth.RoleAdmin)}
}

// attendeeFor resolves the caller's attendee record.
func attendeeFor(db *gorm.DB, userID string) (*models.Attendee, error) {
	var attendee models.Attendee
	err := db.First(&attendee, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, huma.Error404NotFound("Attendee record not found")
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("Database error")
	}
	return &attendee, nil
}

// hostFor resolves the caller's host record.
func hostFor(db *gorm.DB, userID string) (*models.Host, error) {
	var host models.Host
	err := db.First(&host, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, huma.Error404NotFound("Host record not found")
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("Database error")
	}
	return &host, nil
}
