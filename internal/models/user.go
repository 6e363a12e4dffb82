package models

import (
	"time"

	"gorm.io/datatypes"
)

type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Email     string    `gorm:"uniqueIndex" json:"email"`
	Name      string    `json:"name"`
	OAuthOnly bool      `json:"oauth_only"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Attendee ties a user to a convention. A user has roughly one
// attendee record per convention they registered for.
type Attendee struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	UserID       string    `gorm:"size:36;index" json:"user_id"`
	ConventionID *string   `gorm:"size:36;index" json:"convention_id"`
	IsRegistered bool      `json:"is_registered"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Host marks a user as a workshop host. AvailableSlotIDs is an
// allow-list of slots the host can teach in; an empty or unset list
// means the host is available for any slot.
type Host struct {
	ID               string                      `gorm:"primaryKey;size:36" json:"id"`
	UserID           string                      `gorm:"size:36;index" json:"user_id"`
	AttendeeID       string                      `gorm:"size:36" json:"attendee_id"`
	AvailableSlotIDs datatypes.JSONSlice[string] `json:"available_slot_ids"`
	CreatedAt        time.Time                   `json:"created_at"`
	UpdatedAt        time.Time                   `json:"updated_at"`
}

// Admin presence grants the admin role. Roles are derived from rows in
// the admins/hosts/attendees tables, not from a column on users.
type Admin struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;uniqueIndex" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
