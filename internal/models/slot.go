package models

import (
	"time"
)

// EventSlot is a bookable time window at a location within a
// convention day. WorkshopID is null until a workshop is assigned.
type EventSlot struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	ConventionID string    `gorm:"size:36;index" json:"convention_id"`
	LocationID   string    `gorm:"size:36;index" json:"location_id"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	DayNumber    int       `json:"day_number"`
	WorkshopID   *string   `gorm:"size:36;index" json:"workshop_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
