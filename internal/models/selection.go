package models

import (
	"time"
)

type CommitmentLevel string

const (
	CommitmentInterested CommitmentLevel = "interested"
	CommitmentMaybe      CommitmentLevel = "maybe"
	CommitmentCommitted  CommitmentLevel = "committed"
)

func (l CommitmentLevel) Valid() bool {
	switch l {
	case CommitmentInterested, CommitmentMaybe, CommitmentCommitted:
		return true
	}
	return false
}

// Selection records an attendee's interest in a workshop at a slot.
type Selection struct {
	ID              string          `gorm:"primaryKey;size:36" json:"id"`
	AttendeeID      string          `gorm:"size:36;index" json:"attendee_id"`
	WorkshopID      string          `gorm:"size:36;index" json:"workshop_id"`
	EventSlotID     *string         `gorm:"size:36;index" json:"event_slot_id"`
	CommitmentLevel CommitmentLevel `gorm:"size:20;default:interested" json:"commitment_level"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
