package models

import (
	"time"

	"gorm.io/datatypes"
)

// Capability is a node in the prerequisite graph. ParentCapabilityIDs
// holds the ids of its direct prerequisites; edges point from a
// capability toward what it depends on.
type Capability struct {
	ID                  string                      `gorm:"primaryKey;size:36" json:"id"`
	Name                string                      `json:"name"`
	Description         string                      `json:"description"`
	ParentCapabilityIDs datatypes.JSONSlice[string] `json:"parent_capability_ids"`
	CreatedAt           time.Time                   `json:"created_at"`
	UpdatedAt           time.Time                   `json:"updated_at"`
}
