package models

import (
	"time"

	"gorm.io/datatypes"
)

type Workshop struct {
	ID              string                      `gorm:"primaryKey;size:36" json:"id"`
	ConventionID    string                      `gorm:"size:36;index" json:"convention_id"`
	Name            string                      `json:"name"`
	Description     string                      `json:"description"`
	MaxStudents     int                         `gorm:"default:20" json:"max_students"`
	PrerequisiteIDs datatypes.JSONSlice[string] `json:"prerequisite_ids"`
	EquipmentIDs    datatypes.JSONSlice[string] `json:"equipment_ids"`
	CreatedAt       time.Time                   `json:"created_at"`
	UpdatedAt       time.Time                   `json:"updated_at"`
}

// HostWorkshop binds a workshop to the host who runs it.
type HostWorkshop struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	HostID     string    `gorm:"size:36;index" json:"host_id"`
	WorkshopID string    `gorm:"size:36;index" json:"workshop_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
