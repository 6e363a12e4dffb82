package models

import (
	"time"

	"gorm.io/datatypes"
)

type Location struct {
	ID           string                      `gorm:"primaryKey;size:36" json:"id"`
	ConventionID string                      `gorm:"size:36;index" json:"convention_id"`
	Name         string                      `json:"name"`
	Description  string                      `json:"description"`
	Capacity     int                         `json:"capacity"`
	Address      string                      `json:"address"`
	EquipmentIDs datatypes.JSONSlice[string] `json:"equipment_ids"`
	CreatedAt    time.Time                   `json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
}

type Equipment struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	ConventionID string    `gorm:"size:36;index" json:"convention_id"`
	LocationID   *string   `gorm:"size:36" json:"location_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Quantity     int       `gorm:"default:1" json:"quantity"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
