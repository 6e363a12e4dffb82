package auth

import (
	"github.com/acro-planner/acro-planner-api/internal/models"
	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleHost     Role = "host"
	RoleAttendee Role = "attendee"
)

// RoleSet is the set of role tags a user holds. Roles are derived from
// row presence in the admins/hosts/attendees tables, so a user can
// hold any combination.
type RoleSet map[Role]bool

func (s RoleSet) Has(role Role) bool { return s[role] }

func (s RoleSet) List() []string {
	var roles []string
	for _, role := range []Role{RoleAdmin, RoleHost, RoleAttendee} {
		if s[role] {
			roles = append(roles, string(role))
		}
	}
	return roles
}

func RolesFor(db *gorm.DB, userID string) (RoleSet, error) {
	roles := RoleSet{}

	var count int64
	if err := db.Model(&models.Admin{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		roles[RoleAdmin] = true
	}

	if err := db.Model(&models.Host{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		roles[RoleHost] = true
	}

	if err := db.Model(&models.Attendee{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		roles[RoleAttendee] = true
	}

	return roles, nil
}
