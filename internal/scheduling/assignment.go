package scheduling

import (
	"errors"
	"fmt"

	"github.com/acro-planner/acro-planner-api/internal/models"
	"gorm.io/gorm"
)

// Assigner binds workshops to event slots. Assign is the most
// safety-critical path in the core: it must never let two workshops
// share a slot and must never double-book a host across overlapping
// slots.
type Assigner struct {
	db *gorm.DB
}

func NewAssigner(db *gorm.DB) *Assigner {
	return &Assigner{db: db}
}

// Assign binds workshopID to slotID after the full check sequence:
// existence, slot-busy conflict, caller permission, host availability
// and host time-overlap conflict, in that order.
func (a *Assigner) Assign(workshopID, slotID string, caller Caller) (*models.EventSlot, error) {
	var slot models.EventSlot
	err := a.db.Transaction(func(tx *gorm.DB) error {
		var workshop models.Workshop
		if err := tx.First(&workshop, "id = ?", workshopID).Error; err != nil {
			return wrapNotFound(err, "workshop", workshopID)
		}
		if err := tx.First(&slot, "id = ?", slotID).Error; err != nil {
			return wrapNotFound(err, "event slot", slotID)
		}

		if slot.WorkshopID != nil && *slot.WorkshopID != workshopID {
			return fmt.Errorf("%w: slot %s is already assigned to another workshop", ErrConflict, slotID)
		}

		host, err := workshopHost(tx, workshopID)
		if err != nil {
			return err
		}
		if host != nil {
			if host.UserID != caller.UserID && !caller.Admin {
				return fmt.Errorf("%w: only the workshop host or an admin can assign this workshop", ErrForbidden)
			}
			if len(host.AvailableSlotIDs) > 0 && !containsID(host.AvailableSlotIDs, slotID) {
				return fmt.Errorf("%w: host is not available for this time slot", ErrInvalidState)
			}
			if err := checkHostOverlap(tx, host.ID, workshopID, &slot); err != nil {
				return err
			}
		}

		slot.WorkshopID = &workshopID
		return tx.Save(&slot).Error
	})
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// Unassign clears the binding between workshopID and slotID.
func (a *Assigner) Unassign(workshopID, slotID string, caller Caller) error {
	return a.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&models.Workshop{}, "id = ?", workshopID).Error; err != nil {
			return wrapNotFound(err, "workshop", workshopID)
		}
		var slot models.EventSlot
		err := tx.First(&slot, "id = ? AND workshop_id = ?", slotID, workshopID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: event slot %s is not assigned to workshop %s", ErrNotFound, slotID, workshopID)
		}
		if err != nil {
			return err
		}

		host, err := workshopHost(tx, workshopID)
		if err != nil {
			return err
		}
		if host != nil && host.UserID != caller.UserID && !caller.Admin {
			return fmt.Errorf("%w: only the workshop host or an admin can unassign this workshop", ErrForbidden)
		}

		slot.WorkshopID = nil
		return tx.Save(&slot).Error
	})
}

// DeleteWorkshop removes a workshop and everything hanging off it:
// host bindings, attendee selections, and slot assignments.
func (a *Assigner) DeleteWorkshop(workshopID string, caller Caller) error {
	return a.db.Transaction(func(tx *gorm.DB) error {
		var workshop models.Workshop
		if err := tx.First(&workshop, "id = ?", workshopID).Error; err != nil {
			return wrapNotFound(err, "workshop", workshopID)
		}

		host, err := workshopHost(tx, workshopID)
		if err != nil {
			return err
		}
		if host != nil && host.UserID != caller.UserID && !caller.Admin {
			return fmt.Errorf("%w: only the workshop host or an admin can delete this workshop", ErrForbidden)
		}

		if err := tx.Where("workshop_id = ?", workshopID).Delete(&models.HostWorkshop{}).Error; err != nil {
			return err
		}
		if err := tx.Where("workshop_id = ?", workshopID).Delete(&models.Selection{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.EventSlot{}).Where("workshop_id = ?", workshopID).
			Update("workshop_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&workshop).Error
	})
}

// checkHostOverlap fails when any other slot whose time window overlaps
// the target slot carries a workshop run by the same host.
func checkHostOverlap(tx *gorm.DB, hostID, workshopID string, slot *models.EventSlot) error {
	var others []models.EventSlot
	err := tx.Where("id <> ? AND workshop_id IS NOT NULL AND start_time < ? AND end_time > ?",
		slot.ID, slot.EndTime, slot.StartTime).Find(&others).Error
	if err != nil {
		return err
	}
	for _, other := range others {
		if *other.WorkshopID == workshopID {
			continue
		}
		var binding models.HostWorkshop
		err := tx.First(&binding, "workshop_id = ? AND host_id = ?", *other.WorkshopID, hostID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		return fmt.Errorf("%w: host has a time conflict with another workshop", ErrConflict)
	}
	return nil
}

// workshopHost resolves the host of a workshop via the host-workshop
// binding; nil when the workshop has no host.
func workshopHost(tx *gorm.DB, workshopID string) (*models.Host, error) {
	var binding models.HostWorkshop
	err := tx.First(&binding, "workshop_id = ?", workshopID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var host models.Host
	if err := tx.First(&host, "id = ?", binding.HostID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &host, nil
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
