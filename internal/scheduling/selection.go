package scheduling

import (
	"errors"
	"fmt"

	"github.com/acro-planner/acro-planner-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Selections tracks attendee commitment to (workshop, slot) pairs.
// Capacity is always derived by counting live committed selections at
// check time; there is no cached seat counter to drift.
type Selections struct {
	db *gorm.DB
}

func NewSelections(db *gorm.DB) *Selections {
	return &Selections{db: db}
}

// Create records a new selection. Exactly one selection may exist per
// (attendee, workshop, slot) triple. Committing additionally requires
// a free seat and no other committed selection in the same slot.
func (s *Selections) Create(attendeeID, workshopID, slotID string, level models.CommitmentLevel) (*models.Selection, error) {
	if !level.Valid() {
		return nil, fmt.Errorf("%w: unknown commitment level %q", ErrInvalidState, level)
	}

	var selection models.Selection
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&models.Attendee{}, "id = ?", attendeeID).Error; err != nil {
			return wrapNotFound(err, "attendee", attendeeID)
		}
		var workshop models.Workshop
		if err := tx.First(&workshop, "id = ?", workshopID).Error; err != nil {
			return wrapNotFound(err, "workshop", workshopID)
		}
		var slot models.EventSlot
		if err := tx.First(&slot, "id = ?", slotID).Error; err != nil {
			return wrapNotFound(err, "event slot", slotID)
		}
		if slot.WorkshopID != nil && *slot.WorkshopID != workshopID {
			return fmt.Errorf("%w: workshop is not scheduled for this event slot", ErrInvalidState)
		}

		var count int64
		err := tx.Model(&models.Selection{}).
			Where("attendee_id = ? AND workshop_id = ? AND event_slot_id = ?", attendeeID, workshopID, slotID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: workshop already selected for this slot", ErrDuplicate)
		}

		if level == models.CommitmentCommitted {
			if err := checkCommit(tx, attendeeID, slotID, workshop, ""); err != nil {
				return err
			}
		}

		selection = models.Selection{
			ID:              uuid.NewString(),
			AttendeeID:      attendeeID,
			WorkshopID:      workshopID,
			EventSlotID:     &slotID,
			CommitmentLevel: level,
		}
		return tx.Create(&selection).Error
	})
	if err != nil {
		return nil, err
	}
	return &selection, nil
}

// UpdateLevel changes a selection's commitment level. Moving into
// committed re-runs the conflict and capacity checks; any other
// transition is unconstrained.
func (s *Selections) UpdateLevel(selectionID string, level models.CommitmentLevel) (*models.Selection, error) {
	if !level.Valid() {
		return nil, fmt.Errorf("%w: unknown commitment level %q", ErrInvalidState, level)
	}

	var selection models.Selection
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&selection, "id = ?", selectionID).Error; err != nil {
			return wrapNotFound(err, "selection", selectionID)
		}

		if level == models.CommitmentCommitted && selection.CommitmentLevel != models.CommitmentCommitted {
			var workshop models.Workshop
			if err := tx.First(&workshop, "id = ?", selection.WorkshopID).Error; err != nil {
				return wrapNotFound(err, "workshop", selection.WorkshopID)
			}
			slotID := ""
			if selection.EventSlotID != nil {
				slotID = *selection.EventSlotID
			}
			if err := checkCommit(tx, selection.AttendeeID, slotID, workshop, selection.ID); err != nil {
				return err
			}
		}

		selection.CommitmentLevel = level
		return tx.Save(&selection).Error
	})
	if err != nil {
		return nil, err
	}
	return &selection, nil
}

// Delete removes a selection unconditionally, freeing its seat.
func (s *Selections) Delete(selectionID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var selection models.Selection
		if err := tx.First(&selection, "id = ?", selectionID).Error; err != nil {
			return wrapNotFound(err, "selection", selectionID)
		}
		return tx.Delete(&selection).Error
	})
}

// Get fetches a selection by id.
func (s *Selections) Get(selectionID string) (*models.Selection, error) {
	var selection models.Selection
	if err := s.db.First(&selection, "id = ?", selectionID).Error; err != nil {
		return nil, wrapNotFound(err, "selection", selectionID)
	}
	return &selection, nil
}

// Commit upgrades an existing selection to committed, or creates a new
// committed selection when none exists yet.
func (s *Selections) Commit(attendeeID, workshopID, slotID string) (*models.Selection, error) {
	var existing models.Selection
	err := s.db.
		Where("attendee_id = ? AND workshop_id = ? AND event_slot_id = ?", attendeeID, workshopID, slotID).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.Create(attendeeID, workshopID, slotID, models.CommitmentCommitted)
	}
	if err != nil {
		return nil, err
	}
	if existing.CommitmentLevel == models.CommitmentCommitted {
		return nil, fmt.Errorf("%w: already committed to this workshop", ErrDuplicate)
	}
	return s.UpdateLevel(existing.ID, models.CommitmentCommitted)
}

// checkCommit enforces the two commit-time invariants: one committed
// selection per (attendee, slot), and the workshop's seat ceiling.
// The slot conflict compares slot ids only, not time overlap.
func checkCommit(tx *gorm.DB, attendeeID, slotID string, workshop models.Workshop, excludeSelectionID string) error {
	if slotID != "" {
		q := tx.Model(&models.Selection{}).
			Where("attendee_id = ? AND event_slot_id = ? AND commitment_level = ?",
				attendeeID, slotID, models.CommitmentCommitted)
		if excludeSelectionID != "" {
			q = q.Where("id <> ?", excludeSelectionID)
		}
		var conflicts int64
		if err := q.Count(&conflicts).Error; err != nil {
			return err
		}
		if conflicts > 0 {
			return fmt.Errorf("%w: already committed to another workshop at this time", ErrConflict)
		}
	}

	var committed int64
	err := tx.Model(&models.Selection{}).
		Where("workshop_id = ? AND commitment_level = ?", workshop.ID, models.CommitmentCommitted).
		Count(&committed).Error
	if err != nil {
		return err
	}
	if committed >= int64(workshop.MaxStudents) {
		return fmt.Errorf("%w: workshop %s", ErrFull, workshop.ID)
	}
	return nil
}
