package scheduling

import (
	"github.com/acro-planner/acro-planner-api/internal/models"
	"gorm.io/gorm"
)

// Eligibility decides which workshops an attendee may browse as
// fulfillable, based on the prerequisites they have already satisfied.
type Eligibility struct {
	db *gorm.DB
}

func NewEligibility(db *gorm.DB) *Eligibility {
	return &Eligibility{db: db}
}

// FulfilledCapabilities derives the attendee's satisfied capability
// set from their committed selections. A capability counts as
// fulfilled when its name exactly equals the name of a workshop the
// attendee is committed to.
func (e *Eligibility) FulfilledCapabilities(attendeeID string) (map[string]bool, error) {
	if err := e.db.First(&models.Attendee{}, "id = ?", attendeeID).Error; err != nil {
		return nil, wrapNotFound(err, "attendee", attendeeID)
	}

	var committed []models.Selection
	err := e.db.
		Where("attendee_id = ? AND commitment_level = ?", attendeeID, models.CommitmentCommitted).
		Find(&committed).Error
	if err != nil {
		return nil, err
	}

	fulfilled := map[string]bool{}
	for _, selection := range committed {
		var workshop models.Workshop
		if err := e.db.First(&workshop, "id = ?", selection.WorkshopID).Error; err != nil {
			continue
		}
		var capability models.Capability
		if err := e.db.First(&capability, "name = ?", workshop.Name).Error; err != nil {
			continue
		}
		fulfilled[capability.ID] = true
	}
	return fulfilled, nil
}

// FulfillableWorkshops returns every workshop whose prerequisite set is
// a subset of the attendee's fulfilled capabilities. Workshops with no
// prerequisites are always eligible.
func (e *Eligibility) FulfillableWorkshops(attendeeID string) ([]models.Workshop, error) {
	fulfilled, err := e.FulfilledCapabilities(attendeeID)
	if err != nil {
		return nil, err
	}

	var workshops []models.Workshop
	if err := e.db.Find(&workshops).Error; err != nil {
		return nil, err
	}

	var eligible []models.Workshop
	for _, workshop := range workshops {
		ok := true
		for _, prereqID := range workshop.PrerequisiteIDs {
			if !fulfilled[prereqID] {
				ok = false
				break
			}
		}
		if ok {
			eligible = append(eligible, workshop)
		}
	}
	return eligible, nil
}
