package handlers

import (
	"context"
	"errors"

	"github.com/acro-planner/acro-planner-api/internal/auth"
	"github.com/acro-planner/acro-planner-api/internal/models"
	"github.com/acro-planner/acro-planner-api/internal/scheduling"
	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WorkshopHandler struct {
	db          *gorm.DB
	assigner    *scheduling.Assigner
	authHandler *auth.AuthHandler
}

func NewWorkshopHandler(db *gorm.DB, authHandler *auth.AuthHandler) *WorkshopHandler {
	return &WorkshopHandler{
		db:          db,
		assigner:    scheduling.NewAssigner(db),
		authHandler: authHandler,
	}
}

// WorkshopResponse augments the model with the live committed count,
// recomputed on every read rather than cached.
type WorkshopResponse struct {
	models.Workshop
	HostID          string `json:"host_id,omitempty"`
	CurrentStudents int64  `json:"current_students"`
}

type CreateWorkshopInput struct {
	auth.AuthInput
	Body struct {
		Name            string   `json:"name" minLength:"1"`
		Description     string   `json:"description,omitempty"`
		MaxStudents     int      `json:"max_students" minimum:"1"`
		PrerequisiteIDs []string `json:"prerequisite_ids,omitempty"`
		EquipmentIDs    []string `json:"equipment_ids,omitempty"`
	}
}

type WorkshopOutput struct {
	Body WorkshopResponse
}

func (h *WorkshopHandler) HandleCreate(ctx context.Context, input *CreateWorkshopInput) (*WorkshopOutput, error) {
	userID, roles, err := authorize(ctx, h.authHandler, h.db, input.Cookie)
	if err != nil {
		return nil, err
	}
	if err := requireAny(roles, auth.RoleHost, auth.RoleAdmin); err != nil {
		return nil, err
	}

	host, err := hostFor(h.db, userID)
	if err != nil {
		return nil, err
	}

	for _, prereqID := range input.Body.PrerequisiteIDs {
		if err := h.db.First(&models.Capability{}, "id = ?", prereqID).Error; err != nil {
			return nil, huma.Error404NotFound("Prerequisite " + prereqID + " not found")
		}
	}
	for _, equipID := range input.Body.EquipmentIDs {
		if err := h.db.First(&models.Equipment{}, "id = ?", equipID).Error; err != nil {
			return nil, huma.Error404NotFound("Equipment " + equipID + " not found")
		}
	}

	var attendee models.Attendee
	conventionID := ""
	if err := h.db.First(&attendee, "id = ?", host.AttendeeID).Error; err == nil && attendee.ConventionID != nil {
		conventionID = *attendee.ConventionID
	}

	workshop := models.Workshop{
		ID:              uuid.NewString(),
		ConventionID:    conventionID,
		Name:            input.Body.Name,
		Description:     input.Body.Description,
		MaxStudents:     input.Body.MaxStudents,
		PrerequisiteIDs: input.Body.PrerequisiteIDs,
		EquipmentIDs:    input.Body.EquipmentIDs,
	}
	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&workshop).Error; err != nil {
			return err
		}
		binding := models.HostWorkshop{
			ID:         uuid.NewString(),
			HostID:     host.ID,
			WorkshopID: workshop.ID,
		}
		return tx.Create(&binding).Error
	})
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to create workshop")
	}

	return h.respond(workshop.ID)
}

type GetWorkshopInput struct {
	ID string `path:"id"`
}

func (h *WorkshopHandler) HandleGet(ctx context.Context, input *GetWorkshopInput) (*WorkshopOutput, error) {
	return h.respond(input.ID)
}

type ListWorkshopsInput struct {
	ConventionID string `query:"convention_id"`
	HasSpace     bool   `query:"has_space" doc:"Only workshops with free committed seats"`
}

type ListWorkshopsOutput struct {
	Body []WorkshopResponse
}

func (h *WorkshopHandler) HandleList(ctx context.Context, input *ListWorkshopsInput) (*ListWorkshopsOutput, error) {
	query := h.db.Model(&models.Workshop{})
	if input.ConventionID != "" {
		query = query.Where("convention_id = ?", input.ConventionID)
	}

	var workshops []models.Workshop
	if err := query.Find(&workshops).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list workshops")
	}

	out := &ListWorkshopsOutput{Body: []WorkshopResponse{}}
	for _, workshop := range workshops {
		resp, err := h.format(workshop)
		if err != nil {
			return nil, err
		}
		if input.HasSpace && resp.CurrentStudents >= int64(workshop.MaxStudents) {
			continue
		}
		out.Body = append(out.Body, resp)
	}
	return out, nil
}

type DeleteWorkshopInput struct {
	auth.AuthInput
	ID string `path:"id"`
}

func (h *WorkshopHandler) HandleDelete(ctx context.Context, input *DeleteWorkshopInput) (*MessageOutput, error) {
	userID, roles, err := authorize(ctx, h.authHandler, h.db, input.Cookie)
	if err != nil {
		return nil, err
	}
	if err := requireAny(roles, auth.RoleHost, auth.RoleAdmin); err != nil {
		return nil, err
	}

	if err := h.assigner.DeleteWorkshop(input.ID, callerFor(userID, roles)); err != nil {
		return nil, mapError(err)
	}

	out := &MessageOutput{}
	out.Body.Message = "Workshop deleted successfully"
	return out, nil
}

type AssignSlotInput struct {
	auth.AuthInput
	ID   string `path:"id"`
	Body struct {
		EventSlotID string `json:"event_slot_id" minLength:"1"`
	}
}

type AssignSlotOutput struct {
	Body struct {
		Workshop  WorkshopResponse `json:"workshop"`
		EventSlot models.EventSlot `json:"event_slot"`
	}
}

func (h *WorkshopHandler) HandleAssignSlot(ctx context.Context, input *AssignSlotInput) (*AssignSlotOutput, error) {
	userID, roles, err := authorize(ctx, h.authHandler, h.db, input.Cookie)
	if err != nil {
		return nil, err
	}
	if err := requireAny(roles, auth.RoleHost, auth.RoleAdmin); err != nil {
		return nil, err
	}

	slot, err := h.assigner.Assign(input.ID, input.Body.EventSlotID, callerFor(userID, roles))
	if err != nil {
		return nil, mapError(err)
	}

	workshop, err := h.respond(input.ID)
	if err != nil {
		return nil, err
	}
	out := &AssignSlotOutput{}
	out.Body.Workshop = workshop.Body
	out.Body.EventSlot = *slot
	return out, nil
}

type UnassignSlotInput struct {
	auth.AuthInput
	ID     string `path:"id"`
	SlotID string `path:"slotID"`
}

func (h *WorkshopHandler) HandleUnassignSlot(ctx context.Context, input *UnassignSlotInput) (*MessageOutput, error) {
	userID, roles, err := authorize(ctx, h.authHandler, h.db, input.Cookie)
	if err != nil {
		return nil, err
	}
	if err := requireAny(roles, auth.RoleHost, auth.RoleAdmin); err != nil {
		return nil, err
	}

	if err := h.assigner.Unassign(input.ID, input.SlotID, callerFor(userID, roles)); err != nil {
		return nil, mapError(err)
	}

	out := &MessageOutput{}
	out.Body.Message = "Workshop unassigned from slot successfully"
	return out, nil
}

type WorkshopSlotsInput struct {
	ID string `path:"id"`
}

type WorkshopSlotsOutput struct {
	Body []models.EventSlot
}

func (h *WorkshopHandler) HandleWorkshopSlots(ctx context.Context, input *WorkshopSlotsInput) (*WorkshopSlotsOutput, error) {
	if err := h.db.First(&models.Workshop{}, "id = ?", input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Workshop not found")
	}

	var slots []models.EventSlot
	if err := h.db.Where("workshop_id = ?", input.ID).Order("start_time").Find(&slots).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list slots")
	}
	return &WorkshopSlotsOutput{Body: slots}, nil
}

type SetAvailabilityInput struct {
	auth.AuthInput
	Body struct {
		EventSlotIDs []string `json:"event_slot_ids"`
	}
}

type AvailabilityOutput struct {
	Body struct {
		HostID           string   `json:"host_id"`
		AvailableSlotIDs []string `json:"available_slot_ids"`
	}
}

// HandleSetAvailability replaces the caller's availability allow-list.
// An empty list clears the restriction.
func (h *WorkshopHandler) HandleSetAvailability(ctx context.Context, input *SetAvailabilityInput) (*AvailabilityOutput, error) {
	userID, roles, err := authorize(ctx, h.authHandler, h.db, input.Cookie)
	if err != nil {
		return nil, err
	}
	if err := requireAny(roles, auth.RoleHost, auth.RoleAdmin); err != nil {
		return nil, err
	}

	host, err := hostFor(h.db, userID)
	if err != nil {
		return nil, err
	}

	for _, slotID := range input.Body.EventSlotIDs {
		if err := h.db.First(&models.EventSlot{}, "id = ?", slotID).Error; err != nil {
			return nil, huma.Error404NotFound("Event slot " + slotID + " not found")
		}
	}

	host.AvailableSlotIDs = input.Body.EventSlotIDs
	if err := h.db.Save(host).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to save availability")
	}

	out := &AvailabilityOutput{}
	out.Body.HostID = host.ID
	out.Body.AvailableSlotIDs = host.AvailableSlotIDs
	return out, nil
}

type GetAvailabilityInput struct {
	auth.AuthInput
}

func (h *WorkshopHandler) HandleGetAvailability(ctx context.Context, input *GetAvailabilityInput) (*AvailabilityOutput, error) {
	userID, roles, err := authorize(ctx, h.authHandler, h.db, input.Cookie)
	if err != nil {
		return nil, err
	}
	if err := requireAny(roles, auth.RoleHost, auth.RoleAdmin); err != nil {
		return nil, err
	}

	host, err := hostFor(h.db, userID)
	if err != nil {
		return nil, err
	}

	out := &AvailabilityOutput{}
	out.Body.HostID = host.ID
	out.Body.AvailableSlotIDs = host.AvailableSlotIDs
	return out, nil
}

func (h *WorkshopHandler) respond(id string) (*WorkshopOutput, error) {
	var workshop models.Workshop
	if err := h.db.First(&workshop, "id = ?", id).Error; err != nil {
		return nil, huma.Error404NotFound("Workshop not found")
	}
	resp, err := h.format(workshop)
	if err != nil {
		return nil, err
	}
	return &WorkshopOutput{Body: resp}, nil
}

func (h *WorkshopHandler) format(workshop models.Workshop) (WorkshopResponse, error) {
	var committed int64
	err := h.db.Model(&models.Selection{}).
		Where("workshop_id = ? AND commitment_level = ?", workshop.ID, models.CommitmentCommitted).
		Count(&committed).Error
	if err != nil {
		return WorkshopResponse{}, huma.Error500InternalServerError("Failed to count students")
	}

	resp := WorkshopResponse{Workshop: workshop, CurrentStudents: committed}

	var binding models.HostWorkshop
	err = h.db.First(&binding, "workshop_id = ?", workshop.ID).Error
	if err == nil {
		resp.HostID = binding.HostID
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return WorkshopResponse{}, huma.Error500InternalServerError("Failed to resolve host")
	}
	return resp, nil
}
