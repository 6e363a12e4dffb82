package handlers

import (
	"context"

	"github.com/acro-planner/acro-planner-api/internal/auth"
	"github.com/acro-planner/acro-planner-api/internal/models"
	"github.com/acro-planner/acro-planner-api/internal/scheduling"
	"github.com/danielgtaylor/huma/v2"
	"gorm.io/gorm"
)

type AttendeeHandler struct {
	db          *gorm.DB
	selections  *scheduling.Selections
	eligibility *scheduling.Eligibility
	authHandler *auth.AuthHandler
}

func NewAttendeeHandler(db *gorm.DB, authHandler *auth.AuthHandler) *AttendeeHandler {
	return &AttendeeHandler{
		db:          db,
		selections:  scheduling.NewSelections(db),
		eligibility: scheduling.NewEligibility(db),
		authHandler: authHandler,
	}
}

type CreateSelectionInput struct {
	auth.AuthInput
	Body struct {
		WorkshopID      string                 `json:"workshop_id" minLength:"1"`
		EventSlotID     string                 `json:"event_slot_id" minLength:"1"`
		CommitmentLevel models.CommitmentLevel `json:"commitment_level" enum:"interested,maybe,committed"`
	}
}

type SelectionOutput struct {
	Body models.Selection
}

func (h *AttendeeHandler) HandleCreateSelection(ctx context.Context, input *CreateSelectionInput) (*SelectionOutput, error) {
	attendee, err := h.requireAttendee(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	selection, err := h.selections.Create(attendee.ID, input.Body.WorkshopID, input.Body.EventSlotID, input.Body.CommitmentLevel)
	if err != nil {
		return nil, mapError(err)
	}
	return &SelectionOutput{Body: *selection}, nil
}

type UpdateSelectionInput struct {
	auth.AuthInput
	ID   string `path:"id"`
	Body struct {
		CommitmentLevel models.CommitmentLevel `json:"commitment_level" enum:"interested,maybe,committed"`
	}
}

func (h *AttendeeHandler) HandleUpdateSelection(ctx context.Context, input *UpdateSelectionInput) (*SelectionOutput, error) {
	attendee, err := h.requireAttendee(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	if err := h.requireOwnership(input.ID, attendee.ID); err != nil {
		return nil, err
	}

	selection, err := h.selections.UpdateLevel(input.ID, input.Body.CommitmentLevel)
	if err != nil {
		return nil, mapError(err)
	}
	return &SelectionOutput{Body: *selection}, nil
}

type DeleteSelectionInput struct {
	auth.AuthInput
	ID string `path:"id"`
}

func (h *AttendeeHandler) HandleDeleteSelection(ctx context.Context, input *DeleteSelectionInput) (*MessageOutput, error) {
	attendee, err := h.requireAttendee(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	if err := h.requireOwnership(input.ID, attendee.ID); err != nil {
		return nil, err
	}

	if err := h.selections.Delete(input.ID); err != nil {
		return nil, mapError(err)
	}

	out := &MessageOutput{}
	out.Body.Message = "Selection removed successfully"
	return out, nil
}

type CommitInput struct {
	auth.AuthInput
	WorkshopID  string `path:"workshopID"`
	EventSlotID string `query:"event_slot_id" required:"true"`
}

func (h *AttendeeHandler) HandleCommit(ctx context.Context, input *CommitInput) (*SelectionOutput, error) {
	attendee, err := h.requireAttendee(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	selection, err := h.selections.Commit(attendee.ID, input.WorkshopID, input.EventSlotID)
	if err != nil {
		return nil, mapError(err)
	}
	return &SelectionOutput{Body: *selection}, nil
}

type ScheduleInput struct {
	auth.AuthInput
}

type ScheduleOutput struct {
	Body struct {
		AttendeeID      string             `json:"attendee_id"`
		Selections      []models.Selection `json:"selections"`
		CommittedCount  int                `json:"committed_count"`
		MaybeCount      int                `json:"maybe_count"`
		InterestedCount int                `json:"interested_count"`
	}
}

func (h *AttendeeHandler) HandleSchedule(ctx context.Context, input *ScheduleInput) (*ScheduleOutput, error) {
	attendee, err := h.requireAttendee(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	var selections []models.Selection
	if err := h.db.Where("attendee_id = ?", attendee.ID).Find(&selections).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to load selections")
	}

	out := &ScheduleOutput{}
	out.Body.AttendeeID = attendee.ID
	out.Body.Selections = selections
	for _, selection := range selections {
		switch selection.CommitmentLevel {
		case models.CommitmentCommitted:
			out.Body.CommittedCount++
		case models.CommitmentMaybe:
			out.Body.MaybeCount++
		case models.CommitmentInterested:
			out.Body.InterestedCount++
		}
	}
	return out, nil
}

type FulfillableInput struct {
	auth.AuthInput
}

type FulfillableOutput struct {
	Body []models.Workshop
}

// HandleFulfillable lists workshops whose prerequisites the caller has
// already satisfied through committed selections.
func (h *AttendeeHandler) HandleFulfillable(ctx context.Context, input *FulfillableInput) (*FulfillableOutput, error) {
	attendee, err := h.requireAttendee(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	workshops, err := h.eligibility.FulfillableWorkshops(attendee.ID)
	if err != nil {
		return nil, mapError(err)
	}
	if workshops == nil {
		workshops = []models.Workshop{}
	}
	return &FulfillableOutput{Body: workshops}, nil
}

func (h *AttendeeHandler) requireAttendee(ctx context.Context, cookie string) (*models.Attendee, error) {
	userID, roles, err := authorize(ctx, h.authHandler, h.db, cookie)
	if err != nil {
		return nil, err
	}
	if err := requireAny(roles, auth.RoleAttendee); err != nil {
		return nil, err
	}
	return attendeeFor(h.db, userID)
}

func (h *AttendeeHandler) requireOwnership(selectionID, attendeeID string) error {
	selection, err := h.selections.Get(selectionID)
	if err != nil {
		return mapError(err)
	}
	if selection.AttendeeID != attendeeID {
		return huma.Error403Forbidden("Can only modify your own selections")
	}
	return nil
}
