package handlers

import (
	"context"
	"time"

	"github.com/acro-planner/acro-planner-api/internal/auth"
	"github.com/acro-planner/acro-planner-api/internal/models"
	"github.com/acro-planner/acro-planner-api/internal/scheduling"
	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ConventionHandler struct {
	db          *gorm.DB
	allocator   *scheduling.SlotAllocator
	authHandler *auth.AuthHandler
}

func NewConventionHandler(db *gorm.DB, authHandler *auth.AuthHandler) *ConventionHandler {
	return &ConventionHandler{
		db:          db,
		allocator:   scheduling.NewSlotAllocator(db),
		authHandler: authHandler,
	}
}

type CreateConventionInput struct {
	auth.AuthInput
	Body struct {
		Name        string    `json:"name" minLength:"1"`
		Description string    `json:"description,omitempty"`
		StartDate   time.Time `json:"start_date"`
		EndDate     time.Time `json:"end_date"`
	}
}

type ConventionOutput struct {
	Body models.Convention
}

func (h *ConventionHandler) HandleCreate(ctx context.Context, input *CreateConventionInput) (*ConventionOutput, error) {
	_, roles, err := authorize(ctx, h.authHandler, h.db, input.Cookie)
	if err != nil {
		return nil, err
	}
	if err := requireAny(roles, auth.RoleAdmin); err != nil {
		return nil, err
	}
	if input.Body.EndDate.Before(input.Body.StartDate) {
		return nil, huma.Error422UnprocessableEntity("End date cannot be before start date")
	}

	convention := models.Convention{
		ID:          uuid.NewString(),
		Name:        input.Body.Name,
		Description: input.Body.Description,
		StartDate:   input.Body.StartDate,
		EndDate:     input.Body.EndDate,
		IsActive:    true,
	}
	if err := h.db.Create(&convention).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to create convention")
	}
	return &ConventionOutput{Body: convention}, nil
}

type ListConventionsOutput struct {
	Body []models.Convention
}

func (h *ConventionHandler) HandleList(ctx context.Context, _ *struct{}) (*ListConventionsOutput, error) {
	var conventions []models.Convention
	if err := h.db.Find(&conventions).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list conventions")
	}
	return &ListConventionsOutput{Body: conventions}, nil
}

type GetConventionInput struct {
	ID string `path:"id"`
}

func (h *ConventionHandler) HandleGet(ctx context.Context, input *GetConventionInput) (*ConventionOutput, error) {
	var convention models.Convention
	if err := h.db.First(&convention, "id = ?", input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Convention not found")
	}
	return &ConventionOutput{Body: convention}, nil
}

type CreateLocationInput struct {
	auth.AuthInput
	ConventionID string `path:"conventionID"`
	Body         struct {
		Name        string `json:"name" minLength:"1"`
		Description string `json:"description,omitempty"`
		Capacity    int    `json:"capacity,omitempty"`
		Address     string `json:"address,omitempty"`
	}
}

type LocationOutput struct {
	Body models.Location
}

func (h *ConventionHandler) HandleCreateLocation(ctx context.Context, input *CreateLocationInput) (*LocationOutput, error) {
	_, roles, err := authorize(ctx, h.authHandler, h.db, input.Cookie)
	if err != nil {
		return nil, err
	}
	if err := requireAny(roles, auth.RoleAdmin); err != nil {
		return nil, err
	}

	if err := h.db.First(&models.Convention{}, "id = ?", input.ConventionID).Error; err != nil {
		return nil, huma.Error404NotFound("Convention not found")
	}

	location := models.Location{
		ID:           uuid.NewString(),
		ConventionID: input.ConventionID,
		Name:         input.Body.Name,
		Description:  input.Body.Description,
		Capacity:     input.Body.Capacity,
		Address:      input.Body.Address,
	}
	if err := h.db.Create(&location).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to create location")
	}
	return &LocationOutput{Body: location}, nil
}

type CreateSlotInput struct {
	auth.AuthInput
	ConventionID string `path:"conventionID"`
	Body         struct {
		LocationID string    `json:"location_id" minLength:"1"`
		StartTime  time.Time `json:"start_time"`
		EndTime    time.Time `json:"end_time"`
	}
}

type SlotOutput struct {
	Body models.EventSlot
}

func (h *ConventionHandler) HandleCreateSlot(ctx context.Context, input *CreateSlotInput) (*SlotOutput, error) {
	_, roles, err := authorize(ctx, h.authHandler, h.db, input.Cookie)
	if err != nil {
		return nil, err
	}
	if err := requireAny(roles, auth.RoleAdmin); err != nil {
		return nil, err
	}

	slot, err := h.allocator.CreateSlot(input.ConventionID, input.Body.LocationID, input.Body.StartTime, input.Body.EndTime)
	if err != nil {
		return nil, mapError(err)
	}
	return &SlotOutput{Body: *slot}, nil
}

type BulkSlotsInput struct {
	auth.AuthInput
	ConventionID string `path:"conventionID"`
	Body         struct {
		LocationIDs  []string                `json:"location_ids" minItems:"1"`
		TimeWindows  []scheduling.TimeWindow `json:"time_windows" minItems:"1" maxItems:"20"`
		NumberOfDays int                     `json:"number_of_days" minimum:"1" maximum:"30"`
	}
}

type BulkSlotsOutput struct {
	Body struct {
		ConventionID      string             `json:"convention_id"`
		TotalSlotsCreated int                `json:"total_slots_created"`
		Slots             []models.EventSlot `json:"slots"`
	}
}

func (h *ConventionHandler) HandleBulkSlots(ctx context.Context, input *BulkSlotsInput) (*BulkSlotsOutput, error) {
	_, roles, err := authorize(ctx, h.authHandler, h.db, input.Cookie)
	if err != nil {
		return nil, err
	}
	if err := requireAny(roles, auth.RoleAdmin); err != nil {
		return nil, err
	}

	slots, err := h.allocator.BulkCreate(input.ConventionID, input.Body.LocationIDs, input.Body.TimeWindows, input.Body.NumberOfDays)
	if err != nil {
		return nil, mapError(err)
	}

	out := &BulkSlotsOutput{}
	out.Body.ConventionID = input.ConventionID
	out.Body.TotalSlotsCreated = len(slots)
	out.Body.Slots = slots
	return out, nil
}

type DeleteSlotInput struct {
	auth.AuthInput
	SlotID string `path:"slotID"`
}

func (h *ConventionHandler) HandleDeleteSlot(ctx context.Context, input *DeleteSlotInput) (*MessageOutput, error) {
	_, roles, err := authorize(ctx, h.authHandler, h.db, input.Cookie)
	if err != nil {
		return nil, err
	}
	if err := requireAny(roles, auth.RoleAdmin); err != nil {
		return nil, err
	}

	if err := h.allocator.DeleteSlot(input.SlotID); err != nil {
		return nil, mapError(err)
	}

	out := &MessageOutput{}
	out.Body.Message = "Event slot deleted successfully"
	return out, nil
}

type ListSlotsInput struct {
	ConventionID  string `path:"conventionID"`
	AvailableOnly bool   `query:"available_only" doc:"Only slots without an assigned workshop"`
	LocationID    string `query:"location_id"`
}

type ListSlotsOutput struct {
	Body []models.EventSlot
}

func (h *ConventionHandler) HandleListSlots(ctx context.Context, input *ListSlotsInput) (*ListSlotsOutput, error) {
	query := h.db.Where("convention_id = ?", input.ConventionID)
	if input.AvailableOnly {
		query = query.Where("workshop_id IS NULL")
	}
	if input.LocationID != "" {
		query = query.Where("location_id = ?", input.LocationID)
	}

	var slots []models.EventSlot
	if err := query.Order("start_time").Find(&slots).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list slots")
	}
	return &ListSlotsOutput{Body: slots}, nil
}
