package handlers

import (
	"context"

	"github.com/acro-planner/acro-planner-api/internal/auth"
	"github.com/acro-planner/acro-planner-api/internal/models"
	"github.com/acro-planner/acro-planner-api/internal/scheduling"
	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PrerequisiteHandler struct {
	db          *gorm.DB
	graph       *scheduling.CapabilityGraph
	authHandler *auth.AuthHandler
}

func NewPrerequisiteHandler(db *gorm.DB, authHandler *auth.AuthHandler) *PrerequisiteHandler {
	return &PrerequisiteHandler{
		db:          db,
		graph:       scheduling.NewCapabilityGraph(db),
		authHandler: authHandler,
	}
}

// PrerequisiteResponse includes the full ancestor chain so clients can
// show what a capability transitively requires.
type PrerequisiteResponse struct {
	models.Capability
	AllPrerequisites []models.Capability `json:"all_prerequisites"`
}

type CreatePrerequisiteInput struct {
	auth.AuthInput
	Body struct {
		Name                string   `json:"name" minLength:"1"`
		Description         string   `json:"description,omitempty"`
		ParentCapabilityIDs []string `json:"parent_capability_ids,omitempty"`
	}
}

type PrerequisiteOutput struct {
	Body PrerequisiteResponse
}

func (h *PrerequisiteHandler) HandleCreate(ctx context.Context, input *CreatePrerequisiteInput) (*PrerequisiteOutput, error) {
	_, roles, err := authorize(ctx, h.authHandler, h.db, input.Cookie)
	if err != nil {
		return nil, err
	}
	if err := requireAny(roles, auth.RoleAdmin); err != nil {
		return nil, err
	}

	capability := models.Capability{
		ID:          uuid.NewString(),
		Name:        input.Body.Name,
		Description: input.Body.Description,
	}
	// Parents are validated and linked in the same transaction as the
	// insert, so a bad parent id leaves no orphan row behind. Linking
	// goes through the graph engine so cycles are impossible even on
	// creation.
	err = h.db.Transaction(func(tx *gorm.DB) error {
		for _, parentID := range input.Body.ParentCapabilityIDs {
			if err := tx.First(&models.Capability{}, "id = ?", parentID).Error; err != nil {
				return huma.Error404NotFound("Parent capability " + parentID + " not found")
			}
		}
		if err := tx.Create(&capability).Error; err != nil {
			return err
		}
		graph := scheduling.NewCapabilityGraph(tx)
		for _, parentID := range input.Body.ParentCapabilityIDs {
			if _, err := graph.AddParent(capability.ID, parentID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}

	return h.respond(capability.ID)
}

type GetPrerequisiteInput struct {
	ID string `path:"id"`
}

func (h *PrerequisiteHandler) HandleGet(ctx context.Context, input *GetPrerequisiteInput) (*PrerequisiteOutput, error) {
	return h.respond(input.ID)
}

type ListPrerequisitesOutput struct {
	Body []PrerequisiteResponse
}

func (h *PrerequisiteHandler) HandleList(ctx context.Context, _ *struct{}) (*ListPrerequisitesOutput, error) {
	var capabilities []models.Capability
	if err := h.db.Find(&capabilities).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list prerequisites")
	}

	out := &ListPrerequisitesOutput{Body: []PrerequisiteResponse{}}
	for _, capability := range capabilities {
		closure, err := h.graph.TransitiveClosure(capability.ID)
		if err != nil {
			return nil, mapError(err)
		}
		out.Body = append(out.Body, PrerequisiteResponse{Capability: capability, AllPrerequisites: closure})
	}
	return out, nil
}

type AddParentInput struct {
	auth.AuthInput
	ID   string `path:"id"`
	Body struct {
		ParentID string `json:"parent_id" minLength:"1"`
	}
}

func (h *PrerequisiteHandler) HandleAddParent(ctx context.Context, input *AddParentInput) (*PrerequisiteOutput, error) {
	_, roles, err := authorize(ctx, h.authHandler, h.db, input.Cookie)
	if err != nil {
		return nil, err
	}
	if err := requireAny(roles, auth.RoleHost, auth.RoleAdmin); err != nil {
		return nil, err
	}

	if _, err := h.graph.AddParent(input.ID, input.Body.ParentID); err != nil {
		return nil, mapError(err)
	}
	return h.respond(input.ID)
}

type DeletePrerequisiteInput struct {
	auth.AuthInput
	ID string `path:"id"`
}

type MessageOutput struct {
	Body struct {
		Message string `json:"message"`
	}
}

func (h *PrerequisiteHandler) HandleDelete(ctx context.Context, input *DeletePrerequisiteInput) (*MessageOutput, error) {
	_, roles, err := authorize(ctx, h.authHandler, h.db, input.Cookie)
	if err != nil {
		return nil, err
	}
	if err := requireAny(roles, auth.RoleAdmin); err != nil {
		return nil, err
	}

	if err := h.graph.Delete(input.ID); err != nil {
		return nil, mapError(err)
	}

	out := &MessageOutput{}
	out.Body.Message = "Prerequisite deleted successfully"
	return out, nil
}

func (h *PrerequisiteHandler) respond(id string) (*PrerequisiteOutput, error) {
	var capability models.Capability
	if err := h.db.First(&capability, "id = ?", id).Error; err != nil {
		return nil, huma.Error404NotFound("Prerequisite not found")
	}
	closure, err := h.graph.TransitiveClosure(id)
	if err != nil {
		return nil, mapError(err)
	}
	return &PrerequisiteOutput{Body: PrerequisiteResponse{Capability: capability, AllPrerequisites: closure}}, nil
}
