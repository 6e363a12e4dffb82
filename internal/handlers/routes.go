package handlers

import (
	"net/http"

	"github.com/acro-planner/acro-planner-api/internal/auth"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func RegisterRoutes(
	r *chi.Mux,
	authHandler *auth.AuthHandler,
	prerequisiteHandler *PrerequisiteHandler,
	conventionHandler *ConventionHandler,
	workshopHandler *WorkshopHandler,
	attendeeHandler *AttendeeHandler,
) {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Initialize Huma API
	config := huma.DefaultConfig("Acro Planner API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"cookieAuth": {
			Type: "apiKey",
			In:   "cookie",
			Name: "auth_token",
		},
	}
	api := humachi.New(r, config)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Auth routes
	r.Get("/auth/login", authHandler.HandleLogin)
	r.Get("/auth/callback", authHandler.HandleCallback)
	huma.Get(api, "/me", authHandler.HandleMe, secured)

	// Prerequisites (capability graph)
	huma.Get(api, "/prerequisites", prerequisiteHandler.HandleList)
	huma.Get(api, "/prerequisites/{id}", prerequisiteHandler.HandleGet)
	huma.Post(api, "/prerequisites", prerequisiteHandler.HandleCreate, secured)
	huma.Post(api, "/prerequisites/{id}/add-parent", prerequisiteHandler.HandleAddParent, secured)
	huma.Delete(api, "/prerequisites/{id}", prerequisiteHandler.HandleDelete, secured)

	// Conventions, locations and event slots
	huma.Get(api, "/conventions", conventionHandler.HandleList)
	huma.Get(api, "/conventions/{id}", conventionHandler.HandleGet)
	huma.Post(api, "/conventions", conventionHandler.HandleCreate, secured)
	huma.Post(api, "/conventions/{conventionID}/locations", conventionHandler.HandleCreateLocation, secured)
	huma.Get(api, "/conventions/{conventionID}/event-slots", conventionHandler.HandleListSlots)
	huma.Post(api, "/conventions/{conventionID}/event-slots", conventionHandler.HandleCreateSlot, secured)
	huma.Post(api, "/conventions/{conventionID}/bulk-slots", conventionHandler.HandleBulkSlots, secured)
	huma.Delete(api, "/event-slots/{slotID}", conventionHandler.HandleDeleteSlot, secured)

	// Workshops and slot assignment
	huma.Get(api, "/workshops", workshopHandler.HandleList)
	huma.Get(api, "/workshops/{id}", workshopHandler.HandleGet)
	huma.Get(api, "/workshops/{id}/slots", workshopHandler.HandleWorkshopSlots)
	huma.Post(api, "/workshops", workshopHandler.HandleCreate, secured)
	huma.Delete(api, "/workshops/{id}", workshopHandler.HandleDelete, secured)
	huma.Post(api, "/workshops/{id}/assign-slot", workshopHandler.HandleAssignSlot, secured)
	huma.Delete(api, "/workshops/{id}/unassign-slot/{slotID}", workshopHandler.HandleUnassignSlot, secured)
	huma.Get(api, "/workshops/host-availability", workshopHandler.HandleGetAvailability, secured)
	huma.Post(api, "/workshops/host-availability", workshopHandler.HandleSetAvailability, secured)

	// Attendee selections and eligibility
	huma.Post(api, "/attendees/selections", attendeeHandler.HandleCreateSelection, secured)
	huma.Put(api, "/attendees/selections/{id}", attendeeHandler.HandleUpdateSelection, secured)
	huma.Delete(api, "/attendees/selections/{id}", attendeeHandler.HandleDeleteSelection, secured)
	huma.Post(api, "/attendees/commit/{workshopID}", attendeeHandler.HandleCommit, secured)
	huma.Get(api, "/attendees/schedule", attendeeHandler.HandleSchedule, secured)
	huma.Get(api, "/attendees/workshops/fulfillable", attendeeHandler.HandleFulfillable, secured)
}

func secured(o *huma.Operation) {
	o.Security = []map[string][]string{{"cookieAuth": {}}}
}
