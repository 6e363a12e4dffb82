package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/acro-planner/acro-planner-api/internal/auth"
	"github.com/acro-planner/acro-planner-api/internal/config"
	"github.com/acro-planner/acro-planner-api/internal/database"
	"github.com/acro-planner/acro-planner-api/internal/handlers"
	"github.com/go-chi/chi/v5"
)

func main() {
	// Load Configuration
	cfg := config.LoadConfig()

	// Connect to Database
	db := database.Connect(cfg)

	// Initialize Handlers
	authHandler := auth.NewAuthHandler(cfg, db)
	prerequisiteHandler := handlers.NewPrerequisiteHandler(db, authHandler)
	conventionHandler := handlers.NewConventionHandler(db, authHandler)
	workshopHandler := handlers.NewWorkshopHandler(db, authHandler)
	attendeeHandler := handlers.NewAttendeeHandler(db, authHandler)

	// Initialize Router
	r := chi.NewRouter()

	// Register Routes
	handlers.RegisterRoutes(r, authHandler, prerequisiteHandler, conventionHandler, workshopHandler, attendeeHandler)

	// Start Server
	log.Printf("Starting server on port %s", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
