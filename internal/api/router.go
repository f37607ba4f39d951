package api

import (
	"net/http"

	"trip-planner-service/internal/api/handlers"
	"trip-planner-service/internal/ports"
	"trip-planner-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(
	repo ports.POIRepository,
	assembler *services.Assembler,
	clusterer *services.Clusterer,
	sequencer *services.Sequencer,
) http.Handler {
	mux := http.NewServeMux()

	poiHandler := &handlers.POIHandler{Repo: repo}
	itineraryHandler := &handlers.ItineraryHandler{
		Assembler: assembler,
		Clusterer: clusterer,
		Sequencer: sequencer,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/pois", poiHandler.List)
	mux.HandleFunc("/itineraries", itineraryHandler.Create)
	mux.HandleFunc("/itineraries/analyze", itineraryHandler.Analyze)

	return loggingMiddleware(mux)
}
