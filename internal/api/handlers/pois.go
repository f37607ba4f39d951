package handlers

import (
	"log"
	"net/http"

	"trip-planner-service/internal/api/dto"
	"trip-planner-service/internal/ports"
)

// POIHandler exposes read-only point-of-interest retrieval endpoints.
type POIHandler struct {
	Repo ports.POIRepository
}

// List returns the stored POI catalog, optionally filtered by one or
// more ?city= query parameters.
func (h *POIHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	cities := r.URL.Query()["city"]

	var err error
	var pois []dto.POIResponse
	if len(cities) > 0 {
		found, lerr := h.Repo.ListPOIsByCities(r.Context(), cities)
		err = lerr
		pois = dto.FromPOIs(found)
	} else {
		found, lerr := h.Repo.ListPOIs(r.Context())
		err = lerr
		pois = dto.FromPOIs(found)
	}
	if err != nil {
		log.Printf("list pois failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ListPOIsResponse{POIs: pois})
}
