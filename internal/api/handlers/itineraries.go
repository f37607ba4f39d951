package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"trip-planner-service/internal/api/dto"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/services"
)

const dateLayout = "2006-01-02"

// ItineraryHandler turns a POI wishlist and a date range into a day-by-day
// travel plan. It coordinates input normalization, the planning pipeline,
// and response shaping; the heavy lifting lives in the services package.
type ItineraryHandler struct {
	Assembler *services.Assembler
	Clusterer *services.Clusterer
	Sequencer *services.Sequencer
}

// Create handles POST /itineraries.
func (h *ItineraryHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	planReq, ok := h.buildPlanRequest(w, r, req)
	if !ok {
		return
	}

	it, err := h.Assembler.Plan(r.Context(), planReq)
	if err != nil {
		if domain.IsValidation(err) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("plan itinerary failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FromItinerary(it))
}

// Analyze handles POST /itineraries/analyze. It previews how the wishlist
// clusters into cities and how complex the resulting trip would be,
// without allocating days or schedules.
func (h *ItineraryHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	pois, err := domain.NormalizeAll(req.POIs)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if len(pois) == 0 {
		writeError(w, r, http.StatusBadRequest, "pois must be non-empty")
		return
	}

	clusters, dropped, err := h.Clusterer.Cluster(r.Context(), pois)
	if err != nil {
		log.Printf("analyze clustering failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	sequence := h.Sequencer.Sequence(clusters, strings.TrimSpace(req.StartCity))
	complexity := h.Sequencer.AnalyzeComplexity(sequence)
	stats := services.ClusterStats(sequence)

	res := dto.AnalyzeResponse{
		Clusters: make([]dto.ClusterResponse, 0, len(sequence)),
		Dropped:  dto.FromPOIs(dropped),
		Stats: dto.ClusteringStatsResponse{
			ClusterCount:     stats.ClusterCount,
			POICount:         stats.POICount,
			MeanConfidence:   stats.MeanConfidence,
			MeanRadiusKm:     stats.MeanRadiusKm,
			HighConfidence:   stats.HighConfidence,
			MediumConfidence: stats.MediumConfidence,
			LowConfidence:    stats.LowConfidence,
			Countries:        stats.Countries,
		},
		CityCount:          complexity.ClusterCount,
		CountryCount:       complexity.CountryCount,
		MaxLegKm:           complexity.MaxLegKm,
		AvgLegKm:           complexity.AvgLegKm,
		TotalPathKm:        complexity.TotalPathKm,
		Tier:               complexity.Tier,
		International:      complexity.International,
		NeedsAccommodation: complexity.NeedsAccommodation,
		EstimatedDays:      complexity.EstimatedDays,
		Strategy:           string(suggestStrategy(complexity)),
	}
	for _, c := range sequence {
		res.Clusters = append(res.Clusters, dto.FromCluster(c))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *ItineraryHandler) decodeRequest(w http.ResponseWriter, r *http.Request) (dto.PlanItineraryRequest, bool) {
	var req dto.PlanItineraryRequest

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return req, false
	}

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return req, false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return req, false
	}

	return req, true
}

func (h *ItineraryHandler) buildPlanRequest(w http.ResponseWriter, r *http.Request, req dto.PlanItineraryRequest) (services.PlanRequest, bool) {
	var planReq services.PlanRequest

	pois, err := domain.NormalizeAll(req.POIs)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return planReq, false
	}

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "start_date must use YYYY-MM-DD")
		return planReq, false
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "end_date must use YYYY-MM-DD")
		return planReq, false
	}

	rawMode := req.TransportMode
	if rawMode == "" {
		rawMode = req.Mode
	}
	mode := domain.TransportMode(strings.ToLower(strings.TrimSpace(rawMode)))
	if mode == "" {
		mode = domain.ModeWalk
	}
	if _, err := mode.SpeedKmh(); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return planReq, false
	}

	var base *domain.Coordinates
	if req.BasePoint != nil {
		coords := domain.Coordinates{Lat: req.BasePoint.Lat, Lon: req.BasePoint.Lon}
		if err := coords.Validate(); err != nil {
			writeError(w, r, http.StatusBadRequest, "base_point: "+err.Error())
			return planReq, false
		}
		base = &coords
	}

	planReq = services.PlanRequest{
		POIs:      pois,
		StartDate: start,
		EndDate:   end,
		Mode:      mode,
		StartCity: strings.TrimSpace(req.StartCity),
		BasePoint: base,
	}
	return planReq, true
}

// suggestStrategy mirrors the planner's strategy choice for previews.
func suggestStrategy(c services.TripComplexity) domain.OptimizationStrategy {
	switch {
	case c.ClusterCount <= 1:
		return domain.StrategySingleCity
	case c.CountryCount > 2 || c.MaxLegKm > 800:
		return domain.StrategyMultiCountry
	default:
		return domain.StrategyIntercityHybrid
	}
}
