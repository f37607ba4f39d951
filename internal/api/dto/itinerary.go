package dto

import (
	"time"

	"trip-planner-service/internal/domain"
)

// PlanItineraryRequest is the JSON body of POST /itineraries.
// Dates use the 2006-01-02 layout; mode defaults to walking. Both "mode"
// and "transport_mode" are accepted for the same field.
type PlanItineraryRequest struct {
	POIs          []domain.RawPOI `json:"pois"`
	StartDate     string          `json:"start_date"`
	EndDate       string          `json:"end_date"`
	Mode          string          `json:"mode,omitempty"`
	TransportMode string          `json:"transport_mode,omitempty"`
	StartCity     string          `json:"start_city,omitempty"`

	// BasePoint anchors each day's first travel leg (a hotel, a station)
	// instead of the cluster centroid.
	BasePoint *PointRequest `json:"base_point,omitempty"`
}

type PointRequest struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type ClusterResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Country    string  `json:"country"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	POICount   int     `json:"poi_count"`
	RadiusKm   float64 `json:"radius_km"`
	Confidence float64 `json:"confidence"`
}

type RouteResponse struct {
	From        string  `json:"from"`
	To          string  `json:"to"`
	DistanceKm  float64 `json:"distance_km"`
	TravelHours float64 `json:"travel_hours"`
	Mode        string  `json:"mode"`
	Method      string  `json:"method"`
}

type ActivityResponse struct {
	POI             POIResponse `json:"poi"`
	Start           time.Time   `json:"start"`
	End             time.Time   `json:"end"`
	DurationMinutes int         `json:"duration_minutes"`
	TravelMinutes   int         `json:"travel_minutes"`
}

type DayResponse struct {
	Day           int                `json:"day"`
	Date          string             `json:"date"`
	Activities    []ActivityResponse `json:"activities"`
	FreeMinutes   int                `json:"free_minutes"`
	TravelMinutes int                `json:"travel_minutes"`
}

type AccommodationResponse struct {
	Location string  `json:"location"`
	Country  string  `json:"country,omitempty"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Nights   int     `json:"nights"`
	EnRoute  bool    `json:"en_route,omitempty"`
}

type ItineraryResponse struct {
	Cities          []ClusterResponse       `json:"cities"`
	Routes          []RouteResponse         `json:"routes"`
	Days            []DayResponse           `json:"days"`
	Unassigned      []POIResponse           `json:"unassigned"`
	Accommodations  []AccommodationResponse `json:"accommodations"`
	TotalDistanceKm float64                 `json:"total_distance_km"`
	TotalDays       int                     `json:"total_days"`
	Strategy        string                  `json:"optimization_strategy"`
	Confidence      float64                 `json:"confidence"`
	Degraded        bool                    `json:"degraded"`
}

// AnalyzeResponse previews clustering and trip shape without planning days.
type AnalyzeResponse struct {
	Clusters     []ClusterResponse       `json:"clusters"`
	Dropped      []POIResponse           `json:"dropped"`
	Stats        ClusteringStatsResponse `json:"clustering_stats"`
	CityCount    int                     `json:"city_count"`
	CountryCount int                     `json:"country_count"`
	MaxLegKm     float64                 `json:"max_leg_km"`
	AvgLegKm     float64                 `json:"avg_leg_km"`
	TotalPathKm  float64                 `json:"total_path_km"`

	Tier               string `json:"complexity_tier"`
	International      bool   `json:"international"`
	NeedsAccommodation bool   `json:"needs_accommodation"`
	EstimatedDays      int    `json:"estimated_days"`

	Strategy string `json:"suggested_strategy"`
}

type ClusteringStatsResponse struct {
	ClusterCount     int      `json:"cluster_count"`
	POICount         int      `json:"poi_count"`
	MeanConfidence   float64  `json:"mean_confidence"`
	MeanRadiusKm     float64  `json:"mean_radius_km"`
	HighConfidence   int      `json:"high_confidence"`
	MediumConfidence int      `json:"medium_confidence"`
	LowConfidence    int      `json:"low_confidence"`
	Countries        []string `json:"countries"`
}

func FromCluster(c domain.CityCluster) ClusterResponse {
	return ClusterResponse{
		ID:         c.ID,
		Name:       c.Name,
		Country:    c.Country,
		Lat:        c.Centroid.Lat,
		Lon:        c.Centroid.Lon,
		POICount:   len(c.POIs),
		RadiusKm:   c.RadiusKm(),
		Confidence: c.Confidence,
	}
}

func FromItinerary(it *domain.Itinerary) ItineraryResponse {
	res := ItineraryResponse{
		Cities:          make([]ClusterResponse, 0, len(it.Cities)),
		Routes:          make([]RouteResponse, 0, len(it.Routes)),
		Days:            make([]DayResponse, 0, len(it.Days)),
		Unassigned:      FromPOIs(it.Unassigned),
		Accommodations:  make([]AccommodationResponse, 0, len(it.Accommodations)),
		TotalDistanceKm: it.TotalDistanceKm,
		TotalDays:       it.TotalDays,
		Strategy:        string(it.Strategy),
		Confidence:      it.Confidence,
		Degraded:        it.Degraded,
	}

	for _, c := range it.Cities {
		res.Cities = append(res.Cities, FromCluster(c))
	}
	for _, r := range it.Routes {
		res.Routes = append(res.Routes, RouteResponse{
			From:        r.OriginName,
			To:          r.DestinationName,
			DistanceKm:  r.DistanceKm,
			TravelHours: r.TravelHours,
			Mode:        string(r.Mode),
			Method:      string(r.Method),
		})
	}
	for day := 1; day <= it.TotalDays; day++ {
		schedule, ok := it.Days[day]
		if !ok {
			continue
		}
		dr := DayResponse{
			Day:           day,
			Date:          schedule.Date.Format("2006-01-02"),
			Activities:    make([]ActivityResponse, 0, len(schedule.Activities)),
			FreeMinutes:   schedule.FreeMinutes,
			TravelMinutes: schedule.TravelMinutes,
		}
		for _, a := range schedule.Activities {
			dr.Activities = append(dr.Activities, ActivityResponse{
				POI:             FromPOI(a.POI),
				Start:           a.Start,
				End:             a.End,
				DurationMinutes: a.DurationMinutes,
				TravelMinutes:   a.TravelMinutes,
			})
		}
		res.Days = append(res.Days, dr)
	}
	for _, acc := range it.Accommodations {
		res.Accommodations = append(res.Accommodations, AccommodationResponse{
			Location: acc.ClusterName,
			Country:  acc.Country,
			Lat:      acc.Coords.Lat,
			Lon:      acc.Coords.Lon,
			Nights:   acc.Nights,
			EnRoute:  acc.EnRoute,
		})
	}
	return res
}
