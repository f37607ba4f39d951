package dto

import "trip-planner-service/internal/domain"

type POIResponse struct {
	Name         string  `json:"name"`
	ExternalID   string  `json:"external_id,omitempty"`
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
	Category     string  `json:"category"`
	Priority     int     `json:"priority"`
	Rating       float64 `json:"rating,omitempty"`
	VisitMinutes int     `json:"visit_minutes"`
	OpeningHour  *int    `json:"opening_hour,omitempty"`
	ClosingHour  *int    `json:"closing_hour,omitempty"`
	Mandatory    bool    `json:"mandatory,omitempty"`
	City         string  `json:"city,omitempty"`
	Country      string  `json:"country,omitempty"`
	Address      string  `json:"address,omitempty"`
}

type ListPOIsResponse struct {
	POIs []POIResponse `json:"pois"`
}

func FromPOI(p domain.POI) POIResponse {
	return POIResponse{
		Name:         p.Name,
		ExternalID:   p.ExternalID,
		Lat:          p.Coords.Lat,
		Lon:          p.Coords.Lon,
		Category:     string(p.Category),
		Priority:     p.Priority,
		Rating:       p.Rating,
		VisitMinutes: p.VisitDurationMinutes(),
		OpeningHour:  p.OpeningHour,
		ClosingHour:  p.ClosingHour,
		Mandatory:    p.Mandatory,
		City:         p.City,
		Country:      p.Country,
		Address:      p.Address,
	}
}

func FromPOIs(pois []domain.POI) []POIResponse {
	out := make([]POIResponse, 0, len(pois))
	for _, p := range pois {
		out = append(out, FromPOI(p))
	}
	return out
}
