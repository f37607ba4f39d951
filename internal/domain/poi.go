package domain

import (
	"fmt"
	"strings"
)

// Semantic category of a point of interest.
type Category string

const (
	CategoryMuseum     Category = "museum"
	CategoryPark       Category = "park"
	CategoryRestaurant Category = "restaurant"
	CategoryViewpoint  Category = "viewpoint"
	CategoryMonument   Category = "monument"
	CategoryBeach      Category = "beach"
	CategoryShopping   Category = "shopping"
	CategoryOther      Category = "other"
)

// Default visit durations in minutes, applied when a POI carries no explicit one.
var defaultVisitMinutes = map[Category]int{
	CategoryMuseum:     120,
	CategoryPark:       60,
	CategoryRestaurant: 90,
	CategoryViewpoint:  30,
	CategoryMonument:   45,
	CategoryBeach:      120,
	CategoryShopping:   90,
	CategoryOther:      90,
}

// POI is a visitable point of interest.
//
// A POI is immutable once constructed; derived fields (cluster assignment,
// duration estimates) are carried by the structures that reference it rather
// than written back. All components past the system boundary consume only
// this canonical shape.
type POI struct {
	Name       string
	ExternalID string
	Coords     Coordinates
	Category   Category
	Priority   int // 1 (low) .. 10 (high)
	Rating     float64

	// VisitMinutes is the explicit minimum visit duration; 0 means unset.
	VisitMinutes int

	// OpeningHour/ClosingHour bound the daily visiting window in whole
	// hours; nil means no constraint.
	OpeningHour *int
	ClosingHour *int

	Mandatory bool

	City    string
	Country string
	Address string
}

// VisitDurationMinutes returns the explicit visit duration or the category default.
func (p POI) VisitDurationMinutes() int {
	if p.VisitMinutes > 0 {
		return p.VisitMinutes
	}
	if d, ok := defaultVisitMinutes[p.Category]; ok {
		return d
	}
	return defaultVisitMinutes[CategoryOther]
}

// HasTimeWindow reports whether the POI constrains its own visiting hours.
func (p POI) HasTimeWindow() bool {
	return p.OpeningHour != nil && p.ClosingHour != nil
}

// RawPOI is the loosely-shaped input accepted at the system boundary.
// Upstream sources disagree on field names (lon vs long, type vs category),
// so every alias is accepted here and nowhere else.
type RawPOI struct {
	Name       string   `json:"name"`
	ExternalID string   `json:"external_id,omitempty"`
	Lat        *float64 `json:"lat"`
	Lon        *float64 `json:"lon"`
	Long       *float64 `json:"long,omitempty"`
	Type       string   `json:"type,omitempty"`
	Category   string   `json:"category,omitempty"`
	Priority   *int     `json:"priority,omitempty"`
	Rating     *float64 `json:"rating,omitempty"`

	MinDurationHours *float64 `json:"min_duration_hours,omitempty"`
	VisitMinutes     *int     `json:"visit_minutes,omitempty"`

	OpeningHour *int `json:"opening_hour,omitempty"`
	ClosingHour *int `json:"closing_hour,omitempty"`

	Mandatory bool `json:"mandatory,omitempty"`

	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
	Address string `json:"address,omitempty"`
}

// Normalize converts a raw boundary shape into the canonical POI,
// resolving field aliases and validating ranges.
func (r RawPOI) Normalize() (POI, error) {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return POI{}, &ValidationError{Field: "name", Reason: "must be non-empty"}
	}

	if r.Lat == nil {
		return POI{}, &ValidationError{Field: "lat", Reason: "is required"}
	}
	lon := r.Lon
	if lon == nil {
		lon = r.Long
	}
	if lon == nil {
		return POI{}, &ValidationError{Field: "lon", Reason: "is required"}
	}

	coords := Coordinates{Lat: *r.Lat, Lon: *lon}
	if err := coords.Validate(); err != nil {
		return POI{}, &ValidationError{Field: "coordinates", Reason: err.Error()}
	}

	category := normalizeCategory(r.Category)
	if category == CategoryOther && r.Type != "" {
		category = normalizeCategory(r.Type)
	}

	priority := 5
	if r.Priority != nil {
		if *r.Priority < 1 || *r.Priority > 10 {
			return POI{}, &ValidationError{Field: "priority", Reason: "must be between 1 and 10"}
		}
		priority = *r.Priority
	}

	var rating float64
	if r.Rating != nil {
		rating = *r.Rating
	}

	visitMinutes := 0
	if r.VisitMinutes != nil && *r.VisitMinutes > 0 {
		visitMinutes = *r.VisitMinutes
	} else if r.MinDurationHours != nil && *r.MinDurationHours > 0 {
		visitMinutes = int(*r.MinDurationHours * 60)
	}

	if (r.OpeningHour == nil) != (r.ClosingHour == nil) {
		return POI{}, &ValidationError{Field: "opening_hour", Reason: "opening and closing hour must be set together"}
	}
	if r.OpeningHour != nil {
		if *r.OpeningHour < 0 || *r.OpeningHour > 23 || *r.ClosingHour < 1 || *r.ClosingHour > 24 {
			return POI{}, &ValidationError{Field: "opening_hour", Reason: "hours must fall within a day"}
		}
		if *r.OpeningHour >= *r.ClosingHour {
			return POI{}, &ValidationError{Field: "opening_hour", Reason: "opening hour must precede closing hour"}
		}
	}

	return POI{
		Name:         name,
		ExternalID:   strings.TrimSpace(r.ExternalID),
		Coords:       coords,
		Category:     category,
		Priority:     priority,
		Rating:       rating,
		VisitMinutes: visitMinutes,
		OpeningHour:  r.OpeningHour,
		ClosingHour:  r.ClosingHour,
		Mandatory:    r.Mandatory,
		City:         strings.TrimSpace(r.City),
		Country:      strings.TrimSpace(r.Country),
		Address:      strings.TrimSpace(r.Address),
	}, nil
}

func normalizeCategory(s string) Category {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryMuseum, "gallery":
		return CategoryMuseum
	case CategoryPark, "garden":
		return CategoryPark
	case CategoryRestaurant, "cafe", "food":
		return CategoryRestaurant
	case CategoryViewpoint, "lookout":
		return CategoryViewpoint
	case CategoryMonument, "landmark", "church", "cathedral":
		return CategoryMonument
	case CategoryBeach:
		return CategoryBeach
	case CategoryShopping, "market":
		return CategoryShopping
	default:
		return CategoryOther
	}
}

// NormalizeAll converts a batch of raw POIs, failing on the first invalid entry.
func NormalizeAll(raw []RawPOI) ([]POI, error) {
	out := make([]POI, 0, len(raw))
	for i, r := range raw {
		p, err := r.Normalize()
		if err != nil {
			return nil, fmt.Errorf("poi %d (%q): %w", i, r.Name, err)
		}
		out = append(out, p)
	}
	return out, nil
}
