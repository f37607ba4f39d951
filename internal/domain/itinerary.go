package domain

// OptimizationStrategy tags which planning path produced an itinerary, so
// callers can tell a fully optimized answer from a degraded fallback.
type OptimizationStrategy string

const (
	StrategySingleCity      OptimizationStrategy = "single_city"
	StrategyIntercityHybrid OptimizationStrategy = "intercity_hybrid"
	StrategyMultiCountry    OptimizationStrategy = "multi_country_complex"
	StrategyFallback        OptimizationStrategy = "fallback"
)

// Accommodation is a planned overnight stay.
type Accommodation struct {
	ClusterName string
	Country     string
	Coords      Coordinates
	Nights      int

	// EnRoute marks an overnight stop forced by a long inter-city leg
	// rather than a multi-day city stay.
	EnRoute bool
}

// Itinerary is the root planning aggregate. It is built once per request
// and never mutated after being returned.
type Itinerary struct {
	Cities []CityCluster
	Routes []InterCityRoute

	// Days maps 1-based day index to that day's schedule.
	Days map[int]DaySchedule

	// Unassigned lists POIs that could not be scheduled; they are surfaced
	// rather than silently dropped.
	Unassigned []POI

	Accommodations []Accommodation

	TotalDistanceKm float64
	TotalDays       int

	Strategy   OptimizationStrategy
	Confidence float64

	// Degraded marks an itinerary assembled from fallback paths or cut
	// short by the wall-clock budget.
	Degraded bool
}

// CitySequence returns the ordered city names.
func (it Itinerary) CitySequence() []string {
	names := make([]string, len(it.Cities))
	for i, c := range it.Cities {
		names[i] = c.Name
	}
	return names
}

// CountryCount returns the number of distinct countries visited.
func (it Itinerary) CountryCount() int {
	seen := make(map[string]struct{}, len(it.Cities))
	for _, c := range it.Cities {
		seen[c.Country] = struct{}{}
	}
	return len(seen)
}
