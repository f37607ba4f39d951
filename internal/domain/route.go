package domain

// RouteMethod tags how a route leg was computed so downstream quality
// scoring can discount estimated legs.
type RouteMethod string

const (
	MethodReal      RouteMethod = "real"
	MethodEstimated RouteMethod = "estimated"
)

// InterCityRoute is a directed travel leg between two cluster centroids.
type InterCityRoute struct {
	OriginName      string
	DestinationName string
	Origin          Coordinates
	Destination     Coordinates
	DistanceKm      float64
	TravelHours     float64
	Mode            TransportMode
	Method          RouteMethod
}

// IsLongDistance reports whether the leg takes more than eight hours.
func (r InterCityRoute) IsLongDistance() bool { return r.TravelHours > 8 }

// RequiresOvernight reports whether the leg is too long for a single
// travel day and needs an en-route overnight stop.
func (r InterCityRoute) RequiresOvernight() bool { return r.TravelHours > 10 }
