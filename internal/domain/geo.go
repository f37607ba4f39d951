package domain

import (
	"fmt"
	"math"
)

const earthRadiusKm = 6371.0

// Supported transport modes for travel-time estimation.
type TransportMode string

const (
	ModeWalk    TransportMode = "walk"
	ModeDrive   TransportMode = "drive"
	ModeBike    TransportMode = "bike"
	ModeTransit TransportMode = "transit"
)

// Assumed average speeds used when no road-network backend is available.
var modeSpeedKmh = map[TransportMode]float64{
	ModeWalk:    5.0,
	ModeDrive:   50.0,
	ModeBike:    15.0,
	ModeTransit: 30.0,
}

// SpeedKmh returns the assumed average speed for a transport mode.
func (m TransportMode) SpeedKmh() (float64, error) {
	speed, ok := modeSpeedKmh[m]
	if !ok {
		return 0, fmt.Errorf("unsupported transport mode %q", m)
	}
	return speed, nil
}

// HaversineKm computes the great-circle distance between two points in kilometers.
func HaversineKm(a, b Coordinates) float64 {
	if a.Lat == b.Lat && a.Lon == b.Lon {
		return 0
	}

	p1 := a.Lat * math.Pi / 180
	p2 := b.Lat * math.Pi / 180
	dphi := (b.Lat - a.Lat) * math.Pi / 180
	dlmb := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dphi/2)*math.Sin(dphi/2) +
		math.Cos(p1)*math.Cos(p2)*math.Sin(dlmb/2)*math.Sin(dlmb/2)

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// EstimateTravelMinutes estimates travel time between two points for a mode,
// never returning less than one minute for distinct points.
func EstimateTravelMinutes(a, b Coordinates, mode TransportMode) (float64, error) {
	speed, err := mode.SpeedKmh()
	if err != nil {
		return 0, err
	}

	km := HaversineKm(a, b)
	if km == 0 {
		return 0, nil
	}

	minutes := km / speed * 60
	return math.Max(1, minutes), nil
}

// CenterPoint computes the spherical mean of a set of coordinates.
// Averaging in cartesian space avoids antimeridian artifacts.
func CenterPoint(coords []Coordinates) (Coordinates, error) {
	if len(coords) == 0 {
		return Coordinates{}, fmt.Errorf("center point: coordinate list is empty")
	}

	var x, y, z float64
	for _, c := range coords {
		lat := c.Lat * math.Pi / 180
		lon := c.Lon * math.Pi / 180
		x += math.Cos(lat) * math.Cos(lon)
		y += math.Cos(lat) * math.Sin(lon)
		z += math.Sin(lat)
	}

	n := float64(len(coords))
	x, y, z = x/n, y/n, z/n

	lon := math.Atan2(y, x)
	lat := math.Atan2(z, math.Sqrt(x*x+y*y))

	return Coordinates{
		Lat: lat * 180 / math.Pi,
		Lon: lon * 180 / math.Pi,
	}, nil
}
