package distance

import (
	"context"
	"fmt"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
)

// HaversineProvider estimates distances from great-circle geometry and
// mode speeds. It needs no network and never fails on reachable input,
// so it terminates every fallback chain.
type HaversineProvider struct{}

func NewHaversineProvider() *HaversineProvider { return &HaversineProvider{} }

func (p *HaversineProvider) Matrix(
	ctx context.Context,
	coords []domain.Coordinates,
	mode domain.TransportMode,
) (ports.DistanceMatrix, error) {
	if len(coords) == 0 {
		return ports.DistanceMatrix{}, fmt.Errorf("haversine matrix: no coordinates")
	}

	speed, err := mode.SpeedKmh()
	if err != nil {
		return ports.DistanceMatrix{}, fmt.Errorf("haversine matrix: %w", err)
	}

	n := len(coords)
	distances := make([][]float64, n)
	durations := make([][]float64, n)
	for i := range coords {
		distances[i] = make([]float64, n)
		durations[i] = make([]float64, n)
		for j := range coords {
			if i == j {
				continue
			}
			km := domain.HaversineKm(coords[i], coords[j])
			distances[i][j] = km * 1000
			durations[i][j] = km / speed * 3600
		}
	}

	return ports.DistanceMatrix{
		Distances: distances,
		Durations: durations,
		Method:    domain.MethodEstimated,
	}, nil
}

func (p *HaversineProvider) Route(
	ctx context.Context,
	origin, destination domain.Coordinates,
	mode domain.TransportMode,
) (ports.RouteLeg, error) {
	speed, err := mode.SpeedKmh()
	if err != nil {
		return ports.RouteLeg{}, fmt.Errorf("haversine route: %w", err)
	}

	km := domain.HaversineKm(origin, destination)
	return ports.RouteLeg{
		DistanceMeters:  km * 1000,
		DurationSeconds: km / speed * 3600,
		Method:          domain.MethodEstimated,
	}, nil
}
