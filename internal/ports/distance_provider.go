package ports

import (
	"context"
	"fmt"
	"math"

	"trip-planner-service/internal/domain"
)

// Pairwise travel distances and durations between a set of coordinates.
// Distances are meters, durations seconds. Unreachable pairs carry +Inf.
type DistanceMatrix struct {
	Distances [][]float64
	Durations [][]float64
	Method    domain.RouteMethod
}

// Check the matrix is square, non-negative and zero on the diagonal.
func (m DistanceMatrix) Validate() error {
	n := len(m.Distances)
	if len(m.Durations) != n {
		return fmt.Errorf("matrix validate: %d distance rows vs %d duration rows", n, len(m.Durations))
	}
	for i := 0; i < n; i++ {
		if len(m.Distances[i]) != n || len(m.Durations[i]) != n {
			return fmt.Errorf("matrix validate: row %d is not length %d", i, n)
		}
		if m.Distances[i][i] != 0 {
			return fmt.Errorf("matrix validate: nonzero diagonal at %d", i)
		}
		for j := 0; j < n; j++ {
			d := m.Distances[i][j]
			if math.IsNaN(d) || (d < 0 && !math.IsInf(d, 1)) {
				return fmt.Errorf("matrix validate: invalid distance at (%d,%d): %v", i, j, d)
			}
		}
	}
	return nil
}

// One origin-to-destination travel leg.
type RouteLeg struct {
	DistanceMeters  float64
	DurationSeconds float64
	Method          domain.RouteMethod
}

// Contract for retrieving travel distances and durations between coordinates.
type DistanceProvider interface {
	// Return the full pairwise matrix for the given coordinates.
	Matrix(ctx context.Context, coords []domain.Coordinates, mode domain.TransportMode) (DistanceMatrix, error)

	// Return a single leg between two coordinates.
	Route(ctx context.Context, origin, destination domain.Coordinates, mode domain.TransportMode) (RouteLeg, error)
}
