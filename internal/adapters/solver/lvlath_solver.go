package solver

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/katalvlaran/lvlath/tsp"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
)

// Assumed average speed for converting a distance-only tour into a
// rough time estimate, plus a fixed per-stop service allowance.
const (
	estimateSpeedKmh      = 50.0
	estimateServiceMinute = 60.0
)

// LvlathSolver answers TSP queries with the Christofides 1.5-approximation
// from lvlath/tsp. Christofides requires a symmetric metric matrix, so
// inputs are symmetrized by averaging before solving.
type LvlathSolver struct{}

func NewLvlathSolver() *LvlathSolver { return &LvlathSolver{} }

// symmetrize averages mat[i][j] and mat[j][i] in a fresh copy. Road
// networks are mildly asymmetric (one-way streets); the average keeps
// the matrix metric enough for Christofides.
func symmetrize(mat [][]float64) [][]float64 {
	n := len(mat)
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			a, b := mat[i][j], mat[j][i]
			var v float64
			switch {
			case math.IsInf(a, 1) && math.IsInf(b, 1):
				v = math.Inf(1)
			case math.IsInf(a, 1):
				v = b
			case math.IsInf(b, 1):
				v = a
			default:
				v = (a + b) / 2
			}
			out[i][j] = v
			out[j][i] = v
		}
	}
	return out
}

// clampBad replaces NaN and negative entries with 0, logging each fix.
// +Inf is preserved; it marks a missing edge, not a bad value.
func clampBad(mat [][]float64) {
	for i := range mat {
		for j := range mat[i] {
			v := mat[i][j]
			if math.IsNaN(v) || (v < 0 && !math.IsInf(v, 1)) {
				log.Printf("op=solver.SolveTSP clamped cell=(%d,%d) value=%v", i, j, v)
				mat[i][j] = 0
			}
		}
	}
}

func tourCost(mat [][]float64, route []int) float64 {
	var total float64
	for i := 1; i < len(route); i++ {
		total += mat[route[i-1]][route[i]]
	}
	return total
}

// estimateMinutes converts a tour distance into a rough duration at the
// assumed speed plus per-stop service time.
func estimateMinutes(distanceM float64, stops int) float64 {
	return distanceM/1000/estimateSpeedKmh*60 + estimateServiceMinute*float64(stops)
}

func (s *LvlathSolver) SolveTSP(ctx context.Context, distances [][]float64) (ports.OptimizationResult, error) {
	n := len(distances)
	if n == 0 {
		return ports.OptimizationResult{}, errors.New("solve tsp: empty distance matrix")
	}
	if err := ctx.Err(); err != nil {
		return ports.OptimizationResult{}, err
	}

	mat := symmetrize(distances)
	clampBad(mat)

	// Trivial cases do not need a solver.
	if n <= 2 {
		route := []int{0}
		if n == 2 {
			route = []int{0, 1}
		}
		dist := tourCost(mat, route)
		return ports.OptimizationResult{
			Success:              true,
			Route:                route,
			TotalDistanceM:       dist,
			TotalTimeMinutes:     estimateMinutes(dist, n),
			AlgorithmUsed:        "christofides_tsp",
			ConstraintsSatisfied: true,
		}, nil
	}

	res, err := tsp.TSPApprox(mat)
	if err != nil {
		return ports.OptimizationResult{}, fmt.Errorf("solve tsp: %w: %v", domain.ErrSolverInfeasible, err)
	}

	// The tour is a closed cycle ending back at the start; a day route
	// does not return, so drop the final hop.
	route := res.Tour
	if len(route) > 1 && route[len(route)-1] == route[0] {
		route = route[:len(route)-1]
	}

	dist := tourCost(mat, route)
	if math.IsNaN(dist) || math.IsInf(dist, 0) {
		log.Printf("op=solver.SolveTSP clamped total=%v", dist)
		dist = 0
	}

	return ports.OptimizationResult{
		Success:              true,
		Route:                route,
		TotalDistanceM:       dist,
		TotalTimeMinutes:     estimateMinutes(dist, n),
		AlgorithmUsed:        "christofides_tsp",
		ConstraintsSatisfied: true,
	}, nil
}
