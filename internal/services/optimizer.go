package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"
)

// Optimizer computes visiting orders for one cluster's POIs: a matrix
// from the distance provider, then a time-windowed solve when windows
// are present, falling back to plain TSP when the constrained solve is
// infeasible.
type Optimizer struct {
	provider ports.DistanceProvider
	solver   ports.RouteSolver
}

func NewOptimizer(provider ports.DistanceProvider, solver ports.RouteSolver) *Optimizer {
	return &Optimizer{provider: provider, solver: solver}
}

// sanitizeMatrix clamps NaN and negative cells to 0 in place, logging
// each fix as a data-quality warning. +Inf survives; it is the
// unreachable sentinel, not bad data.
func sanitizeMatrix(name string, mat [][]float64) {
	for i := range mat {
		for j := range mat[i] {
			v := mat[i][j]
			if math.IsNaN(v) || (v < 0 && !math.IsInf(v, 1)) {
				log.Printf("op=optimizer.sanitize matrix=%s cell=(%d,%d) value=%v", name, i, j, v)
				mat[i][j] = 0
			}
		}
	}
}

// Optimize orders the cluster's POIs. useTimeWindows engages the
// constrained solver when any POI carries opening hours; infeasibility
// degrades to plain TSP before giving up. The returned method tags
// whether the underlying matrix was real or estimated.
func (o *Optimizer) Optimize(
	ctx context.Context,
	pois []domain.POI,
	mode domain.TransportMode,
	useTimeWindows bool,
	dayStartMinutes int,
) (_ ports.OptimizationResult, _ domain.RouteMethod, err error) {
	defer obs.Time(ctx, "optimizer.Optimize")(&err)

	if len(pois) == 0 {
		return ports.OptimizationResult{}, "", errors.New("optimize: no pois")
	}

	coords := make([]domain.Coordinates, len(pois))
	for i, p := range pois {
		coords[i] = p.Coords
	}

	matrix, err := o.provider.Matrix(ctx, coords, mode)
	if err != nil {
		return ports.OptimizationResult{}, "", fmt.Errorf("optimize: distance matrix: %w", err)
	}
	if err := matrix.Validate(); err != nil {
		sanitizeMatrix("distances", matrix.Distances)
		sanitizeMatrix("durations", matrix.Durations)
		if err := matrix.Validate(); err != nil {
			return ports.OptimizationResult{}, "", fmt.Errorf("optimize: %w", err)
		}
	}

	timeMinutes := make([][]float64, len(matrix.Durations))
	for i, row := range matrix.Durations {
		timeMinutes[i] = make([]float64, len(row))
		for j, v := range row {
			timeMinutes[i][j] = v / 60
		}
	}

	if useTimeWindows && anyHasWindow(pois) {
		stops := make([]ports.Stop, len(pois))
		for i, p := range pois {
			stops[i] = ports.Stop{
				Index:          i,
				OpeningHour:    p.OpeningHour,
				ClosingHour:    p.ClosingHour,
				ServiceMinutes: p.VisitDurationMinutes(),
				Mandatory:      p.Mandatory,
			}
		}

		res, err := o.solver.SolveVRPTW(ctx, matrix.Distances, timeMinutes, stops, dayStartMinutes)
		if err == nil {
			return clampResult(res), matrix.Method, nil
		}
		if !errors.Is(err, domain.ErrSolverInfeasible) {
			return ports.OptimizationResult{}, "", fmt.Errorf("optimize: vrptw: %w", err)
		}
		log.Printf("op=optimizer.Optimize vrptw_infeasible n=%d fallback=tsp", len(pois))
	}

	// The approximation is fast; the cap only guards pathological inputs.
	solveCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	res, err := o.solver.SolveTSP(solveCtx, matrix.Distances)
	if err != nil {
		return ports.OptimizationResult{Success: false}, matrix.Method, fmt.Errorf("optimize: tsp: %w", err)
	}

	return clampResult(res), matrix.Method, nil
}

func anyHasWindow(pois []domain.POI) bool {
	for _, p := range pois {
		if p.HasTimeWindow() {
			return true
		}
	}
	return false
}

// clampResult clamps NaN/Inf aggregates to 0 per the numeric policy.
func clampResult(res ports.OptimizationResult) ports.OptimizationResult {
	if math.IsNaN(res.TotalDistanceM) || math.IsInf(res.TotalDistanceM, 0) {
		log.Printf("op=optimizer.clamp field=total_distance value=%v", res.TotalDistanceM)
		res.TotalDistanceM = 0
	}
	if math.IsNaN(res.TotalTimeMinutes) || math.IsInf(res.TotalTimeMinutes, 0) {
		log.Printf("op=optimizer.clamp field=total_time value=%v", res.TotalTimeMinutes)
		res.TotalTimeMinutes = 0
	}
	return res
}
