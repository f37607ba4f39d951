package solver

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
)

// Length of one sightseeing day, minutes from the departure time.
const dayWindowMinutes = 600

// SolveVRPTW orders stops with a deterministic greedy insertion: from the
// current position, pick the nearest stop that can still be started and
// finished inside both its opening window and the day window, preferring
// mandatory stops. Arriving before opening waits; stops that never fit
// are reported in DroppedPOIs rather than silently lost.
func (s *LvlathSolver) SolveVRPTW(
	ctx context.Context,
	distances, timeMinutes [][]float64,
	stops []ports.Stop,
	startMinutes int,
) (ports.OptimizationResult, error) {
	n := len(stops)
	if n == 0 {
		return ports.OptimizationResult{}, errors.New("solve vrptw: no stops")
	}
	if len(distances) != n || len(timeMinutes) != n {
		return ports.OptimizationResult{}, fmt.Errorf(
			"solve vrptw: %d stops vs %dx%d matrices", n, len(distances), len(timeMinutes))
	}
	if err := ctx.Err(); err != nil {
		return ports.OptimizationResult{}, err
	}

	clampBad(distances)
	clampBad(timeMinutes)

	dayEnd := float64(startMinutes + dayWindowMinutes)

	remaining := make(map[int]struct{}, n)
	for i := range stops {
		remaining[i] = struct{}{}
	}

	var (
		route  []int
		totalM float64
		now    = float64(startMinutes)
		cur    = -1
	)

	for len(remaining) > 0 {
		best := -1
		bestBegin := math.Inf(1)
		bestMandatory := false

		for r := range remaining {
			travel := 0.0
			if cur >= 0 {
				travel = timeMinutes[cur][r]
			}
			if math.IsInf(travel, 1) {
				continue
			}

			// begin folds in both travel and any wait for opening, so
			// preferring the earliest begin is nearest-neighbor when no
			// window applies and avoids idling in front of closed doors.
			begin := now + travel
			if stops[r].OpeningHour != nil {
				open := float64(*stops[r].OpeningHour) * 60
				if begin < open {
					begin = open
				}
			}
			finish := begin + float64(stops[r].ServiceMinutes)
			if stops[r].ClosingHour != nil && finish > float64(*stops[r].ClosingHour)*60 {
				continue
			}
			if finish > dayEnd {
				continue
			}

			better := false
			switch {
			case stops[r].Mandatory && !bestMandatory:
				better = true
			case stops[r].Mandatory == bestMandatory && begin < bestBegin:
				better = true
			case stops[r].Mandatory == bestMandatory && begin == bestBegin && (best < 0 || stops[r].Index < stops[best].Index):
				better = true
			}
			if better {
				best = r
				bestBegin = begin
				bestMandatory = stops[r].Mandatory
			}
		}

		if best < 0 {
			break
		}

		route = append(route, best)
		if cur >= 0 {
			totalM += distances[cur][best]
		}
		now = bestBegin + float64(stops[best].ServiceMinutes)
		cur = best
		delete(remaining, best)
	}

	if len(route) == 0 {
		return ports.OptimizationResult{}, fmt.Errorf("solve vrptw: %w: no stop fits the day window", domain.ErrSolverInfeasible)
	}

	dropped := make([]int, 0, len(remaining))
	satisfied := true
	for r := range remaining {
		dropped = append(dropped, stops[r].Index)
		if stops[r].Mandatory {
			satisfied = false
		}
	}
	sort.Ints(dropped)

	if math.IsNaN(totalM) || math.IsInf(totalM, 0) {
		totalM = 0
	}

	return ports.OptimizationResult{
		Success:              true,
		Route:                route,
		TotalDistanceM:       totalM,
		TotalTimeMinutes:     now - float64(startMinutes),
		AlgorithmUsed:        "greedy_vrptw",
		ConstraintsSatisfied: satisfied,
		DroppedPOIs:          dropped,
	}, nil
}
