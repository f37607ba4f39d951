package ports

import "context"

// One stop handed to a solver. Index refers back into the caller's POI
// slice; time windows are hours of day, nil when unconstrained.
type Stop struct {
	Index          int
	OpeningHour    *int
	ClosingHour    *int
	ServiceMinutes int
	Mandatory      bool
}

// Outcome of a single-day route optimization. Route holds indices into
// the caller's POI slice in visit order. DroppedPOIs lists indices the
// solver could not place; they are surfaced, never silently lost.
type OptimizationResult struct {
	Success              bool
	Route                []int
	TotalDistanceM       float64
	TotalTimeMinutes     float64
	AlgorithmUsed        string
	ConstraintsSatisfied bool
	DroppedPOIs          []int
}

// Contract for intra-city route optimization.
type RouteSolver interface {
	// Order stops to minimize total travel distance, ignoring time windows.
	SolveTSP(ctx context.Context, distances [][]float64) (OptimizationResult, error)

	// Order stops respecting opening hours and service times. timeMinutes
	// is the pairwise travel-time matrix; startMinutes is the departure
	// time as minutes after midnight.
	SolveVRPTW(ctx context.Context, distances, timeMinutes [][]float64, stops []Stop, startMinutes int) (OptimizationResult, error)
}
