package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
)

// Pipeline stages for one planning run. FAILED is absorbing and only
// reached when no itinerary at all could be produced.
type planStage string

const (
	stageReceived     planStage = "RECEIVED"
	stageClustered    planStage = "CLUSTERED"
	stageSequenced    planStage = "SEQUENCED"
	stageAllocated    planStage = "ALLOCATED"
	stageDayOptimized planStage = "DAY_OPTIMIZED"
	stageScheduled    planStage = "SCHEDULED"
	stageDone         planStage = "DONE"
	stageFailed       planStage = "FAILED"
)

// AssemblerConfig tunes orchestration.
type AssemblerConfig struct {
	// Budget is the wall-clock cap for one planning run; when it
	// expires the remaining stages are skipped and the best partial
	// itinerary is returned with a degraded flag.
	Budget time.Duration

	// Strategy thresholds on the longest inter-city leg.
	HybridMaxLegKm  float64
	ComplexMaxLegKm float64
}

func DefaultAssemblerConfig() AssemblerConfig {
	return AssemblerConfig{
		Budget:          20 * time.Second,
		HybridMaxLegKm:  300,
		ComplexMaxLegKm: 800,
	}
}

// PlanRequest is one planning run's validated input.
type PlanRequest struct {
	POIs      []domain.POI
	StartDate time.Time
	EndDate   time.Time
	Mode      domain.TransportMode
	StartCity string

	// BasePoint, when set, anchors each day's first travel leg instead
	// of the cluster centroid.
	BasePoint *domain.Coordinates
}

// Validate fails fast on fundamentally invalid input; everything else
// is recoverable inside the pipeline.
func (r PlanRequest) Validate() error {
	if len(r.POIs) == 0 {
		return &domain.ValidationError{Field: "pois", Reason: "must be non-empty"}
	}
	if r.EndDate.Before(r.StartDate) {
		return &domain.ValidationError{Field: "end_date", Reason: "must not precede start date"}
	}
	if _, err := r.Mode.SpeedKmh(); err != nil {
		return &domain.ValidationError{Field: "mode", Reason: err.Error()}
	}
	if r.BasePoint != nil {
		if err := r.BasePoint.Validate(); err != nil {
			return &domain.ValidationError{Field: "base_point", Reason: err.Error()}
		}
	}
	return nil
}

// TotalDays is the inclusive day count of the trip.
func (r PlanRequest) TotalDays() int {
	return int(r.EndDate.Sub(r.StartDate).Hours()/24) + 1
}

// Assembler orchestrates the planning pipeline. Every stage failure
// maps to a documented fallback; the pipeline always produces some
// itinerary, degrading quality and confidence instead of erroring,
// except for invalid input which fails before the pipeline starts.
type Assembler struct {
	clusterer *Clusterer
	sequencer *Sequencer
	allocator *Allocator
	optimizer *Optimizer
	scheduler *Scheduler
	cfg       AssemblerConfig
}

func NewAssembler(
	clusterer *Clusterer,
	sequencer *Sequencer,
	allocator *Allocator,
	optimizer *Optimizer,
	scheduler *Scheduler,
	cfg AssemblerConfig,
) *Assembler {
	if cfg.Budget <= 0 {
		cfg = DefaultAssemblerConfig()
	}
	return &Assembler{
		clusterer: clusterer,
		sequencer: sequencer,
		allocator: allocator,
		optimizer: optimizer,
		scheduler: scheduler,
		cfg:       cfg,
	}
}

type planRun struct {
	stage    planStage
	deadline time.Time
	degraded bool
}

func (r *planRun) advance(to planStage) {
	log.Printf("op=assembler.Plan stage=%s next=%s degraded=%v", r.stage, to, r.degraded)
	r.stage = to
}

func (r *planRun) overBudget() bool {
	if time.Now().After(r.deadline) {
		r.degraded = true
		return true
	}
	return false
}

// Plan runs the full pipeline and assembles the final itinerary.
func (a *Assembler) Plan(ctx context.Context, req PlanRequest) (_ *domain.Itinerary, err error) {
	defer obs.Time(ctx, "assembler.Plan")(&err)

	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, a.cfg.Budget)
	defer cancel()

	run := &planRun{
		stage:    stageReceived,
		deadline: time.Now().Add(a.cfg.Budget),
	}

	totalDays := req.TotalDays()
	var unassigned []domain.POI

	// CLUSTERED. A clustering failure collapses everything into one
	// cluster rather than aborting.
	clusters, droppedByClusterer, err := a.clusterer.Cluster(ctx, req.POIs)
	if err != nil || len(clusters) == 0 {
		if err != nil {
			log.Printf("op=assembler.Plan stage=%s fallback=single_cluster err=%v", run.stage, err)
		}
		run.degraded = true
		clusters = []domain.CityCluster{a.fallbackCluster(req.POIs)}
		droppedByClusterer = nil
	}
	unassigned = append(unassigned, droppedByClusterer...)
	run.advance(stageClustered)

	// SEQUENCED. Routes may be partial (long legs skipped) or missing
	// entirely when the provider chain fails.
	sequence := a.sequencer.Sequence(clusters, req.StartCity)
	var routes []domain.InterCityRoute
	if !run.overBudget() {
		routes, err = a.sequencer.Routes(ctx, sequence, domain.ModeDrive)
		if err != nil {
			log.Printf("op=assembler.Plan stage=%s routes_err=%v", run.stage, err)
			run.degraded = true
			routes = nil
		}
	}
	run.advance(stageSequenced)

	// ALLOCATED.
	allocation := a.allocator.AllocateDays(sequence, totalDays)
	run.advance(stageAllocated)

	// DAY_OPTIMIZED and SCHEDULED, cluster by cluster. Clusters that no
	// longer fit the day budget surface their POIs as unassigned.
	it := &domain.Itinerary{
		Cities:    sequence,
		Routes:    routes,
		Days:      make(map[int]domain.DaySchedule),
		TotalDays: totalDays,
	}

	remainingDays := totalDays
	dayIndex := 1
	date := req.StartDate
	constraintsOK := true
	anyEstimated := false

	for _, cluster := range sequence {
		days := allocation[cluster.Name]
		if days > remainingDays {
			days = remainingDays
		}
		if days <= 0 {
			unassigned = append(unassigned, cluster.POIs...)
			continue
		}

		ordered, clusterUnassigned, intraKm := a.optimizeCluster(ctx, run, cluster, req.Mode, &constraintsOK, &anyEstimated)
		unassigned = append(unassigned, clusterUnassigned...)
		it.TotalDistanceKm += intraKm

		base := cluster.Centroid
		if req.BasePoint != nil {
			base = *req.BasePoint
		}

		groups := a.allocator.SplitAcrossDays(ordered, days)
		schedules, spill := a.scheduler.ScheduleDays(groups, base, date, req.Mode)
		unassigned = append(unassigned, spill...)

		for _, schedule := range schedules {
			it.Days[dayIndex] = schedule
			dayIndex++
		}

		if days > 1 {
			it.Accommodations = append(it.Accommodations, domain.Accommodation{
				ClusterName: cluster.Name,
				Country:     cluster.Country,
				Coords:      cluster.Centroid,
				Nights:      days - 1,
			})
		}

		date = date.AddDate(0, 0, days)
		remainingDays -= days
	}
	run.advance(stageDayOptimized)
	run.advance(stageScheduled)

	// Long legs force an overnight stop on the road.
	for _, route := range routes {
		if route.RequiresOvernight() {
			it.Accommodations = append(it.Accommodations, domain.Accommodation{
				ClusterName: fmt.Sprintf("en route %s - %s", route.OriginName, route.DestinationName),
				Coords:      midpoint(route.Origin, route.Destination),
				Nights:      1,
				EnRoute:     true,
			})
		}
		if route.Method == domain.MethodEstimated {
			anyEstimated = true
		}
		it.TotalDistanceKm += route.DistanceKm
	}

	// Estimated legs mean the real routing backend never answered;
	// the answer is usable but degraded.
	it.Unassigned = unassigned
	it.Degraded = run.degraded || anyEstimated
	it.Strategy = a.strategy(sequence, run.degraded)
	it.Confidence = a.confidence(sequence, it.Strategy, len(req.POIs), len(unassigned), anyEstimated, constraintsOK)

	run.advance(stageDone)
	return it, nil
}

// optimizeCluster orders one cluster's POIs, degrading from VRPTW to
// TSP to input order. Solver-dropped POIs go to unassigned.
func (a *Assembler) optimizeCluster(
	ctx context.Context,
	run *planRun,
	cluster domain.CityCluster,
	mode domain.TransportMode,
	constraintsOK *bool,
	anyEstimated *bool,
) (ordered []domain.POI, unassigned []domain.POI, intraKm float64) {
	if run.overBudget() {
		return fallbackOrder(cluster.POIs), nil, 0
	}

	dayStartMinutes := a.scheduler.cfg.DayStartHour * 60
	res, method, err := a.optimizer.Optimize(ctx, cluster.POIs, mode, true, dayStartMinutes)
	if err != nil || !res.Success {
		log.Printf("op=assembler.optimizeCluster cluster=%q fallback=priority_order err=%v", cluster.Name, err)
		run.degraded = true
		return fallbackOrder(cluster.POIs), nil, 0
	}

	if method == domain.MethodEstimated {
		*anyEstimated = true
	}
	if !res.ConstraintsSatisfied {
		*constraintsOK = false
	}

	inRoute := make(map[int]struct{}, len(res.Route))
	for _, idx := range res.Route {
		if idx >= 0 && idx < len(cluster.POIs) {
			ordered = append(ordered, cluster.POIs[idx])
			inRoute[idx] = struct{}{}
		}
	}
	for i, p := range cluster.POIs {
		if _, ok := inRoute[i]; !ok {
			unassigned = append(unassigned, p)
		}
	}
	return ordered, unassigned, res.TotalDistanceM / 1000
}

// fallbackOrder sorts POIs by priority, then by shortness of visit, so
// the unoptimized schedule front-loads what the traveler cares about.
func fallbackOrder(pois []domain.POI) []domain.POI {
	ordered := append([]domain.POI(nil), pois...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Priority != ordered[j].Priority {
			return ordered[i].Priority > ordered[j].Priority
		}
		return ordered[i].VisitDurationMinutes() < ordered[j].VisitDurationMinutes()
	})
	return ordered
}

// fallbackCluster wraps every POI into one low-confidence cluster.
func (a *Assembler) fallbackCluster(pois []domain.POI) domain.CityCluster {
	coords := make([]domain.Coordinates, len(pois))
	for i, p := range pois {
		coords[i] = p.Coords
	}
	centroid, _ := domain.CenterPoint(coords)

	name := "Trip Area"
	if city := pois[0].City; city != "" {
		name = city
	}

	return domain.CityCluster{
		ID:         "cluster-fallback",
		Name:       name,
		Country:    "Unknown",
		Centroid:   centroid,
		POIs:       pois,
		Confidence: 0.2,
	}
}

// strategy picks the tag callers use to judge the answer's shape.
func (a *Assembler) strategy(sequence []domain.CityCluster, degraded bool) domain.OptimizationStrategy {
	if degraded {
		return domain.StrategyFallback
	}
	if len(sequence) <= 1 {
		return domain.StrategySingleCity
	}

	complexity := a.sequencer.AnalyzeComplexity(sequence)
	if complexity.CountryCount > 2 || complexity.MaxLegKm > a.cfg.ComplexMaxLegKm {
		return domain.StrategyMultiCountry
	}
	return domain.StrategyIntercityHybrid
}

// Base confidence per strategy; fallback answers start low.
var strategyBaseConfidence = map[domain.OptimizationStrategy]float64{
	domain.StrategySingleCity:      0.9,
	domain.StrategyIntercityHybrid: 0.8,
	domain.StrategyMultiCountry:    0.7,
	domain.StrategyFallback:        0.5,
}

// confidence blends the strategy base with mean cluster confidence,
// coverage and method penalties into one [0,1] quality score.
func (a *Assembler) confidence(
	sequence []domain.CityCluster,
	strategy domain.OptimizationStrategy,
	totalPOIs, unassignedCount int,
	anyEstimated bool,
	constraintsOK bool,
) float64 {
	if len(sequence) == 0 || totalPOIs == 0 {
		return 0
	}

	score, ok := strategyBaseConfidence[strategy]
	if !ok {
		score = 0.5
	}

	var sum float64
	for _, c := range sequence {
		sum += c.Confidence
	}
	score *= sum / float64(len(sequence))

	coverage := float64(totalPOIs-unassignedCount) / float64(totalPOIs)
	if coverage < 0 {
		coverage = 0
	}
	score *= coverage

	if anyEstimated {
		score *= 0.85
	}
	if !constraintsOK {
		score *= 0.9
	}

	if score > 1 {
		score = 1
	}
	if score < 0 {
		score = 0
	}
	return score
}

func midpoint(a, b domain.Coordinates) domain.Coordinates {
	mid, err := domain.CenterPoint([]domain.Coordinates{a, b})
	if err != nil {
		return a
	}
	return mid
}
