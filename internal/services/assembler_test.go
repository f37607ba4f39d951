package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"trip-planner-service/internal/adapters/distance"
	"trip-planner-service/internal/adapters/solver"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
)

// surveyedProvider relabels haversine estimates as real measurements so
// clean-run tests do not trip the degraded flag.
type surveyedProvider struct {
	inner ports.DistanceProvider
}

func (p surveyedProvider) Matrix(ctx context.Context, coords []domain.Coordinates, mode domain.TransportMode) (ports.DistanceMatrix, error) {
	m, err := p.inner.Matrix(ctx, coords, mode)
	m.Method = domain.MethodReal
	return m, err
}

func (p surveyedProvider) Route(ctx context.Context, origin, destination domain.Coordinates, mode domain.TransportMode) (ports.RouteLeg, error) {
	leg, err := p.inner.Route(ctx, origin, destination, mode)
	leg.Method = domain.MethodReal
	return leg, err
}

func newTestAssembler(provider ports.DistanceProvider) *Assembler {
	if provider == nil {
		provider = surveyedProvider{inner: distance.NewHaversineProvider()}
	}
	sv := solver.NewLvlathSolver()
	return NewAssembler(
		NewClusterer(DefaultClustererConfig()),
		NewSequencer(provider, nil, DefaultSequencerConfig()),
		NewAllocator(),
		NewOptimizer(provider, sv),
		NewScheduler(DefaultSchedulerConfig()),
		DefaultAssemblerConfig(),
	)
}

func planDates(days int) (time.Time, time.Time) {
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, days-1)
}

func TestPlanRejectsInvalidInput(t *testing.T) {
	a := newTestAssembler(nil)
	start, end := planDates(2)

	_, err := a.Plan(context.Background(), PlanRequest{
		POIs: nil, StartDate: start, EndDate: end, Mode: domain.ModeWalk,
	})
	if err == nil {
		t.Fatal("expected validation error for empty poi list")
	}
	if !domain.IsValidation(err) {
		t.Fatalf("error %v is not a validation error", err)
	}

	_, err = a.Plan(context.Background(), PlanRequest{
		POIs:      parisPOIs(),
		StartDate: end, EndDate: start,
		Mode: domain.ModeWalk,
	})
	if err == nil || !domain.IsValidation(err) {
		t.Fatalf("expected validation error for inverted dates, got %v", err)
	}
}

func TestPlanSingleCityTwoDays(t *testing.T) {
	a := newTestAssembler(nil)
	start, end := planDates(2)

	it, err := a.Plan(context.Background(), PlanRequest{
		POIs: parisPOIs(), StartDate: start, EndDate: end, Mode: domain.ModeWalk,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if it.Strategy != domain.StrategySingleCity {
		t.Fatalf("strategy = %q, want single_city", it.Strategy)
	}
	if len(it.Cities) != 1 {
		t.Fatalf("cities = %d, want 1", len(it.Cities))
	}
	if len(it.Days) != 2 {
		t.Fatalf("days = %d, want 2", len(it.Days))
	}
	if len(it.Unassigned) != 0 {
		t.Fatalf("unassigned = %d, want 0", len(it.Unassigned))
	}

	scheduled := 0
	for _, day := range it.Days {
		scheduled += len(day.Activities)
	}
	if scheduled != 5 {
		t.Fatalf("scheduled %d activities, want all 5", scheduled)
	}

	// Two days in one city means one night.
	if len(it.Accommodations) != 1 || it.Accommodations[0].Nights != 1 {
		t.Fatalf("accommodations = %+v, want one single-night stay", it.Accommodations)
	}
	if it.Confidence <= 0 || it.Confidence > 1 {
		t.Fatalf("confidence = %f, want (0,1]", it.Confidence)
	}
	if it.Degraded {
		t.Fatal("clean run should not be degraded")
	}
}

func TestPlanDistantSingletonsSurfaceUnassigned(t *testing.T) {
	a := newTestAssembler(nil)
	start, end := planDates(1)

	pois := []domain.POI{
		poiAt("Antofagasta Plaza", -23.65, -70.40),
		poiAt("Easter Island Moai", -27.15, -109.43),
	}

	it, err := a.Plan(context.Background(), PlanRequest{
		POIs: pois, StartDate: start, EndDate: end, Mode: domain.ModeDrive,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(it.Cities) != 2 {
		t.Fatalf("cities = %d, want 2 singleton clusters", len(it.Cities))
	}
	// The 3700 km leg exceeds the route cap.
	if len(it.Routes) != 0 {
		t.Fatalf("routes = %d, want 0", len(it.Routes))
	}
	// One day cannot cover both cities; the second POI is surfaced.
	if len(it.Unassigned) != 1 {
		t.Fatalf("unassigned = %d, want 1", len(it.Unassigned))
	}
	if len(it.Days) != 1 {
		t.Fatalf("days = %d, want 1", len(it.Days))
	}
}

func TestPlanTwoCitiesSixDays(t *testing.T) {
	a := newTestAssembler(nil)
	start, end := planDates(6)

	pois := append(parisPOIs(),
		poiAt("Brandenburg Gate", 52.5163, 13.3777),
		poiAt("Museum Island", 52.5169, 13.4010),
		poiAt("East Side Gallery", 52.5050, 13.4399),
	)
	for i := 0; i < 5; i++ {
		pois[i].City = "Paris"
	}
	for i := 5; i < 8; i++ {
		pois[i].City = "Berlin"
	}

	it, err := a.Plan(context.Background(), PlanRequest{
		POIs: pois, StartDate: start, EndDate: end, Mode: domain.ModeWalk,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(it.Cities) != 2 {
		t.Fatalf("cities = %d, want 2", len(it.Cities))
	}
	if it.Strategy != domain.StrategyMultiCountry {
		// Paris-Berlin is ~880 km, above the complex threshold.
		t.Fatalf("strategy = %q, want multi_country_complex", it.Strategy)
	}
	if len(it.Days) != 6 {
		t.Fatalf("days = %d, want 6", len(it.Days))
	}
	if len(it.Routes) != 1 {
		t.Fatalf("routes = %d, want 1", len(it.Routes))
	}

	// Both cities hold multi-day stays, and the 880 km drive adds an
	// overnight stop on the road.
	cityNights, enRoute := 0, 0
	for _, acc := range it.Accommodations {
		if acc.EnRoute {
			enRoute++
			continue
		}
		cityNights += acc.Nights
	}
	if cityNights != 4 {
		t.Fatalf("city nights = %d, want 4 (days minus one per city)", cityNights)
	}
	if enRoute != 1 {
		t.Fatalf("en-route stays = %d, want 1", enRoute)
	}
}

func TestPlanMandatoryConflictDropsOne(t *testing.T) {
	a := newTestAssembler(nil)
	start, end := planDates(6)

	pois := append(parisPOIs(),
		poiAt("Brandenburg Gate", 52.5163, 13.3777),
		poiAt("Museum Island", 52.5169, 13.4010),
		poiAt("East Side Gallery", 52.5050, 13.4399),
	)

	// Two mandatory Paris POIs whose windows cannot both be met: both
	// only admit a start in the same half hour, and each takes hours.
	o1, c1 := 9, 12
	pois[0].Mandatory = true
	pois[0].OpeningHour, pois[0].ClosingHour = &o1, &c1
	pois[0].VisitMinutes = 175

	o2, c2 := 9, 12
	pois[1].Mandatory = true
	pois[1].OpeningHour, pois[1].ClosingHour = &o2, &c2
	pois[1].VisitMinutes = 175

	it, err := a.Plan(context.Background(), PlanRequest{
		POIs: pois, StartDate: start, EndDate: end, Mode: domain.ModeWalk,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dropped := 0
	for _, p := range it.Unassigned {
		if p.Mandatory {
			dropped++
		}
	}
	if dropped != 1 {
		t.Fatalf("dropped %d mandatory pois, want exactly 1", dropped)
	}
	if it.Confidence >= 1 {
		t.Fatalf("confidence = %f, should be discounted", it.Confidence)
	}
}

func TestPlanProviderFailureDegrades(t *testing.T) {
	broken := distance.NewMockDistanceProvider()
	broken.Err = errors.New("backend down")
	provider := distance.NewFallbackProvider(broken, distance.NewHaversineProvider())

	a := newTestAssembler(provider)
	start, end := planDates(2)

	it, err := a.Plan(context.Background(), PlanRequest{
		POIs: parisPOIs()[:4], StartDate: start, EndDate: end, Mode: domain.ModeWalk,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The fallback chain still completes the itinerary, marked degraded.
	if !it.Degraded {
		t.Fatal("estimated legs should mark the itinerary degraded")
	}
	if len(it.Days) != 2 {
		t.Fatalf("days = %d, want 2", len(it.Days))
	}
	scheduled := 0
	for _, day := range it.Days {
		scheduled += len(day.Activities)
	}
	if scheduled != 4 {
		t.Fatalf("scheduled %d activities, want 4", scheduled)
	}
}

func TestPlanBudgetConservation(t *testing.T) {
	a := newTestAssembler(nil)
	start, end := planDates(5)

	pois := append(parisPOIs(),
		poiAt("Brandenburg Gate", 52.5163, 13.3777),
		poiAt("Museum Island", 52.5169, 13.4010),
	)

	it, err := a.Plan(context.Background(), PlanRequest{
		POIs: pois, StartDate: start, EndDate: end, Mode: domain.ModeWalk,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(it.Days) != it.TotalDays {
		t.Fatalf("scheduled %d days, want %d", len(it.Days), it.TotalDays)
	}
	for idx := 1; idx <= it.TotalDays; idx++ {
		if _, ok := it.Days[idx]; !ok {
			t.Fatalf("day %d missing from itinerary", idx)
		}
	}
}
