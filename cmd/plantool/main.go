package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"trip-planner-service/internal/adapters/distance"
	"trip-planner-service/internal/adapters/solver"
	"trip-planner-service/internal/api/dto"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/services"
)

// plantool plans an itinerary offline from a POI wishlist file, using
// great-circle estimates instead of a routing backend. Useful for trying
// out seed files without running the server.
func main() {
	var (
		poisPath  = flag.String("pois", "data/seeds/pois.json", "path to the POI wishlist JSON")
		startDate = flag.String("start", "", "trip start date (YYYY-MM-DD)")
		endDate   = flag.String("end", "", "trip end date (YYYY-MM-DD)")
		mode      = flag.String("mode", "walk", "transport mode inside cities")
		startCity = flag.String("from", "", "preferred first city")
	)
	flag.Parse()

	if *startDate == "" || *endDate == "" {
		log.Fatal("both -start and -end are required")
	}
	start, err := time.Parse("2006-01-02", *startDate)
	if err != nil {
		log.Fatalf("invalid -start: %v", err)
	}
	end, err := time.Parse("2006-01-02", *endDate)
	if err != nil {
		log.Fatalf("invalid -end: %v", err)
	}

	pois, err := loadPOIs(*poisPath)
	if err != nil {
		log.Fatal(err)
	}

	provider := distance.NewFallbackProvider(nil, distance.NewHaversineProvider())
	assembler := services.NewAssembler(
		services.NewClusterer(services.DefaultClustererConfig()),
		services.NewSequencer(provider, nil, services.DefaultSequencerConfig()),
		services.NewAllocator(),
		services.NewOptimizer(provider, solver.NewLvlathSolver()),
		services.NewScheduler(services.DefaultSchedulerConfig()),
		services.DefaultAssemblerConfig(),
	)

	it, err := assembler.Plan(context.Background(), services.PlanRequest{
		POIs:      pois,
		StartDate: start,
		EndDate:   end,
		Mode:      domain.TransportMode(*mode),
		StartCity: *startCity,
	})
	if err != nil {
		log.Fatal(err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(dto.FromItinerary(it)); err != nil {
		log.Fatal(err)
	}
}

func loadPOIs(path string) ([]domain.POI, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load pois: %w", err)
	}

	var raw []domain.RawPOI
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("load pois: parse %q: %w", path, err)
	}

	pois, err := domain.NormalizeAll(raw)
	if err != nil {
		return nil, fmt.Errorf("load pois: %w", err)
	}
	return pois, nil
}
