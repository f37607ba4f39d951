package services

import (
	"context"
	"testing"

	"trip-planner-service/internal/adapters/distance"
	"trip-planner-service/internal/domain"
)

func clusterAt(name, country string, lat, lon float64) domain.CityCluster {
	return domain.CityCluster{
		Name:     name,
		Country:  country,
		Centroid: domain.Coordinates{Lat: lat, Lon: lon},
		POIs:     []domain.POI{poiAt(name+" POI", lat, lon)},
	}
}

func TestSequenceNearestNeighbor(t *testing.T) {
	s := NewSequencer(distance.NewHaversineProvider(), nil, DefaultSequencerConfig())

	clusters := []domain.CityCluster{
		clusterAt("Paris", "France", 48.8566, 2.3522),
		clusterAt("Rome", "Italy", 41.9028, 12.4964),
		clusterAt("Brussels", "Belgium", 50.8503, 4.3517),
	}

	seq := s.Sequence(clusters, "")
	// From Paris, Brussels (~260 km) is closer than Rome (~1100 km).
	if seq[0].Name != "Paris" || seq[1].Name != "Brussels" || seq[2].Name != "Rome" {
		t.Fatalf("sequence = %v", []string{seq[0].Name, seq[1].Name, seq[2].Name})
	}
}

func TestSequenceHonorsStartCluster(t *testing.T) {
	s := NewSequencer(distance.NewHaversineProvider(), nil, DefaultSequencerConfig())

	clusters := []domain.CityCluster{
		clusterAt("Paris", "France", 48.8566, 2.3522),
		clusterAt("Rome", "Italy", 41.9028, 12.4964),
	}

	seq := s.Sequence(clusters, "Rome")
	if seq[0].Name != "Rome" {
		t.Fatalf("first cluster = %q, want Rome", seq[0].Name)
	}
}

func TestRoutesSkipsLongLegs(t *testing.T) {
	s := NewSequencer(distance.NewHaversineProvider(), nil, DefaultSequencerConfig())

	seq := []domain.CityCluster{
		clusterAt("Antofagasta", "Chile", -23.65, -70.40),
		clusterAt("Easter Island", "Chile", -27.15, -109.43),
	}

	routes, err := s.Routes(context.Background(), seq, domain.ModeDrive)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 3700+ km exceeds the 2000 km cap; the leg is skipped, not zeroed.
	if len(routes) != 0 {
		t.Fatalf("got %d routes, want 0", len(routes))
	}
}

func TestRoutesComputesLegs(t *testing.T) {
	s := NewSequencer(distance.NewHaversineProvider(), nil, DefaultSequencerConfig())

	seq := []domain.CityCluster{
		clusterAt("Paris", "France", 48.8566, 2.3522),
		clusterAt("Brussels", "Belgium", 50.8503, 4.3517),
	}

	routes, err := s.Routes(context.Background(), seq, domain.ModeDrive)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(routes) != 1 {
		t.Fatalf("got %d routes, want 1", len(routes))
	}

	r := routes[0]
	if r.OriginName != "Paris" || r.DestinationName != "Brussels" {
		t.Fatalf("route = %s -> %s", r.OriginName, r.DestinationName)
	}
	if r.DistanceKm < 230 || r.DistanceKm > 290 {
		t.Fatalf("distance = %.0f km, want ~260", r.DistanceKm)
	}
	if r.Method != domain.MethodEstimated {
		t.Fatalf("method = %q, want estimated", r.Method)
	}
}

func TestAnalyzeComplexity(t *testing.T) {
	s := NewSequencer(distance.NewHaversineProvider(), nil, DefaultSequencerConfig())

	seq := []domain.CityCluster{
		clusterAt("Paris", "France", 48.8566, 2.3522),
		clusterAt("Brussels", "Belgium", 50.8503, 4.3517),
		clusterAt("Rome", "Italy", 41.9028, 12.4964),
	}

	c := s.AnalyzeComplexity(seq)
	if c.ClusterCount != 3 {
		t.Fatalf("cluster count = %d, want 3", c.ClusterCount)
	}
	if c.CountryCount != 3 {
		t.Fatalf("country count = %d, want 3", c.CountryCount)
	}
	if c.MaxLegKm < 1000 {
		t.Fatalf("max leg = %.0f km, want Brussels-Rome > 1000", c.MaxLegKm)
	}
	if c.Tier != "complex" {
		t.Fatalf("tier = %q, want complex for three countries", c.Tier)
	}
	if !c.International {
		t.Fatal("three countries should read as international")
	}
	if c.EstimatedDays < 3 {
		t.Fatalf("estimated days = %d, want at least one per city", c.EstimatedDays)
	}
	if c.AvgLegKm <= 0 || c.AvgLegKm > c.MaxLegKm {
		t.Fatalf("avg leg = %.0f km, outside (0, max]", c.AvgLegKm)
	}
}
