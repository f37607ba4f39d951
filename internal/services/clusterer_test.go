package services

import (
	"context"
	"testing"

	"trip-planner-service/internal/domain"
)

func poiAt(name string, lat, lon float64) domain.POI {
	return domain.POI{Name: name, Coords: domain.Coordinates{Lat: lat, Lon: lon}, Priority: 5}
}

func parisPOIs() []domain.POI {
	return []domain.POI{
		poiAt("Eiffel Tower", 48.8584, 2.2945),
		poiAt("Louvre", 48.8606, 2.3376),
		poiAt("Notre-Dame", 48.8530, 2.3499),
		poiAt("Arc de Triomphe", 48.8738, 2.2950),
		poiAt("Sacre-Coeur", 48.8867, 2.3431),
	}
}

func TestClusterSingleCity(t *testing.T) {
	c := NewClusterer(DefaultClustererConfig())

	clusters, dropped, err := c.Cluster(context.Background(), parisPOIs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(clusters) != 1 {
		t.Fatalf("got %d clusters, want 1", len(clusters))
	}
	if len(dropped) != 0 {
		t.Fatalf("dropped = %d pois, want 0", len(dropped))
	}
	if len(clusters[0].POIs) != 5 {
		t.Fatalf("cluster has %d pois, want 5", len(clusters[0].POIs))
	}
	if clusters[0].Confidence < 0.3 {
		t.Fatalf("confidence = %f, want >= 0.3", clusters[0].Confidence)
	}
}

func TestClusterTwoDistantSingletons(t *testing.T) {
	c := NewClusterer(DefaultClustererConfig())

	pois := []domain.POI{
		poiAt("Antofagasta Plaza", -23.65, -70.40),
		poiAt("Easter Island Moai", -27.15, -109.43),
	}

	clusters, dropped, err := c.Cluster(context.Background(), pois)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(clusters) != 2 {
		t.Fatalf("got %d clusters, want 2 singletons", len(clusters))
	}
	for _, cl := range clusters {
		if len(cl.POIs) != 1 {
			t.Fatalf("cluster %q has %d pois, want 1", cl.Name, len(cl.POIs))
		}
	}
	if len(dropped) != 0 {
		t.Fatalf("dropped = %d pois, want 0", len(dropped))
	}
}

func TestClusterEmptyInput(t *testing.T) {
	c := NewClusterer(DefaultClustererConfig())

	clusters, dropped, err := c.Cluster(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(clusters) != 0 || len(dropped) != 0 {
		t.Fatalf("got %d clusters %d dropped, want empty", len(clusters), len(dropped))
	}
}

func TestClusterCoverage(t *testing.T) {
	c := NewClusterer(DefaultClustererConfig())

	pois := append(parisPOIs(),
		poiAt("Brandenburg Gate", 52.5163, 13.3777),
		poiAt("Museum Island", 52.5169, 13.4010),
	)

	clusters, dropped, err := c.Cluster(context.Background(), pois)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	total := len(dropped)
	for _, cl := range clusters {
		total += len(cl.POIs)
	}
	if total != len(pois) {
		t.Fatalf("clusters + dropped account for %d pois, want %d", total, len(pois))
	}
}

func TestClusterDeterminismAndMemo(t *testing.T) {
	c := NewClusterer(DefaultClustererConfig())
	pois := parisPOIs()

	first, _, err := c.Cluster(context.Background(), pois)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _, err := c.Cluster(context.Background(), pois)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("cluster counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Name != second[i].Name || len(first[i].POIs) != len(second[i].POIs) {
			t.Fatalf("cluster %d differs between runs", i)
		}
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Fatalf("memo stats = %+v, want 1 hit 1 miss", stats)
	}
}

func TestClusterNameFromCityField(t *testing.T) {
	c := NewClusterer(DefaultClustererConfig())

	pois := parisPOIs()
	for i := range pois {
		pois[i].City = "Paris"
	}

	clusters, _, err := c.Cluster(context.Background(), pois)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(clusters) != 1 || clusters[0].Name != "Paris" {
		t.Fatalf("cluster name = %q, want Paris", clusters[0].Name)
	}
	if clusters[0].Country != "France" {
		t.Fatalf("country = %q, want France", clusters[0].Country)
	}
}

func TestClusterNameFromAddress(t *testing.T) {
	c := NewClusterer(DefaultClustererConfig())

	pois := []domain.POI{
		poiAt("Stop A", 41.3851, 2.1734),
		poiAt("Stop B", 41.3879, 2.1699),
	}
	pois[0].Address = "Carrer de Mallorca 401, Barcelona, Spain"
	pois[1].Address = "Placa de Catalunya, Barcelona, Spain"

	clusters, _, err := c.Cluster(context.Background(), pois)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(clusters) != 1 {
		t.Fatalf("got %d clusters, want 1", len(clusters))
	}
	if clusters[0].Name != "Barcelona" {
		t.Fatalf("cluster name = %q, want Barcelona", clusters[0].Name)
	}
	if clusters[0].Country != "Spain" {
		t.Fatalf("country = %q, want Spain", clusters[0].Country)
	}
}

func TestNameQuality(t *testing.T) {
	cases := []struct {
		name string
		want float64
	}{
		{"Paris", 1.0},
		{"Unknown", 0.1},
		{"cluster-3", 0.3},
		{"Sector 7", 0.5},
		{"Quaint Village", 0.7},
	}
	for _, tc := range cases {
		if got := nameQuality(tc.name); got != tc.want {
			t.Errorf("nameQuality(%q) = %f, want %f", tc.name, got, tc.want)
		}
	}
}

func TestSingletonClusterConfidence(t *testing.T) {
	c := NewClusterer(DefaultClustererConfig())

	clusters, dropped, err := c.Cluster(context.Background(), []domain.POI{poiAt("Eiffel Tower", 48.8584, 2.2945)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(clusters) != 1 || len(dropped) != 0 {
		t.Fatalf("got %d clusters %d dropped, want 1 and 0", len(clusters), len(dropped))
	}
	if r := clusters[0].RadiusKm(); r != 0 {
		t.Fatalf("singleton radius = %f, want 0", r)
	}
}
