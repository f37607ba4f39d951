package services

import (
	"context"
	"fmt"
	"log"
	"math"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"
)

// SequencerConfig tunes inter-city ordering and route computation.
type SequencerConfig struct {
	// MaxLegKm skips route computation for legs beyond this distance;
	// such legs stay in the sequence without a route cost.
	MaxLegKm float64
}

func DefaultSequencerConfig() SequencerConfig {
	return SequencerConfig{MaxLegKm: 2000}
}

// Sequencer orders city clusters with a nearest-neighbor heuristic and
// computes the inter-city route legs. Nearest-neighbor is deliberate:
// cluster counts are small and plan latency matters more than squeezing
// the last kilometers out of the city order.
type Sequencer struct {
	provider   ports.DistanceProvider
	routeCache ports.RouteCache
	cfg        SequencerConfig
}

func NewSequencer(provider ports.DistanceProvider, routeCache ports.RouteCache, cfg SequencerConfig) *Sequencer {
	if cfg.MaxLegKm <= 0 {
		cfg = DefaultSequencerConfig()
	}
	return &Sequencer{provider: provider, routeCache: routeCache, cfg: cfg}
}

// Sequence orders clusters starting from startName (or the first cluster
// when empty or unknown), repeatedly visiting the nearest unvisited
// cluster. Ties break on cluster name for determinism.
func (s *Sequencer) Sequence(clusters []domain.CityCluster, startName string) []domain.CityCluster {
	if len(clusters) <= 1 {
		return append([]domain.CityCluster(nil), clusters...)
	}

	start := 0
	if startName != "" {
		for i, c := range clusters {
			if c.Name == startName {
				start = i
				break
			}
		}
	}

	visited := make([]bool, len(clusters))
	sequence := make([]domain.CityCluster, 0, len(clusters))

	current := start
	visited[current] = true
	sequence = append(sequence, clusters[current])

	for len(sequence) < len(clusters) {
		next := -1
		bestKm := math.Inf(1)
		for i, c := range clusters {
			if visited[i] {
				continue
			}
			km := clusters[current].DistanceToKm(c)
			if km < bestKm || (km == bestKm && next >= 0 && c.Name < clusters[next].Name) {
				next = i
				bestKm = km
			}
		}

		visited[next] = true
		sequence = append(sequence, clusters[next])
		current = next
	}

	return sequence
}

func routeLegKey(origin, destination domain.Coordinates, mode domain.TransportMode) string {
	return fmt.Sprintf("%.5f,%.5f|%.5f,%.5f|%s",
		origin.Lat, origin.Lon, destination.Lat, destination.Lon, mode)
}

// Routes computes a travel leg for each consecutive pair in the
// sequence. Legs beyond MaxLegKm are skipped and logged; the resulting
// slice then has fewer entries than len(sequence)-1 and the caller must
// treat the missing leg as unknown cost, not zero.
func (s *Sequencer) Routes(ctx context.Context, sequence []domain.CityCluster, mode domain.TransportMode) (_ []domain.InterCityRoute, err error) {
	defer obs.Time(ctx, "sequencer.Routes")(&err)

	routes := make([]domain.InterCityRoute, 0, len(sequence))

	for i := 1; i < len(sequence); i++ {
		origin, dest := sequence[i-1], sequence[i]

		directKm := origin.DistanceToKm(dest)
		if directKm > s.cfg.MaxLegKm {
			log.Printf("op=sequencer.Routes skipped_leg=%s->%s direct_km=%.0f max_km=%.0f",
				origin.Name, dest.Name, directKm, s.cfg.MaxLegKm)
			continue
		}

		leg, err := s.routeLeg(ctx, origin.Centroid, dest.Centroid, mode)
		if err != nil {
			return nil, fmt.Errorf("routes: leg %s -> %s: %w", origin.Name, dest.Name, err)
		}

		routes = append(routes, domain.InterCityRoute{
			OriginName:      origin.Name,
			DestinationName: dest.Name,
			Origin:          origin.Centroid,
			Destination:     dest.Centroid,
			DistanceKm:      leg.DistanceMeters / 1000,
			TravelHours:     leg.DurationSeconds / 3600,
			Mode:            mode,
			Method:          leg.Method,
		})
	}

	return routes, nil
}

func (s *Sequencer) routeLeg(ctx context.Context, origin, dest domain.Coordinates, mode domain.TransportMode) (ports.RouteLeg, error) {
	key := routeLegKey(origin, dest, mode)

	if s.routeCache != nil {
		leg, ok, err := s.routeCache.GetRoute(ctx, key)
		if err != nil {
			log.Printf("op=sequencer.routeLeg cache_read_err=%v", err)
		} else if ok {
			return leg, nil
		}
	}

	leg, err := s.provider.Route(ctx, origin, dest, mode)
	if err != nil {
		return ports.RouteLeg{}, err
	}

	if s.routeCache != nil {
		if err := s.routeCache.PutRoute(ctx, key, leg); err != nil {
			log.Printf("op=sequencer.routeLeg cache_write_err=%v", err)
		}
	}

	return leg, nil
}

// TripComplexity summarizes the geographic spread of a cluster set; the
// assembler uses it to pick an optimization strategy.
type TripComplexity struct {
	ClusterCount int
	CountryCount int
	MaxLegKm     float64
	AvgLegKm     float64
	TotalPathKm  float64

	// Tier is "simple", "moderate" or "complex".
	Tier string

	International      bool
	NeedsAccommodation bool

	// EstimatedDays is a rough minimum trip length: around four POIs a
	// day, at least one day per city.
	EstimatedDays int
}

// AnalyzeComplexity measures consecutive-leg distances over the given
// (already sequenced) clusters.
func (s *Sequencer) AnalyzeComplexity(sequence []domain.CityCluster) TripComplexity {
	c := TripComplexity{ClusterCount: len(sequence)}

	countries := make(map[string]struct{})
	totalPOIs := 0
	for _, cl := range sequence {
		countries[cl.Country] = struct{}{}
		totalPOIs += len(cl.POIs)
	}
	c.CountryCount = len(countries)
	c.International = c.CountryCount > 1

	for i := 1; i < len(sequence); i++ {
		km := sequence[i-1].DistanceToKm(sequence[i])
		c.TotalPathKm += km
		if km > c.MaxLegKm {
			c.MaxLegKm = km
		}
	}
	if len(sequence) > 1 {
		c.AvgLegKm = c.TotalPathKm / float64(len(sequence)-1)
	}

	c.NeedsAccommodation = c.ClusterCount > 1 || totalPOIs > 4

	c.EstimatedDays = (totalPOIs + 3) / 4
	if c.EstimatedDays < c.ClusterCount {
		c.EstimatedDays = c.ClusterCount
	}
	if c.EstimatedDays < 1 && c.ClusterCount > 0 {
		c.EstimatedDays = 1
	}

	switch {
	case c.CountryCount > 2 || c.MaxLegKm > 800:
		c.Tier = "complex"
	case c.ClusterCount > 1:
		c.Tier = "moderate"
	default:
		c.Tier = "simple"
	}

	return c
}
