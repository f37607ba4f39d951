package distance

import (
	"context"
	"log"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
)

// FallbackProvider tries a primary provider and degrades to an estimator
// when the primary fails. The estimator's results are tagged as estimated
// so downstream confidence scoring can discount them.
type FallbackProvider struct {
	primary   ports.DistanceProvider
	estimator ports.DistanceProvider
}

func NewFallbackProvider(primary, estimator ports.DistanceProvider) *FallbackProvider {
	return &FallbackProvider{primary: primary, estimator: estimator}
}

func (p *FallbackProvider) Matrix(
	ctx context.Context,
	coords []domain.Coordinates,
	mode domain.TransportMode,
) (ports.DistanceMatrix, error) {
	if p.primary != nil {
		m, err := p.primary.Matrix(ctx, coords, mode)
		if err == nil {
			return m, nil
		}
		if ctx.Err() != nil {
			return ports.DistanceMatrix{}, ctx.Err()
		}
		log.Printf("op=distance.Matrix fallback=estimated n=%d err=%v", len(coords), err)
	}
	return p.estimator.Matrix(ctx, coords, mode)
}

func (p *FallbackProvider) Route(
	ctx context.Context,
	origin, destination domain.Coordinates,
	mode domain.TransportMode,
) (ports.RouteLeg, error) {
	if p.primary != nil {
		leg, err := p.primary.Route(ctx, origin, destination, mode)
		if err == nil {
			return leg, nil
		}
		if ctx.Err() != nil {
			return ports.RouteLeg{}, ctx.Err()
		}
		log.Printf("op=distance.Route fallback=estimated err=%v", err)
	}
	return p.estimator.Route(ctx, origin, destination, mode)
}
