package distance

import (
	"context"
	"fmt"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
)

// MockDistanceProvider serves canned matrices keyed by coordinate count,
// for tests that need deterministic distances without geometry.
type MockDistanceProvider struct {
	matrices map[int]ports.DistanceMatrix
	legs     map[string]ports.RouteLeg

	MatrixCalls int
	Err         error
}

func NewMockDistanceProvider() *MockDistanceProvider {
	return &MockDistanceProvider{
		matrices: make(map[int]ports.DistanceMatrix),
		legs:     make(map[string]ports.RouteLeg),
	}
}

func (p *MockDistanceProvider) SetMatrix(n int, m ports.DistanceMatrix) {
	p.matrices[n] = m
}

func legKey(o, d domain.Coordinates) string {
	return fmt.Sprintf("%.5f,%.5f|%.5f,%.5f", o.Lat, o.Lon, d.Lat, d.Lon)
}

func (p *MockDistanceProvider) SetRoute(o, d domain.Coordinates, leg ports.RouteLeg) {
	p.legs[legKey(o, d)] = leg
}

func (p *MockDistanceProvider) Matrix(
	ctx context.Context,
	coords []domain.Coordinates,
	mode domain.TransportMode,
) (ports.DistanceMatrix, error) {
	p.MatrixCalls++
	if p.Err != nil {
		return ports.DistanceMatrix{}, p.Err
	}
	m, ok := p.matrices[len(coords)]
	if !ok {
		return ports.DistanceMatrix{}, fmt.Errorf("no mock matrix for %d coordinates", len(coords))
	}
	return m, nil
}

func (p *MockDistanceProvider) Route(
	ctx context.Context,
	origin, destination domain.Coordinates,
	mode domain.TransportMode,
) (ports.RouteLeg, error) {
	if p.Err != nil {
		return ports.RouteLeg{}, p.Err
	}
	leg, ok := p.legs[legKey(origin, destination)]
	if !ok {
		return ports.RouteLeg{}, fmt.Errorf("missing leg %q", legKey(origin, destination))
	}
	return leg, nil
}
