package ports

import (
	"context"

	"trip-planner-service/internal/domain"
)

// Port: a boundary for storing and retrieving POI entities.
type POIRepository interface {
	// Retrieve all stored points of interest.
	ListPOIs(ctx context.Context) ([]domain.POI, error)

	// Retrieve points of interest for the given city names.
	ListPOIsByCities(ctx context.Context, cities []string) ([]domain.POI, error)

	// Insert or replace the given points of interest. Entries with an
	// external ID replace any stored row carrying the same ID; entries
	// without one are appended.
	UpsertPOIs(ctx context.Context, pois []domain.POI) error
}
