package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
)

// SQLite backed cache for single inter-city route legs. Keys are
// expected to be consistent (e.g., already hashed) by the caller.
type SqliteRouteCache struct {
	DB *sql.DB
}

func NewSqliteRouteCache(db *sql.DB) *SqliteRouteCache {
	return &SqliteRouteCache{DB: db}
}

func (s *SqliteRouteCache) GetRoute(ctx context.Context, key string) (ports.RouteLeg, bool, error) {
	if s.DB == nil {
		return ports.RouteLeg{}, false, errors.New("route cache: db is nil")
	}
	if key == "" {
		return ports.RouteLeg{}, false, errors.New("get route cache: key must not be empty")
	}

	q := `
	SELECT distance_meters, duration_seconds, method
	FROM route_cache
	WHERE cache_key = ?;
	`

	var meters, seconds float64
	var method string
	err := s.DB.QueryRowContext(ctx, q, key).Scan(&meters, &seconds, &method)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.RouteLeg{}, false, nil
	}
	if err != nil {
		return ports.RouteLeg{}, false, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}

	return ports.RouteLeg{
		DistanceMeters:  meters,
		DurationSeconds: seconds,
		Method:          domain.RouteMethod(method),
	}, true, nil
}

func (s *SqliteRouteCache) PutRoute(ctx context.Context, key string, leg ports.RouteLeg) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}
	if key == "" {
		return errors.New("insert route cache: key must not be empty")
	}

	q := `
	INSERT OR REPLACE INTO route_cache (cache_key, distance_meters, duration_seconds, method)
	VALUES (?, ?, ?, ?);
	`

	if _, err := s.DB.ExecContext(ctx, q, key, leg.DistanceMeters, leg.DurationSeconds, string(leg.Method)); err != nil {
		return fmt.Errorf("insert route cache key=%q: %w", key, err)
	}

	return nil
}
