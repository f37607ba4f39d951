package ports

import "context"

// Port: a persistent cache for single inter-city route legs.
type RouteCache interface {
	GetRoute(ctx context.Context, key string) (RouteLeg, bool, error)
	PutRoute(ctx context.Context, key string, leg RouteLeg) error
}
