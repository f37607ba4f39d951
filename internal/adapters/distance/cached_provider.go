package distance

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"

	"golang.org/x/sync/singleflight"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
)

// CachedProvider wraps a DistanceProvider with a matrix cache and
// request coalescing, so concurrent plans over the same coordinate set
// trigger at most one upstream matrix call.
type CachedProvider struct {
	inner ports.DistanceProvider
	cache ports.MatrixCache
	group singleflight.Group
}

func NewCachedProvider(inner ports.DistanceProvider, cache ports.MatrixCache) *CachedProvider {
	return &CachedProvider{inner: inner, cache: cache}
}

// MatrixKey hashes a coordinate set and mode into a stable cache key.
// Coordinates are rounded to ~1m so float noise does not fragment the cache.
func MatrixKey(coords []domain.Coordinates, mode domain.TransportMode) string {
	h := sha256.New()
	fmt.Fprintf(h, "mode=%s;", mode)
	for _, c := range coords {
		fmt.Fprintf(h, "%.5f,%.5f;", c.Lat, c.Lon)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (p *CachedProvider) Matrix(
	ctx context.Context,
	coords []domain.Coordinates,
	mode domain.TransportMode,
) (ports.DistanceMatrix, error) {
	key := MatrixKey(coords, mode)

	if p.cache != nil {
		m, ok, err := p.cache.GetMatrix(ctx, key)
		if err != nil {
			log.Printf("op=distance.Matrix cache_read_err=%v", err)
		} else if ok {
			return m, nil
		}
	}

	v, err, _ := p.group.Do(key, func() (interface{}, error) {
		m, err := p.inner.Matrix(ctx, coords, mode)
		if err != nil {
			return nil, err
		}
		if p.cache != nil {
			if err := p.cache.PutMatrix(ctx, key, m); err != nil {
				log.Printf("op=distance.Matrix cache_write_err=%v", err)
			}
		}
		return m, nil
	})
	if err != nil {
		return ports.DistanceMatrix{}, err
	}

	return v.(ports.DistanceMatrix), nil
}

func (p *CachedProvider) Route(
	ctx context.Context,
	origin, destination domain.Coordinates,
	mode domain.TransportMode,
) (ports.RouteLeg, error) {
	return p.inner.Route(ctx, origin, destination, mode)
}
