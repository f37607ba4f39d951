package ports

import "context"

// Port: a cache for computed distance matrices keyed by a coordinate hash.
// A miss returns ok=false with a nil error; errors are reserved for the
// backing store misbehaving.
type MatrixCache interface {
	GetMatrix(ctx context.Context, key string) (DistanceMatrix, bool, error)
	PutMatrix(ctx context.Context, key string, m DistanceMatrix) error
}
