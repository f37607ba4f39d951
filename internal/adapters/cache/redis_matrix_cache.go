package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"
)

// Unroutable cells carry +Inf in memory, which JSON cannot encode.
// On the wire they become -1 and are restored on read.
const infSentinel = -1

// RedisMatrixCache stores distance matrices in Redis with a TTL, keyed
// by the caller's coordinate hash.
type RedisMatrixCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisMatrixCache(client *redis.Client, ttl time.Duration) *RedisMatrixCache {
	return &RedisMatrixCache{client: client, ttl: ttl, prefix: "matrix:"}
}

type matrixRecord struct {
	Distances [][]float64 `json:"distances"`
	Durations [][]float64 `json:"durations"`
	Method    string      `json:"method"`
}

func encodeCells(src [][]float64) [][]float64 {
	out := make([][]float64, len(src))
	for i, row := range src {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			if math.IsInf(v, 1) {
				out[i][j] = infSentinel
				continue
			}
			out[i][j] = v
		}
	}
	return out
}

func decodeCells(src [][]float64) [][]float64 {
	out := make([][]float64, len(src))
	for i, row := range src {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			if v == infSentinel {
				out[i][j] = math.Inf(1)
				continue
			}
			out[i][j] = v
		}
	}
	return out
}

func (c *RedisMatrixCache) GetMatrix(ctx context.Context, key string) (_ ports.DistanceMatrix, _ bool, err error) {
	defer obs.Time(ctx, "matrix.cache.Get")(&err)

	if c.client == nil {
		return ports.DistanceMatrix{}, false, errors.New("matrix cache: client is nil")
	}
	if key == "" {
		return ports.DistanceMatrix{}, false, errors.New("matrix cache: key must not be empty")
	}

	raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ports.DistanceMatrix{}, false, nil
	}
	if err != nil {
		return ports.DistanceMatrix{}, false, fmt.Errorf("get matrix cache: %w", err)
	}

	var rec matrixRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return ports.DistanceMatrix{}, false, fmt.Errorf("get matrix cache: decode: %w", err)
	}

	return ports.DistanceMatrix{
		Distances: decodeCells(rec.Distances),
		Durations: decodeCells(rec.Durations),
		Method:    domain.RouteMethod(rec.Method),
	}, true, nil
}

func (c *RedisMatrixCache) PutMatrix(ctx context.Context, key string, m ports.DistanceMatrix) error {
	if c.client == nil {
		return errors.New("matrix cache: client is nil")
	}
	if key == "" {
		return errors.New("matrix cache: key must not be empty")
	}

	rec := matrixRecord{
		Distances: encodeCells(m.Distances),
		Durations: encodeCells(m.Durations),
		Method:    string(m.Method),
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("put matrix cache: encode: %w", err)
	}

	if err := c.client.Set(ctx, c.prefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("put matrix cache: %w", err)
	}

	return nil
}
