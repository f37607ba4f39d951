package cache

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	srv := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: srv.Addr()})
}

func TestRedisMatrixCacheRoundTrip(t *testing.T) {
	c := NewRedisMatrixCache(newTestRedis(t), time.Hour)
	ctx := context.Background()

	in := ports.DistanceMatrix{
		Distances: [][]float64{{0, 1200}, {math.Inf(1), 0}},
		Durations: [][]float64{{0, 900}, {math.Inf(1), 0}},
		Method:    domain.MethodReal,
	}

	if err := c.PutMatrix(ctx, "abc", in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, ok, err := c.GetMatrix(ctx, "abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected cache hit")
	}
	if out.Method != domain.MethodReal {
		t.Fatalf("method = %q, want real", out.Method)
	}
	if out.Distances[0][1] != 1200 {
		t.Fatalf("distance = %f, want 1200", out.Distances[0][1])
	}
	// Infinity must survive the JSON round trip.
	if !math.IsInf(out.Distances[1][0], 1) {
		t.Fatalf("distance = %f, want +Inf", out.Distances[1][0])
	}
}

func TestRedisMatrixCacheMiss(t *testing.T) {
	c := NewRedisMatrixCache(newTestRedis(t), time.Hour)

	_, ok, err := c.GetMatrix(context.Background(), "nope")
	if err != nil {
		t.Fatalf("miss should not error: %v", err)
	}
	if ok {
		t.Fatal("expected cache miss")
	}
}

func TestRedisMatrixCacheExpiry(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	c := NewRedisMatrixCache(client, time.Minute)
	ctx := context.Background()

	in := ports.DistanceMatrix{
		Distances: [][]float64{{0}},
		Durations: [][]float64{{0}},
		Method:    domain.MethodEstimated,
	}
	if err := c.PutMatrix(ctx, "k", in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	srv.FastForward(2 * time.Minute)

	_, ok, err := c.GetMatrix(ctx, "k")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected entry to expire")
	}
}
