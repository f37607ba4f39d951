package distance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"
)

// OSRMProvider implements DistanceProvider against an OSRM instance's
// table and route services.
//
// It coordinates:
//   - Transport mode to OSRM profile mapping
//   - External API calls with retry/backoff
//   - Null-cell handling (unroutable pairs become +Inf)
//
// The provider is safe for concurrent use.
type OSRMProvider struct {
	session *http.Client
	baseURL string
}

func NewOSRMProvider(baseURL string) (*OSRMProvider, error) {
	if baseURL == "" {
		return nil, errors.New("OSRM base URL is empty")
	}

	return &OSRMProvider{
		session: &http.Client{Timeout: 15 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func osrmProfile(mode domain.TransportMode) (string, error) {
	switch mode {
	case domain.ModeDrive, domain.ModeTransit:
		return "driving", nil
	case domain.ModeWalk:
		return "walking", nil
	case domain.ModeBike:
		return "cycling", nil
	default:
		return "", fmt.Errorf("no OSRM profile for mode %q", mode)
	}
}

// coordPath renders coordinates as OSRM's lon,lat;lon,lat path segment.
func coordPath(coords []domain.Coordinates) string {
	parts := make([]string, len(coords))
	for i, c := range coords {
		parts[i] = fmt.Sprintf("%f,%f", c.Lon, c.Lat)
	}
	return strings.Join(parts, ";")
}

type osrmTableResponse struct {
	Code      string       `json:"code"`
	Distances [][]*float64 `json:"distances"`
	Durations [][]*float64 `json:"durations"`
}

type osrmRouteResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
	} `json:"routes"`
}

func (o *OSRMProvider) Matrix(
	ctx context.Context,
	coords []domain.Coordinates,
	mode domain.TransportMode,
) (_ ports.DistanceMatrix, err error) {
	defer obs.Time(ctx, "osrm.Matrix")(&err)

	if len(coords) == 0 {
		return ports.DistanceMatrix{}, errors.New("osrm matrix: no coordinates")
	}

	profile, err := osrmProfile(mode)
	if err != nil {
		return ports.DistanceMatrix{}, fmt.Errorf("osrm matrix: %w", err)
	}

	endpoint := fmt.Sprintf("%s/table/v1/%s/%s?annotations=distance,duration",
		o.baseURL, profile, coordPath(coords))

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodGet, endpoint)
	})
	if err != nil {
		return ports.DistanceMatrix{}, fmt.Errorf("osrm table request: %w: %v", domain.ErrExternalService, err)
	}
	defer resp.Body.Close()

	var tr osrmTableResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return ports.DistanceMatrix{}, fmt.Errorf("decode table response: %w", err)
	}
	if tr.Code != "Ok" {
		return ports.DistanceMatrix{}, fmt.Errorf("osrm table: %w: code=%s", domain.ErrExternalService, tr.Code)
	}

	n := len(coords)
	if len(tr.Distances) != n || len(tr.Durations) != n {
		return ports.DistanceMatrix{}, fmt.Errorf(
			"osrm table: expected %d rows; got distances=%d durations=%d",
			n, len(tr.Distances), len(tr.Durations),
		)
	}

	distances := make([][]float64, n)
	durations := make([][]float64, n)
	for i := 0; i < n; i++ {
		if len(tr.Distances[i]) != n || len(tr.Durations[i]) != n {
			return ports.DistanceMatrix{}, fmt.Errorf("osrm table: row %d is not length %d", i, n)
		}
		distances[i] = make([]float64, n)
		durations[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			// OSRM uses null for unroutable pairs.
			if tr.Distances[i][j] == nil || tr.Durations[i][j] == nil {
				distances[i][j] = math.Inf(1)
				durations[i][j] = math.Inf(1)
				continue
			}
			distances[i][j] = *tr.Distances[i][j]
			durations[i][j] = *tr.Durations[i][j]
		}
		distances[i][i] = 0
		durations[i][i] = 0
	}

	return ports.DistanceMatrix{
		Distances: distances,
		Durations: durations,
		Method:    domain.MethodReal,
	}, nil
}

func (o *OSRMProvider) Route(
	ctx context.Context,
	origin, destination domain.Coordinates,
	mode domain.TransportMode,
) (_ ports.RouteLeg, err error) {
	defer obs.Time(ctx, "osrm.Route")(&err)

	profile, err := osrmProfile(mode)
	if err != nil {
		return ports.RouteLeg{}, fmt.Errorf("osrm route: %w", err)
	}

	endpoint := fmt.Sprintf("%s/route/v1/%s/%s?overview=false",
		o.baseURL, profile, coordPath([]domain.Coordinates{origin, destination}))

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodGet, endpoint)
	})
	if err != nil {
		return ports.RouteLeg{}, fmt.Errorf("osrm route request: %w: %v", domain.ErrExternalService, err)
	}
	defer resp.Body.Close()

	var rr osrmRouteResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return ports.RouteLeg{}, fmt.Errorf("decode route response: %w", err)
	}
	if rr.Code != "Ok" || len(rr.Routes) == 0 {
		return ports.RouteLeg{}, fmt.Errorf("osrm route: %w: code=%s routes=%d", domain.ErrExternalService, rr.Code, len(rr.Routes))
	}

	return ports.RouteLeg{
		DistanceMeters:  rr.Routes[0].Distance,
		DurationSeconds: rr.Routes[0].Duration,
		Method:          domain.MethodReal,
	}, nil
}
