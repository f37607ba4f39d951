package services

import (
	"math"

	"trip-planner-service/internal/domain"
)

// Weight bonus for clusters recognized as major destinations.
const majorCityBonus = 1.5

// Allocator distributes the trip-day budget across clusters in
// proportion to their POI weight.
type Allocator struct{}

func NewAllocator() *Allocator { return &Allocator{} }

func clusterWeight(c domain.CityCluster) float64 {
	w := float64(len(c.POIs))
	if IsMajorCity(c.Name) {
		w *= majorCityBonus
	}
	return w
}

// AllocateDays assigns whole days to each cluster, proportional to POI
// count with a major-city bonus, flooring every cluster at one day.
// Rounding drift is settled by handing the full surplus or deficit to
// the heaviest cluster; this is a documented simplification, not a
// fairness optimum. The returned values always sum to totalDays when
// totalDays >= len(clusters).
func (a *Allocator) AllocateDays(clusters []domain.CityCluster, totalDays int) map[string]int {
	out := make(map[string]int, len(clusters))
	if len(clusters) == 0 || totalDays <= 0 {
		return out
	}

	var totalWeight float64
	for _, c := range clusters {
		totalWeight += clusterWeight(c)
	}

	heaviest := clusters[0]
	sum := 0
	for _, c := range clusters {
		w := clusterWeight(c)

		days := int(math.Round(w / totalWeight * float64(totalDays)))
		if days < 1 {
			days = 1
		}
		out[c.Name] = days
		sum += days

		hw := clusterWeight(heaviest)
		if w > hw || (w == hw && c.Name < heaviest.Name) {
			heaviest = c
		}
	}

	// Settle drift on the heaviest cluster, never below one day.
	if drift := totalDays - sum; drift != 0 {
		adjusted := out[heaviest.Name] + drift
		if adjusted < 1 {
			adjusted = 1
		}
		out[heaviest.Name] = adjusted
	}

	return out
}

// SplitAcrossDays partitions an ordered POI list into the given number
// of consecutive day groups, earlier days taking the remainder. Order
// is preserved; the optimizer has already chosen it.
func (a *Allocator) SplitAcrossDays(pois []domain.POI, days int) [][]domain.POI {
	if days <= 0 {
		return nil
	}
	if days > len(pois) {
		days = len(pois)
	}
	if days == 0 {
		return [][]domain.POI{}
	}

	base := len(pois) / days
	rem := len(pois) % days

	out := make([][]domain.POI, 0, days)
	idx := 0
	for d := 0; d < days; d++ {
		size := base
		if d < rem {
			size++
		}
		out = append(out, pois[idx:idx+size])
		idx += size
	}
	return out
}
