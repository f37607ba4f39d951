package domain

import "math"

// CityCluster is a named group of POIs detected to belong to one city or area.
//
// Clusters are created by the clusterer and consumed read-only downstream;
// they are never merged or split after creation within a planning run.
type CityCluster struct {
	ID       string
	Name     string
	Country  string
	Centroid Coordinates
	POIs     []POI

	// Confidence in [0,1] that the cluster represents one coherent city.
	Confidence float64
}

// RadiusKm is the maximum distance from the centroid to any member POI.
func (c CityCluster) RadiusKm() float64 {
	var maxKm float64
	for _, p := range c.POIs {
		if d := HaversineKm(c.Centroid, p.Coords); d > maxKm {
			maxKm = d
		}
	}
	return maxKm
}

// DensityPerKm2 is POIs per square kilometer of the cluster disc.
// A zero-radius cluster has infinite density.
func (c CityCluster) DensityPerKm2() float64 {
	r := c.RadiusKm()
	if r == 0 {
		return math.Inf(1)
	}
	return float64(len(c.POIs)) / (math.Pi * r * r)
}

// DistanceStddevKm is the standard deviation of member distances to the centroid.
func (c CityCluster) DistanceStddevKm() float64 {
	if len(c.POIs) < 2 {
		return 0
	}

	dists := make([]float64, len(c.POIs))
	var mean float64
	for i, p := range c.POIs {
		dists[i] = HaversineKm(c.Centroid, p.Coords)
		mean += dists[i]
	}
	mean /= float64(len(dists))

	var variance float64
	for _, d := range dists {
		variance += (d - mean) * (d - mean)
	}
	variance /= float64(len(dists))

	return math.Sqrt(variance)
}

// DistanceToKm is the great-circle distance between two cluster centroids.
func (c CityCluster) DistanceToKm(other CityCluster) float64 {
	return HaversineKm(c.Centroid, other.Centroid)
}
