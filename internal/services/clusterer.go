package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/dhconnelly/rtreego"
	"github.com/golang/geo/s2"
	"golang.org/x/sync/singleflight"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
)

// ClustererConfig tunes the geographic clustering pass.
type ClustererConfig struct {
	// EpsKm is the density-clustering neighborhood radius.
	EpsKm float64
	// MinSamples is the neighbor count needed to grow a cluster;
	// sparser points become singleton clusters.
	MinSamples int
	// Multi-POI clusters with a radius outside [MinRadiusKm, MaxRadiusKm]
	// are rejected and their POIs reported as dropped.
	MinRadiusKm float64
	MaxRadiusKm float64
	// Clusters scoring below MinConfidence are rejected.
	MinConfidence float64
	// MinClusterSize rejects clusters with fewer members.
	MinClusterSize int
	// CellLevel is the S2 level for the coarse bucketing pass.
	// Level 8 cells are roughly 20-25 km across.
	CellLevel int
	// MemoLimit caps the number of memoized clustering results.
	MemoLimit int
}

func DefaultClustererConfig() ClustererConfig {
	return ClustererConfig{
		EpsKm:          25,
		MinSamples:     2,
		MinRadiusKm:    0.1,
		MaxRadiusKm:    50,
		MinConfidence:  0.3,
		MinClusterSize: 1,
		CellLevel:      8,
		MemoLimit:      256,
	}
}

type clusterOutcome struct {
	clusters []domain.CityCluster
	dropped  []domain.POI
}

// ClustererStats exposes memoization counters.
type ClustererStats struct {
	Hits    int
	Misses  int
	Entries int
}

// Clusterer groups POIs into city-like clusters: a coarse S2 cell pass
// for locality, a density pass within neighboring cells, then naming,
// country resolution and confidence scoring per cluster.
//
// Clustering is deterministic for a given input set, so results are
// memoized by a hash of the sorted coordinates. Safe for concurrent use.
type Clusterer struct {
	cfg ClustererConfig

	mu    sync.Mutex
	memo  map[string]clusterOutcome
	stats ClustererStats
	group singleflight.Group
}

func NewClusterer(cfg ClustererConfig) *Clusterer {
	if cfg.EpsKm <= 0 {
		cfg = DefaultClustererConfig()
	}
	return &Clusterer{
		cfg:  cfg,
		memo: make(map[string]clusterOutcome),
	}
}

// Stats returns a snapshot of the memoization counters.
func (c *Clusterer) Stats() ClustererStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Entries = len(c.memo)
	return s
}

// memoKey hashes the sorted coordinate set; POI order must not affect
// the key, or identical sets would cluster twice.
func memoKey(pois []domain.POI) string {
	coords := make([]string, len(pois))
	for i, p := range pois {
		coords[i] = fmt.Sprintf("%.4f,%.4f", p.Coords.Lat, p.Coords.Lon)
	}
	sort.Strings(coords)

	h := sha256.New()
	for _, s := range coords {
		h.Write([]byte(s))
		h.Write([]byte(";"))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Cluster groups POIs into named city clusters. The second return value
// lists POIs dropped for invalid cluster geometry or low confidence;
// clusters plus dropped always covers the full input.
func (c *Clusterer) Cluster(ctx context.Context, pois []domain.POI) (_ []domain.CityCluster, _ []domain.POI, err error) {
	defer obs.Time(ctx, "clusterer.Cluster")(&err)

	if len(pois) == 0 {
		return []domain.CityCluster{}, nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	key := memoKey(pois)

	c.mu.Lock()
	if out, ok := c.memo[key]; ok {
		c.stats.Hits++
		c.mu.Unlock()
		return out.clusters, out.dropped, nil
	}
	c.stats.Misses++
	c.mu.Unlock()

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		out := c.compute(pois)

		c.mu.Lock()
		if len(c.memo) < c.cfg.MemoLimit {
			c.memo[key] = out
		}
		c.mu.Unlock()

		return out, nil
	})
	if err != nil {
		return nil, nil, err
	}

	out := v.(clusterOutcome)
	return out.clusters, out.dropped, nil
}

func (c *Clusterer) compute(pois []domain.POI) clusterOutcome {
	groups := c.densityGroups(pois)

	var (
		clusters []domain.CityCluster
		dropped  []domain.POI
	)

	for _, member := range groups {
		cluster, ok := c.buildCluster(member)
		if !ok {
			dropped = append(dropped, member...)
			continue
		}
		clusters = append(clusters, cluster)
	}

	// Stable IDs and ordering regardless of grouping internals.
	sort.Slice(clusters, func(i, j int) bool {
		if len(clusters[i].POIs) != len(clusters[j].POIs) {
			return len(clusters[i].POIs) > len(clusters[j].POIs)
		}
		return clusters[i].Name < clusters[j].Name
	})
	for i := range clusters {
		clusters[i].ID = fmt.Sprintf("cluster-%d", i+1)
	}

	if clusters == nil {
		clusters = []domain.CityCluster{}
	}

	return clusterOutcome{clusters: clusters, dropped: dropped}
}

type rtreeItem struct {
	rect  rtreego.Rect
	index int
}

func (item rtreeItem) Bounds() rtreego.Rect { return item.rect }

// densityGroups buckets POIs into coarse S2 cells, then runs a DBSCAN
// pass per bucket neighborhood. Buckets are processed in cell-ID order
// so grouping is deterministic.
func (c *Clusterer) densityGroups(pois []domain.POI) [][]domain.POI {
	buckets := make(map[s2.CellID][]int)
	for i, p := range pois {
		cell := s2.CellIDFromLatLng(s2.LatLngFromDegrees(p.Coords.Lat, p.Coords.Lon)).Parent(c.cfg.CellLevel)
		buckets[cell] = append(buckets[cell], i)
	}

	cells := make([]s2.CellID, 0, len(buckets))
	for cell := range buckets {
		cells = append(cells, cell)
	}
	sort.Slice(cells, func(i, j int) bool { return cells[i] < cells[j] })

	// Merge each cell with its edge neighbors so clusters spanning a
	// cell boundary are seen by one DBSCAN pass.
	assigned := make([]bool, len(pois))
	var groups [][]int

	for _, cell := range cells {
		home := make(map[int]struct{}, len(buckets[cell]))
		for _, idx := range buckets[cell] {
			home[idx] = struct{}{}
		}

		scope := append([]int(nil), buckets[cell]...)
		for _, nb := range cell.EdgeNeighbors() {
			scope = append(scope, buckets[nb]...)
		}
		sort.Ints(scope)

		candidates := make([]int, 0, len(scope))
		for _, idx := range scope {
			if !assigned[idx] {
				candidates = append(candidates, idx)
			}
		}
		if len(candidates) == 0 {
			continue
		}

		// Only adopt groups anchored in the home cell; groups living
		// entirely in neighbor cells wait for their own cell's pass,
		// where they see their full neighborhood.
		for _, grp := range c.dbscan(pois, candidates) {
			anchored := false
			for _, idx := range grp {
				if _, ok := home[idx]; ok {
					anchored = true
					break
				}
			}
			if !anchored {
				continue
			}
			for _, idx := range grp {
				assigned[idx] = true
			}
			groups = append(groups, grp)
		}
	}

	// Anything never reached becomes its own singleton.
	for i := range pois {
		if !assigned[i] {
			groups = append(groups, []int{i})
		}
	}

	out := make([][]domain.POI, len(groups))
	for gi, grp := range groups {
		members := make([]domain.POI, len(grp))
		for i, idx := range grp {
			members[i] = pois[idx]
		}
		out[gi] = members
	}
	return out
}

// dbscan runs density clustering over the candidate indices. Noise
// points (fewer than MinSamples neighbors) become singleton groups.
func (c *Clusterer) dbscan(pois []domain.POI, candidates []int) [][]int {
	// A degree of latitude is ~111 km; pad the search rect and verify
	// with real distances to handle longitude shrink.
	epsDeg := c.cfg.EpsKm / 111.0 * 1.5

	tree := rtreego.NewTree(2, 25, 50)
	for _, idx := range candidates {
		p := pois[idx]
		rect := rtreego.Point{p.Coords.Lat, p.Coords.Lon}.ToRect(epsDeg)
		tree.Insert(rtreeItem{rect: rect, index: idx})
	}

	regionQuery := func(idx int) []int {
		p := pois[idx]
		rect := rtreego.Point{p.Coords.Lat, p.Coords.Lon}.ToRect(epsDeg)

		var neighbors []int
		for _, obj := range tree.SearchIntersect(rect) {
			item := obj.(rtreeItem)
			if domain.HaversineKm(p.Coords, pois[item.index].Coords) <= c.cfg.EpsKm {
				neighbors = append(neighbors, item.index)
			}
		}
		sort.Ints(neighbors)
		return neighbors
	}

	visited := make(map[int]bool, len(candidates))
	inGroup := make(map[int]bool, len(candidates))
	var groups [][]int

	for _, idx := range candidates {
		if visited[idx] {
			continue
		}
		visited[idx] = true

		neighbors := regionQuery(idx)
		if len(neighbors) < c.cfg.MinSamples {
			continue
		}

		group := []int{idx}
		inGroup[idx] = true

		for j := 0; j < len(neighbors); j++ {
			nIdx := neighbors[j]
			if !visited[nIdx] {
				visited[nIdx] = true
				next := regionQuery(nIdx)
				if len(next) >= c.cfg.MinSamples {
					neighbors = append(neighbors, next...)
				}
			}
			if !inGroup[nIdx] {
				group = append(group, nIdx)
				inGroup[nIdx] = true
			}
		}

		sort.Ints(group)
		groups = append(groups, group)
	}

	// Noise points become singletons.
	for _, idx := range candidates {
		if !inGroup[idx] {
			groups = append(groups, []int{idx})
		}
	}

	return groups
}

// buildCluster validates geometry, names the cluster and scores its
// confidence. Returns false when the candidate must be rejected.
func (c *Clusterer) buildCluster(members []domain.POI) (domain.CityCluster, bool) {
	coords := make([]domain.Coordinates, len(members))
	for i, p := range members {
		coords[i] = p.Coords
	}
	centroid, err := domain.CenterPoint(coords)
	if err != nil {
		return domain.CityCluster{}, false
	}

	cluster := domain.CityCluster{
		Centroid: centroid,
		POIs:     members,
	}

	// A singleton is always geometrically valid; multi-POI clusters
	// must fall inside the configured radius band.
	if len(members) > 1 {
		radius := cluster.RadiusKm()
		if radius < c.cfg.MinRadiusKm || radius > c.cfg.MaxRadiusKm {
			return domain.CityCluster{}, false
		}
	}

	cluster.Name = c.deriveName(members)
	cluster.Country = c.deriveCountry(cluster.Name, members, centroid)
	cluster.Confidence = c.confidence(cluster)

	if cluster.Confidence < c.cfg.MinConfidence {
		return domain.CityCluster{}, false
	}
	if len(members) < c.cfg.MinClusterSize {
		return domain.CityCluster{}, false
	}

	return cluster, true
}

// deriveName picks a display name: explicit city fields by majority,
// then city tokens parsed from addresses, then known-city keywords in
// POI names, then the first POI's own name.
func (c *Clusterer) deriveName(members []domain.POI) string {
	if name, ok := majorityVote(members, func(p domain.POI) string { return p.City }); ok {
		return name
	}

	if name, ok := majorityVote(members, func(p domain.POI) string {
		return cityFromAddress(p.Address)
	}); ok {
		return name
	}

	for _, p := range members {
		lower := strings.ToLower(p.Name)
		for _, city := range knownCityList {
			if strings.Contains(lower, city) {
				return titleCase(city)
			}
		}
	}

	return members[0].Name
}

// majorityVote returns the most common non-empty value, breaking ties
// alphabetically.
func majorityVote(members []domain.POI, get func(domain.POI) string) (string, bool) {
	counts := make(map[string]int)
	for _, p := range members {
		v := strings.TrimSpace(get(p))
		if v == "" {
			continue
		}
		counts[v]++
	}
	if len(counts) == 0 {
		return "", false
	}

	var best string
	bestCount := -1
	for v, n := range counts {
		if n > bestCount || (n == bestCount && v < best) {
			best = v
			bestCount = n
		}
	}
	return best, true
}

// cityFromAddress extracts a city token from "Street, City, Country" or
// "City, Country" shaped strings.
func cityFromAddress(address string) string {
	parts := strings.Split(address, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	switch {
	case len(parts) >= 3:
		return parts[len(parts)-2]
	case len(parts) == 2:
		if parts[0] != "" && !strings.ContainsAny(parts[0], "0123456789") {
			return parts[0]
		}
	}
	return ""
}

// deriveCountry resolves a country label: explicit fields by majority,
// then the known-city table, then address keywords, then a coarse
// latitude band, then "Unknown".
func (c *Clusterer) deriveCountry(name string, members []domain.POI, centroid domain.Coordinates) string {
	if country, ok := majorityVote(members, func(p domain.POI) string { return p.Country }); ok {
		return country
	}

	if country, ok := IsKnownCity(name); ok {
		return country
	}

	for _, p := range members {
		if country, ok := countryFromAddress(p.Address); ok {
			return country
		}
	}

	if hint := latitudeBandCountryHint(centroid.Lat); hint != "Unknown" {
		return hint
	}
	return "Unknown"
}

var digitRe = regexp.MustCompile(`\d`)

// confidence is the unweighted mean of four [0,1] signals: POI count,
// density, name quality and geographic consistency.
func (c *Clusterer) confidence(cluster domain.CityCluster) float64 {
	count := float64(len(cluster.POIs))

	countFactor := math.Min(1, count/5)

	radius := cluster.RadiusKm()
	densityFactor := 1.0
	if radius > 0 {
		densityFactor = math.Min(1, count/radius)
	}

	nameFactor := nameQuality(cluster.Name)

	consistency := math.Max(0.1, 1-cluster.DistanceStddevKm()/50)

	return (countFactor + densityFactor + nameFactor + consistency) / 4
}

func nameQuality(name string) float64 {
	trimmed := strings.TrimSpace(name)
	lower := strings.ToLower(trimmed)

	switch {
	case trimmed == "" || lower == "unknown":
		return 0.1
	case lower == "cluster" || strings.HasPrefix(lower, "cluster-") || lower == "poi":
		return 0.3
	case digitRe.MatchString(trimmed):
		return 0.5
	default:
		if _, ok := IsKnownCity(trimmed); ok {
			return 1.0
		}
		return 0.7
	}
}

// ClusteringStats summarizes one clustering outcome for debugging and
// the analyze endpoint.
type ClusteringStats struct {
	ClusterCount   int
	POICount       int
	MeanConfidence float64
	MeanRadiusKm   float64

	// Confidence distribution: high > 0.7, low < 0.4, medium between.
	HighConfidence   int
	MediumConfidence int
	LowConfidence    int

	Countries []string
}

// ClusterStats computes summary statistics over a cluster set.
func ClusterStats(clusters []domain.CityCluster) ClusteringStats {
	stats := ClusteringStats{ClusterCount: len(clusters)}
	if len(clusters) == 0 {
		return stats
	}

	countries := make(map[string]struct{})
	for _, c := range clusters {
		stats.POICount += len(c.POIs)
		stats.MeanConfidence += c.Confidence
		stats.MeanRadiusKm += c.RadiusKm()
		countries[c.Country] = struct{}{}

		switch {
		case c.Confidence > 0.7:
			stats.HighConfidence++
		case c.Confidence < 0.4:
			stats.LowConfidence++
		default:
			stats.MediumConfidence++
		}
	}

	n := float64(len(clusters))
	stats.MeanConfidence /= n
	stats.MeanRadiusKm /= n

	stats.Countries = make([]string, 0, len(countries))
	for country := range countries {
		stats.Countries = append(stats.Countries, country)
	}
	sort.Strings(stats.Countries)

	return stats
}
