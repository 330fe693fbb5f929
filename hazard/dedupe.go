package hazard

import (
	"fmt"
	"sort"

	"github.com/rastlabs/rast-core/geo"
)

// DefaultRadiusM is the default merge radius in meters. Consecutive
// analysis windows overlap by a few seconds of footage, so the same
// occurrence is typically reported within a few tens of meters of itself.
const DefaultRadiusM = 100.0

// Deduplicator merges detections that describe the same real-world
// occurrence: equal category and within the per-category radius.
// Membership is the transitive closure of that relation, so chained
// overlap (A near B, B near C) forms one cluster even when A and C are
// not directly within radius of each other.
type Deduplicator struct {
	radiusM    float64
	perRadiusM map[Category]float64
	distance   geo.DistanceFunc
}

// NewDeduplicator builds a Deduplicator. radiusM <= 0 selects
// DefaultRadiusM; perCategory entries override the default for their
// category.
func NewDeduplicator(radiusM float64, perCategory map[Category]float64) *Deduplicator {
	if radiusM <= 0 {
		radiusM = DefaultRadiusM
	}
	d := &Deduplicator{
		radiusM:  radiusM,
		distance: geo.HaversineM,
	}
	if len(perCategory) > 0 {
		d.perRadiusM = make(map[Category]float64, len(perCategory))
		for c, r := range perCategory {
			d.perRadiusM[c] = r
		}
	}
	return d
}

func (d *Deduplicator) radius(c Category) float64 {
	if r, ok := d.perRadiusM[c]; ok && r > 0 {
		return r
	}
	return d.radiusM
}

// Dedupe collapses clusters to one survivor each and returns the
// survivors chronologically ordered with freshly assigned dense IDs
// (H001, H002, ...). The result is identical for any permutation of the
// input, and deduping an already-deduplicated set returns the same set.
func (d *Deduplicator) Dedupe(detections []ResolvedDetection) []ResolvedDetection {
	if len(detections) == 0 {
		return []ResolvedDetection{}
	}

	uf := newUnionFind(len(detections))
	for i := 0; i < len(detections); i++ {
		for j := i + 1; j < len(detections); j++ {
			a, b := &detections[i], &detections[j]
			if a.Category != b.Category {
				continue
			}
			dist := d.distance(a.Position.Lat, a.Position.Lng, b.Position.Lat, b.Position.Lng)
			if dist <= d.radius(a.Category) {
				uf.union(i, j)
			}
		}
	}

	// One survivor per cluster root, chosen by a total order so the
	// outcome does not depend on input permutation.
	survivorByRoot := map[int]int{}
	for i := range detections {
		root := uf.find(i)
		cur, ok := survivorByRoot[root]
		if !ok || beats(&detections[i], &detections[cur]) {
			survivorByRoot[root] = i
		}
	}

	survivors := make([]ResolvedDetection, 0, len(survivorByRoot))
	for _, idx := range survivorByRoot {
		survivors = append(survivors, detections[idx])
	}
	sort.Slice(survivors, func(i, j int) bool {
		return chronoLess(&survivors[i], &survivors[j])
	})

	for i := range survivors {
		survivors[i].ID = fmt.Sprintf("H%03d", i+1)
	}
	return survivors
}

// beats reports whether a wins the survivor contest against b:
// highest severity, then highest confidence, then earliest absolute
// time, then spatial/textual tiebreaks to make the order total.
func beats(a, b *ResolvedDetection) bool {
	if a.Severity != b.Severity {
		return a.Severity > b.Severity
	}
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	if a.AbsoluteSec != b.AbsoluteSec {
		return a.AbsoluteSec < b.AbsoluteSec
	}
	if a.Position.Lat != b.Position.Lat {
		return a.Position.Lat < b.Position.Lat
	}
	if a.Position.Lng != b.Position.Lng {
		return a.Position.Lng < b.Position.Lng
	}
	return a.Advisory < b.Advisory
}

// chronoLess orders survivors chronologically with the same total-order
// tiebreaks, so identifiers are deterministic.
func chronoLess(a, b *ResolvedDetection) bool {
	if a.AbsoluteSec != b.AbsoluteSec {
		return a.AbsoluteSec < b.AbsoluteSec
	}
	if a.Category != b.Category {
		return a.Category < b.Category
	}
	return beats(a, b)
}

// unionFind is a plain disjoint-set with path compression and union by
// size over integer indices.
type unionFind struct {
	parent []int
	size   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{
		parent: make([]int, n),
		size:   make([]int, n),
	}
	for i := range uf.parent {
		uf.parent[i] = i
		uf.size[i] = 1
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	if uf.size[ra] < uf.size[rb] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	uf.size[ra] += uf.size[rb]
}
