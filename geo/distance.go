package geo

import (
	"fmt"
	"math"
)

const earthRadiusM = 6371000.0

// DistanceFunc returns the distance in meters between two lat/lng points.
type DistanceFunc func(lat1, lng1, lat2, lng2 float64) float64

// Metric selects the distance computation used for proximity queries.
type Metric string

const (
	// MetricHaversine is the default great-circle distance.
	MetricHaversine Metric = "haversine"
	// MetricEuclidean is a planar approximation. It is cheaper but degrades
	// away from the equator; it exists as an explicit opt-in fast path.
	MetricEuclidean Metric = "euclidean"
)

// ParseMetric maps a config string to a Metric. An empty string selects
// the haversine default.
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case "", MetricHaversine:
		return MetricHaversine, nil
	case MetricEuclidean:
		return MetricEuclidean, nil
	}
	return "", fmt.Errorf("geo: unknown distance metric %q", s)
}

// Func returns the DistanceFunc for the metric. Unknown metrics fall back
// to haversine.
func (m Metric) Func() DistanceFunc {
	if m == MetricEuclidean {
		return EuclideanM
	}
	return HaversineM
}

// HaversineM returns the great-circle distance in meters between two
// lat/lng points on a spherical earth.
func HaversineM(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180
	la1 := lat1 * math.Pi / 180
	la2 := lat2 * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(la1)*math.Cos(la2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusM * c
}

// HaversineKM returns the great-circle distance in kilometers.
func HaversineKM(lat1, lng1, lat2, lng2 float64) float64 {
	return HaversineM(lat1, lng1, lat2, lng2) / 1000
}

// EuclideanM approximates the distance in meters on a local tangent
// plane, scaling longitude by the cosine of the mean latitude.
func EuclideanM(lat1, lng1, lat2, lng2 float64) float64 {
	meanLat := (lat1 + lat2) / 2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180 * math.Cos(meanLat)
	return earthRadiusM * math.Sqrt(dLat*dLat+dLng*dLng)
}
