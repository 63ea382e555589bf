package distance

import (
	"fmt"
	"math"
	"strings"

	"github.com/hupe1980/geoknn/model"
)

// EarthRadiusKm is the mean Earth radius used by every metric in this package.
const EarthRadiusKm = 6371.0

const degToRad = math.Pi / 180

// Haversine calculates the great-circle distance in kilometers between
// (lon1, lat1) and (lon2, lat2), given in decimal degrees.
//
// Any finite input is accepted, including out-of-range degrees; validating
// coordinates is the caller's responsibility.
func Haversine(lon1, lat1, lon2, lat2 float64) float64 {
	lon1, lat1 = lon1*degToRad, lat1*degToRad
	lon2, lat2 = lon2*degToRad, lat2*degToRad

	dlon := lon2 - lon1
	dlat := lat2 - lat1

	sinLat := math.Sin(dlat / 2)
	sinLon := math.Sin(dlon / 2)
	a := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon

	// Rounding can push a slightly outside [0, 1] near antipodes and zero.
	a = min(max(a, 0), 1)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// Equirectangular approximates the distance in kilometers between two points
// by projecting them onto a plane at their mean latitude.
// Error grows with separation; use it only for small regions.
func Equirectangular(lon1, lat1, lon2, lat2 float64) float64 {
	dlon := (lon2 - lon1) * degToRad
	dlat := (lat2 - lat1) * degToRad
	x := dlon * math.Cos((lat1+lat2)/2*degToRad)
	return EarthRadiusKm * math.Hypot(x, dlat)
}

// Between is Haversine on model coordinates.
func Between(a, b model.Coordinate) float64 {
	return Haversine(a.Lon, a.Lat, b.Lon, b.Lat)
}

// Metric represents the distance metric used for node comparison.
type Metric int

const (
	MetricHaversine Metric = iota
	MetricEquirectangular
)

func (m Metric) String() string {
	switch m {
	case MetricHaversine:
		return "Haversine"
	case MetricEquirectangular:
		return "Equirectangular"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// ParseMetric resolves a metric by its case-insensitive name.
func ParseMetric(name string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "haversine":
		return MetricHaversine, nil
	case "equirectangular":
		return MetricEquirectangular, nil
	default:
		return 0, fmt.Errorf("unknown metric %q", name)
	}
}

// Func is a function type for distance calculation between two coordinates.
type Func func(a, b model.Coordinate) float64

// Provider returns the distance function for the given metric.
func Provider(m Metric) (Func, error) {
	switch m {
	case MetricHaversine:
		return Between, nil
	case MetricEquirectangular:
		return func(a, b model.Coordinate) float64 {
			return Equirectangular(a.Lon, a.Lat, b.Lon, b.Lat)
		}, nil
	default:
		return nil, fmt.Errorf("unsupported metric: %v", m)
	}
}
