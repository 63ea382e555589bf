// Package distance provides great-circle distance calculations between
// geographic coordinates.
//
// All functions take longitude/latitude pairs in decimal degrees and return
// kilometers on a spherical Earth of radius EarthRadiusKm.
//
// # Supported Metrics
//
//   - MetricHaversine: exact great-circle distance (default)
//   - MetricEquirectangular: planar approximation, accurate for short spans
//
// # Usage
//
//	d := distance.Haversine(lon1, lat1, lon2, lat2)
//	fn, _ := distance.Provider(distance.MetricHaversine)
//	d = fn(a, b)
package distance
