package spatial

import (
	"github.com/golang/geo/s2"
)

// Constants
const (
	EarthRadiusMeters = 6371000.0 // Earth's mean radius in meters
	EarthRadiusKm     = 6371.0    // Earth's mean radius in kilometers
)

// HaversineKm calculates the great-circle distance between two points in
// kilometers using the Haversine formula (Earth radius 6371 km).
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusKm
}

// TripDistanceKm computes the great-circle distance between pickup and
// dropoff. Returns nil when any coordinate is missing. A coordinate of
// exactly zero is treated as missing, matching the upstream data cleaning
// convention (zero lat/lon in this dataset means "not recorded").
func TripDistanceKm(lat1, lon1, lat2, lon2 *float64) *float64 {
	if !present(lat1) || !present(lon1) || !present(lat2) || !present(lon2) {
		return nil
	}
	d := HaversineKm(*lat1, *lon1, *lat2, *lon2)
	return &d
}

// TripSpeedKmh computes average speed in km/h from distance and duration.
// Returns nil when either input is missing or the duration is zero.
func TripSpeedKmh(distanceKm, durationSec *float64) *float64 {
	if !present(distanceKm) || !present(durationSec) {
		return nil
	}
	v := *distanceKm / (*durationSec / 3600)
	return &v
}

// DistancePerPassenger divides trip distance by passenger count.
// Returns nil when distance is missing or the passenger count is zero.
func DistancePerPassenger(distanceKm *float64, passengers int) *float64 {
	if !present(distanceKm) || passengers == 0 {
		return nil
	}
	v := *distanceKm / float64(passengers)
	return &v
}

// present reports whether a metric is usable: non-nil and non-zero.
func present(v *float64) bool {
	return v != nil && *v != 0
}
