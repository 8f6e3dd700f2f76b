package anomaly

import (
	"sort"

	"github.com/wenhuang/taxi-insights-go/internal/models"
)

// Sortable result fields.
const (
	SortByScore    = "score"
	SortByPickup   = "pickup_datetime"
	SortBySpeed    = "trip_speed_kmh"
	SortByDistance = "trip_distance_km"
	SortByDuration = "trip_duration"
)

// SortResults orders detection results in place by the given field.
// Unknown fields leave the input order untouched. Records with a nil
// metric sort last regardless of direction. Order is "asc" or "desc"
// (default desc).
func SortResults(results []models.AnomalyResult, field, order string) {
	key := resultKey(field)
	if key == nil {
		return
	}

	asc := order == "asc"
	sort.SliceStable(results, func(i, j int) bool {
		a, aok := key(results[i])
		b, bok := key(results[j])
		if aok != bok {
			return aok // present values before missing ones
		}
		if !aok {
			return false
		}
		if asc {
			return a < b
		}
		return a > b
	})
}

func resultKey(field string) func(models.AnomalyResult) (float64, bool) {
	switch field {
	case SortByScore:
		return func(r models.AnomalyResult) (float64, bool) { return r.AnomalyScore, true }
	case SortByPickup:
		return func(r models.AnomalyResult) (float64, bool) {
			if r.PickupTime.IsZero() {
				return 0, false
			}
			return float64(r.PickupTime.Unix()), true
		}
	case SortBySpeed:
		return func(r models.AnomalyResult) (float64, bool) { return metric(r.TripSpeedKmh) }
	case SortByDistance:
		return func(r models.AnomalyResult) (float64, bool) { return metric(r.TripDistanceKm) }
	case SortByDuration:
		return func(r models.AnomalyResult) (float64, bool) { return metric(r.TripDuration) }
	default:
		return nil
	}
}
