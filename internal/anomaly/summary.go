package anomaly

import (
	"strings"

	"github.com/wenhuang/taxi-insights-go/internal/models"
)

// Summarize classifies a detection pass by anomaly type. Type attribution
// is a substring match on the reason text, which is why reason wording is
// contractual: "speed" marks speed anomalies, "short"/"long"/"distance"
// mark distance and duration anomalies, "outside" marks geographic ones.
func Summarize(results []models.AnomalyResult, totalTrips int, threshold float64) models.AnomalySummary {
	summary := models.AnomalySummary{
		TotalTrips:       totalTrips,
		MostCommonReason: "None",
		Threshold:        threshold,
	}
	if len(results) == 0 {
		return summary
	}

	summary.TotalAnomalies = len(results)
	if totalTrips > 0 {
		summary.AnomalyRate = float64(len(results)) / float64(totalTrips) * 100
	}

	var scoreSum float64
	counts := make(map[string]int)
	var order []string

	for _, r := range results {
		scoreSum += r.AnomalyScore

		if hasReason(r, "speed") {
			summary.AnomalyTypes.Speed++
		}
		if hasReason(r, "distance", "short", "long") {
			summary.AnomalyTypes.Distance++
		}
		if hasReason(r, "duration", "short", "long") {
			summary.AnomalyTypes.Duration++
		}
		if hasReason(r, "outside") {
			summary.AnomalyTypes.Geographic++
		}

		for _, reason := range r.AnomalyReasons {
			if counts[reason] == 0 {
				order = append(order, reason)
			}
			counts[reason]++
		}
	}

	// First-seen reason wins ties, so the result is deterministic.
	best := 0
	for _, reason := range order {
		if counts[reason] > best {
			best = counts[reason]
			summary.MostCommonReason = reason
		}
	}

	summary.AvgScore = scoreSum / float64(len(results))
	return summary
}

func hasReason(r models.AnomalyResult, substrings ...string) bool {
	for _, reason := range r.AnomalyReasons {
		for _, sub := range substrings {
			if strings.Contains(reason, sub) {
				return true
			}
		}
	}
	return false
}

// FilterBySpeed keeps results whose trip speed exceeds minSpeed km/h.
func FilterBySpeed(results []models.AnomalyResult, minSpeed float64) []models.AnomalyResult {
	return filter(results, func(r models.AnomalyResult) bool {
		v, ok := metric(r.TripSpeedKmh)
		return ok && v > minSpeed
	})
}

// FilterByDistance keeps results whose trip distance falls outside
// [minKm, maxKm].
func FilterByDistance(results []models.AnomalyResult, minKm, maxKm float64) []models.AnomalyResult {
	return filter(results, func(r models.AnomalyResult) bool {
		v, ok := metric(r.TripDistanceKm)
		return ok && (v < minKm || v > maxKm)
	})
}

// FilterByDuration keeps results whose duration falls outside
// [minSec, maxSec].
func FilterByDuration(results []models.AnomalyResult, minSec, maxSec float64) []models.AnomalyResult {
	return filter(results, func(r models.AnomalyResult) bool {
		v, ok := metric(r.TripDuration)
		return ok && (v < minSec || v > maxSec)
	})
}

// FilterGeographic keeps results with an endpoint outside the service area.
func FilterGeographic(results []models.AnomalyResult) []models.AnomalyResult {
	return filter(results, func(r models.AnomalyResult) bool {
		return OutsideServiceArea(r.PickupLatitude, r.PickupLongitude) ||
			OutsideServiceArea(r.DropoffLatitude, r.DropoffLongitude)
	})
}

func filter(results []models.AnomalyResult, keep func(models.AnomalyResult) bool) []models.AnomalyResult {
	out := []models.AnomalyResult{}
	for _, r := range results {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
