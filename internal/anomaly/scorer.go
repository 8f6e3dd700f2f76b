// Package anomaly flags suspicious trips using a multi-factor composite
// score. Each factor is evaluated independently; the final score is the
// average of the triggered contributions, so it always stays in [0, 1].
package anomaly

import (
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/wenhuang/taxi-insights-go/internal/logger"
	"github.com/wenhuang/taxi-insights-go/internal/models"
	"github.com/wenhuang/taxi-insights-go/internal/spatial"
	"github.com/wenhuang/taxi-insights-go/internal/stats"
)

// Detection thresholds.
const (
	SpeedThresholdKmh  = 120.0 // unrealistic speed
	MinDistanceKm      = 0.001 // degenerate distance
	MinDurationSec     = 60.0
	MaxDurationSec     = 7200.0 // 2 hours
	DefaultThreshold   = 0.1
	speedMismatchKmh   = 20.0
	maxDistanceFactor  = 3.0 // multiples of corpus max distance
	excessDistanceKm   = 50.0
)

// NYC service-area bounding box.
const (
	BoundsLatMin = 40.4774
	BoundsLatMax = 40.9176
	BoundsLonMin = -74.2591
	BoundsLonMax = -73.7004
)

// ServiceArea is the NYC bounding box all trip endpoints are checked
// against.
var ServiceArea = spatial.Box{
	MinLat: BoundsLatMin,
	MaxLat: BoundsLatMax,
	MinLon: BoundsLonMin,
	MaxLon: BoundsLonMax,
}

var earliestValidPickup = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.Local)

// CorpusStats are aggregate baselines computed once over the full record
// set and used to normalize per-record scores. Nil and NaN metrics are
// ignored.
type CorpusStats struct {
	AvgSpeed    float64 `json:"avgSpeed"`
	MaxSpeed    float64 `json:"maxSpeed"`
	AvgDistance float64 `json:"avgDistance"`
	MaxDistance float64 `json:"maxDistance"`
	AvgDuration float64 `json:"avgDuration"`
	MaxDuration float64 `json:"maxDuration"`
}

// ComputeCorpusStats derives the normalization baseline from the record set.
func ComputeCorpusStats(trips []models.Trip) CorpusStats {
	speeds := collect(trips, func(t models.Trip) *float64 { return t.TripSpeedKmh })
	dists := collect(trips, func(t models.Trip) *float64 { return t.TripDistanceKm })
	durs := collect(trips, func(t models.Trip) *float64 { return t.TripDuration })

	return CorpusStats{
		AvgSpeed:    stats.Mean(speeds),
		MaxSpeed:    stats.Max(speeds),
		AvgDistance: stats.Mean(dists),
		MaxDistance: stats.Max(dists),
		AvgDuration: stats.Mean(durs),
		MaxDuration: stats.Max(durs),
	}
}

func collect(trips []models.Trip, field func(models.Trip) *float64) []float64 {
	out := make([]float64, 0, len(trips))
	for _, t := range trips {
		if v, ok := metric(field(t)); ok {
			out = append(out, v)
		}
	}
	return out
}

// metric unwraps a derived field: nil, zero and NaN all count as missing.
func metric(p *float64) (float64, bool) {
	if p == nil || *p == 0 || math.IsNaN(*p) {
		return 0, false
	}
	return *p, true
}

// Scorer evaluates trips against corpus baselines.
type Scorer struct {
	now func() time.Time
	log zerolog.Logger
}

// NewScorer creates a Scorer using the wall clock for date validation.
func NewScorer() *Scorer {
	return &Scorer{now: time.Now, log: logger.With("anomaly")}
}

// Score computes the composite anomaly score for one trip together with
// the human-readable reasons. The reason wording is part of the API
// contract: downstream summaries classify anomalies by substring match.
func (s *Scorer) Score(t models.Trip, corpus CorpusStats) (float64, []string) {
	var (
		score   float64
		factors int
		reasons []string
	)

	// Unrealistic speed
	if speed, ok := metric(t.TripSpeedKmh); ok && speed > SpeedThresholdKmh {
		score += math.Min((speed-SpeedThresholdKmh)/SpeedThresholdKmh, 1)
		factors++
		reasons = append(reasons, fmt.Sprintf("Unrealistic speed: %.2f km/h", speed))
	}

	// Distance too short or extremely long
	if dist, ok := metric(t.TripDistanceKm); ok {
		if dist < MinDistanceKm {
			score += 0.8
			factors++
			reasons = append(reasons, fmt.Sprintf("Too short: %.4f km", dist))
		} else if dist > corpus.MaxDistance*maxDistanceFactor {
			score += math.Min(dist/(corpus.MaxDistance*maxDistanceFactor), 1)
			factors++
			reasons = append(reasons, fmt.Sprintf("Extremely long: %.2f km", dist))
		}
	}

	// Duration too short or too long
	if dur, ok := metric(t.TripDuration); ok {
		if dur < MinDurationSec {
			score += 0.7
			factors++
			reasons = append(reasons, fmt.Sprintf("Too short: %ds", int(dur)))
		} else if dur > MaxDurationSec {
			score += math.Min(dur/(MaxDurationSec*2), 1)
			factors++
			reasons = append(reasons, fmt.Sprintf("Too long: %.2fh", dur/3600))
		}
	}

	// Reported speed inconsistent with distance/duration
	speed, hasSpeed := metric(t.TripSpeedKmh)
	dist, hasDist := metric(t.TripDistanceKm)
	dur, hasDur := metric(t.TripDuration)
	if hasSpeed && hasDist && hasDur {
		expected := dist / (dur / 3600)
		if diff := math.Abs(speed - expected); diff > speedMismatchKmh {
			score += math.Min(diff/100, 1)
			factors++
			reasons = append(reasons, fmt.Sprintf("Inconsistent speed: expected %.2f km/h, got %.2f km/h", expected, speed))
		}
	}

	// Trip endpoints outside the service area
	pickupOutside := OutsideServiceArea(t.PickupLatitude, t.PickupLongitude)
	dropoffOutside := OutsideServiceArea(t.DropoffLatitude, t.DropoffLongitude)
	if pickupOutside || dropoffOutside {
		score += 0.9
		factors++
		if pickupOutside {
			reasons = append(reasons, "Pickup outside NYC")
		}
		if dropoffOutside {
			reasons = append(reasons, "Dropoff outside NYC")
		}
	}

	// Implausible passenger count
	if t.PassengerCount > 6 || t.PassengerCount < 0 {
		score += 0.6
		factors++
		reasons = append(reasons, fmt.Sprintf("Invalid passenger count: %d", t.PassengerCount))
	}

	// Pickup date in the future or before the dataset epoch
	if t.PickupTime.After(s.now()) || t.PickupTime.Before(earliestValidPickup) {
		score += 0.8
		factors++
		reasons = append(reasons, fmt.Sprintf("Invalid pickup date: %s", t.PickupDatetime))
	}

	if factors == 0 {
		return 0, nil
	}
	return score / float64(factors), reasons
}

// OutsideServiceArea reports whether a coordinate pair falls outside the
// NYC bounding box. Missing coordinates count as outside.
func OutsideServiceArea(lat, lon *float64) bool {
	la, okLat := metric(lat)
	lo, okLon := metric(lon)
	if !okLat || !okLon {
		return true
	}
	return !ServiceArea.Contains(la, lo)
}

// Detect scores every trip against corpus baselines computed up front and
// returns those strictly above the threshold, in input order.
func (s *Scorer) Detect(trips []models.Trip, threshold float64) []models.AnomalyResult {
	if len(trips) == 0 {
		return []models.AnomalyResult{}
	}

	s.log.Debug().Float64("threshold", threshold).Int("records", len(trips)).Msg("detecting anomalies")
	corpus := ComputeCorpusStats(trips)

	results := []models.AnomalyResult{}
	for i, t := range trips {
		score, reasons := s.Score(t, corpus)
		if score > threshold {
			results = append(results, models.AnomalyResult{
				Trip:           t,
				AnomalyScore:   score,
				AnomalyReasons: reasons,
				RecordIndex:    i,
			})
		}
	}

	s.log.Info().Int("anomalies", len(results)).Int("records", len(trips)).Msg("anomaly detection complete")
	return results
}
