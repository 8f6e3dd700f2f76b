package anomaly_test

import (
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/wenhuang/taxi-insights-go/internal/anomaly"
	"github.com/wenhuang/taxi-insights-go/internal/models"
)

func f(v float64) *float64 { return &v }

// trip builds an unremarkable in-town trip; callers override fields to
// provoke individual factors.
func trip(distKm, durSec, speedKmh float64) models.Trip {
	return models.Trip{
		ID:               "t",
		PickupDatetime:   "2016-03-14 17:24:55",
		DropoffDatetime:  "2016-03-14 17:32:30",
		PassengerCount:   1,
		PickupLatitude:   f(40.7580),
		PickupLongitude:  f(-73.9855),
		DropoffLatitude:  f(40.7489),
		DropoffLongitude: f(-73.9680),
		TripDistanceKm:   f(distKm),
		TripDuration:     f(durSec),
		TripSpeedKmh:     f(speedKmh),
		PickupTime:       time.Date(2016, time.March, 14, 17, 24, 55, 0, time.Local),
	}
}

func reasonsContain(reasons []string, sub string) bool {
	for _, r := range reasons {
		if strings.Contains(r, sub) {
			return true
		}
	}
	return false
}

func TestScore(t *testing.T) {
	scorer := anomaly.NewScorer()

	Convey("Given a corpus of ordinary trips", t, func() {
		trips := []models.Trip{
			trip(2, 300, 24),
			trip(3, 600, 18),
			trip(5, 900, 20),
		}
		corpus := anomaly.ComputeCorpusStats(trips)

		Convey("An ordinary trip scores zero with no reasons", func() {
			score, reasons := scorer.Score(trip(2, 300, 24), corpus)
			So(score, ShouldEqual, 0)
			So(reasons, ShouldBeEmpty)
		})

		Convey("An unrealistic speed is flagged", func() {
			score, reasons := scorer.Score(trip(5, 90, 200), corpus)
			So(score, ShouldBeGreaterThan, 0)
			So(score, ShouldBeLessThanOrEqualTo, 1)
			So(reasonsContain(reasons, "speed"), ShouldBeTrue)
		})

		Convey("A degenerate distance is flagged", func() {
			score, reasons := scorer.Score(trip(0.0001, 300, 24), corpus)
			So(score, ShouldBeGreaterThan, 0)
			So(reasonsContain(reasons, "Too short"), ShouldBeTrue)
		})

		Convey("A too-short duration is flagged", func() {
			score, reasons := scorer.Score(trip(2, 30, 24), corpus)
			So(score, ShouldBeGreaterThan, 0)
			So(reasonsContain(reasons, "Too short"), ShouldBeTrue)
		})

		Convey("A multi-hour duration is flagged", func() {
			_, reasons := scorer.Score(trip(200, 10000, 72), corpus)
			So(reasonsContain(reasons, "Too long"), ShouldBeTrue)
		})

		Convey("A reported speed inconsistent with distance and duration is flagged", func() {
			// 2 km in 300 s is 24 km/h, not 80
			_, reasons := scorer.Score(trip(2, 300, 80), corpus)
			So(reasonsContain(reasons, "Inconsistent speed"), ShouldBeTrue)
		})

		Convey("A pickup outside the service area is flagged", func() {
			bad := trip(2, 300, 24)
			bad.PickupLatitude = f(41.5)
			score, reasons := scorer.Score(bad, corpus)
			So(score, ShouldBeGreaterThan, 0)
			So(reasonsContain(reasons, "Pickup outside NYC"), ShouldBeTrue)
		})

		Convey("An implausible passenger count is flagged", func() {
			bad := trip(2, 300, 24)
			bad.PassengerCount = 9
			_, reasons := scorer.Score(bad, corpus)
			So(reasonsContain(reasons, "Invalid passenger count: 9"), ShouldBeTrue)
		})

		Convey("A pickup before the dataset epoch is flagged", func() {
			bad := trip(2, 300, 24)
			bad.PickupTime = time.Date(1999, time.June, 1, 0, 0, 0, 0, time.Local)
			_, reasons := scorer.Score(bad, corpus)
			So(reasonsContain(reasons, "Invalid pickup date"), ShouldBeTrue)
		})

		Convey("The score never leaves [0, 1]", func() {
			worst := trip(0.0001, 30, 500)
			worst.PickupLatitude = f(50)
			worst.PassengerCount = -1
			worst.PickupTime = time.Date(2099, time.January, 1, 0, 0, 0, 0, time.Local)
			score, _ := scorer.Score(worst, corpus)
			So(score, ShouldBeGreaterThan, 0)
			So(score, ShouldBeLessThanOrEqualTo, 1)
		})
	})
}

func TestOutsideServiceArea(t *testing.T) {
	Convey("Given coordinate pairs", t, func() {
		Convey("Midtown is inside", func() {
			So(anomaly.OutsideServiceArea(f(40.7580), f(-73.9855)), ShouldBeFalse)
		})

		Convey("Upstate is outside", func() {
			So(anomaly.OutsideServiceArea(f(41.5), f(-73.9855)), ShouldBeTrue)
		})

		Convey("Missing coordinates count as outside", func() {
			So(anomaly.OutsideServiceArea(nil, f(-73.9855)), ShouldBeTrue)
			So(anomaly.OutsideServiceArea(f(40.7580), nil), ShouldBeTrue)
		})
	})
}

func TestDetect(t *testing.T) {
	scorer := anomaly.NewScorer()

	Convey("Given a mixed record set", t, func() {
		trips := []models.Trip{
			trip(2, 300, 24),
			trip(0.0001, 300, 24),
		}

		Convey("Only the degenerate trip exceeds the default threshold", func() {
			results := scorer.Detect(trips, anomaly.DefaultThreshold)
			So(len(results), ShouldEqual, 1)
			So(results[0].RecordIndex, ShouldEqual, 1)
			So(reasonsContain(results[0].AnomalyReasons, "Too short"), ShouldBeTrue)
		})

		Convey("A threshold above one flags nothing", func() {
			So(scorer.Detect(trips, 1.1), ShouldBeEmpty)
		})
	})

	Convey("Given no records", t, func() {
		So(scorer.Detect(nil, anomaly.DefaultThreshold), ShouldBeEmpty)
	})
}
