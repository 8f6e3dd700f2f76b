// Package insights computes aggregate statistics over enriched trip
// records: scalar summaries, typed groupings (hour, day, vendor, passenger
// count, coordinate cell), busiest-slot picks and metric distributions.
// All functions are pure, tolerate missing values and return zero-valued
// results for empty input.
package insights

import (
	"cmp"
	"math"
	"sort"

	"github.com/wenhuang/taxi-insights-go/internal/models"
	"github.com/wenhuang/taxi-insights-go/internal/stats"
)

// DefaultLocationLimit caps location summaries when no limit is given.
const DefaultLocationLimit = 50

// Stats computes corpus-wide scalar aggregates. Nil metrics are excluded
// from the averages.
func Stats(trips []models.Trip) models.StatsSummary {
	s := models.StatsSummary{TotalTrips: len(trips)}
	if len(trips) == 0 {
		return s
	}

	var speedAcc, distAcc, durAcc accumulator
	earliest, latest := trips[0], trips[0]
	for _, t := range trips {
		speedAcc.add(t.TripSpeedKmh)
		distAcc.add(t.TripDistanceKm)
		durAcc.add(t.TripDuration)
		if t.PickupTime.Before(earliest.PickupTime) {
			earliest = t
		}
		if t.PickupTime.After(latest.PickupTime) {
			latest = t
		}
	}

	s.AvgSpeed = speedAcc.mean()
	s.AvgDistance = distAcc.mean()
	s.AvgDuration = durAcc.mean()
	s.Earliest = earliest.PickupDatetime
	s.Latest = latest.PickupDatetime
	return s
}

// accumulator tracks a running sum over present values only.
type accumulator struct {
	sum float64
	n   int
}

func (a *accumulator) add(v *float64) {
	if v == nil || math.IsNaN(*v) {
		return
	}
	a.sum += *v
	a.n++
}

func (a *accumulator) mean() float64 {
	if a.n == 0 {
		return 0
	}
	return a.sum / float64(a.n)
}

// bucket aggregates one group.
type bucket struct {
	count int
	speed accumulator
	dist  accumulator
	dur   accumulator
}

// groupBy buckets trips by a typed key. Trips for which the key function
// reports false are skipped. Buckets come back sorted ascending by key, so
// iteration order, and therefore busiest-slot tie-breaking, is
// deterministic.
func groupBy[K cmp.Ordered](trips []models.Trip, key func(models.Trip) (K, bool)) ([]K, map[K]*bucket) {
	buckets := make(map[K]*bucket)
	for _, t := range trips {
		k, ok := key(t)
		if !ok {
			continue
		}
		b := buckets[k]
		if b == nil {
			b = &bucket{}
			buckets[k] = b
		}
		b.count++
		b.speed.add(t.TripSpeedKmh)
		b.dist.add(t.TripDistanceKm)
		b.dur.add(t.TripDuration)
	}

	keys := make([]K, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys, buckets
}

// ByHour groups trips by pickup hour (0-23), ascending.
func ByHour(trips []models.Trip) []models.HourlyStat {
	keys, buckets := groupBy(trips, func(t models.Trip) (int, bool) { return t.PickupHour, true })
	out := make([]models.HourlyStat, 0, len(keys))
	for _, h := range keys {
		b := buckets[h]
		out = append(out, models.HourlyStat{
			PickupHour:  h,
			Count:       b.count,
			AvgSpeed:    b.speed.mean(),
			AvgDistance: b.dist.mean(),
			AvgDuration: b.dur.mean(),
		})
	}
	return out
}

// ByDay groups trips by pickup day of week (0=Sunday), ascending.
func ByDay(trips []models.Trip) []models.DailyStat {
	keys, buckets := groupBy(trips, func(t models.Trip) (int, bool) { return t.PickupDay, true })
	out := make([]models.DailyStat, 0, len(keys))
	for _, d := range keys {
		b := buckets[d]
		out = append(out, models.DailyStat{
			PickupDay:     d,
			PickupDayName: dayName(trips, d),
			Count:         b.count,
			AvgSpeed:      b.speed.mean(),
			AvgDistance:   b.dist.mean(),
			AvgDuration:   b.dur.mean(),
		})
	}
	return out
}

func dayName(trips []models.Trip, day int) string {
	for _, t := range trips {
		if t.PickupDay == day {
			return t.PickupDayName
		}
	}
	return ""
}

// ByVendor groups trips by vendor id, ascending. Trips without a vendor id
// are skipped.
func ByVendor(trips []models.Trip) []models.VendorStat {
	keys, buckets := groupBy(trips, func(t models.Trip) (int, bool) {
		if t.VendorID == nil {
			return 0, false
		}
		return *t.VendorID, true
	})
	out := make([]models.VendorStat, 0, len(keys))
	for _, v := range keys {
		b := buckets[v]
		out = append(out, models.VendorStat{
			VendorID:    v,
			Count:       b.count,
			AvgDistance: b.dist.mean(),
			AvgDuration: b.dur.mean(),
		})
	}
	return out
}

// ByPassengers groups trips by passenger count, ascending.
func ByPassengers(trips []models.Trip) []models.PassengerStat {
	keys, buckets := groupBy(trips, func(t models.Trip) (int, bool) { return t.PassengerCount, true })
	out := make([]models.PassengerStat, 0, len(keys))
	for _, p := range keys {
		b := buckets[p]
		out = append(out, models.PassengerStat{
			PassengerCount: p,
			Count:          b.count,
			AvgDistance:    b.dist.mean(),
		})
	}
	return out
}

// BusiestHour picks the hour with the most pickups. Buckets arrive sorted
// ascending, so on a tie the lowest hour wins. Empty input yields a
// zero-count default.
func BusiestHour(hourly []models.HourlyStat) models.BusiestHour {
	busiest := models.BusiestHour{}
	if len(hourly) == 0 {
		return busiest
	}

	total := 0
	for _, h := range hourly {
		total += h.Count
		if h.Count > busiest.Count {
			busiest.Hour = h.PickupHour
			busiest.Count = h.Count
		}
	}
	if total > 0 {
		busiest.Percentage = float64(busiest.Count) / float64(total) * 100
	}
	return busiest
}

// BusiestDay picks the day of week with the most pickups, lowest day index
// winning ties.
func BusiestDay(daily []models.DailyStat) models.BusiestDay {
	busiest := models.BusiestDay{Day: "Monday"}
	if len(daily) == 0 {
		return busiest
	}

	total := 0
	count := 0
	for _, d := range daily {
		total += d.Count
		if d.Count > count {
			busiest.Day = d.PickupDayName
			count = d.Count
		}
	}
	busiest.Count = count
	if total > 0 {
		busiest.Percentage = float64(count) / float64(total) * 100
	}
	return busiest
}

// Endpoint selects which end of a trip a location summary groups on.
type Endpoint string

const (
	EndpointPickup  Endpoint = "pickup"
	EndpointDropoff Endpoint = "dropoff"
)

type cell struct {
	lat, lon float64
}

// LocationSummary groups trips into ~1.1 km grid cells (coordinates rounded
// to 2 decimal places) for the chosen endpoint, sorted by descending count
// and truncated to limit. Ties break on lower latitude, then longitude.
func LocationSummary(trips []models.Trip, endpoint Endpoint, limit int) []models.LocationStat {
	if limit <= 0 {
		limit = DefaultLocationLimit
	}

	type agg struct {
		count int
		dist  accumulator
		speed accumulator
	}
	cells := make(map[cell]*agg)

	for _, t := range trips {
		lat, lon := t.PickupLatitude, t.PickupLongitude
		if endpoint == EndpointDropoff {
			lat, lon = t.DropoffLatitude, t.DropoffLongitude
		}
		if lat == nil || lon == nil {
			continue
		}
		c := cell{lat: round2(*lat), lon: round2(*lon)}
		a := cells[c]
		if a == nil {
			a = &agg{}
			cells[c] = a
		}
		a.count++
		a.dist.add(t.TripDistanceKm)
		a.speed.add(t.TripSpeedKmh)
	}

	out := make([]models.LocationStat, 0, len(cells))
	for c, a := range cells {
		out = append(out, models.LocationStat{
			Latitude:    c.lat,
			Longitude:   c.lon,
			Count:       a.count,
			AvgDistance: a.dist.mean(),
			AvgSpeed:    a.speed.mean(),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].Latitude != out[j].Latitude {
			return out[i].Latitude < out[j].Latitude
		}
		return out[i].Longitude < out[j].Longitude
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// MetricDistribution summarizes the spread of one derived trip metric.
func MetricDistribution(trips []models.Trip, field func(models.Trip) *float64) models.Distribution {
	values := make([]float64, 0, len(trips))
	for _, t := range trips {
		v := field(t)
		if v == nil || math.IsNaN(*v) {
			continue
		}
		values = append(values, *v)
	}
	return models.Distribution{
		Min:     stats.Min(values),
		Max:     stats.Max(values),
		Median:  stats.Median(values),
		Average: stats.Mean(values),
	}
}

// Build assembles the combined analytics payload.
func Build(trips []models.Trip) models.Insights {
	summary := Stats(trips)
	hourly := ByHour(trips)
	daily := ByDay(trips)

	return models.Insights{
		TotalTrips:  summary.TotalTrips,
		AvgSpeed:    summary.AvgSpeed,
		AvgDistance: summary.AvgDistance,
		AvgDuration: summary.AvgDuration,
		BusiestHour: BusiestHour(hourly),
		BusiestDay:  BusiestDay(daily),
		SpeedDist: MetricDistribution(trips, func(t models.Trip) *float64 {
			return t.TripSpeedKmh
		}),
		DistanceDist: MetricDistribution(trips, func(t models.Trip) *float64 {
			return t.TripDistanceKm
		}),
		HourlyStats:    hourly,
		DailyStats:     daily,
		VendorStats:    ByVendor(trips),
		PassengerStats: ByPassengers(trips),
		DateRange: models.DateRange{
			Earliest: summary.Earliest,
			Latest:   summary.Latest,
		},
	}
}
