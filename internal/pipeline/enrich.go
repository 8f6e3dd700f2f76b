// Package pipeline transforms raw trip records into enriched trips by
// deriving distance, speed and time-of-day features. Malformed records are
// filtered out, never fatal.
package pipeline

import (
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/wenhuang/taxi-insights-go/internal/logger"
	"github.com/wenhuang/taxi-insights-go/internal/models"
	"github.com/wenhuang/taxi-insights-go/internal/spatial"
)

var dayNames = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

var monthNames = []string{"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December"}

// Enricher turns RawTrip records into enriched Trip records.
type Enricher struct {
	log zerolog.Logger
}

// New creates an Enricher.
func New() *Enricher {
	return &Enricher{log: logger.With("pipeline")}
}

// Enrich converts a raw record into an enriched trip. It returns false when
// the record must be discarded: pickup or dropoff timestamp absent or
// unparseable. All numeric parsing is defensive; a bad numeric field yields
// a nil derived value, not a rejection.
func (e *Enricher) Enrich(raw models.RawTrip) (models.Trip, bool) {
	if raw.PickupDatetime == "" || raw.DropoffDatetime == "" {
		return models.Trip{}, false
	}

	pickupTime, err := ParseDatetime(raw.PickupDatetime)
	if err != nil {
		return models.Trip{}, false
	}
	if _, err := ParseDatetime(raw.DropoffDatetime); err != nil {
		return models.Trip{}, false
	}

	t := models.Trip{
		ID:               raw.ID,
		VendorID:         parseIntField(raw.VendorID),
		PickupDatetime:   raw.PickupDatetime,
		DropoffDatetime:  raw.DropoffDatetime,
		PassengerCount:   parseCount(raw.PassengerCount),
		PickupLongitude:  parseFloatField(raw.PickupLongitude),
		PickupLatitude:   parseFloatField(raw.PickupLatitude),
		DropoffLongitude: parseFloatField(raw.DropoffLongitude),
		DropoffLatitude:  parseFloatField(raw.DropoffLatitude),
		StoreAndFwdFlag:  storeFlag(raw.StoreAndFwdFlag),
		TripDuration:     parseFloatField(raw.TripDuration),
		PickupTime:       pickupTime,
	}

	if t.TripDuration != nil {
		mins := *t.TripDuration / 60
		t.TripDurationMin = &mins
	}
	t.TripDistanceKm = spatial.TripDistanceKm(
		t.PickupLatitude, t.PickupLongitude,
		t.DropoffLatitude, t.DropoffLongitude,
	)
	t.TripSpeedKmh = spatial.TripSpeedKmh(t.TripDistanceKm, t.TripDuration)
	t.DistancePerPassenger = spatial.DistancePerPassenger(t.TripDistanceKm, t.PassengerCount)

	ApplyTimeFeatures(&t, pickupTime)

	return t, true
}

// EnrichAll enriches a batch, preserving input order among retained records.
// Discarded records are logged at warn level and excluded from the output.
func (e *Enricher) EnrichAll(raws []models.RawTrip) []models.Trip {
	trips := make([]models.Trip, 0, len(raws))
	dropped := 0
	for i, raw := range raws {
		t, ok := e.Enrich(raw)
		if !ok {
			dropped++
			e.log.Warn().Int("index", i).Str("id", raw.ID).Msg("dropping record with missing or invalid timestamps")
			continue
		}
		trips = append(trips, t)
	}
	if dropped > 0 {
		e.log.Info().Int("kept", len(trips)).Int("dropped", dropped).Msg("enrichment pass complete")
	}
	return trips
}

// ApplyTimeFeatures derives hour/day/month features from the pickup
// timestamp using local calendar semantics.
func ApplyTimeFeatures(t *models.Trip, pickup time.Time) {
	t.PickupHour = pickup.Hour()
	t.PickupDay = int(pickup.Weekday()) // time.Sunday == 0
	t.PickupDayName = dayNames[t.PickupDay]
	t.PickupMonth = int(pickup.Month())
	t.PickupMonthName = monthNames[t.PickupMonth-1]
}

// ParseDatetime parses a trip timestamp. The dataset layout is tried first,
// then RFC 3339 as a fallback for API-submitted records.
func ParseDatetime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(models.DatetimeLayout, s, time.Local); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// parseFloatField parses a float defensively. Non-numeric input and zero
// both yield nil: zero-valued coordinates and durations mean "not recorded"
// in this dataset.
func parseFloatField(s string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v == 0 {
		return nil
	}
	return &v
}

// parseIntField parses an int defensively, with the same zero-as-missing
// convention as parseFloatField.
func parseIntField(s string) *int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v == 0 {
		return nil
	}
	return &v
}

// parseCount parses a passenger count, defaulting to 0 on bad input.
func parseCount(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}

// storeFlag normalizes the store-and-forward flag, defaulting to "N".
func storeFlag(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "N"
	}
	return s
}
