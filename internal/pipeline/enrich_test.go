package pipeline_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/wenhuang/taxi-insights-go/internal/models"
	"github.com/wenhuang/taxi-insights-go/internal/pipeline"
)

func validRaw() models.RawTrip {
	return models.RawTrip{
		ID:               "id1",
		VendorID:         "2",
		PickupDatetime:   "2016-03-14 17:24:55",
		DropoffDatetime:  "2016-03-14 17:32:30",
		PassengerCount:   "1",
		PickupLongitude:  "-73.9821",
		PickupLatitude:   "40.7679",
		DropoffLongitude: "-73.9646",
		DropoffLatitude:  "40.7656",
		StoreAndFwdFlag:  "N",
		TripDuration:     "455",
	}
}

func TestEnrich(t *testing.T) {
	e := pipeline.New()

	Convey("Given a complete raw record", t, func() {
		trip, ok := e.Enrich(validRaw())

		Convey("It is retained with all derived fields", func() {
			So(ok, ShouldBeTrue)
			So(trip.TripDistanceKm, ShouldNotBeNil)
			So(*trip.TripDistanceKm, ShouldBeGreaterThan, 0)
			So(trip.TripSpeedKmh, ShouldNotBeNil)
			So(trip.TripDurationMin, ShouldNotBeNil)
			So(*trip.TripDurationMin, ShouldAlmostEqual, 455.0/60, 1e-9)
			So(trip.DistancePerPassenger, ShouldNotBeNil)
		})

		Convey("Time features come from the pickup timestamp", func() {
			So(trip.PickupHour, ShouldEqual, 17)
			So(trip.PickupDay, ShouldEqual, 1) // 2016-03-14 is a Monday
			So(trip.PickupDayName, ShouldEqual, "Monday")
			So(trip.PickupMonth, ShouldEqual, 3)
			So(trip.PickupMonthName, ShouldEqual, "March")
			So(trip.PickupTime.IsZero(), ShouldBeFalse)
		})
	})

	Convey("Given a record with missing timestamps", t, func() {
		Convey("A missing pickup datetime rejects the record", func() {
			raw := validRaw()
			raw.PickupDatetime = ""
			_, ok := e.Enrich(raw)
			So(ok, ShouldBeFalse)
		})

		Convey("An unparseable dropoff datetime rejects the record", func() {
			raw := validRaw()
			raw.DropoffDatetime = "not-a-date"
			_, ok := e.Enrich(raw)
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given defective numeric fields", t, func() {
		Convey("Bad coordinates yield nil metrics, not a rejection", func() {
			raw := validRaw()
			raw.PickupLatitude = "abc"
			trip, ok := e.Enrich(raw)
			So(ok, ShouldBeTrue)
			So(trip.PickupLatitude, ShouldBeNil)
			So(trip.TripDistanceKm, ShouldBeNil)
			So(trip.TripSpeedKmh, ShouldBeNil)
		})

		Convey("Zero coordinates are treated as not recorded", func() {
			raw := validRaw()
			raw.DropoffLongitude = "0"
			trip, ok := e.Enrich(raw)
			So(ok, ShouldBeTrue)
			So(trip.DropoffLongitude, ShouldBeNil)
			So(trip.TripDistanceKm, ShouldBeNil)
		})

		Convey("A bad passenger count defaults to zero", func() {
			raw := validRaw()
			raw.PassengerCount = "x"
			trip, ok := e.Enrich(raw)
			So(ok, ShouldBeTrue)
			So(trip.PassengerCount, ShouldEqual, 0)
			So(trip.DistancePerPassenger, ShouldBeNil)
		})

		Convey("An empty store-and-forward flag defaults to N", func() {
			raw := validRaw()
			raw.StoreAndFwdFlag = ""
			trip, _ := e.Enrich(raw)
			So(trip.StoreAndFwdFlag, ShouldEqual, "N")
		})
	})
}

func TestEnrichAll(t *testing.T) {
	e := pipeline.New()

	Convey("Given a batch with one bad record", t, func() {
		bad := validRaw()
		bad.PickupDatetime = ""
		raws := []models.RawTrip{validRaw(), bad, validRaw()}

		trips := e.EnrichAll(raws)

		Convey("The bad record is dropped and order is preserved", func() {
			So(len(trips), ShouldEqual, 2)
			So(trips[0].ID, ShouldEqual, "id1")
		})
	})

	Convey("Given an empty batch", t, func() {
		So(e.EnrichAll(nil), ShouldBeEmpty)
	})
}

func TestParseDatetime(t *testing.T) {
	Convey("Given timestamp strings", t, func() {
		Convey("The dataset layout parses", func() {
			ts, err := pipeline.ParseDatetime("2016-01-02 03:04:05")
			So(err, ShouldBeNil)
			So(ts.Hour(), ShouldEqual, 3)
		})

		Convey("RFC 3339 parses as a fallback", func() {
			_, err := pipeline.ParseDatetime("2016-01-02T03:04:05Z")
			So(err, ShouldBeNil)
		})

		Convey("Garbage fails", func() {
			_, err := pipeline.ParseDatetime("yesterday")
			So(err, ShouldNotBeNil)
		})
	})
}
