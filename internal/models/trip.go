package models

import "time"

// DatetimeLayout is the canonical timestamp format used by the trip dataset
// (matches the NYC TLC CSV export format).
const DatetimeLayout = "2006-01-02 15:04:05"

// RawTrip represents an unvalidated trip record as it arrives from a CSV row
// or a request body. All numeric fields are kept as strings and parsed
// defensively by the enrichment pipeline.
type RawTrip struct {
	ID               string `json:"id"`
	VendorID         string `json:"vendor_id"`
	PickupDatetime   string `json:"pickup_datetime"`
	DropoffDatetime  string `json:"dropoff_datetime"`
	PassengerCount   string `json:"passenger_count"`
	PickupLongitude  string `json:"pickup_longitude"`
	PickupLatitude   string `json:"pickup_latitude"`
	DropoffLongitude string `json:"dropoff_longitude"`
	DropoffLatitude  string `json:"dropoff_latitude"`
	StoreAndFwdFlag  string `json:"store_and_fwd_flag"`
	TripDuration     string `json:"trip_duration"`
}

// Trip represents an enriched trip record. Derived fields are pointers:
// nil means the inputs were insufficient to compute them.
type Trip struct {
	ID               string   `json:"id" db:"id"`
	VendorID         *int     `json:"vendor_id" db:"vendor_id"`
	PickupDatetime   string   `json:"pickup_datetime" db:"pickup_datetime"`
	DropoffDatetime  string   `json:"dropoff_datetime" db:"dropoff_datetime"`
	PassengerCount   int      `json:"passenger_count" db:"passenger_count"`
	PickupLongitude  *float64 `json:"pickup_longitude" db:"pickup_longitude"`
	PickupLatitude   *float64 `json:"pickup_latitude" db:"pickup_latitude"`
	DropoffLongitude *float64 `json:"dropoff_longitude" db:"dropoff_longitude"`
	DropoffLatitude  *float64 `json:"dropoff_latitude" db:"dropoff_latitude"`
	StoreAndFwdFlag  string   `json:"store_and_fwd_flag" db:"store_and_fwd_flag"`

	// Derived metrics
	TripDuration         *float64 `json:"trip_duration" db:"trip_duration"` // seconds
	TripDurationMin      *float64 `json:"trip_duration_min" db:"trip_duration_min"`
	TripDistanceKm       *float64 `json:"trip_distance_km" db:"trip_distance_km"`
	TripSpeedKmh         *float64 `json:"trip_speed_kmh" db:"trip_speed_kmh"`
	DistancePerPassenger *float64 `json:"distance_per_passenger" db:"distance_per_passenger"`

	// Time features derived from the pickup timestamp
	PickupHour      int    `json:"pickup_hour" db:"pickup_hour"`
	PickupDay       int    `json:"pickup_day" db:"pickup_day"` // 0=Sunday
	PickupDayName   string `json:"pickup_day_name" db:"pickup_day_name"`
	PickupMonth     int    `json:"pickup_month" db:"pickup_month"` // 1-12
	PickupMonthName string `json:"pickup_month_name" db:"pickup_month_name"`

	// PickupTime is the parsed pickup timestamp, always valid for an
	// enriched record. Not serialized; reconstructed on database scan.
	PickupTime time.Time `json:"-" db:"-"`
}

// TripFilter represents filter parameters for querying trips
type TripFilter struct {
	StartDate      string  `form:"startDate"` // inclusive, DatetimeLayout
	EndDate        string  `form:"endDate"`
	MinDuration    float64 `form:"minDuration"` // seconds
	MaxDuration    float64 `form:"maxDuration"`
	MinDistance    float64 `form:"minDistance"` // km
	MaxDistance    float64 `form:"maxDistance"`
	MinSpeed       float64 `form:"minSpeed"` // km/h
	MaxSpeed       float64 `form:"maxSpeed"`
	PassengerCount int     `form:"passengerCount"`
	VendorID       int     `form:"vendorId"`
	SortBy         string  `form:"sortBy"`
	SortOrder      string  `form:"sortOrder"` // asc or desc
	Limit          int     `form:"limit"`
	Offset         int     `form:"offset"`
}

// TripsResponse represents a paginated response of trips
type TripsResponse struct {
	Data    []Trip `json:"data"`
	Total   int64  `json:"total"`
	Limit   int    `json:"limit"`
	Offset  int    `json:"offset"`
	HasMore bool   `json:"hasMore"`
}
