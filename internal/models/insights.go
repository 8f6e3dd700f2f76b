package models

// StatsSummary holds corpus-wide scalar aggregates.
type StatsSummary struct {
	TotalTrips  int     `json:"total_trips"`
	AvgSpeed    float64 `json:"avg_speed"`    // km/h
	AvgDistance float64 `json:"avg_distance"` // km
	AvgDuration float64 `json:"avg_duration"` // seconds
	Earliest    string  `json:"earliest_trip,omitempty"`
	Latest      string  `json:"latest_trip,omitempty"`
}

// HourlyStat is a per-hour bucket (pickup hour 0-23).
type HourlyStat struct {
	PickupHour  int     `json:"pickup_hour"`
	Count       int     `json:"count"`
	AvgSpeed    float64 `json:"avg_speed"`
	AvgDistance float64 `json:"avg_distance"`
	AvgDuration float64 `json:"avg_duration"`
}

// DailyStat is a per-day-of-week bucket (0=Sunday).
type DailyStat struct {
	PickupDay     int     `json:"pickup_day"`
	PickupDayName string  `json:"pickup_day_name"`
	Count         int     `json:"count"`
	AvgSpeed      float64 `json:"avg_speed"`
	AvgDistance   float64 `json:"avg_distance"`
	AvgDuration   float64 `json:"avg_duration"`
}

// VendorStat is a per-vendor bucket.
type VendorStat struct {
	VendorID    int     `json:"vendor_id"`
	Count       int     `json:"count"`
	AvgDistance float64 `json:"avg_distance"`
	AvgDuration float64 `json:"avg_duration"`
}

// PassengerStat is a per-passenger-count bucket.
type PassengerStat struct {
	PassengerCount int     `json:"passenger_count"`
	Count          int     `json:"count"`
	AvgDistance    float64 `json:"avg_distance"`
}

// BusiestHour identifies the hour with the most pickups.
type BusiestHour struct {
	Hour       int     `json:"hour"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// BusiestDay identifies the day of week with the most pickups.
type BusiestDay struct {
	Day        string  `json:"day"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// LocationStat is a rounded-coordinate grid cell (~1.1 km at 2 decimals).
type LocationStat struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Count       int     `json:"count"`
	AvgDistance float64 `json:"avg_distance"`
	AvgSpeed    float64 `json:"avg_speed"`
}

// Distribution describes the spread of a numeric trip metric.
type Distribution struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Median  float64 `json:"median"`
	Average float64 `json:"average"`
}

// Insights is the combined analytics payload served by GET /insights.
type Insights struct {
	TotalTrips     int             `json:"totalTrips"`
	AvgSpeed       float64         `json:"avgSpeed"`
	AvgDistance    float64         `json:"avgDistance"`
	AvgDuration    float64         `json:"avgDuration"`
	BusiestHour    BusiestHour     `json:"busiestHour"`
	BusiestDay     BusiestDay      `json:"busiestDay"`
	SpeedDist      Distribution    `json:"speedDist"`
	DistanceDist   Distribution    `json:"distanceDist"`
	HourlyStats    []HourlyStat    `json:"hourlyStats"`
	DailyStats     []DailyStat     `json:"dailyStats"`
	VendorStats    []VendorStat    `json:"vendorStats"`
	PassengerStats []PassengerStat `json:"passengerStats"`
	DateRange      DateRange       `json:"dateRange"`
}

// DateRange bounds the pickup timestamps in the dataset.
type DateRange struct {
	Earliest string `json:"earliest"`
	Latest   string `json:"latest"`
}
