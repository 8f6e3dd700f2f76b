package database

import (
	"database/sql"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS trips (
		id TEXT PRIMARY KEY,
		vendor_id INTEGER,
		pickup_datetime TEXT NOT NULL,
		dropoff_datetime TEXT NOT NULL,
		passenger_count INTEGER NOT NULL DEFAULT 0,
		pickup_longitude REAL,
		pickup_latitude REAL,
		dropoff_longitude REAL,
		dropoff_latitude REAL,
		store_and_fwd_flag TEXT NOT NULL DEFAULT 'N',
		trip_duration REAL,
		trip_duration_min REAL,
		trip_distance_km REAL,
		trip_speed_kmh REAL,
		distance_per_passenger REAL,
		pickup_hour INTEGER NOT NULL,
		pickup_day INTEGER NOT NULL,
		pickup_day_name TEXT NOT NULL,
		pickup_month INTEGER NOT NULL,
		pickup_month_name TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_trips_pickup_datetime ON trips(pickup_datetime)`,
	`CREATE INDEX IF NOT EXISTS idx_trips_vendor_id ON trips(vendor_id)`,
	`CREATE INDEX IF NOT EXISTS idx_trips_passenger_count ON trips(passenger_count)`,
	`CREATE INDEX IF NOT EXISTS idx_trips_pickup_hour ON trips(pickup_hour)`,
}

// EnsureSchema creates the trips table and its indexes if missing.
func EnsureSchema(db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
