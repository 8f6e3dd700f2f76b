// Package repository implements database access for trips.
package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/wenhuang/taxi-insights-go/internal/database"
	"github.com/wenhuang/taxi-insights-go/internal/models"
	"github.com/wenhuang/taxi-insights-go/internal/pipeline"
)

const tripColumns = `id, vendor_id, pickup_datetime, dropoff_datetime, passenger_count,
	pickup_longitude, pickup_latitude, dropoff_longitude, dropoff_latitude,
	store_and_fwd_flag, trip_duration, trip_duration_min, trip_distance_km,
	trip_speed_kmh, distance_per_passenger, pickup_hour, pickup_day,
	pickup_day_name, pickup_month, pickup_month_name`

// sortColumns whitelists the fields GetTrips may order by.
var sortColumns = map[string]string{
	"pickup_datetime":  "pickup_datetime",
	"dropoff_datetime": "dropoff_datetime",
	"trip_duration":    "trip_duration",
	"trip_distance_km": "trip_distance_km",
	"trip_speed_kmh":   "trip_speed_kmh",
	"passenger_count":  "passenger_count",
	"vendor_id":        "vendor_id",
	"pickup_hour":      "pickup_hour",
}

// TripRepository handles database operations for trips
type TripRepository struct {
	db *sql.DB
}

// NewTripRepository creates a new trip repository
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{db: db}
}

// Insert stores one enriched trip.
func (r *TripRepository) Insert(t models.Trip) error {
	query := `INSERT INTO trips (` + tripColumns + `) VALUES
		(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := r.db.Exec(query, insertArgs(t)...); err != nil {
		return fmt.Errorf("failed to insert trip: %w", err)
	}
	return nil
}

// BulkInsert stores a batch of enriched trips in a single transaction.
// Returns the number of rows inserted.
func (r *TripRepository) BulkInsert(trips []models.Trip) (int, error) {
	if len(trips) == 0 {
		return 0, nil
	}

	inserted := 0
	err := database.Transaction(r.db, func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`INSERT OR REPLACE INTO trips (` + tripColumns + `) VALUES
			(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare bulk insert: %w", err)
		}
		defer stmt.Close()

		for _, t := range trips {
			if _, err := stmt.Exec(insertArgs(t)...); err != nil {
				return fmt.Errorf("failed to insert trip %s: %w", t.ID, err)
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// GetByID retrieves a single trip. Returns nil when not found.
func (r *TripRepository) GetByID(id string) (*models.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = ?`
	t, err := scanTrip(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	return t, nil
}

// GetTrips retrieves trips with filtering, sorting and pagination.
func (r *TripRepository) GetTrips(filter models.TripFilter) ([]models.Trip, int64, error) {
	var conditions []string
	var args []interface{}

	if filter.StartDate != "" {
		conditions = append(conditions, "pickup_datetime >= ?")
		args = append(args, filter.StartDate)
	}
	if filter.EndDate != "" {
		conditions = append(conditions, "pickup_datetime <= ?")
		args = append(args, filter.EndDate)
	}
	if filter.MinDuration > 0 {
		conditions = append(conditions, "trip_duration >= ?")
		args = append(args, filter.MinDuration)
	}
	if filter.MaxDuration > 0 {
		conditions = append(conditions, "trip_duration <= ?")
		args = append(args, filter.MaxDuration)
	}
	if filter.MinDistance > 0 {
		conditions = append(conditions, "trip_distance_km >= ?")
		args = append(args, filter.MinDistance)
	}
	if filter.MaxDistance > 0 {
		conditions = append(conditions, "trip_distance_km <= ?")
		args = append(args, filter.MaxDistance)
	}
	if filter.MinSpeed > 0 {
		conditions = append(conditions, "trip_speed_kmh >= ?")
		args = append(args, filter.MinSpeed)
	}
	if filter.MaxSpeed > 0 {
		conditions = append(conditions, "trip_speed_kmh <= ?")
		args = append(args, filter.MaxSpeed)
	}
	if filter.PassengerCount > 0 {
		conditions = append(conditions, "passenger_count = ?")
		args = append(args, filter.PassengerCount)
	}
	if filter.VendorID > 0 {
		conditions = append(conditions, "vendor_id = ?")
		args = append(args, filter.VendorID)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM trips"+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count trips: %w", err)
	}

	sortBy, ok := sortColumns[filter.SortBy]
	if !ok {
		sortBy = "pickup_datetime"
	}
	order := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		order = "ASC"
	}

	if filter.Limit < 1 {
		filter.Limit = 100
	}
	if filter.Limit > 1000 {
		filter.Limit = 1000
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	query := `SELECT ` + tripColumns + ` FROM trips` + whereClause +
		fmt.Sprintf(" ORDER BY %s %s LIMIT ? OFFSET ?", sortBy, order)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query trips: %w", err)
	}
	defer rows.Close()

	trips, err := scanTrips(rows)
	if err != nil {
		return nil, 0, err
	}
	return trips, total, nil
}

// LoadAll retrieves every trip ordered by pickup time, for snapshot builds.
func (r *TripRepository) LoadAll() ([]models.Trip, error) {
	rows, err := r.db.Query(`SELECT ` + tripColumns + ` FROM trips ORDER BY pickup_datetime`)
	if err != nil {
		return nil, fmt.Errorf("failed to load trips: %w", err)
	}
	defer rows.Close()
	return scanTrips(rows)
}

// Count returns the number of stored trips.
func (r *TripRepository) Count() (int64, error) {
	var n int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM trips").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count trips: %w", err)
	}
	return n, nil
}

// Update replaces a stored trip. Returns false when the id does not exist.
func (r *TripRepository) Update(t models.Trip) (bool, error) {
	query := `UPDATE trips SET
		vendor_id = ?, pickup_datetime = ?, dropoff_datetime = ?, passenger_count = ?,
		pickup_longitude = ?, pickup_latitude = ?, dropoff_longitude = ?, dropoff_latitude = ?,
		store_and_fwd_flag = ?, trip_duration = ?, trip_duration_min = ?, trip_distance_km = ?,
		trip_speed_kmh = ?, distance_per_passenger = ?, pickup_hour = ?, pickup_day = ?,
		pickup_day_name = ?, pickup_month = ?, pickup_month_name = ?,
		updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`

	args := insertArgs(t)
	args = append(args[1:], t.ID) // shift id to the WHERE position

	res, err := r.db.Exec(query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to update trip: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read update result: %w", err)
	}
	return n > 0, nil
}

// Delete removes a trip. Returns false when the id does not exist.
func (r *TripRepository) Delete(id string) (bool, error) {
	res, err := r.db.Exec("DELETE FROM trips WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete trip: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}
	return n > 0, nil
}

func insertArgs(t models.Trip) []interface{} {
	return []interface{}{
		t.ID, intPtrArg(t.VendorID), t.PickupDatetime, t.DropoffDatetime, t.PassengerCount,
		floatPtrArg(t.PickupLongitude), floatPtrArg(t.PickupLatitude),
		floatPtrArg(t.DropoffLongitude), floatPtrArg(t.DropoffLatitude),
		t.StoreAndFwdFlag, floatPtrArg(t.TripDuration), floatPtrArg(t.TripDurationMin),
		floatPtrArg(t.TripDistanceKm), floatPtrArg(t.TripSpeedKmh),
		floatPtrArg(t.DistancePerPassenger), t.PickupHour, t.PickupDay,
		t.PickupDayName, t.PickupMonth, t.PickupMonthName,
	}
}

func floatPtrArg(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func intPtrArg(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTrip(row rowScanner) (*models.Trip, error) {
	var t models.Trip
	var vendorID sql.NullInt64
	var pickupLon, pickupLat, dropoffLon, dropoffLat sql.NullFloat64
	var duration, durationMin, distance, speed, distPerPass sql.NullFloat64

	err := row.Scan(
		&t.ID, &vendorID, &t.PickupDatetime, &t.DropoffDatetime, &t.PassengerCount,
		&pickupLon, &pickupLat, &dropoffLon, &dropoffLat,
		&t.StoreAndFwdFlag, &duration, &durationMin, &distance, &speed,
		&distPerPass, &t.PickupHour, &t.PickupDay,
		&t.PickupDayName, &t.PickupMonth, &t.PickupMonthName,
	)
	if err != nil {
		return nil, err
	}

	if vendorID.Valid {
		v := int(vendorID.Int64)
		t.VendorID = &v
	}
	t.PickupLongitude = nullFloat(pickupLon)
	t.PickupLatitude = nullFloat(pickupLat)
	t.DropoffLongitude = nullFloat(dropoffLon)
	t.DropoffLatitude = nullFloat(dropoffLat)
	t.TripDuration = nullFloat(duration)
	t.TripDurationMin = nullFloat(durationMin)
	t.TripDistanceKm = nullFloat(distance)
	t.TripSpeedKmh = nullFloat(speed)
	t.DistancePerPassenger = nullFloat(distPerPass)

	if pt, err := pipeline.ParseDatetime(t.PickupDatetime); err == nil {
		t.PickupTime = pt
	}
	return &t, nil
}

func scanTrips(rows *sql.Rows) ([]models.Trip, error) {
	var trips []models.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trips: %w", err)
	}
	return trips, nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
