// Package loader reads raw trip records from CSV sources. Column order is
// taken from the header row; unknown columns are ignored.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/wenhuang/taxi-insights-go/internal/logger"
	"github.com/wenhuang/taxi-insights-go/internal/models"
)

// ReadFile parses a trip CSV file into raw records.
func ReadFile(path string) ([]models.RawTrip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv file: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses trip CSV data. The first row must be a header naming the
// columns. Rows with a deviating field count are skipped, not fatal.
func Read(r io.Reader) ([]models.RawTrip, error) {
	log := logger.With("loader")

	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var raws []models.RawTrip
	skipped := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}

		raws = append(raws, models.RawTrip{
			ID:               field(row, "id"),
			VendorID:         field(row, "vendor_id"),
			PickupDatetime:   field(row, "pickup_datetime"),
			DropoffDatetime:  field(row, "dropoff_datetime"),
			PassengerCount:   field(row, "passenger_count"),
			PickupLongitude:  field(row, "pickup_longitude"),
			PickupLatitude:   field(row, "pickup_latitude"),
			DropoffLongitude: field(row, "dropoff_longitude"),
			DropoffLatitude:  field(row, "dropoff_latitude"),
			StoreAndFwdFlag:  field(row, "store_and_fwd_flag"),
			TripDuration:     field(row, "trip_duration"),
		})
	}

	if skipped > 0 {
		log.Warn().Int("skipped", skipped).Msg("skipped malformed csv rows")
	}
	log.Info().Int("records", len(raws)).Msg("parsed csv records")
	return raws, nil
}
