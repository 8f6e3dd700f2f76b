// Package service implements business logic on top of the repository and
// the in-memory dataset snapshot.
package service

import (
	"errors"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wenhuang/taxi-insights-go/internal/dataset"
	"github.com/wenhuang/taxi-insights-go/internal/loader"
	"github.com/wenhuang/taxi-insights-go/internal/logger"
	"github.com/wenhuang/taxi-insights-go/internal/models"
	"github.com/wenhuang/taxi-insights-go/internal/pipeline"
	"github.com/wenhuang/taxi-insights-go/internal/repository"
)

// ErrInvalidRecord marks a create/update payload that the enrichment
// pipeline rejected (missing or unparseable timestamps).
var ErrInvalidRecord = errors.New("record is missing required timestamp fields")

// TripService handles trip CRUD, CSV import and snapshot reloads.
type TripService struct {
	repo     *repository.TripRepository
	cache    *dataset.Cache
	enricher *pipeline.Enricher
	log      zerolog.Logger
}

// NewTripService creates a new trip service
func NewTripService(repo *repository.TripRepository, cache *dataset.Cache) *TripService {
	return &TripService{
		repo:     repo,
		cache:    cache,
		enricher: pipeline.New(),
		log:      logger.With("trips"),
	}
}

// GetTrips retrieves trips with filtering, sorting and pagination.
func (s *TripService) GetTrips(filter models.TripFilter) ([]models.Trip, int64, error) {
	return s.repo.GetTrips(filter)
}

// GetTripByID retrieves a single trip, nil when not found.
func (s *TripService) GetTripByID(id string) (*models.Trip, error) {
	return s.repo.GetByID(id)
}

// Create enriches and stores a raw trip record. A missing id is filled
// with a generated UUID.
func (s *TripService) Create(raw models.RawTrip) (*models.Trip, error) {
	if raw.ID == "" {
		raw.ID = uuid.NewString()
	}

	t, ok := s.enricher.Enrich(raw)
	if !ok {
		return nil, ErrInvalidRecord
	}
	if err := s.repo.Insert(t); err != nil {
		return nil, err
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Update re-enriches a raw payload under an existing id. Returns nil when
// the trip does not exist.
func (s *TripService) Update(id string, raw models.RawTrip) (*models.Trip, error) {
	raw.ID = id
	t, ok := s.enricher.Enrich(raw)
	if !ok {
		return nil, ErrInvalidRecord
	}

	found, err := s.repo.Update(t)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Delete removes a trip. Returns false when the id does not exist.
func (s *TripService) Delete(id string) (bool, error) {
	found, err := s.repo.Delete(id)
	if err != nil || !found {
		return found, err
	}
	return true, s.Reload()
}

// ImportCSV parses, enriches and stores a CSV stream, then reloads the
// snapshot. Returns parsed and inserted counts.
func (s *TripService) ImportCSV(r io.Reader) (parsed, inserted int, err error) {
	raws, err := loader.Read(r)
	if err != nil {
		return 0, 0, err
	}

	for i := range raws {
		if raws[i].ID == "" {
			raws[i].ID = uuid.NewString()
		}
	}

	trips := s.enricher.EnrichAll(raws)
	n, err := s.repo.BulkInsert(trips)
	if err != nil {
		return len(raws), 0, err
	}

	s.log.Info().Int("parsed", len(raws)).Int("inserted", n).Msg("csv import complete")
	return len(raws), n, s.Reload()
}

// Reload rebuilds the dataset snapshot from storage with a single atomic
// swap.
func (s *TripService) Reload() error {
	trips, err := s.repo.LoadAll()
	if err != nil {
		return err
	}
	s.cache.Replace(trips)
	s.log.Debug().Int("trips", len(trips)).Msg("dataset snapshot reloaded")
	return nil
}

// Count returns the number of stored trips.
func (s *TripService) Count() (int64, error) {
	return s.repo.Count()
}
