package service

import (
	"github.com/wenhuang/taxi-insights-go/internal/anomaly"
	"github.com/wenhuang/taxi-insights-go/internal/dataset"
	"github.com/wenhuang/taxi-insights-go/internal/models"
)

// AnomalyService runs anomaly detection over the current dataset snapshot.
type AnomalyService struct {
	cache  *dataset.Cache
	scorer *anomaly.Scorer
}

// NewAnomalyService creates a new anomaly service
func NewAnomalyService(cache *dataset.Cache) *AnomalyService {
	return &AnomalyService{
		cache:  cache,
		scorer: anomaly.NewScorer(),
	}
}

// Detect scores the snapshot and returns trips above the threshold,
// optionally sorted.
func (s *AnomalyService) Detect(threshold float64, sortBy, sortOrder string) ([]models.AnomalyResult, int) {
	trips := s.cache.Get().Trips
	results := s.scorer.Detect(trips, threshold)
	if sortBy != "" {
		anomaly.SortResults(results, sortBy, sortOrder)
	}
	return results, len(trips)
}

// Summary classifies a detection pass by anomaly type.
func (s *AnomalyService) Summary(threshold float64) models.AnomalySummary {
	trips := s.cache.Get().Trips
	results := s.scorer.Detect(trips, threshold)
	return anomaly.Summarize(results, len(trips), threshold)
}

// SpeedAnomalies returns flagged trips above a speed floor.
func (s *AnomalyService) SpeedAnomalies(minSpeed float64) []models.AnomalyResult {
	return anomaly.FilterBySpeed(s.detectDefault(), minSpeed)
}

// DistanceAnomalies returns flagged trips with distance outside [min, max].
func (s *AnomalyService) DistanceAnomalies(minKm, maxKm float64) []models.AnomalyResult {
	return anomaly.FilterByDistance(s.detectDefault(), minKm, maxKm)
}

// DurationAnomalies returns flagged trips with duration outside [min, max].
func (s *AnomalyService) DurationAnomalies(minSec, maxSec float64) []models.AnomalyResult {
	return anomaly.FilterByDuration(s.detectDefault(), minSec, maxSec)
}

// GeographicAnomalies returns flagged trips with an endpoint outside the
// service area.
func (s *AnomalyService) GeographicAnomalies() []models.AnomalyResult {
	return anomaly.FilterGeographic(s.detectDefault())
}

func (s *AnomalyService) detectDefault() []models.AnomalyResult {
	return s.scorer.Detect(s.cache.Get().Trips, anomaly.DefaultThreshold)
}
