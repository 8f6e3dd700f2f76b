package service

import (
	"github.com/wenhuang/taxi-insights-go/internal/dataset"
	"github.com/wenhuang/taxi-insights-go/internal/insights"
	"github.com/wenhuang/taxi-insights-go/internal/models"
)

// InsightService computes aggregate statistics over the current dataset
// snapshot. Each call works on an immutable snapshot, so concurrent
// requests never race with reloads.
type InsightService struct {
	cache *dataset.Cache
}

// NewInsightService creates a new insight service
func NewInsightService(cache *dataset.Cache) *InsightService {
	return &InsightService{cache: cache}
}

// Insights builds the combined analytics payload.
func (s *InsightService) Insights() models.Insights {
	return insights.Build(s.cache.Get().Trips)
}

// Stats returns corpus-wide scalar aggregates.
func (s *InsightService) Stats() models.StatsSummary {
	return insights.Stats(s.cache.Get().Trips)
}

// Hourly returns per-hour pickup statistics.
func (s *InsightService) Hourly() []models.HourlyStat {
	return insights.ByHour(s.cache.Get().Trips)
}

// Daily returns per-day-of-week pickup statistics.
func (s *InsightService) Daily() []models.DailyStat {
	return insights.ByDay(s.cache.Get().Trips)
}

// Vendors returns per-vendor statistics.
func (s *InsightService) Vendors() []models.VendorStat {
	return insights.ByVendor(s.cache.Get().Trips)
}

// Passengers returns per-passenger-count statistics.
func (s *InsightService) Passengers() []models.PassengerStat {
	return insights.ByPassengers(s.cache.Get().Trips)
}
