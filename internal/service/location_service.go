package service

import (
	"github.com/wenhuang/taxi-insights-go/internal/dataset"
	"github.com/wenhuang/taxi-insights-go/internal/insights"
	"github.com/wenhuang/taxi-insights-go/internal/models"
)

// LocationService computes rounded-coordinate location summaries over the
// current dataset snapshot.
type LocationService struct {
	cache *dataset.Cache
}

// NewLocationService creates a new location service
func NewLocationService(cache *dataset.Cache) *LocationService {
	return &LocationService{cache: cache}
}

// Pickup returns the busiest pickup grid cells.
func (s *LocationService) Pickup(limit int) []models.LocationStat {
	return insights.LocationSummary(s.cache.Get().Trips, insights.EndpointPickup, limit)
}

// Dropoff returns the busiest dropoff grid cells.
func (s *LocationService) Dropoff(limit int) []models.LocationStat {
	return insights.LocationSummary(s.cache.Get().Trips, insights.EndpointDropoff, limit)
}
