package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wenhuang/taxi-insights-go/internal/models"
	"github.com/wenhuang/taxi-insights-go/internal/service"
	"github.com/wenhuang/taxi-insights-go/pkg/response"
)

// LocationHandler handles HTTP requests for location summaries
type LocationHandler struct {
	service      *service.LocationService
	defaultLimit int
}

// NewLocationHandler creates a new location handler
func NewLocationHandler(service *service.LocationService, defaultLimit int) *LocationHandler {
	if defaultLimit <= 0 {
		defaultLimit = 50
	}
	return &LocationHandler{service: service, defaultLimit: defaultLimit}
}

// GetLocations handles GET /api/v1/locations?type=pickup|dropoff|both
func (h *LocationHandler) GetLocations(c *gin.Context) {
	limit, err := h.limit(c)
	if err != nil {
		response.BadRequest(c, "Invalid limit parameter")
		return
	}

	locType := c.DefaultQuery("type", "both")
	result := gin.H{}

	switch locType {
	case "pickup":
		result["pickup"] = roundLocations(h.service.Pickup(limit))
	case "dropoff":
		result["dropoff"] = roundLocations(h.service.Dropoff(limit))
	case "both":
		result["pickup"] = roundLocations(h.service.Pickup(limit))
		result["dropoff"] = roundLocations(h.service.Dropoff(limit))
	default:
		response.BadRequest(c, "type must be pickup, dropoff or both")
		return
	}

	response.Success(c, result)
}

// GetPickupLocations handles GET /api/v1/locations/pickup
func (h *LocationHandler) GetPickupLocations(c *gin.Context) {
	limit, err := h.limit(c)
	if err != nil {
		response.BadRequest(c, "Invalid limit parameter")
		return
	}
	response.Success(c, roundLocations(h.service.Pickup(limit)))
}

// GetDropoffLocations handles GET /api/v1/locations/dropoff
func (h *LocationHandler) GetDropoffLocations(c *gin.Context) {
	limit, err := h.limit(c)
	if err != nil {
		response.BadRequest(c, "Invalid limit parameter")
		return
	}
	response.Success(c, roundLocations(h.service.Dropoff(limit)))
}

func (h *LocationHandler) limit(c *gin.Context) (int, error) {
	s := c.Query("limit")
	if s == "" {
		return h.defaultLimit, nil
	}
	return strconv.Atoi(s)
}

func roundLocations(stats []models.LocationStat) []models.LocationStat {
	for i := range stats {
		stats[i].AvgDistance = round2(stats[i].AvgDistance)
		stats[i].AvgSpeed = round2(stats[i].AvgSpeed)
	}
	return stats
}
