// Package handler exposes the HTTP API. Handlers parse and validate
// request parameters, delegate to services and shape responses.
package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wenhuang/taxi-insights-go/internal/models"
	"github.com/wenhuang/taxi-insights-go/internal/service"
	"github.com/wenhuang/taxi-insights-go/pkg/response"
)

// TripHandler handles HTTP requests for trips
type TripHandler struct {
	service *service.TripService
}

// NewTripHandler creates a new trip handler
func NewTripHandler(service *service.TripService) *TripHandler {
	return &TripHandler{service: service}
}

// GetTrips handles GET /api/v1/trips
func (h *TripHandler) GetTrips(c *gin.Context) {
	var filter models.TripFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	trips, total, err := h.service.GetTrips(filter)
	if err != nil {
		response.InternalError(c, "Failed to get trips")
		return
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
	if trips == nil {
		trips = []models.Trip{}
	}

	response.Success(c, models.TripsResponse{
		Data:    trips,
		Total:   total,
		Limit:   filter.Limit,
		Offset:  filter.Offset,
		HasMore: int64(filter.Offset+filter.Limit) < total,
	})
}

// GetTripByID handles GET /api/v1/trips/:id
func (h *TripHandler) GetTripByID(c *gin.Context) {
	trip, err := h.service.GetTripByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, "Failed to get trip")
		return
	}
	if trip == nil {
		response.NotFound(c, "Trip not found")
		return
	}
	response.Success(c, trip)
}

// CreateTrip handles POST /api/v1/trips
func (h *TripHandler) CreateTrip(c *gin.Context) {
	var raw models.RawTrip
	if err := c.ShouldBindJSON(&raw); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	trip, err := h.service.Create(raw)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRecord) {
			response.BadRequest(c, "pickup_datetime and dropoff_datetime are required and must be valid timestamps")
			return
		}
		response.InternalError(c, "Failed to create trip")
		return
	}
	response.Created(c, trip)
}

// UpdateTrip handles PUT /api/v1/trips/:id
func (h *TripHandler) UpdateTrip(c *gin.Context) {
	var raw models.RawTrip
	if err := c.ShouldBindJSON(&raw); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	trip, err := h.service.Update(c.Param("id"), raw)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRecord) {
			response.BadRequest(c, "pickup_datetime and dropoff_datetime are required and must be valid timestamps")
			return
		}
		response.InternalError(c, "Failed to update trip")
		return
	}
	if trip == nil {
		response.NotFound(c, "Trip not found")
		return
	}
	response.Success(c, trip)
}

// DeleteTrip handles DELETE /api/v1/trips/:id
func (h *TripHandler) DeleteTrip(c *gin.Context) {
	found, err := h.service.Delete(c.Param("id"))
	if err != nil {
		response.InternalError(c, "Failed to delete trip")
		return
	}
	if !found {
		response.NotFound(c, "Trip not found")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// ImportCSV handles POST /api/v1/trips/import. The CSV comes either as a
// multipart "file" field or as the raw request body.
func (h *TripHandler) ImportCSV(c *gin.Context) {
	var src io.Reader

	file, err := c.FormFile("file")
	switch {
	case err == nil:
		f, err := openUpload(file)
		if err != nil {
			response.InternalError(c, "Failed to read uploaded file")
			return
		}
		defer f.Close()
		src = f
	case c.Request.Body != nil:
		src = c.Request.Body
	default:
		response.BadRequest(c, "No CSV payload provided")
		return
	}

	parsed, inserted, err := h.service.ImportCSV(src)
	if err != nil {
		response.InternalError(c, "Failed to import CSV")
		return
	}

	response.Success(c, gin.H{
		"parsed":   parsed,
		"inserted": inserted,
		"skipped":  parsed - inserted,
	})
}

func openUpload(fh *multipart.FileHeader) (multipart.File, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Health handles GET /health
func (h *TripHandler) Health(c *gin.Context) {
	count, err := h.service.Count()
	if err != nil {
		response.Error(c, http.StatusServiceUnavailable, "Database unavailable")
		return
	}
	response.Success(c, gin.H{
		"status": "ok",
		"trips":  count,
	})
}
