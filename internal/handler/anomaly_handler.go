package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wenhuang/taxi-insights-go/internal/anomaly"
	"github.com/wenhuang/taxi-insights-go/internal/models"
	"github.com/wenhuang/taxi-insights-go/internal/spatial"
	"github.com/wenhuang/taxi-insights-go/internal/service"
	"github.com/wenhuang/taxi-insights-go/pkg/response"
)

// AnomalyHandler handles HTTP requests for anomaly detection
type AnomalyHandler struct {
	service          *service.AnomalyService
	defaultThreshold float64
}

// NewAnomalyHandler creates a new anomaly handler
func NewAnomalyHandler(service *service.AnomalyService, defaultThreshold float64) *AnomalyHandler {
	if defaultThreshold <= 0 {
		defaultThreshold = anomaly.DefaultThreshold
	}
	return &AnomalyHandler{service: service, defaultThreshold: defaultThreshold}
}

// DetectAnomalies handles GET /api/v1/anomalies
func (h *AnomalyHandler) DetectAnomalies(c *gin.Context) {
	threshold, err := h.threshold(c)
	if err != nil {
		response.BadRequest(c, "Threshold must be a number between 0 and 1")
		return
	}

	results, total := h.service.Detect(threshold, c.Query("sortBy"), c.DefaultQuery("sortOrder", "desc"))

	rate := 0.0
	if total > 0 {
		rate = float64(len(results)) / float64(total) * 100
	}

	response.Success(c, gin.H{
		"anomalies":      roundResults(results),
		"totalAnomalies": len(results),
		"anomalyRate":    round2(rate),
		"threshold":      threshold,
	})
}

// GetAnomalySummary handles GET /api/v1/anomalies/summary
func (h *AnomalyHandler) GetAnomalySummary(c *gin.Context) {
	threshold, err := h.threshold(c)
	if err != nil {
		response.BadRequest(c, "Threshold must be a number between 0 and 1")
		return
	}

	summary := h.service.Summary(threshold)
	summary.AnomalyRate = round2(summary.AnomalyRate)
	summary.AvgScore = round4(summary.AvgScore)
	response.Success(c, summary)
}

// GetSpeedAnomalies handles GET /api/v1/anomalies/speed
func (h *AnomalyHandler) GetSpeedAnomalies(c *gin.Context) {
	minSpeed, err := floatQuery(c, "minSpeed", anomaly.SpeedThresholdKmh)
	if err != nil {
		response.BadRequest(c, "Invalid minSpeed parameter")
		return
	}

	results := h.service.SpeedAnomalies(minSpeed)
	response.Success(c, gin.H{
		"anomalies":           roundResults(results),
		"totalSpeedAnomalies": len(results),
		"minSpeedThreshold":   minSpeed,
	})
}

// GetDistanceAnomalies handles GET /api/v1/anomalies/distance
func (h *AnomalyHandler) GetDistanceAnomalies(c *gin.Context) {
	minKm, err := floatQuery(c, "minDistance", anomaly.MinDistanceKm)
	if err != nil {
		response.BadRequest(c, "Invalid minDistance parameter")
		return
	}
	maxKm, err := floatQuery(c, "maxDistance", 50)
	if err != nil {
		response.BadRequest(c, "Invalid maxDistance parameter")
		return
	}

	results := h.service.DistanceAnomalies(minKm, maxKm)
	response.Success(c, gin.H{
		"anomalies":              roundResults(results),
		"totalDistanceAnomalies": len(results),
		"distanceThresholds":     gin.H{"min": minKm, "max": maxKm},
	})
}

// GetDurationAnomalies handles GET /api/v1/anomalies/duration
func (h *AnomalyHandler) GetDurationAnomalies(c *gin.Context) {
	minSec, err := floatQuery(c, "minDuration", anomaly.MinDurationSec)
	if err != nil {
		response.BadRequest(c, "Invalid minDuration parameter")
		return
	}
	maxSec, err := floatQuery(c, "maxDuration", anomaly.MaxDurationSec)
	if err != nil {
		response.BadRequest(c, "Invalid maxDuration parameter")
		return
	}

	results := h.service.DurationAnomalies(minSec, maxSec)
	response.Success(c, gin.H{
		"anomalies":              roundResults(results),
		"totalDurationAnomalies": len(results),
		"durationThresholds":     gin.H{"min": minSec, "max": maxSec},
	})
}

// GetGeographicAnomalies handles GET /api/v1/anomalies/geographic
func (h *AnomalyHandler) GetGeographicAnomalies(c *gin.Context) {
	results := h.service.GeographicAnomalies()

	out := gin.H{
		"anomalies":                roundResults(results),
		"totalGeographicAnomalies": len(results),
		"nycBounds": gin.H{
			"latitude":  gin.H{"min": anomaly.BoundsLatMin, "max": anomaly.BoundsLatMax},
			"longitude": gin.H{"min": anomaly.BoundsLonMin, "max": anomaly.BoundsLonMax},
		},
	}

	lats := make([]*float64, 0, len(results))
	lons := make([]*float64, 0, len(results))
	for _, r := range results {
		lats = append(lats, r.PickupLatitude)
		lons = append(lons, r.PickupLongitude)
	}
	if box, ok := spatial.BoundsOf(lats, lons); ok {
		out["observedBounds"] = gin.H{
			"latitude":  gin.H{"min": box.MinLat, "max": box.MaxLat},
			"longitude": gin.H{"min": box.MinLon, "max": box.MaxLon},
		}
	}

	response.Success(c, out)
}

// threshold parses the threshold query parameter and validates its range.
func (h *AnomalyHandler) threshold(c *gin.Context) (float64, error) {
	v, err := floatQuery(c, "threshold", h.defaultThreshold)
	if err != nil || v < 0 || v > 1 {
		return 0, strconv.ErrRange
	}
	return v, nil
}

func floatQuery(c *gin.Context, name string, def float64) (float64, error) {
	s := c.Query(name)
	if s == "" {
		return def, nil
	}
	return strconv.ParseFloat(s, 64)
}

func roundResults(results []models.AnomalyResult) []models.AnomalyResult {
	for i := range results {
		results[i].AnomalyScore = round4(results[i].AnomalyScore)
	}
	return results
}
