package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/wenhuang/taxi-insights-go/internal/models"
	"github.com/wenhuang/taxi-insights-go/internal/service"
	"github.com/wenhuang/taxi-insights-go/pkg/response"
)

// InsightHandler handles HTTP requests for aggregate statistics
type InsightHandler struct {
	service *service.InsightService
}

// NewInsightHandler creates a new insight handler
func NewInsightHandler(service *service.InsightService) *InsightHandler {
	return &InsightHandler{service: service}
}

// GetInsights handles GET /api/v1/insights
func (h *InsightHandler) GetInsights(c *gin.Context) {
	ins := h.service.Insights()

	ins.AvgSpeed = round2(ins.AvgSpeed)
	ins.AvgDistance = round2(ins.AvgDistance)
	ins.AvgDuration = round2(ins.AvgDuration)
	ins.BusiestHour.Percentage = round2(ins.BusiestHour.Percentage)
	ins.BusiestDay.Percentage = round2(ins.BusiestDay.Percentage)
	ins.SpeedDist = roundDistribution(ins.SpeedDist)
	ins.DistanceDist = roundDistribution(ins.DistanceDist)
	ins.HourlyStats = roundHourly(ins.HourlyStats)
	ins.DailyStats = roundDaily(ins.DailyStats)
	ins.VendorStats = roundVendors(ins.VendorStats)
	ins.PassengerStats = roundPassengers(ins.PassengerStats)

	response.Success(c, ins)
}

// GetStats handles GET /api/v1/insights/stats
func (h *InsightHandler) GetStats(c *gin.Context) {
	s := h.service.Stats()
	s.AvgSpeed = round2(s.AvgSpeed)
	s.AvgDistance = round2(s.AvgDistance)
	s.AvgDuration = round2(s.AvgDuration)
	response.Success(c, s)
}

// GetHourlyStats handles GET /api/v1/insights/hourly
func (h *InsightHandler) GetHourlyStats(c *gin.Context) {
	response.Success(c, roundHourly(h.service.Hourly()))
}

// GetDailyStats handles GET /api/v1/insights/daily
func (h *InsightHandler) GetDailyStats(c *gin.Context) {
	response.Success(c, roundDaily(h.service.Daily()))
}

// GetVendorStats handles GET /api/v1/insights/vendors
func (h *InsightHandler) GetVendorStats(c *gin.Context) {
	response.Success(c, roundVendors(h.service.Vendors()))
}

// GetPassengerStats handles GET /api/v1/insights/passengers
func (h *InsightHandler) GetPassengerStats(c *gin.Context) {
	response.Success(c, roundPassengers(h.service.Passengers()))
}

func roundDistribution(d models.Distribution) models.Distribution {
	d.Min = round2(d.Min)
	d.Max = round2(d.Max)
	d.Median = round2(d.Median)
	d.Average = round2(d.Average)
	return d
}

func roundHourly(stats []models.HourlyStat) []models.HourlyStat {
	for i := range stats {
		stats[i].AvgSpeed = round2(stats[i].AvgSpeed)
		stats[i].AvgDistance = round2(stats[i].AvgDistance)
		stats[i].AvgDuration = round2(stats[i].AvgDuration)
	}
	return stats
}

func roundDaily(stats []models.DailyStat) []models.DailyStat {
	for i := range stats {
		stats[i].AvgSpeed = round2(stats[i].AvgSpeed)
		stats[i].AvgDistance = round2(stats[i].AvgDistance)
		stats[i].AvgDuration = round2(stats[i].AvgDuration)
	}
	return stats
}

func roundVendors(stats []models.VendorStat) []models.VendorStat {
	for i := range stats {
		stats[i].AvgDistance = round2(stats[i].AvgDistance)
		stats[i].AvgDuration = round2(stats[i].AvgDuration)
	}
	return stats
}

func roundPassengers(stats []models.PassengerStat) []models.PassengerStat {
	for i := range stats {
		stats[i].AvgDistance = round2(stats[i].AvgDistance)
	}
	return stats
}
