package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wenhuang/taxi-insights-go/internal/config"
	"github.com/wenhuang/taxi-insights-go/internal/handler"
	"github.com/wenhuang/taxi-insights-go/internal/middleware"
)

// Handlers groups the HTTP handlers wired into the router.
type Handlers struct {
	Trips     *handler.TripHandler
	Insights  *handler.InsightHandler
	Anomalies *handler.AnomalyHandler
	Locations *handler.LocationHandler
}

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())

	limiter := middleware.NewRateLimiter(cfg.RateLimit, time.Duration(cfg.RateWindowSec)*time.Second)
	r.Use(limiter.Middleware())

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", cfg.CORSOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// 健康检查
	r.GET("/health", h.Trips.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API 路由组
	api := r.Group("/api/v1")
	{
		// 行程接口
		trips := api.Group("/trips")
		{
			trips.GET("", h.Trips.GetTrips)
			trips.POST("", h.Trips.CreateTrip)
			trips.POST("/import", h.Trips.ImportCSV)
			trips.GET("/:id", h.Trips.GetTripByID)
			trips.PUT("/:id", h.Trips.UpdateTrip)
			trips.DELETE("/:id", h.Trips.DeleteTrip)
		}

		// 分析接口
		insights := api.Group("/insights")
		{
			insights.GET("", h.Insights.GetInsights)
			insights.GET("/stats", h.Insights.GetStats)
			insights.GET("/hourly", h.Insights.GetHourlyStats)
			insights.GET("/daily", h.Insights.GetDailyStats)
			insights.GET("/vendors", h.Insights.GetVendorStats)
			insights.GET("/passengers", h.Insights.GetPassengerStats)
		}

		// 异常检测接口
		anomalies := api.Group("/anomalies")
		{
			anomalies.GET("", h.Anomalies.DetectAnomalies)
			anomalies.GET("/summary", h.Anomalies.GetAnomalySummary)
			anomalies.GET("/speed", h.Anomalies.GetSpeedAnomalies)
			anomalies.GET("/distance", h.Anomalies.GetDistanceAnomalies)
			anomalies.GET("/duration", h.Anomalies.GetDurationAnomalies)
			anomalies.GET("/geographic", h.Anomalies.GetGeographicAnomalies)
		}

		// 位置热点接口
		locations := api.Group("/locations")
		{
			locations.GET("", h.Locations.GetLocations)
			locations.GET("/pickup", h.Locations.GetPickupLocations)
			locations.GET("/dropoff", h.Locations.GetDropoffLocations)
		}
	}

	return r
}
