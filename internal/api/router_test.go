package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/wenhuang/taxi-insights-go/internal/api"
	"github.com/wenhuang/taxi-insights-go/internal/config"
	"github.com/wenhuang/taxi-insights-go/internal/database"
	"github.com/wenhuang/taxi-insights-go/internal/dataset"
	"github.com/wenhuang/taxi-insights-go/internal/handler"
	"github.com/wenhuang/taxi-insights-go/internal/repository"
	"github.com/wenhuang/taxi-insights-go/internal/service"
)

const importCSV = `id,vendor_id,pickup_datetime,dropoff_datetime,passenger_count,pickup_longitude,pickup_latitude,dropoff_longitude,dropoff_latitude,store_and_fwd_flag,trip_duration
id1,2,2016-03-14 17:24:55,2016-03-14 17:32:30,1,-73.9821,40.7679,-73.9646,40.7656,N,455
id2,1,2016-06-12 00:43:35,2016-06-12 00:54:38,1,-73.9804,40.7389,-73.9993,40.7312,N,663
id3,2,2016-01-19 11:35:24,2016-01-19 12:10:48,1,-73.9790,40.7639,-74.0053,40.7102,N,2124
`

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "trips.db")})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.EnsureSchema(db); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}

	repo := repository.NewTripRepository(db)
	cache := dataset.NewCache()
	tripService := service.NewTripService(repo, cache)

	cfg := &config.Config{
		Addr:             ":0",
		CORSOrigin:       "*",
		RateLimit:        1000,
		RateWindowSec:    60,
		AnomalyThreshold: 0.1,
		LocationLimit:    50,
	}

	return api.SetupRouter(cfg, api.Handlers{
		Trips:     handler.NewTripHandler(tripService),
		Insights:  handler.NewInsightHandler(service.NewInsightService(cache)),
		Anomalies: handler.NewAnomalyHandler(service.NewAnomalyService(cache), cfg.AnomalyThreshold),
		Locations: handler.NewLocationHandler(service.NewLocationService(cache), cfg.LocationLimit),
	})
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func envelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func importSample(t *testing.T, r *gin.Engine) {
	t.Helper()
	w := do(r, http.MethodPost, "/api/v1/trips/import", importCSV)
	if w.Code != http.StatusOK {
		t.Fatalf("import failed: %d %s", w.Code, w.Body.String())
	}
}

func TestHealthAndMetrics(t *testing.T) {
	r := newRouter(t)

	Convey("Given a running API", t, func() {
		Convey("Health reports ok with a trip count", func() {
			w := do(r, http.MethodGet, "/health", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			data := envelope(t, w)["data"].(map[string]any)
			So(data["status"], ShouldEqual, "ok")
		})

		Convey("Prometheus metrics are exposed", func() {
			w := do(r, http.MethodGet, "/metrics", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "taxi_http_requests_total")
		})

		Convey("OPTIONS preflight short-circuits with CORS headers", func() {
			w := do(r, http.MethodOptions, "/api/v1/trips", "")
			So(w.Code, ShouldEqual, http.StatusNoContent)
			So(w.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "*")
		})
	})
}

func TestTripEndpoints(t *testing.T) {
	r := newRouter(t)
	importSample(t, r)

	Convey("Given an imported dataset", t, func() {
		Convey("Listing returns all trips with pagination info", func() {
			w := do(r, http.MethodGet, "/api/v1/trips", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			data := envelope(t, w)["data"].(map[string]any)
			So(data["total"], ShouldEqual, 3)
			So(data["hasMore"], ShouldEqual, false)
		})

		Convey("Filters narrow the listing", func() {
			w := do(r, http.MethodGet, "/api/v1/trips?minDuration=2000", "")
			data := envelope(t, w)["data"].(map[string]any)
			So(data["total"], ShouldEqual, 1)
		})

		Convey("A single trip is retrievable by id", func() {
			w := do(r, http.MethodGet, "/api/v1/trips/id1", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			data := envelope(t, w)["data"].(map[string]any)
			So(data["id"], ShouldEqual, "id1")
			So(data["trip_distance_km"], ShouldNotBeNil)
		})

		Convey("An unknown id is a 404", func() {
			w := do(r, http.MethodGet, "/api/v1/trips/nope", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("Creating a trip without timestamps is a 400", func() {
			w := do(r, http.MethodPost, "/api/v1/trips", `{"vendor_id":"2"}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Creating a valid trip returns 201 and lands in the dataset", func() {
			body := `{"pickup_datetime":"2016-03-15 08:00:00","dropoff_datetime":"2016-03-15 08:10:00","passenger_count":"2","trip_duration":"600"}`
			w := do(r, http.MethodPost, "/api/v1/trips", body)
			So(w.Code, ShouldEqual, http.StatusCreated)

			w = do(r, http.MethodGet, "/api/v1/trips", "")
			data := envelope(t, w)["data"].(map[string]any)
			So(data["total"], ShouldEqual, 4)
		})

		Convey("Deleting a trip removes it", func() {
			w := do(r, http.MethodDelete, "/api/v1/trips/id3", "")
			So(w.Code, ShouldEqual, http.StatusOK)

			w = do(r, http.MethodDelete, "/api/v1/trips/id3", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestAnalyticsEndpoints(t *testing.T) {
	r := newRouter(t)
	importSample(t, r)

	Convey("Given an imported dataset", t, func() {
		Convey("Insights return totals and groupings", func() {
			w := do(r, http.MethodGet, "/api/v1/insights", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			data := envelope(t, w)["data"].(map[string]any)
			So(data["totalTrips"], ShouldEqual, 3)
			So(data["hourlyStats"], ShouldNotBeNil)
			So(data["dateRange"], ShouldNotBeNil)
		})

		Convey("The stats summary is served", func() {
			w := do(r, http.MethodGet, "/api/v1/insights/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			data := envelope(t, w)["data"].(map[string]any)
			So(data["total_trips"], ShouldEqual, 3)
		})

		Convey("Anomaly detection validates the threshold", func() {
			w := do(r, http.MethodGet, "/api/v1/anomalies?threshold=1.5", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Anomaly detection returns a rate and a threshold", func() {
			w := do(r, http.MethodGet, "/api/v1/anomalies", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			data := envelope(t, w)["data"].(map[string]any)
			So(data["threshold"], ShouldEqual, 0.1)
			So(data["totalAnomalies"], ShouldNotBeNil)
		})

		Convey("The anomaly summary classifies by type", func() {
			w := do(r, http.MethodGet, "/api/v1/anomalies/summary", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			data := envelope(t, w)["data"].(map[string]any)
			So(data["totalTrips"], ShouldEqual, 3)
			So(data["anomalyTypes"], ShouldNotBeNil)
		})

		Convey("Location summaries group by endpoint", func() {
			w := do(r, http.MethodGet, "/api/v1/locations?type=both&limit=5", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			data := envelope(t, w)["data"].(map[string]any)
			So(data["pickup"], ShouldNotBeNil)
			So(data["dropoff"], ShouldNotBeNil)
		})

		Convey("An unknown location type is a 400", func() {
			w := do(r, http.MethodGet, "/api/v1/locations?type=sideways", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}
