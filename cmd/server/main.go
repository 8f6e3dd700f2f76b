package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/wenhuang/taxi-insights-go/internal/api"
	"github.com/wenhuang/taxi-insights-go/internal/config"
	"github.com/wenhuang/taxi-insights-go/internal/database"
	"github.com/wenhuang/taxi-insights-go/internal/dataset"
	"github.com/wenhuang/taxi-insights-go/internal/handler"
	"github.com/wenhuang/taxi-insights-go/internal/logger"
	"github.com/wenhuang/taxi-insights-go/internal/repository"
	"github.com/wenhuang/taxi-insights-go/internal/service"
)

func main() {
	// .env 文件是可选的
	_ = godotenv.Load()

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		l := logger.Get()
		l.Fatal().Err(err).Msg("failed to load config")
	}

	logger.Init(cfg.LogLevel, cfg.LogPretty)
	log := logger.With("server")

	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	db, err := database.Open(database.Config{Path: cfg.DBPath})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	if err := database.EnsureSchema(db); err != nil {
		log.Fatal().Err(err).Msg("failed to apply schema")
	}

	repo := repository.NewTripRepository(db)
	cache := dataset.NewCache()

	tripService := service.NewTripService(repo, cache)

	// 数据库为空时从 CSV 导入种子数据
	if cfg.DataPath != "" {
		count, err := tripService.Count()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to count trips")
		}
		if count == 0 {
			if err := seed(tripService, cfg.DataPath); err != nil {
				log.Warn().Err(err).Str("path", cfg.DataPath).Msg("seed import failed")
			}
		}
	}

	if err := tripService.Reload(); err != nil {
		log.Fatal().Err(err).Msg("failed to load dataset")
	}
	log.Info().Int("trips", cache.Len()).Msg("dataset loaded")

	handlers := api.Handlers{
		Trips:     handler.NewTripHandler(tripService),
		Insights:  handler.NewInsightHandler(service.NewInsightService(cache)),
		Anomalies: handler.NewAnomalyHandler(service.NewAnomalyService(cache), cfg.AnomalyThreshold),
		Locations: handler.NewLocationHandler(service.NewLocationService(cache), cfg.LocationLimit),
	}

	router := api.SetupRouter(cfg, handlers)

	// 启动服务器
	log.Info().Str("addr", cfg.Addr).Msg("server starting")
	if err := router.Run(cfg.Addr); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}

func seed(s *service.TripService, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	parsed, inserted, err := s.ImportCSV(f)
	if err != nil {
		return err
	}
	l := logger.With("server")
	l.Info().
		Int("parsed", parsed).
		Int("inserted", inserted).
		Str("path", path).
		Msg("seeded database from CSV")
	return nil
}
