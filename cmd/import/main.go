package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/wenhuang/taxi-insights-go/internal/database"
	"github.com/wenhuang/taxi-insights-go/internal/loader"
	"github.com/wenhuang/taxi-insights-go/internal/logger"
	"github.com/wenhuang/taxi-insights-go/internal/pipeline"
	"github.com/wenhuang/taxi-insights-go/internal/repository"
)

func main() {
	_ = godotenv.Load()

	csvPath := flag.String("csv", "", "path to the trips CSV file")
	dbPath := flag.String("db", "./data/trips.db", "path to the SQLite database")
	flag.Parse()

	if *csvPath == "" {
		fmt.Fprintln(os.Stderr, "usage: import -csv <file> [-db <path>]")
		os.Exit(2)
	}

	logger.Init("info", true)
	log := logger.With("import")

	db, err := database.Open(database.Config{Path: *dbPath})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	if err := database.EnsureSchema(db); err != nil {
		log.Fatal().Err(err).Msg("failed to apply schema")
	}

	raws, err := loader.ReadFile(*csvPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *csvPath).Msg("failed to read CSV")
	}
	for i := range raws {
		if raws[i].ID == "" {
			raws[i].ID = uuid.NewString()
		}
	}

	trips := pipeline.New().EnrichAll(raws)

	repo := repository.NewTripRepository(db)
	inserted, err := repo.BulkInsert(trips)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to insert trips")
	}

	log.Info().
		Int("rows", len(raws)).
		Int("enriched", len(trips)).
		Int("inserted", inserted).
		Msg("import complete")
}
