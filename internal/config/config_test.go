package config_test

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/wenhuang/taxi-insights-go/internal/config"
)

func TestLoad(t *testing.T) {
	Convey("Given no environment overrides", t, func() {
		cfg, err := config.Load()

		Convey("Defaults apply", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":8080")
			So(cfg.DBPath, ShouldEqual, "./data/trips.db")
			So(cfg.CORSOrigin, ShouldEqual, "*")
			So(cfg.RateLimit, ShouldEqual, 100)
			So(cfg.AnomalyThreshold, ShouldEqual, 0.1)
			So(cfg.LocationLimit, ShouldEqual, 50)
		})
	})
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("TAXI_ADDR", ":9090")
	t.Setenv("TAXI_DB_PATH", "/tmp/other.db")
	t.Setenv("TAXI_ANOMALY_THRESHOLD", "0.25")

	Convey("Given TAXI_ environment variables", t, func() {
		cfg, err := config.Load()

		Convey("They override the defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":9090")
			So(cfg.DBPath, ShouldEqual, "/tmp/other.db")
			So(cfg.AnomalyThreshold, ShouldEqual, 0.25)
		})
	})
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "addr: \":7070\"\nrate_limit: 10\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("TAXI_CONFIG", path)

	Convey("Given a YAML config file", t, func() {
		cfg, err := config.Load()

		Convey("File values override defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":7070")
			So(cfg.RateLimit, ShouldEqual, 10)
		})
	})

	Convey("Given an environment variable on top of the file", t, func() {
		t.Setenv("TAXI_ADDR", ":6060")
		cfg, err := config.Load()

		Convey("The environment wins", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":6060")
			So(cfg.RateLimit, ShouldEqual, 10)
		})
	})
}
