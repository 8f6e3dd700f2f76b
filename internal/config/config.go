// Package config loads application configuration by layering defaults, an
// optional YAML file and environment variables.
package config

import (
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config 应用配置
type Config struct {
	Addr     string `koanf:"addr"`
	DBPath   string `koanf:"db_path"`
	DataPath string `koanf:"data_path"` // optional CSV seed file

	CORSOrigin string `koanf:"cors_origin"`
	GinMode    string `koanf:"gin_mode"`
	LogLevel   string `koanf:"log_level"`
	LogPretty  bool   `koanf:"log_pretty"`

	RateLimit     int `koanf:"rate_limit"`      // requests per window per client
	RateWindowSec int `koanf:"rate_window_sec"` // window length in seconds

	AnomalyThreshold float64 `koanf:"anomaly_threshold"` // default detection threshold
	LocationLimit    int     `koanf:"location_limit"`    // default location summary size
}

// defaults returns the baseline configuration.
func defaults() *Config {
	return &Config{
		Addr:             ":8080",
		DBPath:           "./data/trips.db",
		CORSOrigin:       "*",
		GinMode:          "release",
		LogLevel:         "info",
		RateLimit:        100,
		RateWindowSec:    60,
		AnomalyThreshold: 0.1,
		LocationLimit:    50,
	}
}

// Load builds a Config by layering (low -> high):
//  1. defaults
//  2. YAML file if TAXI_CONFIG is set
//  3. environment variables with prefix TAXI_ (TAXI_ADDR, TAXI_DB_PATH, ...)
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv("TAXI_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	envProvider := env.Provider("TAXI_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "taxi_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *defaults()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if cfg.Addr == "" {
		return nil, errors.New("addr must not be empty")
	}
	if cfg.DBPath == "" {
		return nil, errors.New("db_path must not be empty")
	}
	return &cfg, nil
}
