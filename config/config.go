package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all console settings. Values come from defaults, then an
// optional JSON file, then TEDDY_* environment variables, last one wins.
type Config struct {
	APIBase   string        `json:"api_base" env:"TEDDY_API_BASE"`
	FrontBase string        `json:"front_base" env:"TEDDY_FRONT_BASE"`
	StaleTime time.Duration `json:"stale_time" env:"TEDDY_STALE_TIME"`
	Logging   struct {
		Path  string `json:"path" env:"TEDDY_LOG_PATH"`
		Level string `json:"level" env:"TEDDY_LOG_LEVEL"`
	} `json:"logging"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{
		APIBase:   "https://api.tryteddy.com/f1dev/admin/",
		FrontBase: "https://app.tryteddy.com/",
		StaleTime: time.Minute,
	}
	cfg.Logging.Level = "info"
	if dir, err := os.UserConfigDir(); err == nil {
		cfg.Logging.Path = filepath.Join(dir, "teddyadmin", "console.log")
	} else {
		cfg.Logging.Path = "console.log"
	}
	return cfg
}

// Load builds the configuration. path may be empty, in which case only
// defaults and environment variables apply; a named file must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		cleanPath := filepath.Clean(path)
		fileInfo, err := os.Stat(cleanPath)
		if err != nil {
			return nil, fmt.Errorf("config file error: %w", err)
		}
		if !fileInfo.Mode().IsRegular() {
			return nil, fmt.Errorf("config path is not a regular file")
		}

		file, err := os.Open(cleanPath)
		if err != nil {
			return nil, err
		}
		defer file.Close()

		if err := json.NewDecoder(file).Decode(cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
