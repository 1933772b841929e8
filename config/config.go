package config

import (
	"errors"
	"os"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	ListenAddr      string
	DatabaseDSN     string
	Secret          string
	DataURL         string
	StationNamesURL string
	SyncTimeout     time.Duration
	NamesTimeout    time.Duration
	TokenTTL        time.Duration
	ReportsBucket   string
	AWSRegion       string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:      envOrDefault("LISTEN_ADDR", ":8000"),
		DatabaseDSN:     envOrDefault("DATABASE_DSN", "root:root@tcp(127.0.0.1:3306)/flood_alert"),
		Secret:          os.Getenv("SECRET"),
		DataURL:         envOrDefault("DATA_URL", "https://api3.ffwc.gov.bd/data_load/recent-observed/"),
		StationNamesURL: envOrDefault("STATION_NAMES_URL", "https://api3.ffwc.gov.bd/data_load/stations/"),
		SyncTimeout:     15 * time.Second,
		NamesTimeout:    5 * time.Second,
		TokenTTL:        30 * time.Minute,
		ReportsBucket:   os.Getenv("REPORTS_BUCKET"),
		AWSRegion:       envOrDefault("AWS_REGION", "ap-southeast-1"),
	}

	if cfg.Secret == "" {
		return nil, errors.New("SECRET variable is not set")
	}

	if s := os.Getenv("SYNC_TIMEOUT"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil || d <= 0 {
			return nil, errors.New("invalid SYNC_TIMEOUT")
		}
		cfg.SyncTimeout = d
	}
	if s := os.Getenv("STATION_NAMES_TIMEOUT"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil || d <= 0 {
			return nil, errors.New("invalid STATION_NAMES_TIMEOUT")
		}
		cfg.NamesTimeout = d
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
