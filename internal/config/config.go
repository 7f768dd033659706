package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/andrejs2/slovenian-weather-integration/internal/log"
)

type AppConfig struct {
	// Locations to aggregate, as published by the ARSO gazetteer.
	Locations []string `validate:"required,min=1,dive,required"`

	// FetchInterval controls how often each location is refreshed.
	FetchInterval time.Duration `validate:"required,min=30s"`

	// CycleTimeout bounds one whole refresh cycle across all sources.
	CycleTimeout time.Duration `validate:"required,min=5s"`

	// HTTPTimeout applies to every single upstream request.
	HTTPTimeout time.Duration `validate:"required,min=1s"`

	// In-memory store retention.
	StoreMaxHistory int           `validate:"min=0"` // snapshots per location (0 = unlimited)
	StoreMaxAge     time.Duration `validate:"min=0"` // snapshot age (0 = unlimited)

	Port  string `validate:"required,numeric"`
	Debug bool
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Debugf("no .env file loaded: %v", err)
	}

	cfg := &AppConfig{
		Locations:       splitList(getenvDefault("ARSO_LOCATIONS", "Ljubljana")),
		StoreMaxHistory: getenvInt("STORE_MAX_HISTORY", 720), // roughly 24h at 2-minute intervals
		Port:            getenvDefault("PORT", "8080"),
		Debug:           getenvBool("DEBUG"),
	}

	var err error
	if cfg.FetchInterval, err = getenvDuration("FETCH_INTERVAL", 2*time.Minute); err != nil {
		return nil, err
	}
	if cfg.CycleTimeout, err = getenvDuration("CYCLE_TIMEOUT", 120*time.Second); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", 24*time.Hour); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
