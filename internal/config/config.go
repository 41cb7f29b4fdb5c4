package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config keeps runtime settings for the planner.
type Config struct {
	DatabaseURL string
	ListenAddr  string

	// RollForwardTime is the HH:MM local time of the daily roll-forward job.
	// RollForwardInterval, when set, switches the job to a fixed period instead.
	RollForwardTime     string
	RollForwardInterval time.Duration
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		DatabaseURL:         strings.TrimSpace(os.Getenv("DATABASE_URL")),
		ListenAddr:          strings.TrimSpace(os.Getenv("LISTEN_ADDR")),
		RollForwardTime:     strings.TrimSpace(os.Getenv("ROLLFORWARD_TIME")),
		RollForwardInterval: parseInterval(strings.TrimSpace(os.Getenv("ROLLFORWARD_INTERVAL_HOURS"))),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "task_planner.db"
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.RollForwardTime == "" {
		cfg.RollForwardTime = "04:00"
	}
	if err := validateDaily(cfg.RollForwardTime); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func validateDaily(timeStr string) error {
	parts := strings.Split(timeStr, ":")
	if len(parts) != 2 {
		return fmt.Errorf("ROLLFORWARD_TIME %q: expected HH:MM", timeStr)
	}
	return nil
}

func parseInterval(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	hours, err := time.ParseDuration(raw + "h")
	if err != nil || hours <= 0 {
		return 0
	}
	return hours
}
