package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the pacing service.
type Config struct {
	BindAddr         string
	MetricsNamespace string
	ShutdownTimeout  time.Duration
	AllowAnyOrigin   bool

	// Outgoing segmentation.
	MaxLength           int
	ForceSplitThreshold int
	MinDelayMs          int
	MaxDelayMs          int
	MaxParts            int
	DelaySeed           int64
	QuestionFrequency   int

	// Inbound buffering and coalescing.
	MaxWait                time.Duration
	ShortMessageThreshold  int
	QuickSequenceThreshold time.Duration
	SweepInterval          time.Duration

	PacingConfigPath string

	DatabaseURL string
	SQLitePath  string

	ConnectorServiceURL string
	ConnectorTimeout    time.Duration
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:               envOrDefault("APP_BIND_ADDR", ":8080"),
		MetricsNamespace:       envOrDefault("APP_METRICS_NAMESPACE", "patter"),
		ShutdownTimeout:        15 * time.Second,
		MaxLength:              150,
		ForceSplitThreshold:    100,
		MinDelayMs:             500,
		MaxDelayMs:             2000,
		MaxParts:               3,
		QuestionFrequency:      3,
		MaxWait:                30 * time.Second,
		ShortMessageThreshold:  50,
		QuickSequenceThreshold: 5 * time.Second,
		SweepInterval:          30 * time.Second,
		PacingConfigPath:       trimmedEnv("PACING_CONFIG_PATH"),
		DatabaseURL:            trimmedEnv("DATABASE_URL"),
		SQLitePath:             trimmedEnv("BUFFER_SQLITE_PATH"),
		ConnectorServiceURL:    trimmedEnv("CONNECTOR_SERVICE_URL"),
		ConnectorTimeout:       2 * time.Second,
	}

	var err error
	if cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout); err != nil {
		return Config{}, err
	}
	if cfg.AllowAnyOrigin, err = boolFromEnv("APP_ALLOW_ANY_ORIGIN", cfg.AllowAnyOrigin); err != nil {
		return Config{}, err
	}
	if cfg.MaxLength, err = intFromEnv("PACING_MAX_LENGTH", cfg.MaxLength); err != nil {
		return Config{}, err
	}
	if cfg.ForceSplitThreshold, err = intFromEnv("PACING_FORCE_SPLIT_THRESHOLD", cfg.ForceSplitThreshold); err != nil {
		return Config{}, err
	}
	if cfg.MinDelayMs, err = intFromEnv("PACING_MIN_DELAY_MS", cfg.MinDelayMs); err != nil {
		return Config{}, err
	}
	if cfg.MaxDelayMs, err = intFromEnv("PACING_MAX_DELAY_MS", cfg.MaxDelayMs); err != nil {
		return Config{}, err
	}
	if cfg.MaxParts, err = intFromEnv("PACING_MAX_PARTS", cfg.MaxParts); err != nil {
		return Config{}, err
	}
	if cfg.QuestionFrequency, err = intFromEnv("QUESTION_FREQUENCY", cfg.QuestionFrequency); err != nil {
		return Config{}, err
	}
	if cfg.DelaySeed, err = int64FromEnv("DELAY_SEED", cfg.DelaySeed); err != nil {
		return Config{}, err
	}
	if cfg.MaxWait, err = durationFromEnv("BUFFER_MAX_WAIT", cfg.MaxWait); err != nil {
		return Config{}, err
	}
	if cfg.ShortMessageThreshold, err = intFromEnv("BUFFER_SHORT_MESSAGE_THRESHOLD", cfg.ShortMessageThreshold); err != nil {
		return Config{}, err
	}
	if cfg.QuickSequenceThreshold, err = durationFromEnv("BUFFER_QUICK_SEQUENCE_THRESHOLD", cfg.QuickSequenceThreshold); err != nil {
		return Config{}, err
	}
	if cfg.SweepInterval, err = durationFromEnv("BUFFER_SWEEP_INTERVAL", cfg.SweepInterval); err != nil {
		return Config{}, err
	}
	if cfg.ConnectorTimeout, err = durationFromEnv("CONNECTOR_TIMEOUT", cfg.ConnectorTimeout); err != nil {
		return Config{}, err
	}

	if cfg.MinDelayMs < 0 || cfg.MaxDelayMs < 0 {
		return Config{}, fmt.Errorf("PACING_MIN_DELAY_MS and PACING_MAX_DELAY_MS must be non-negative")
	}
	if cfg.MinDelayMs > cfg.MaxDelayMs {
		return Config{}, fmt.Errorf("PACING_MIN_DELAY_MS must not exceed PACING_MAX_DELAY_MS")
	}
	if cfg.MaxParts < 1 {
		return Config{}, fmt.Errorf("PACING_MAX_PARTS must be at least 1")
	}
	if cfg.MaxLength <= 0 {
		return Config{}, fmt.Errorf("PACING_MAX_LENGTH must be positive")
	}
	if cfg.ForceSplitThreshold <= 0 {
		return Config{}, fmt.Errorf("PACING_FORCE_SPLIT_THRESHOLD must be positive")
	}
	if cfg.MaxWait <= 0 {
		return Config{}, fmt.Errorf("BUFFER_MAX_WAIT must be positive")
	}
	if cfg.ShortMessageThreshold <= 0 {
		return Config{}, fmt.Errorf("BUFFER_SHORT_MESSAGE_THRESHOLD must be positive")
	}
	if cfg.QuickSequenceThreshold <= 0 {
		return Config{}, fmt.Errorf("BUFFER_QUICK_SEQUENCE_THRESHOLD must be positive")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func trimmedEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := trimmedEnv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := trimmedEnv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func int64FromEnv(key string, fallback int64) (int64, error) {
	v := trimmedEnv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(trimmedEnv(key))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}
