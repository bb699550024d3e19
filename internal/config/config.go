package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"speedtest-monitor/internal/logging"
)

// Config holds every operator-supplied setting. All values come from the
// process environment, with an optional .env file loaded first.
type Config struct {
	DBHost     string `env:"DB_HOST" env-default:"postgres"`
	DBPort     string `env:"DB_PORT" env-default:"5432"`
	DBName     string `env:"DB_NAME" env-default:"speedtest"`
	DBUser     string `env:"DB_USER" env-default:"speedtest_user"`
	DBPassword string `env:"DB_PASSWORD"`

	// TestIntervalMinutes is the cadence between measurement cycles.
	TestIntervalMinutes int `env:"TEST_INTERVAL" env-default:"30"`

	// MetricsPort exposes /metrics; empty disables the endpoint.
	MetricsPort string `env:"METRICS_PORT" env-default:"2112"`
}

// Load reads configuration from the environment. It fails fast on a missing
// required setting so the process never half-starts.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}

	if cfg.DBPassword == "" {
		return Config{}, fmt.Errorf("missing required environment variable: DB_PASSWORD")
	}
	if cfg.TestIntervalMinutes <= 0 {
		return Config{}, fmt.Errorf("TEST_INTERVAL must be a positive number of minutes, got %d", cfg.TestIntervalMinutes)
	}

	return cfg, nil
}

// Interval returns the configured cadence as a duration.
func (c Config) Interval() time.Duration {
	return time.Duration(c.TestIntervalMinutes) * time.Minute
}

// Log prints the effective configuration with the password redacted.
func (c Config) Log(logger *logging.Logger) {
	logger.Infof("DB_HOST=%s", c.DBHost)
	logger.Infof("DB_PORT=%s", c.DBPort)
	logger.Infof("DB_NAME=%s", c.DBName)
	logger.Infof("DB_USER=%s", c.DBUser)
	logger.Infof("DB_PASSWORD set (redacted)")
	logger.Infof("TEST_INTERVAL=%d minutes", c.TestIntervalMinutes)
	if c.MetricsPort != "" {
		logger.Infof("METRICS_PORT=%s", c.MetricsPort)
	} else {
		logger.Infof("METRICS_PORT not set, metrics endpoint disabled")
	}
}
