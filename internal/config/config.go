package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all settings for the CLI and the daemon, populated from
// environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// MetaWeather upstream.
	BaseURL             string
	UpstreamTimeout     time.Duration
	MaxLocations        int
	ForecastConcurrency int
	UpstreamRateLimit   float64
	UpstreamBurst       int

	// Report sink.
	KafkaBrokers     []string
	KafkaReportTopic string
	ReportsEnabled   bool
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	upstreamTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("METAWEATHER_TIMEOUT", "10s"))
	if err != nil || upstreamTimeout <= 0 {
		return nil, errors.New("invalid METAWEATHER_TIMEOUT")
	}

	maxLocations, err := parsePositiveInt("MAX_LOCATIONS", 5)
	if err != nil {
		return nil, err
	}
	concurrency, err := parsePositiveInt("FORECAST_CONCURRENCY", 1)
	if err != nil {
		return nil, err
	}
	burst, err := parsePositiveInt("UPSTREAM_BURST", 5)
	if err != nil {
		return nil, err
	}

	rateLimit, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("UPSTREAM_RATE_LIMIT", "5"), 64)
	if err != nil || rateLimit <= 0 {
		return nil, errors.New("invalid UPSTREAM_RATE_LIMIT")
	}

	var brokers []string
	if s := os.Getenv("KAFKA_BROKERS"); s != "" {
		brokers = sharedcfg.ParseBrokers(s)
	}
	reportsEnabled := len(brokers) > 0
	if v := os.Getenv("REPORTS_ENABLED"); v != "" {
		reportsEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "text"),
		ShutdownTimeout: shutdownTimeout,

		BaseURL:             sharedcfg.EnvOrDefault("METAWEATHER_BASE_URL", "https://www.metaweather.com/api"),
		UpstreamTimeout:     upstreamTimeout,
		MaxLocations:        maxLocations,
		ForecastConcurrency: concurrency,
		UpstreamRateLimit:   rateLimit,
		UpstreamBurst:       burst,

		KafkaBrokers:     brokers,
		KafkaReportTopic: sharedcfg.EnvOrDefault("KAFKA_REPORT_TOPIC", "rain-reports"),
		ReportsEnabled:   reportsEnabled,
	}

	if cfg.BaseURL == "" {
		return nil, errors.New("METAWEATHER_BASE_URL is required")
	}
	if cfg.ReportsEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("REPORTS_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.ReportsEnabled && cfg.KafkaReportTopic == "" {
		return nil, errors.New("KAFKA_REPORT_TOPIC is required")
	}

	return cfg, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return n, nil
}
