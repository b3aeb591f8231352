package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/will-it-rain/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/will-it-rain/internal/adapter/kafka"
	"github.com/couchcryptid/will-it-rain/internal/adapter/metaweather"
	"github.com/couchcryptid/will-it-rain/internal/config"
	"github.com/couchcryptid/will-it-rain/internal/observability"
	"github.com/couchcryptid/will-it-rain/internal/pipeline"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	client := metaweather.NewClient(cfg.BaseURL, cfg.UpstreamTimeout, metrics, logger)
	service := metaweather.NewRateLimitedService(client, cfg.UpstreamRateLimit, cfg.UpstreamBurst, metrics)
	logger.Info("metaweather client configured",
		"base_url", cfg.BaseURL,
		"timeout", cfg.UpstreamTimeout,
		"rate_limit", cfg.UpstreamRateLimit,
		"burst", cfg.UpstreamBurst,
	)

	// Report publishing is feature-flagged via REPORTS_ENABLED / KAFKA_BROKERS.
	var sink pipeline.ReportSink
	var writer *kafkaadapter.Writer
	if cfg.ReportsEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		sink = writer
		metrics.ReportsEnabled.Set(1)
		logger.Info("report publishing enabled", "topic", cfg.KafkaReportTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("report publishing disabled")
	}

	checker := pipeline.New(service, sink, logger, metrics, cfg.ForecastConcurrency)
	srv := httpadapter.NewServer(cfg.HTTPAddr, checker, checker, cfg.MaxLocations, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
