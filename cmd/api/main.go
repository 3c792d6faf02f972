// Package main provides the entrypoint for the NTPC open-data tool service.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/ntpc-opendata/ntpc-opendata/internal/api"
	"github.com/ntpc-opendata/ntpc-opendata/internal/api/middleware"
	"github.com/ntpc-opendata/ntpc-opendata/internal/config"
	"github.com/ntpc-opendata/ntpc-opendata/internal/logging"
	"github.com/ntpc-opendata/ntpc-opendata/internal/opendata"
	"github.com/ntpc-opendata/ntpc-opendata/internal/provider/resilience"
	"github.com/ntpc-opendata/ntpc-opendata/internal/telemetry"
	"github.com/ntpc-opendata/ntpc-opendata/internal/tools"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "ntpc-tools"

	cfg, err := config.Load("")
	if err != nil {
		bootLog := logging.New(logging.Options{Service: serviceName})
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logging.New(logging.Options{
		Level:   cfg.Log.Level,
		Service: serviceName,
		Version: Version,
	})

	log.Info().
		Str("build_time", BuildTime).
		Str("env", cfg.App.Env).
		Msg("starting NTPC tool service")

	// Initialize OpenTelemetry
	ctx := context.Background()
	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.App.Env,
		OTLPEndpoint:   cfg.Telemetry.Endpoint,
		Enabled:        cfg.Telemetry.Enabled,
		SampleRatio:    cfg.Telemetry.SampleRatio,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if cfg.Telemetry.Enabled {
		log.Info().
			Str("otlp_endpoint", cfg.Telemetry.Endpoint).
			Float64("sample_ratio", cfg.Telemetry.SampleRatio).
			Msg("OpenTelemetry initialized")
	}

	httpMetrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize HTTP metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	upstreamMetrics, err := telemetry.NewUpstreamMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize upstream metrics")
		os.Exit(1)
	}

	health := resilience.NewRegistry()
	client := opendata.NewClient(opendata.ClientConfig{
		BaseURL:   cfg.OpenData.BaseURL,
		APIKey:    cfg.OpenData.APIKey,
		Timeout:   cfg.OpenData.Timeout,
		Retries:   cfg.OpenData.Retries,
		Resources: cfg.OpenData.Resources,
		Registry:  health,
		Metrics:   upstreamMetrics,
		Logger:    log,
	})
	log.Info().
		Str("base_url", cfg.OpenData.BaseURL).
		Dur("timeout", cfg.OpenData.Timeout).
		Uint64("retries", cfg.OpenData.Retries).
		Bool("api_key", cfg.OpenData.APIKey != "").
		Msg("open-data client initialized")

	registry := tools.NewRegistry(tools.NewServices(client, log), log)
	log.Info().Int("tools", len(registry.List())).Msg("tool registry initialized")

	router := api.NewRouter(api.RouterConfig{
		Version:    Version,
		BuildTime:  BuildTime,
		Logger:     log,
		Metrics:    httpMetrics,
		Tools:      registry,
		Health:     health,
		RequireTLS: cfg.App.RequireTLS,
	})

	// Upstream calls can take up to the client timeout, so the write deadline
	// leaves room for one full round trip.
	server := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.App.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.OpenData.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
