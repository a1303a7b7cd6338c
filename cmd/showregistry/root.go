package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Belphemur/ShowRegistry/internal/api"
	"github.com/Belphemur/ShowRegistry/internal/cache"
	"github.com/Belphemur/ShowRegistry/internal/config"
	"github.com/Belphemur/ShowRegistry/internal/metrics"
	"github.com/Belphemur/ShowRegistry/internal/registry"
	"github.com/Belphemur/ShowRegistry/internal/services"
	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const shutdownTimeout = 10 * time.Second

func newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:          "showregistry",
		Short:        "HTTP registry of TV show names",
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cfgFile)
		},
	}

	cmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ./config.yaml)")
	cmd.Flags().IntP("port", "p", 3000, "port to listen on")
	cmd.Flags().String("public-dir", "public", "directory of static assets")

	// Bind flags to viper
	_ = viper.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("public_dir", cmd.Flags().Lookup("public-dir"))

	return cmd
}

func run(ctx context.Context, cfgFile string) error {
	cfg, err := config.Reload(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := config.GetLogger()

	logger.Info().
		Int("server_port", cfg.Server.Port).
		Str("server_address", cfg.Server.Address).
		Str("public_dir", cfg.PublicDir).
		Str("cache_provider", cfg.Cache.Provider).
		Bool("strict_input", cfg.Registry.StrictInput).
		Msg("Application started with configuration")

	sentryEnabled := cfg.Sentry.DSN != ""
	if sentryEnabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			Release:     version,
		}); err != nil {
			return fmt.Errorf("initializing sentry: %w", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	snapshots, err := cache.New(cfg.Cache.Provider, cache.ProviderConfig{
		Size:      cfg.Cache.Size,
		TTL:       cfg.CacheTTL(),
		Logger:    cache.NewZerologLogger(logger),
		KeyPrefix: uuid.NewString() + ":",
		Group:     "shows",
		Redis: cache.RedisConfig{
			Address:        cfg.Cache.Redis.Address,
			Password:       cfg.Cache.Redis.Password,
			DB:             cfg.Cache.Redis.DB,
			ConnectRetries: cfg.Cache.Redis.ConnectRetries,
		},
	})
	if err != nil {
		return fmt.Errorf("creating %s cache: %w", cfg.Cache.Provider, err)
	}

	shows := services.NewShowService(registry.NewFromStrings(cfg.Registry.Seed), services.ShowServiceOptions{
		StrictInput:   cfg.Registry.StrictInput,
		MaxShowLength: cfg.Registry.MaxShowLength,
		Cache:         snapshots,
	})
	defer func() {
		if err := shows.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close show service")
		}
	}()

	handler := api.NewRouter(shows, api.Options{
		PublicDir:   cfg.PublicDir,
		Compression: cfg.Server.Compression,
		Sentry:      sentryEnabled,
		Logger:      logger,
	})
	server := api.NewHTTPServer(cfg.Server.Address, cfg.Server.Port, handler)

	// Start Prometheus metrics HTTP server
	if cfg.Metrics.Enabled {
		metricsServer := metrics.NewHTTPServer(cfg.Server.Address, cfg.Metrics.Port)
		go func() {
			logger.Info().Str("address", metricsServer.Addr).Msg("Starting Prometheus metrics HTTP server")
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("Failed to serve metrics")
			}
		}()
		defer func() {
			if err := metricsServer.Shutdown(context.Background()); err != nil {
				logger.Error().Err(err).Msg("Failed to shutdown metrics server")
			}
		}()
	}

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info().Msgf("App listening at http://localhost:%d", cfg.Server.Port)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving http: %w", err)
		}
	case <-ctx.Done():
		logger.Info().Msg("Received shutdown signal")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down http server: %w", err)
		}
	}

	logger.Info().Msg("Server stopped gracefully")
	return nil
}
