package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"venuedesk/internal/api"
	"venuedesk/internal/config"
	"venuedesk/internal/events"
	"venuedesk/internal/logging"
	"venuedesk/internal/metrics"
	"venuedesk/internal/reporting"
	"venuedesk/internal/service"
	"venuedesk/internal/storage"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}

	store, cleanup, err := initStore(cfg, &logger)
	if err != nil {
		return err
	}
	if cleanup != nil {
		defer cleanup()
	}

	bus := events.NewBus()
	notificationService := service.NewNotificationService(store, &logger)
	notificationService.Subscribe(bus)
	bookingService := service.NewBookingService(store, bus, &logger)
	reporter := reporting.NewReporter(bookingService, &logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.SeedDemo {
		if err := bookingService.SeedDemoData(ctx); err != nil {
			logger.Warn().Err(err).Msg("demo data seeding failed, continuing")
		}
	}

	httpServer := api.NewHTTPServer(
		cfg.API,
		bookingService,
		notificationService,
		reporter,
		cfg.Catalog,
		cfg.Exports.Path,
		&logger,
	)

	startMetrics(ctx, cfg, &logger)

	return serve(ctx, httpServer, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, logger, closer, nil
}

// initStore builds the configured Store. The redis backend is wrapped in a
// failover over memory so a redis outage degrades instead of failing.
func initStore(cfg *config.Config, logger *zerolog.Logger) (storage.Store, func(), error) {
	switch cfg.Storage.Backend {
	case "redis":
		client := storage.NewRedisClient(cfg.Storage.Redis)
		if err := storage.Ping(context.Background(), client); err != nil {
			logger.Warn().Err(err).Msg("redis unreachable at startup, failover will cover it")
		} else {
			logger.Info().Str("addr", cfg.Storage.Redis.Address).Msg("redis connected")
		}
		primary := storage.NewRedisStore(client)
		store := storage.NewFailoverStore(primary, storage.NewMemoryStore(), logger)
		return store, func() { _ = client.Close() }, nil
	case "sqlite":
		store, err := storage.NewSQLiteStore(cfg.Storage.SQLite.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("init sqlite store: %w", err)
		}
		logger.Info().Str("path", cfg.Storage.SQLite.Path).Msg("sqlite store opened")
		return store, func() { _ = store.Close() }, nil
	case "memory":
		logger.Warn().Msg("memory storage backend: data is lost on restart")
		return storage.NewMemoryStore(), nil, nil
	case "none":
		logger.Warn().Msg("storage disabled: bookings and notifications are not persisted")
		return storage.NewNoopStore(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func serve(ctx context.Context, httpServer *api.HTTPServer, logger *zerolog.Logger) error {
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http server shutdown")
	}

	logger.Info().Msg("server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
