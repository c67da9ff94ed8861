package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"weather-cache/internal/config"
	"weather-cache/internal/gateway"
	"weather-cache/internal/handlers"
	"weather-cache/internal/service"
	"weather-cache/internal/store"
	"weather-cache/pkg/database"
	"weather-cache/pkg/logging"
	"weather-cache/pkg/metrics"
)

const (
	serviceName    = "weather-cache"
	serviceVersion = "1.0.0"
)

func main() {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewStructuredLogger(serviceName, serviceVersion, cfg.Logging.Level)
	ctx := context.Background()

	logger.Info(ctx, "[STARTUP] Starting weather cache service", logging.Fields{
		"version": serviceVersion,
		"driver":  cfg.Database.Driver,
	})

	collector := metrics.NewCollector("weather_cache", prometheus.DefaultRegisterer)

	locations, cache, closeStore, err := buildStores(cfg, logger, collector)
	if err != nil {
		logger.Fatal(ctx, "[STARTUP] Failed to initialize storage", logging.Fields{
			"driver": cfg.Database.Driver,
		}, err)
	}
	defer closeStore()

	weatherClient := gateway.NewClient(cfg.Weather, logger, collector)

	temperatureService := service.NewTemperatureService(weatherClient, cache, logger, collector)
	favoritesService := service.NewFavoritesService(locations, temperatureService, logger, collector)
	seedService := service.NewSeedService(locations, service.NewFileSeedSource(cfg.Seed.File), logger, collector)

	// Seed eagerly so the first request never pays the import cost.
	if _, err := seedService.LoadLocations(ctx); err != nil {
		logger.Warn(ctx, "[STARTUP] Initial location load failed, will retry on request", logging.Fields{
			"seed_file": cfg.Seed.File,
		})
	}

	var syncService *service.SyncService
	if cfg.Sync.Enabled {
		syncService = service.NewSyncService(locations, temperatureService, cfg.Sync.Interval, logger, collector)
		if err := syncService.Start(); err != nil {
			logger.Error(ctx, "[STARTUP] Failed to start snapshot sync", logging.Fields{}, err)
		}
	}

	router := mux.NewRouter()
	router.Use(handlers.RequestIDMiddleware)
	router.Use(handlers.LoggingMiddleware(logger))
	router.Use(handlers.MetricsMiddleware(collector))

	weatherHandlers := handlers.NewWeatherHandlers(locations, seedService, temperatureService, favoritesService, logger, collector)
	weatherHandlers.RegisterRoutes(router)

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info(ctx, "[STARTUP] HTTP server listening", logging.Fields{
			"addr": server.Addr,
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal(ctx, "[SERVER] HTTP server failed", logging.Fields{}, err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info(ctx, "[SHUTDOWN] Shutting down", logging.Fields{})

	if syncService != nil {
		syncService.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "[SHUTDOWN] Forced shutdown", logging.Fields{}, err)
	}

	logger.Info(ctx, "[SHUTDOWN] Server stopped", logging.Fields{})
}

// buildStores wires the configured storage driver. The returned closer is a
// no-op for the in-memory driver.
func buildStores(cfg *config.Config, logger *logging.StructuredLogger, collector *metrics.Collector) (store.LocationStore, store.TemperatureCache, func(), error) {
	if cfg.Database.Driver == "memory" {
		return store.NewMemoryLocationStore(), store.NewMemoryTemperatureCache(), func() {}, nil
	}

	db, err := database.NewPostgresDB(&database.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	}, logger, collector)
	if err != nil {
		return nil, nil, nil, err
	}

	return store.NewPostgresLocationStore(db, logger, collector),
		store.NewPostgresTemperatureCache(db, logger, collector),
		func() { db.Close() },
		nil
}
