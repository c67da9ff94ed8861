package service

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"

	"weather-cache/internal/store"
	"weather-cache/pkg/logging"
	"weather-cache/pkg/metrics"
)

// SyncService periodically re-warms favorites whose cached snapshot is
// missing, typically because the warm at toggle time failed while offline.
type SyncService struct {
	locations    store.LocationStore
	temperatures *TemperatureService
	scheduler    *gocron.Scheduler
	interval     time.Duration
	logger       *logging.StructuredLogger
	metrics      *metrics.Collector
}

// NewSyncService creates a new favorite snapshot sync service
func NewSyncService(locations store.LocationStore, temperatures *TemperatureService, interval time.Duration, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *SyncService {
	return &SyncService{
		locations:    locations,
		temperatures: temperatures,
		scheduler:    gocron.NewScheduler(time.UTC),
		interval:     interval,
		logger:       logger,
		metrics:      metricsCollector,
	}
}

// Start schedules the sync job and begins running it asynchronously
func (s *SyncService) Start() error {
	_, err := s.scheduler.Every(s.interval).Do(func() {
		s.Run(context.Background())
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.logger.Info(context.Background(), "[SYNC] Favorite snapshot sync started", logging.Fields{
		"interval": s.interval.String(),
	})

	return nil
}

// Stop halts the scheduler and waits for a running job to finish
func (s *SyncService) Stop() {
	s.scheduler.Stop()
}

// Run performs one sync pass: every favorite without a complete cached
// snapshot gets a fresh fetch-and-save attempt. Failures are logged and
// retried on the next pass.
func (s *SyncService) Run(ctx context.Context) {
	s.metrics.SyncRunsTotal.Inc()

	locations, err := s.locations.GetAll(ctx)
	if err != nil {
		s.logger.Error(ctx, "[SYNC] Failed to list locations", logging.Fields{}, err)
		return
	}

	for _, loc := range locations {
		if !loc.IsFavorite {
			continue
		}

		cached, err := s.temperatures.HasCachedSnapshot(ctx, loc.ID)
		if err != nil {
			s.logger.Error(ctx, "[SYNC] Failed to check cached snapshot", logging.Fields{
				"location_id": loc.ID,
			}, err)
			continue
		}
		if cached {
			continue
		}

		info, err := s.temperatures.LoadWeatherInformation(ctx, loc)
		if err != nil {
			s.logger.Warn(ctx, "[SYNC] Re-warm fetch failed, will retry next pass", logging.Fields{
				"location_id": loc.ID,
			})
			continue
		}

		if err := s.temperatures.SaveTemperatureData(ctx, loc.ID, info); err != nil {
			s.logger.Error(ctx, "[SYNC] Re-warm save failed", logging.Fields{
				"location_id": loc.ID,
			}, err)
			continue
		}

		s.metrics.SyncRewarmedTotal.Inc()
		s.logger.Info(ctx, "[SYNC] Re-warmed favorite snapshot", logging.Fields{
			"location_id": loc.ID,
		})
	}
}
