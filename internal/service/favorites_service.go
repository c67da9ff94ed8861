package service

import (
	"context"

	"weather-cache/internal/models"
	"weather-cache/internal/store"
	"weather-cache/pkg/logging"
	"weather-cache/pkg/metrics"
)

// ToggleResult is the outcome of a favorite toggle. WarmErr is non-nil when
// the location was favorited but the cache warm failed; the flag still
// stands and callers surface the warning.
type ToggleResult struct {
	Location   *models.Location
	IsFavorite bool
	WarmErr    error
}

// FavoritesService owns the favorite flag lifecycle and the cache warm and
// eviction side effects that come with it.
type FavoritesService struct {
	locations    store.LocationStore
	temperatures *TemperatureService
	locks        *keyedMutex
	logger       *logging.StructuredLogger
	metrics      *metrics.Collector
}

// NewFavoritesService creates a new favorites service
func NewFavoritesService(locations store.LocationStore, temperatures *TemperatureService, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *FavoritesService {
	return &FavoritesService{
		locations:    locations,
		temperatures: temperatures,
		locks:        newKeyedMutex(),
		logger:       logger,
		metrics:      metricsCollector,
	}
}

// ToggleFavorite flips the favorite flag for the location and runs the
// associated cache side effect. Favoriting warms the cache with a live
// snapshot; a warm failure keeps the flag and is reported via WarmErr.
// Un-favoriting evicts the cached snapshot. Toggles for the same location
// are serialized; distinct locations proceed concurrently.
func (s *FavoritesService) ToggleFavorite(ctx context.Context, location *models.Location) (*ToggleResult, error) {
	unlock := s.locks.Lock(location.ID)
	defer unlock()

	nowFavorite, err := s.locations.ToggleFavorite(ctx, location.ID)
	if err != nil {
		if store.IsNotFound(err) {
			// Unknown ids are absorbed as a logged no-op.
			s.logger.Warn(ctx, "[FAVORITE_TOGGLE] Toggle requested for unknown location", logging.Fields{
				"location_id": location.ID,
			})
			return nil, err
		}
		s.logger.Error(ctx, "[FAVORITE_TOGGLE] Failed to persist favorite flag", logging.Fields{
			"location_id": location.ID,
		}, err)
		return nil, err
	}

	// The stored flag is authoritative; the in-memory copy follows it.
	location.IsFavorite = nowFavorite
	s.metrics.RecordFavoriteToggle(nowFavorite)

	result := &ToggleResult{
		Location:   location,
		IsFavorite: nowFavorite,
	}

	if nowFavorite {
		result.WarmErr = s.warmCache(ctx, location)
		return result, nil
	}

	if err := s.temperatures.RemoveTemperatureData(ctx, location.ID); err != nil {
		// Eviction failures are logged and absorbed; a stale snapshot is
		// harmless and the sync job never re-warms non-favorites.
		s.logger.Error(ctx, "[FAVORITE_TOGGLE] Failed to evict cached snapshot", logging.Fields{
			"location_id": location.ID,
		}, err)
	}

	return result, nil
}

// warmCache fetches a live snapshot and persists it for offline use
func (s *FavoritesService) warmCache(ctx context.Context, location *models.Location) error {
	info, err := s.temperatures.LoadWeatherInformation(ctx, location)
	if err != nil {
		s.metrics.RecordCacheWarm("fetch_failed")
		s.logger.Warn(ctx, "[FAVORITE_TOGGLE] Cache warm fetch failed, favorite flag kept", logging.Fields{
			"location_id": location.ID,
		})
		return err
	}

	if err := s.temperatures.SaveTemperatureData(ctx, location.ID, info); err != nil {
		s.metrics.RecordCacheWarm("save_failed")
		s.logger.Error(ctx, "[FAVORITE_TOGGLE] Cache warm save failed, favorite flag kept", logging.Fields{
			"location_id": location.ID,
		}, err)
		return err
	}

	s.metrics.RecordCacheWarm("success")
	s.logger.Info(ctx, "[FAVORITE_TOGGLE] Cache warmed for favorite", logging.Fields{
		"location_id": location.ID,
	})

	return nil
}
