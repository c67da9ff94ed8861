package service

import (
	"context"
	"fmt"

	"weather-cache/internal/gateway"
	"weather-cache/internal/models"
	"weather-cache/internal/store"
	"weather-cache/pkg/logging"
	"weather-cache/pkg/metrics"
)

// TemperatureService orchestrates the fetch-first, cache-fallback read path
// and owns conversion between upstream payloads, view models, and cached
// records.
type TemperatureService struct {
	gateway gateway.Gateway
	cache   store.TemperatureCache
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewTemperatureService creates a new temperature service
func NewTemperatureService(gw gateway.Gateway, cache store.TemperatureCache, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *TemperatureService {
	return &TemperatureService{
		gateway: gw,
		cache:   cache,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// LoadWeatherInformation returns display-ready weather for the location.
// The live fetch always runs first. The cache is consulted only when the
// fetch failed because the network was unreachable; on a cache miss the
// original fetch error is returned, not a cache error.
func (s *TemperatureService) LoadWeatherInformation(ctx context.Context, location *models.Location) (*models.TemperatureInfo, error) {
	payload, fetchErr := s.gateway.Fetch(ctx, location.Coordinates)
	if fetchErr == nil {
		return convertPayload(payload), nil
	}

	if !gateway.IsNetworkUnavailable(fetchErr) {
		return nil, fetchErr
	}

	current, forecasts, err := s.cache.GetBoth(ctx, location.ID)
	if err != nil {
		// A broken cache must not mask the real failure. Log it and treat
		// the read as a miss.
		s.logger.Error(ctx, "[CACHE_FALLBACK] Cache read failed during offline fallback", logging.Fields{
			"location_id": location.ID,
		}, err)
		s.metrics.RecordFallback("error")
		return nil, fetchErr
	}

	if current == nil {
		s.metrics.RecordCacheRead("miss")
		s.metrics.RecordFallback("miss")
		s.logger.Info(ctx, "[CACHE_FALLBACK] No cached snapshot for offline location", logging.Fields{
			"location_id": location.ID,
		})
		return nil, fetchErr
	}

	s.metrics.RecordCacheRead("hit")
	s.metrics.RecordFallback("hit")
	s.logger.Info(ctx, "[CACHE_FALLBACK] Serving cached snapshot while offline", logging.Fields{
		"location_id":    location.ID,
		"forecast_count": len(forecasts),
	})

	return infoFromRecords(current, forecasts), nil
}

// SaveTemperatureData persists the weather bundle as the cached snapshot
// for the location. The underlying save is insert-if-absent, so an existing
// snapshot survives untouched.
func (s *TemperatureService) SaveTemperatureData(ctx context.Context, locationID string, info *models.TemperatureInfo) error {
	currentRec := info.Current.Record(locationID)

	forecastRecs := make([]*models.ForecastRecord, 0, len(info.Forecasts))
	for i, vm := range info.Forecasts {
		forecastRecs = append(forecastRecs, vm.Record(locationID, i))
	}

	if err := s.cache.Save(ctx, locationID, currentRec, forecastRecs); err != nil {
		return fmt.Errorf("failed to save temperature snapshot: %w", err)
	}

	return nil
}

// RemoveTemperatureData evicts the cached snapshot for the location
func (s *TemperatureService) RemoveTemperatureData(ctx context.Context, locationID string) error {
	if err := s.cache.Delete(ctx, locationID); err != nil {
		return fmt.Errorf("failed to remove temperature snapshot: %w", err)
	}

	s.metrics.CacheEvictionsTotal.Inc()
	return nil
}

// HasCachedSnapshot reports whether a complete snapshot exists for the location
func (s *TemperatureService) HasCachedSnapshot(ctx context.Context, locationID string) (bool, error) {
	current, _, err := s.cache.GetBoth(ctx, locationID)
	if err != nil {
		return false, err
	}
	return current != nil, nil
}

// convertPayload turns a live upstream payload into display-ready view
// models. Label prefixes are applied here, at conversion time, and nowhere
// else: cached records already carry prefixed labels.
func convertPayload(payload *gateway.WeatherPayload) *models.TemperatureInfo {
	info := &models.TemperatureInfo{
		Current: models.CurrentTemperatureViewModel{
			TemperatureCelsius:    payload.Current.TemperatureCelsius,
			TemperatureFahrenheit: payload.Current.TemperatureFahrenheit,
			LastUpdatedLabel:      fmt.Sprintf("Last Updated : %s", payload.Current.LastUpdatedLabel),
			Unit:                  models.UnitCelsius,
		},
	}

	for _, day := range payload.Forecasts {
		info.Forecasts = append(info.Forecasts, models.ForecastTemperatureViewModel{
			MinTemperatureCelsius:    day.MinTemperatureCelsius,
			MaxTemperatureCelsius:    day.MaxTemperatureCelsius,
			AvgTemperatureCelsius:    day.AvgTemperatureCelsius,
			MinTemperatureFahrenheit: day.MinTemperatureFahrenheit,
			MaxTemperatureFahrenheit: day.MaxTemperatureFahrenheit,
			AvgTemperatureFahrenheit: day.AvgTemperatureFahrenheit,
			DateLabel:                fmt.Sprintf("Forecast for: %s", day.DateLabel),
			Unit:                     models.UnitCelsius,
		})
	}

	return info
}

// infoFromRecords reconstitutes view models from cached records. Stored
// labels are used verbatim.
func infoFromRecords(current *models.CurrentTemperatureRecord, forecasts []*models.ForecastRecord) *models.TemperatureInfo {
	info := &models.TemperatureInfo{
		Current: models.CurrentTemperatureFromRecord(current),
	}

	for _, rec := range forecasts {
		info.Forecasts = append(info.Forecasts, models.ForecastTemperatureFromRecord(rec))
	}

	return info
}
