package store

import (
	"context"
	"sort"
	"sync"

	"weather-cache/internal/models"
)

// MemoryLocationStore is a concurrency-safe in-memory LocationStore.
// It backs tests and the "memory" database driver; semantics match the
// SQL store exactly.
type MemoryLocationStore struct {
	mu        sync.RWMutex
	locations map[string]*models.Location
}

// NewMemoryLocationStore creates an empty in-memory location store
func NewMemoryLocationStore() *MemoryLocationStore {
	return &MemoryLocationStore{
		locations: make(map[string]*models.Location),
	}
}

// GetAll returns all locations ordered by id ascending
func (s *MemoryLocationStore) GetAll(ctx context.Context) ([]*models.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	locations := make([]*models.Location, 0, len(s.locations))
	for _, loc := range s.locations {
		clone := *loc
		locations = append(locations, &clone)
	}

	sort.Slice(locations, func(i, j int) bool {
		return locations[i].ID < locations[j].ID
	})

	return locations, nil
}

// Get returns the location with the given id
func (s *MemoryLocationStore) Get(ctx context.Context, id string) (*models.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	loc, ok := s.locations[id]
	if !ok {
		return nil, &NotFoundError{Resource: "location", ID: id}
	}

	clone := *loc
	return &clone, nil
}

// Seed bulk-inserts the given locations, leaving existing ids untouched
func (s *MemoryLocationStore) Seed(ctx context.Context, locations []*models.Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, loc := range locations {
		if _, exists := s.locations[loc.ID]; exists {
			continue
		}
		clone := *loc
		s.locations[loc.ID] = &clone
	}

	return nil
}

// ToggleFavorite flips the favorite flag and returns the new value
func (s *MemoryLocationStore) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loc, ok := s.locations[id]
	if !ok {
		return false, &NotFoundError{Resource: "location", ID: id}
	}

	loc.IsFavorite = !loc.IsFavorite
	return loc.IsFavorite, nil
}

// HealthCheck always succeeds for the in-memory store
func (s *MemoryLocationStore) HealthCheck(ctx context.Context) error {
	return nil
}

// MemoryTemperatureCache is a concurrency-safe in-memory TemperatureCache
type MemoryTemperatureCache struct {
	mu        sync.RWMutex
	current   map[string]*models.CurrentTemperatureRecord
	forecasts map[string][]*models.ForecastRecord
}

// NewMemoryTemperatureCache creates an empty in-memory temperature cache
func NewMemoryTemperatureCache() *MemoryTemperatureCache {
	return &MemoryTemperatureCache{
		current:   make(map[string]*models.CurrentTemperatureRecord),
		forecasts: make(map[string][]*models.ForecastRecord),
	}
}

// GetCurrent returns the current-temperature record for the location, or nil
func (c *MemoryTemperatureCache) GetCurrent(ctx context.Context, locationID string) (*models.CurrentTemperatureRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rec, ok := c.current[locationID]
	if !ok {
		return nil, nil
	}

	clone := *rec
	return &clone, nil
}

// GetForecast returns the forecast records ordered by sequence ascending
func (c *MemoryTemperatureCache) GetForecast(ctx context.Context, locationID string) ([]*models.ForecastRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stored, ok := c.forecasts[locationID]
	if !ok {
		return nil, nil
	}

	records := make([]*models.ForecastRecord, 0, len(stored))
	for _, rec := range stored {
		clone := *rec
		records = append(records, &clone)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Sequence < records[j].Sequence
	})

	return records, nil
}

// GetBoth returns current and forecast records only when both halves exist
func (c *MemoryTemperatureCache) GetBoth(ctx context.Context, locationID string) (*models.CurrentTemperatureRecord, []*models.ForecastRecord, error) {
	current, err := c.GetCurrent(ctx, locationID)
	if err != nil {
		return nil, nil, err
	}

	forecasts, err := c.GetForecast(ctx, locationID)
	if err != nil {
		return nil, nil, err
	}

	if current == nil || len(forecasts) == 0 {
		return nil, nil, nil
	}

	return current, forecasts, nil
}

// Save stores current and forecast records, each half insert-if-absent
func (c *MemoryTemperatureCache) Save(ctx context.Context, locationID string, current *models.CurrentTemperatureRecord, forecasts []*models.ForecastRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if current != nil {
		if _, exists := c.current[locationID]; !exists {
			clone := *current
			c.current[locationID] = &clone
		}
	}

	if _, exists := c.forecasts[locationID]; !exists && len(forecasts) > 0 {
		stored := make([]*models.ForecastRecord, 0, len(forecasts))
		for _, rec := range forecasts {
			clone := *rec
			stored = append(stored, &clone)
		}
		c.forecasts[locationID] = stored
	}

	return nil
}

// Delete removes both current and forecast records for the location
func (c *MemoryTemperatureCache) Delete(ctx context.Context, locationID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.current, locationID)
	delete(c.forecasts, locationID)

	return nil
}
