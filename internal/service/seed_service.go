package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"

	"weather-cache/internal/models"
	"weather-cache/internal/store"
	"weather-cache/pkg/logging"
	"weather-cache/pkg/metrics"
)

// SeedSource provides the bootstrap location document consumed when the
// store is empty.
type SeedSource interface {
	Load(ctx context.Context) (*models.SeedDocument, error)
}

// FileSeedSource reads the seed document from a JSON file
type FileSeedSource struct {
	path string
}

// NewFileSeedSource creates a seed source backed by the given file path
func NewFileSeedSource(path string) *FileSeedSource {
	return &FileSeedSource{path: path}
}

// Load reads and decodes the seed document
func (f *FileSeedSource) Load(ctx context.Context) (*models.SeedDocument, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var doc models.SeedDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode seed file: %w", err)
	}

	return &doc, nil
}

// SeedService answers the location list, seeding the store from the
// bootstrap source on first use.
type SeedService struct {
	locations store.LocationStore
	source    SeedSource
	validate  *validator.Validate
	logger    *logging.StructuredLogger
	metrics   *metrics.Collector
}

// NewSeedService creates a new seed service
func NewSeedService(locations store.LocationStore, source SeedSource, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *SeedService {
	return &SeedService{
		locations: locations,
		source:    source,
		validate:  validator.New(),
		logger:    logger,
		metrics:   metricsCollector,
	}
}

// LoadLocations returns all known locations. When the store already holds
// records they win outright and the seed source is never consulted, which
// preserves favorite flags across restarts. An empty store triggers a
// one-time import from the seed source.
func (s *SeedService) LoadLocations(ctx context.Context) ([]*models.Location, error) {
	existing, err := s.locations.GetAll(ctx)
	if err != nil {
		// A failed read is treated like an empty store so the caller still
		// gets a usable list from the seed source.
		s.logger.Error(ctx, "[SEED] Failed to read location store, falling back to seed source", logging.Fields{}, err)
		existing = nil
	}

	if len(existing) > 0 {
		return existing, nil
	}

	doc, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load seed document: %w", err)
	}

	locations := s.buildLocations(ctx, doc)

	if err := s.locations.Seed(ctx, locations); err != nil {
		// The seed write failing does not block serving the list; the next
		// empty read will retry the import.
		s.logger.Error(ctx, "[SEED] Failed to persist seeded locations", logging.Fields{
			"count": len(locations),
		}, err)
	}

	return locations, nil
}

// buildLocations validates seed entries and converts the valid ones.
// Invalid records are skipped with a logged reason.
func (s *SeedService) buildLocations(ctx context.Context, doc *models.SeedDocument) []*models.Location {
	locations := make([]*models.Location, 0, len(doc.Locations))

	for _, entry := range doc.Locations {
		if err := s.validate.Struct(entry); err != nil {
			s.metrics.SeedRecordsSkipped.Inc()
			s.logger.Warn(ctx, "[SEED] Skipping invalid seed record", logging.Fields{
				"location_id": entry.ID,
				"name":        entry.Name,
				"reason":      err.Error(),
			})
			continue
		}

		locations = append(locations, entry.Location())
		s.metrics.SeedRecordsTotal.Inc()
	}

	s.logger.Info(ctx, "[SEED] Seed document processed", logging.Fields{
		"list_id":  doc.ListID,
		"imported": len(locations),
		"total":    len(doc.Locations),
	})

	return locations
}
