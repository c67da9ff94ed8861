package store

import (
	"context"
	"errors"
	"fmt"

	"weather-cache/internal/models"
)

// LocationStore owns the durable set of known locations. The stored
// favorite flag is the single source of truth; in-memory copies are
// derived from it.
type LocationStore interface {
	// GetAll returns all cached locations ordered by id ascending. An empty
	// slice means the caller should fall back to the seed source.
	GetAll(ctx context.Context) ([]*models.Location, error)

	// Get returns the location with the given id, or a NotFoundError.
	Get(ctx context.Context, id string) (*models.Location, error)

	// Seed bulk-inserts freshly constructed locations. Callers must only
	// invoke this when GetAll returned empty.
	Seed(ctx context.Context, locations []*models.Location) error

	// ToggleFavorite flips the favorite flag of the location matching id
	// and returns the new value. Unknown ids yield a NotFoundError, which
	// callers absorb as a logged no-op.
	ToggleFavorite(ctx context.Context, id string) (bool, error)

	// HealthCheck reports whether the backing store is reachable.
	HealthCheck(ctx context.Context) error
}

// TemperatureCache owns, per location id, at most one current-temperature
// record and an ordered forecast list. Saves are insert-if-absent: a second
// save for the same location without a prior delete is silently ignored.
type TemperatureCache interface {
	// GetCurrent returns the current-temperature record for the location,
	// or nil when absent.
	GetCurrent(ctx context.Context, locationID string) (*models.CurrentTemperatureRecord, error)

	// GetForecast returns the forecast records for the location ordered by
	// sequence ascending; empty when absent.
	GetForecast(ctx context.Context, locationID string) ([]*models.ForecastRecord, error)

	// GetBoth returns the current record and forecast list only when both
	// exist. Partial cache state is not a usable result: if either half is
	// missing the whole read is a miss and (nil, nil, nil) is returned.
	GetBoth(ctx context.Context, locationID string) (*models.CurrentTemperatureRecord, []*models.ForecastRecord, error)

	// Save stores the current record and the forecast list for the
	// location. Each half is insert-if-absent; the forecast list is one
	// atomic unit.
	Save(ctx context.Context, locationID string, current *models.CurrentTemperatureRecord, forecasts []*models.ForecastRecord) error

	// Delete removes both current and forecast records for the location.
	// Idempotent; succeeds when nothing existed.
	Delete(ctx context.Context, locationID string) error
}

// NotFoundError reports a missing resource
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// IsNotFound reports whether err is a NotFoundError
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}
