package store

import (
	"context"
	"database/sql"
	"fmt"

	"weather-cache/internal/models"
	"weather-cache/pkg/database"
	"weather-cache/pkg/logging"
	"weather-cache/pkg/metrics"
)

// locationRow is the typed row mapping for the locations table. A scan
// failure here fails the whole read loudly instead of silently dropping
// the record.
type locationRow struct {
	ID         string  `db:"id"`
	Name       string  `db:"name"`
	Latitude   float64 `db:"latitude"`
	Longitude  float64 `db:"longitude"`
	IsFavorite bool    `db:"is_favorite"`
}

func (r *locationRow) location() *models.Location {
	return &models.Location{
		ID:   r.ID,
		Name: r.Name,
		Coordinates: models.Coordinates{
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
		},
		IsFavorite: r.IsFavorite,
	}
}

// PostgresLocationStore implements LocationStore on the shared SQL store
type PostgresLocationStore struct {
	db      *database.PostgresDB
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewPostgresLocationStore creates a new SQL-backed location store
func NewPostgresLocationStore(db *database.PostgresDB, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *PostgresLocationStore {
	return &PostgresLocationStore{
		db:      db,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// GetAll returns all locations ordered by id ascending
func (s *PostgresLocationStore) GetAll(ctx context.Context) ([]*models.Location, error) {
	query := `
		SELECT id, name, latitude, longitude, is_favorite
		FROM locations
		ORDER BY id
	`

	var rows []*locationRow
	if err := s.db.SelectContext(ctx, "list_locations", &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}

	locations := make([]*models.Location, 0, len(rows))
	for _, row := range rows {
		locations = append(locations, row.location())
	}

	return locations, nil
}

// Get returns the location with the given id
func (s *PostgresLocationStore) Get(ctx context.Context, id string) (*models.Location, error) {
	query := `
		SELECT id, name, latitude, longitude, is_favorite
		FROM locations
		WHERE id = $1
	`

	var row locationRow
	err := s.db.GetContext(ctx, "get_location", &row, query, id)

	if err == sql.ErrNoRows {
		return nil, &NotFoundError{Resource: "location", ID: id}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get location: %w", err)
	}

	return row.location(), nil
}

// Seed bulk-inserts the given locations in a single transaction. Ids that
// already exist are left untouched, so a double seed cannot duplicate or
// overwrite records.
func (s *PostgresLocationStore) Seed(ctx context.Context, locations []*models.Location) error {
	if len(locations) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO locations (id, name, latitude, longitude, is_favorite)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, loc := range locations {
		_, err := stmt.ExecContext(ctx,
			loc.ID,
			loc.Name,
			loc.Coordinates.Latitude,
			loc.Coordinates.Longitude,
			loc.IsFavorite,
		)
		if err != nil {
			return fmt.Errorf("failed to insert location %s: %w", loc.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Debug(ctx, "[STORE_SEED] Locations seeded", logging.Fields{
		"count": len(locations),
	})

	return nil
}

// ToggleFavorite flips the favorite flag and returns the new value
func (s *PostgresLocationStore) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	query := `
		UPDATE locations
		SET is_favorite = NOT is_favorite
		WHERE id = $1
		RETURNING is_favorite
	`

	var isFavorite bool
	err := s.db.GetContext(ctx, "toggle_favorite", &isFavorite, query, id)

	if err == sql.ErrNoRows {
		return false, &NotFoundError{Resource: "location", ID: id}
	}

	if err != nil {
		return false, fmt.Errorf("failed to toggle favorite: %w", err)
	}

	return isFavorite, nil
}

// HealthCheck performs a store health check
func (s *PostgresLocationStore) HealthCheck(ctx context.Context) error {
	return s.db.HealthCheck(ctx)
}

// PostgresTemperatureCache implements TemperatureCache on the shared SQL store
type PostgresTemperatureCache struct {
	db      *database.PostgresDB
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewPostgresTemperatureCache creates a new SQL-backed temperature cache
func NewPostgresTemperatureCache(db *database.PostgresDB, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *PostgresTemperatureCache {
	return &PostgresTemperatureCache{
		db:      db,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// GetCurrent returns the current-temperature record for the location, or nil
func (c *PostgresTemperatureCache) GetCurrent(ctx context.Context, locationID string) (*models.CurrentTemperatureRecord, error) {
	query := `
		SELECT location_id, temperature_celsius, temperature_fahrenheit, last_updated_label
		FROM current_temperatures
		WHERE location_id = $1
	`

	var rec models.CurrentTemperatureRecord
	err := c.db.GetContext(ctx, "get_current_temperature", &rec, query, locationID)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get current temperature: %w", err)
	}

	return &rec, nil
}

// GetForecast returns the forecast records ordered by sequence ascending
func (c *PostgresTemperatureCache) GetForecast(ctx context.Context, locationID string) ([]*models.ForecastRecord, error) {
	query := `
		SELECT location_id, sequence,
		       min_temperature_celsius, max_temperature_celsius, avg_temperature_celsius,
		       min_temperature_fahrenheit, max_temperature_fahrenheit, avg_temperature_fahrenheit,
		       date_label
		FROM forecast_temperatures
		WHERE location_id = $1
		ORDER BY sequence
	`

	var records []*models.ForecastRecord
	if err := c.db.SelectContext(ctx, "get_forecast_temperatures", &records, query, locationID); err != nil {
		return nil, fmt.Errorf("failed to get forecast temperatures: %w", err)
	}

	return records, nil
}

// GetBoth returns current and forecast records only when both halves exist
func (c *PostgresTemperatureCache) GetBoth(ctx context.Context, locationID string) (*models.CurrentTemperatureRecord, []*models.ForecastRecord, error) {
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
func (c *PostgresTemperatureCache) Save(ctx context.Context, locationID string, current *models.CurrentTemperatureRecord, forecasts []*models.ForecastRecord) error {
	tx, err := c.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if current != nil {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO current_temperatures (location_id, temperature_celsius, temperature_fahrenheit, last_updated_label)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (location_id) DO NOTHING
		`,
			locationID,
			current.TemperatureCelsius,
			current.TemperatureFahrenheit,
			current.LastUpdatedLabel,
		)
		if err != nil {
			return fmt.Errorf("failed to insert current temperature: %w", err)
		}
	}

	// The forecast list is one atomic unit: if any record exists for the
	// location, the incoming list is ignored wholesale.
	var hasForecast bool
	err = tx.GetContext(ctx, &hasForecast, `
		SELECT EXISTS (SELECT 1 FROM forecast_temperatures WHERE location_id = $1)
	`, locationID)
	if err != nil {
		return fmt.Errorf("failed to check existing forecast: %w", err)
	}

	if !hasForecast {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO forecast_temperatures (
				location_id, sequence,
				min_temperature_celsius, max_temperature_celsius, avg_temperature_celsius,
				min_temperature_fahrenheit, max_temperature_fahrenheit, avg_temperature_fahrenheit,
				date_label
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, rec := range forecasts {
			_, err := stmt.ExecContext(ctx,
				locationID,
				rec.Sequence,
				rec.MinTemperatureCelsius,
				rec.MaxTemperatureCelsius,
				rec.AvgTemperatureCelsius,
				rec.MinTemperatureFahrenheit,
				rec.MaxTemperatureFahrenheit,
				rec.AvgTemperatureFahrenheit,
				rec.DateLabel,
			)
			if err != nil {
				return fmt.Errorf("failed to insert forecast record: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	c.logger.Debug(ctx, "[CACHE_SAVE] Temperature snapshot saved", logging.Fields{
		"location_id":    locationID,
		"forecast_count": len(forecasts),
	})

	return nil
}

// Delete removes both current and forecast records for the location
func (c *PostgresTemperatureCache) Delete(ctx context.Context, locationID string) error {
	tx, err := c.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM current_temperatures WHERE location_id = $1`, locationID); err != nil {
		return fmt.Errorf("failed to delete current temperature: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM forecast_temperatures WHERE location_id = $1`, locationID); err != nil {
		return fmt.Errorf("failed to delete forecast temperatures: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	c.logger.Debug(ctx, "[CACHE_DELETE] Temperature snapshot removed", logging.Fields{
		"location_id": locationID,
	})

	return nil
}
