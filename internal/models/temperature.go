package models

// CurrentTemperatureRecord is the cached snapshot of "now" weather for a
// location. At most one record exists per location id.
type CurrentTemperatureRecord struct {
	LocationID            string  `json:"location_id" db:"location_id"`
	TemperatureCelsius    float64 `json:"temperature_celsius" db:"temperature_celsius"`
	TemperatureFahrenheit float64 `json:"temperature_fahrenheit" db:"temperature_fahrenheit"`
	LastUpdatedLabel      string  `json:"last_updated_label" db:"last_updated_label"`
}

// ForecastRecord is one ordered day-ahead entry in a location's cached
// forecast. Sequence is 0-based and defines display order. The set of
// records for a location is written and deleted as one unit.
type ForecastRecord struct {
	LocationID            string  `json:"location_id" db:"location_id"`
	Sequence              int     `json:"sequence" db:"sequence"`
	MinTemperatureCelsius float64 `json:"min_temperature_celsius" db:"min_temperature_celsius"`
	MaxTemperatureCelsius float64 `json:"max_temperature_celsius" db:"max_temperature_celsius"`
	AvgTemperatureCelsius float64 `json:"avg_temperature_celsius" db:"avg_temperature_celsius"`
	MinTemperatureFahrenheit float64 `json:"min_temperature_fahrenheit" db:"min_temperature_fahrenheit"`
	MaxTemperatureFahrenheit float64 `json:"max_temperature_fahrenheit" db:"max_temperature_fahrenheit"`
	AvgTemperatureFahrenheit float64 `json:"avg_temperature_fahrenheit" db:"avg_temperature_fahrenheit"`
	DateLabel             string  `json:"date_label" db:"date_label"`
}
