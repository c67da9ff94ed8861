package models

import (
	"fmt"
	"strconv"
)

// TemperatureUnit selects which of the dual-stored temperature values is
// displayed. Switching units never triggers recomputation or a re-fetch.
type TemperatureUnit int

const (
	UnitCelsius TemperatureUnit = iota
	UnitFahrenheit
)

// DisplayTitle returns the human-readable unit name
func (u TemperatureUnit) DisplayTitle() string {
	switch u {
	case UnitCelsius:
		return "Celsius"
	case UnitFahrenheit:
		return "Fahrenheit"
	default:
		return "Unknown"
	}
}

// ParseTemperatureUnit parses a unit query value. Empty and unknown values
// default to celsius.
func ParseTemperatureUnit(s string) TemperatureUnit {
	if s == "fahrenheit" {
		return UnitFahrenheit
	}
	return UnitCelsius
}

// Toggled returns the opposite unit
func (u TemperatureUnit) Toggled() TemperatureUnit {
	if u == UnitCelsius {
		return UnitFahrenheit
	}
	return UnitCelsius
}

func formatTemperature(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// CurrentTemperatureViewModel is the display-ready form of a current
// temperature snapshot. Both unit values are carried so unit switching is
// a pure presentation concern.
type CurrentTemperatureViewModel struct {
	TemperatureCelsius    float64         `json:"temperatureCelsius"`
	TemperatureFahrenheit float64         `json:"temperatureFahrenheit"`
	LastUpdatedLabel      string          `json:"lastUpdatedLabel"`
	Unit                  TemperatureUnit `json:"-"`
}

// DisplayValue renders the current temperature in the selected unit
func (m CurrentTemperatureViewModel) DisplayValue() string {
	value := m.TemperatureCelsius
	if m.Unit == UnitFahrenheit {
		value = m.TemperatureFahrenheit
	}
	return fmt.Sprintf("Current Temperature: %s %s", formatTemperature(value), m.Unit.DisplayTitle())
}

// WithUnit returns a copy of the view model with the given display unit
func (m CurrentTemperatureViewModel) WithUnit(u TemperatureUnit) CurrentTemperatureViewModel {
	m.Unit = u
	return m
}

// Record converts the view model into its persisted form
func (m CurrentTemperatureViewModel) Record(locationID string) *CurrentTemperatureRecord {
	return &CurrentTemperatureRecord{
		LocationID:            locationID,
		TemperatureCelsius:    m.TemperatureCelsius,
		TemperatureFahrenheit: m.TemperatureFahrenheit,
		LastUpdatedLabel:      m.LastUpdatedLabel,
	}
}

// CurrentTemperatureFromRecord reconstitutes a view model from a cached
// record. The stored label is used verbatim: it was already formatted at
// save time.
func CurrentTemperatureFromRecord(rec *CurrentTemperatureRecord) CurrentTemperatureViewModel {
	return CurrentTemperatureViewModel{
		TemperatureCelsius:    rec.TemperatureCelsius,
		TemperatureFahrenheit: rec.TemperatureFahrenheit,
		LastUpdatedLabel:      rec.LastUpdatedLabel,
		Unit:                  UnitCelsius,
	}
}

// ForecastTemperatureViewModel is the display-ready form of one forecast day
type ForecastTemperatureViewModel struct {
	MinTemperatureCelsius    float64         `json:"minTemperatureCelsius"`
	MaxTemperatureCelsius    float64         `json:"maxTemperatureCelsius"`
	AvgTemperatureCelsius    float64         `json:"avgTemperatureCelsius"`
	MinTemperatureFahrenheit float64         `json:"minTemperatureFahrenheit"`
	MaxTemperatureFahrenheit float64         `json:"maxTemperatureFahrenheit"`
	AvgTemperatureFahrenheit float64         `json:"avgTemperatureFahrenheit"`
	DateLabel                string          `json:"dateLabel"`
	Unit                     TemperatureUnit `json:"-"`
}

// MinimumDisplayValue renders the minimum temperature in the selected unit
func (m ForecastTemperatureViewModel) MinimumDisplayValue() string {
	value := m.MinTemperatureCelsius
	if m.Unit == UnitFahrenheit {
		value = m.MinTemperatureFahrenheit
	}
	return fmt.Sprintf("Minimum Temperature: %s %s", formatTemperature(value), m.Unit.DisplayTitle())
}

// MaximumDisplayValue renders the maximum temperature in the selected unit
func (m ForecastTemperatureViewModel) MaximumDisplayValue() string {
	value := m.MaxTemperatureCelsius
	if m.Unit == UnitFahrenheit {
		value = m.MaxTemperatureFahrenheit
	}
	return fmt.Sprintf("Maximum Temperature: %s %s", formatTemperature(value), m.Unit.DisplayTitle())
}

// AverageDisplayValue renders the average temperature in the selected unit
func (m ForecastTemperatureViewModel) AverageDisplayValue() string {
	value := m.AvgTemperatureCelsius
	if m.Unit == UnitFahrenheit {
		value = m.AvgTemperatureFahrenheit
	}
	return fmt.Sprintf("Average Temperature: %s %s", formatTemperature(value), m.Unit.DisplayTitle())
}

// WithUnit returns a copy of the view model with the given display unit
func (m ForecastTemperatureViewModel) WithUnit(u TemperatureUnit) ForecastTemperatureViewModel {
	m.Unit = u
	return m
}

// Record converts the view model into its persisted form. sequence is the
// 0-based position within the forecast list.
func (m ForecastTemperatureViewModel) Record(locationID string, sequence int) *ForecastRecord {
	return &ForecastRecord{
		LocationID:               locationID,
		Sequence:                 sequence,
		MinTemperatureCelsius:    m.MinTemperatureCelsius,
		MaxTemperatureCelsius:    m.MaxTemperatureCelsius,
		AvgTemperatureCelsius:    m.AvgTemperatureCelsius,
		MinTemperatureFahrenheit: m.MinTemperatureFahrenheit,
		MaxTemperatureFahrenheit: m.MaxTemperatureFahrenheit,
		AvgTemperatureFahrenheit: m.AvgTemperatureFahrenheit,
		DateLabel:                m.DateLabel,
	}
}

// ForecastTemperatureFromRecord reconstitutes a view model from a cached record
func ForecastTemperatureFromRecord(rec *ForecastRecord) ForecastTemperatureViewModel {
	return ForecastTemperatureViewModel{
		MinTemperatureCelsius:    rec.MinTemperatureCelsius,
		MaxTemperatureCelsius:    rec.MaxTemperatureCelsius,
		AvgTemperatureCelsius:    rec.AvgTemperatureCelsius,
		MinTemperatureFahrenheit: rec.MinTemperatureFahrenheit,
		MaxTemperatureFahrenheit: rec.MaxTemperatureFahrenheit,
		AvgTemperatureFahrenheit: rec.AvgTemperatureFahrenheit,
		DateLabel:                rec.DateLabel,
		Unit:                     UnitCelsius,
	}
}

// TemperatureInfo bundles current and forecast temperature details for one
// location in a single container.
type TemperatureInfo struct {
	Current   CurrentTemperatureViewModel    `json:"current"`
	Forecasts []ForecastTemperatureViewModel `json:"forecasts"`
}

// Unit returns the display unit of the bundle
func (t *TemperatureInfo) Unit() TemperatureUnit {
	return t.Current.Unit
}
