package models

import (
	"testing"
)

func TestCurrentTemperatureViewModel_DisplayValue(t *testing.T) {
	tests := []struct {
		name string
		vm   CurrentTemperatureViewModel
		want string
	}{
		{
			name: "celsius",
			vm: CurrentTemperatureViewModel{
				TemperatureCelsius:    23.45,
				TemperatureFahrenheit: 56.78,
				Unit:                  UnitCelsius,
			},
			want: "Current Temperature: 23.45 Celsius",
		},
		{
			name: "fahrenheit",
			vm: CurrentTemperatureViewModel{
				TemperatureCelsius:    23.45,
				TemperatureFahrenheit: 56.78,
				Unit:                  UnitFahrenheit,
			},
			want: "Current Temperature: 56.78 Fahrenheit",
		},
		{
			name: "whole number keeps no trailing zeros",
			vm: CurrentTemperatureViewModel{
				TemperatureCelsius: 20,
				Unit:               UnitCelsius,
			},
			want: "Current Temperature: 20 Celsius",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.vm.DisplayValue(); got != tt.want {
				t.Errorf("DisplayValue() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestForecastTemperatureViewModel_DisplayValues(t *testing.T) {
	vm := ForecastTemperatureViewModel{
		MinTemperatureCelsius:    12.34,
		MaxTemperatureCelsius:    78.9,
		AvgTemperatureCelsius:    34.11,
		MinTemperatureFahrenheit: 33.44,
		MaxTemperatureFahrenheit: 66.78,
		AvgTemperatureFahrenheit: 90.8,
		DateLabel:                "Forecast for: December 12, 2023",
		Unit:                     UnitCelsius,
	}

	if got := vm.MinimumDisplayValue(); got != "Minimum Temperature: 12.34 Celsius" {
		t.Errorf("MinimumDisplayValue() = %q", got)
	}
	if got := vm.MaximumDisplayValue(); got != "Maximum Temperature: 78.9 Celsius" {
		t.Errorf("MaximumDisplayValue() = %q", got)
	}
	if got := vm.AverageDisplayValue(); got != "Average Temperature: 34.11 Celsius" {
		t.Errorf("AverageDisplayValue() = %q", got)
	}

	vm = vm.WithUnit(UnitFahrenheit)
	if got := vm.MaximumDisplayValue(); got != "Maximum Temperature: 66.78 Fahrenheit" {
		t.Errorf("MaximumDisplayValue() after unit switch = %q", got)
	}
	// Switching units must not touch the stored label.
	if vm.DateLabel != "Forecast for: December 12, 2023" {
		t.Errorf("DateLabel changed on unit switch: %q", vm.DateLabel)
	}
}

func TestTemperatureUnit(t *testing.T) {
	if ParseTemperatureUnit("fahrenheit") != UnitFahrenheit {
		t.Error("ParseTemperatureUnit(fahrenheit) != UnitFahrenheit")
	}
	if ParseTemperatureUnit("") != UnitCelsius {
		t.Error("empty unit should default to celsius")
	}
	if ParseTemperatureUnit("kelvin") != UnitCelsius {
		t.Error("unknown unit should default to celsius")
	}
	if UnitCelsius.Toggled() != UnitFahrenheit || UnitFahrenheit.Toggled() != UnitCelsius {
		t.Error("Toggled() should flip between the two units")
	}
}

func TestRecordRoundTrip(t *testing.T) {
	current := CurrentTemperatureViewModel{
		TemperatureCelsius:    34.5,
		TemperatureFahrenheit: 33.33,
		LastUpdatedLabel:      "Last Updated : September 13th, 2023",
		Unit:                  UnitCelsius,
	}

	rec := current.Record("100")
	if rec.LocationID != "100" {
		t.Errorf("LocationID = %q, want %q", rec.LocationID, "100")
	}

	back := CurrentTemperatureFromRecord(rec)
	if back != current {
		t.Errorf("round trip mismatch: %+v != %+v", back, current)
	}

	forecast := ForecastTemperatureViewModel{
		MinTemperatureCelsius:    33.3,
		MaxTemperatureCelsius:    44.5,
		AvgTemperatureCelsius:    100.0,
		MinTemperatureFahrenheit: 78.5,
		MaxTemperatureFahrenheit: 12.1,
		AvgTemperatureFahrenheit: 11.99,
		DateLabel:                "Forecast for: December 14, 2023",
		Unit:                     UnitCelsius,
	}

	frec := forecast.Record("100", 3)
	if frec.Sequence != 3 {
		t.Errorf("Sequence = %d, want 3", frec.Sequence)
	}
	if got := ForecastTemperatureFromRecord(frec); got != forecast {
		t.Errorf("round trip mismatch: %+v != %+v", got, forecast)
	}
}

func TestSectionSetMemoizesPerUnit(t *testing.T) {
	info := TemperatureInfo{
		Current: CurrentTemperatureViewModel{
			TemperatureCelsius:    10,
			TemperatureFahrenheit: 50,
			Unit:                  UnitCelsius,
		},
		Forecasts: []ForecastTemperatureViewModel{
			{MinTemperatureCelsius: 1, MinTemperatureFahrenheit: 33.8, Unit: UnitCelsius},
			{MinTemperatureCelsius: 2, MinTemperatureFahrenheit: 35.6, Unit: UnitCelsius},
		},
	}

	set := NewSectionSet(info)

	celsius := set.SectionsFor(UnitCelsius)
	if len(celsius) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(celsius))
	}
	if celsius[0].Title != "Current Temperature" || celsius[0].RowCount() != 1 {
		t.Errorf("unexpected current section: %+v", celsius[0])
	}
	if celsius[1].Title != "Forecast" || celsius[1].RowCount() != 2 {
		t.Errorf("unexpected forecast section: %+v", celsius[1])
	}

	fahrenheit := set.SectionsFor(UnitFahrenheit)
	if fahrenheit[0].Current.Unit != UnitFahrenheit {
		t.Error("fahrenheit sections should carry the fahrenheit unit")
	}

	// Asking again must return the memoized slice, not rebuild it.
	again := set.SectionsFor(UnitCelsius)
	if &again[0] != &celsius[0] {
		t.Error("sections were rebuilt instead of memoized")
	}
}
