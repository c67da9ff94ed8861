package models

// SectionKind distinguishes the two detail sections
type SectionKind string

const (
	SectionCurrentTemperature SectionKind = "current_temperature"
	SectionForecast           SectionKind = "forecast"
)

// Section is one display section of the temperature details view: either
// the single current-temperature row or the list of forecast rows.
type Section struct {
	Kind      SectionKind                    `json:"kind"`
	Title     string                         `json:"title"`
	Current   *CurrentTemperatureViewModel   `json:"current,omitempty"`
	Forecasts []ForecastTemperatureViewModel `json:"forecasts,omitempty"`
}

// RowCount returns the number of rows the section renders
func (s Section) RowCount() int {
	if s.Kind == SectionCurrentTemperature {
		return 1
	}
	return len(s.Forecasts)
}

// SectionSet memoizes unit-converted sections for one detail view session.
// The underlying values are already dual-stored, so switching units only
// re-labels; the memo avoids rebuilding slices on repeated switches. Not
// persisted anywhere.
type SectionSet struct {
	info TemperatureInfo
	memo map[TemperatureUnit][]Section
}

// NewSectionSet creates a section set for the given temperature info
func NewSectionSet(info TemperatureInfo) *SectionSet {
	return &SectionSet{
		info: info,
		memo: make(map[TemperatureUnit][]Section),
	}
}

// SectionsFor returns the sections rendered in the given unit, building
// them at most once per unit.
func (s *SectionSet) SectionsFor(unit TemperatureUnit) []Section {
	if sections, ok := s.memo[unit]; ok {
		return sections
	}

	current := s.info.Current.WithUnit(unit)

	forecasts := make([]ForecastTemperatureViewModel, 0, len(s.info.Forecasts))
	for _, f := range s.info.Forecasts {
		forecasts = append(forecasts, f.WithUnit(unit))
	}

	sections := []Section{
		{
			Kind:    SectionCurrentTemperature,
			Title:   "Current Temperature",
			Current: &current,
		},
		{
			Kind:      SectionForecast,
			Title:     "Forecast",
			Forecasts: forecasts,
		},
	}

	s.memo[unit] = sections
	return sections
}
