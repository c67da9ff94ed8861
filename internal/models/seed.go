package models

// SeedCoordinates is the coordinate node of a seed document entry
type SeedCoordinates struct {
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}

// SeedLocation is one entry of the bootstrap data source. Records failing
// validation are skipped with a logged reason, never silently dropped.
type SeedLocation struct {
	ID          string          `json:"id" validate:"required"`
	Name        string          `json:"name" validate:"required"`
	Coordinates SeedCoordinates `json:"coordinates"`
}

// SeedDocument is the bootstrap data source format, consumed once when the
// location store is empty.
type SeedDocument struct {
	ListID    string         `json:"listId" validate:"required"`
	Locations []SeedLocation `json:"locations" validate:"required"`
}

// Location converts a seed entry into a Location with the favorite flag
// defaulted to false.
func (s SeedLocation) Location() *Location {
	return &Location{
		ID:   s.ID,
		Name: s.Name,
		Coordinates: Coordinates{
			Latitude:  s.Coordinates.Latitude,
			Longitude: s.Coordinates.Longitude,
		},
		IsFavorite: false,
	}
}
