package models

// Coordinates is a geographic point
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Location is a named geographic point the user can browse and favorite.
// ID is stable and externally assigned; IsFavorite is the only mutable
// field and the store's copy of it is authoritative.
type Location struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Coordinates Coordinates `json:"coordinates"`
	IsFavorite  bool        `json:"isFavorite"`
}
