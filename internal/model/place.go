package model

import "time"

// Place is a location users can attach posts and events to. Coordinates are
// stored as a PostGIS point; Latitude/Longitude are the WGS84 values.
type Place struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	Category     string  `json:"category"`
	LocationName string  `json:"location_name,omitempty"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	ImageURL     string  `json:"image_url,omitempty"`

	// Hidden marks a "hidden gem" surfaced only through discovery, not search.
	Hidden bool `json:"is_hidden"`

	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// PlaceSummary is the subset of place fields embedded in posts and events.
type PlaceSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	LocationName string `json:"location_name,omitempty"`
	Category     string `json:"category"`
}

// Summary returns the embeddable subset of the place.
func (p *Place) Summary() *PlaceSummary {
	return &PlaceSummary{
		ID:           p.ID,
		Name:         p.Name,
		LocationName: p.LocationName,
		Category:     p.Category,
	}
}

// PlaceFilter holds criteria for querying places.
type PlaceFilter struct {
	Category string `json:"category,omitempty"`
	Hidden   *bool  `json:"is_hidden,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Offset   int    `json:"offset,omitempty"`
}
