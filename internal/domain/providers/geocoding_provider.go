package providers

import (
	"context"
)

// Coordinates is a geocoded point in WGS84 degrees.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// GeocodingProvider resolves road addresses into coordinates
type GeocodingProvider interface {
	// Geocode resolves an address string into coordinates
	Geocode(ctx context.Context, address string) (*Coordinates, error)
}
