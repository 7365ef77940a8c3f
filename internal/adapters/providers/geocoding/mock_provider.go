package geocoding

import (
	"context"
	"strings"

	"github.com/medichat/backend/internal/domain/providers"
	apperrors "github.com/medichat/backend/pkg/errors"
)

// MockProvider implements GeocodingProvider with canned coordinates for
// local development where no Kakao API key is configured.
type MockProvider struct {
	districts map[string]providers.Coordinates
}

// NewMockProvider creates a new mock geocoding provider
func NewMockProvider() providers.GeocodingProvider {
	return &MockProvider{
		districts: map[string]providers.Coordinates{
			"서초": {Latitude: 37.4837, Longitude: 127.0324},
			"반포": {Latitude: 37.5083, Longitude: 127.0117},
			"방배": {Latitude: 37.4815, Longitude: 126.9976},
			"강남": {Latitude: 37.5172, Longitude: 127.0473},
			"잠원": {Latitude: 37.5126, Longitude: 127.0113},
		},
	}
}

// Geocode matches a known district name inside the address, falling
// back to Seoul City Hall for anything unrecognized
func (p *MockProvider) Geocode(_ context.Context, address string) (*providers.Coordinates, error) {
	if address == "" {
		return nil, apperrors.NewValidationError("address must not be empty")
	}

	for district, coords := range p.districts {
		if strings.Contains(address, district) {
			c := coords
			return &c, nil
		}
	}

	return &providers.Coordinates{Latitude: 37.5665, Longitude: 126.9780}, nil
}
