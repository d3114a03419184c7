package geocoding

import (
	"context"

	"mealbridge/domain"
)

// Geocoder resolves free-text addresses to coordinates and back. Failures
// other than domain.ErrLocationNotFound are transport errors; retrying them
// is the caller's decision.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*domain.Location, error)
	ReverseGeocode(ctx context.Context, lat, lng float64) (*domain.Location, error)
}
