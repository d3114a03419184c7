package domain

import "errors"

var (
	MessageSuccessGeocode = "location resolved successfully"
	MessageFailedGeocode  = "failed to resolve location"

	ErrLocationNotFound    = errors.New("location not found")
	ErrGeocoderUnavailable = errors.New("geocoding is not configured")
	ErrAddressRequired     = errors.New("address is required")
	ErrGeocoderFailed      = errors.New("geocoding service failed")
)

type (
	GeocodeRequest struct {
		Address string `query:"address" validate:"required"`
	}

	Location struct {
		Latitude         float64 `json:"latitude"`
		Longitude        float64 `json:"longitude"`
		FormattedAddress string  `json:"formatted_address,omitempty"`
	}
)
