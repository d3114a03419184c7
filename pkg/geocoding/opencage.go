package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"mealbridge/domain"
)

const DefaultOpenCageURL = "https://api.opencagedata.com/geocode/v1/json"

type (
	openCageGeocoder struct {
		apiKey     string
		baseURL    string
		httpClient *http.Client
	}

	openCageResponse struct {
		Status struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"status"`
		Results []struct {
			Formatted string `json:"formatted"`
			Geometry  struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"geometry"`
		} `json:"results"`
	}
)

func NewOpenCageGeocoder(apiKey, baseURL string) Geocoder {
	if baseURL == "" {
		baseURL = DefaultOpenCageURL
	}
	return &openCageGeocoder{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (g *openCageGeocoder) Geocode(ctx context.Context, address string) (*domain.Location, error) {
	if address == "" {
		return nil, domain.ErrAddressRequired
	}
	return g.lookup(ctx, address)
}

func (g *openCageGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) (*domain.Location, error) {
	query := strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lng, 'f', -1, 64)
	return g.lookup(ctx, query)
}

func (g *openCageGeocoder) lookup(ctx context.Context, query string) (*domain.Location, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("key", g.apiKey)
	params.Set("limit", "1")
	params.Set("no_annotations", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoding request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoding request: unexpected status %d", resp.StatusCode)
	}

	var body openCageResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode geocoding response: %w", err)
	}
	if len(body.Results) == 0 {
		return nil, domain.ErrLocationNotFound
	}

	result := body.Results[0]
	return &domain.Location{
		Latitude:         result.Geometry.Lat,
		Longitude:        result.Geometry.Lng,
		FormattedAddress: result.Formatted,
	}, nil
}
