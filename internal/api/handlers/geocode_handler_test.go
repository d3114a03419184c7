package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"mealbridge/domain"
	"mealbridge/internal/api/handlers"
	"mealbridge/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGeocoder struct {
	loc *domain.Location
	err error
}

func (g stubGeocoder) Geocode(_ context.Context, _ string) (*domain.Location, error) {
	return g.loc, g.err
}

func (g stubGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (*domain.Location, error) {
	return g.loc, g.err
}

func newGeocodeApp(g stubGeocoder) *fiber.App {
	h := handlers.NewGeocodeHandler(g, utils.Validate)
	app := fiber.New()
	app.Get("/geocode", h.Geocode)
	app.Get("/geocode/reverse", h.ReverseGeocode)
	return app
}

func getJSON(t *testing.T, app *fiber.App, path string) (int, envelope) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestGeocodeHandler_Geocode(t *testing.T) {
	app := newGeocodeApp(stubGeocoder{loc: &domain.Location{Latitude: 18.52, Longitude: 73.85, FormattedAddress: "Pune, India"}})

	status, env := getJSON(t, app, "/geocode?address=Pune")
	require.Equal(t, http.StatusOK, status)

	var loc domain.Location
	require.NoError(t, json.Unmarshal(env.Data, &loc))
	assert.Equal(t, 18.52, loc.Latitude)
	assert.Equal(t, "Pune, India", loc.FormattedAddress)

	status, env = getJSON(t, app, "/geocode")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, domain.ErrAddressRequired.Error(), env.Error)
}

func TestGeocodeHandler_Errors(t *testing.T) {
	status, _ := getJSON(t, newGeocodeApp(stubGeocoder{err: domain.ErrLocationNotFound}), "/geocode?address=nowhere")
	assert.Equal(t, http.StatusNotFound, status)

	status, env := getJSON(t, newGeocodeApp(stubGeocoder{err: errors.New("dial tcp: timeout")}), "/geocode?address=Pune")
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, domain.ErrGeocoderFailed.Error(), env.Error)
}

func TestGeocodeHandler_ReverseGeocode(t *testing.T) {
	app := newGeocodeApp(stubGeocoder{loc: &domain.Location{Latitude: 18.52, Longitude: 73.85, FormattedAddress: "Shivajinagar"}})

	status, _ := getJSON(t, app, "/geocode/reverse?latitude=18.52&longitude=73.85")
	assert.Equal(t, http.StatusOK, status)

	status, _ = getJSON(t, app, "/geocode/reverse?latitude=abc&longitude=73.85")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = getJSON(t, app, "/geocode/reverse?latitude=95&longitude=73.85")
	assert.Equal(t, http.StatusBadRequest, status)
}
