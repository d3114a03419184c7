package geocoding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"mealbridge/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenCageGeocoder(t *testing.T) {
	var lastQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastQuery = r.URL.Query().Get("q")
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		switch lastQuery {
		case "nowhere":
			_, _ = w.Write([]byte(`{"status":{"code":200,"message":"OK"},"results":[]}`))
		case "broken":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			_, _ = w.Write([]byte(`{"status":{"code":200,"message":"OK"},"results":[{"formatted":"Shivajinagar, Pune, India","geometry":{"lat":18.52,"lng":73.85}}]}`))
		}
	}))
	defer server.Close()

	g := NewOpenCageGeocoder("test-key", server.URL)
	ctx := context.Background()

	t.Run("forward", func(t *testing.T) {
		loc, err := g.Geocode(ctx, "Shivajinagar, Pune")
		require.NoError(t, err)
		assert.Equal(t, 18.52, loc.Latitude)
		assert.Equal(t, 73.85, loc.Longitude)
		assert.Equal(t, "Shivajinagar, Pune, India", loc.FormattedAddress)
	})

	t.Run("reverse sends lat,lng as the query", func(t *testing.T) {
		loc, err := g.ReverseGeocode(ctx, 18.52, 73.85)
		require.NoError(t, err)
		assert.Equal(t, "18.52,73.85", lastQuery)
		assert.Equal(t, "Shivajinagar, Pune, India", loc.FormattedAddress)
	})

	t.Run("no results", func(t *testing.T) {
		_, err := g.Geocode(ctx, "nowhere")
		assert.ErrorIs(t, err, domain.ErrLocationNotFound)
	})

	t.Run("upstream failure", func(t *testing.T) {
		_, err := g.Geocode(ctx, "broken")
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrLocationNotFound)
	})

	t.Run("empty address", func(t *testing.T) {
		_, err := g.Geocode(ctx, "")
		assert.ErrorIs(t, err, domain.ErrAddressRequired)
	})
}
