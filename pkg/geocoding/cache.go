package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"mealbridge/domain"

	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"
)

const DefaultCacheTTL = 24 * time.Hour

// Cache is the subset of *redis.Client the cached geocoder needs.
type Cache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

type cachedGeocoder struct {
	next  Geocoder
	cache Cache
	ttl   time.Duration
}

// NewCachedGeocoder puts a read-through cache in front of next. Cache
// failures are logged and fall through to next.
func NewCachedGeocoder(next Geocoder, cache Cache, ttl time.Duration) Geocoder {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &cachedGeocoder{next: next, cache: cache, ttl: ttl}
}

func (g *cachedGeocoder) Geocode(ctx context.Context, address string) (*domain.Location, error) {
	key := "geocode:fwd:" + strings.ToLower(strings.TrimSpace(address))
	return g.cached(ctx, key, func() (*domain.Location, error) {
		return g.next.Geocode(ctx, address)
	})
}

func (g *cachedGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) (*domain.Location, error) {
	key := "geocode:rev:" + strconv.FormatFloat(lat, 'f', 6, 64) + "," + strconv.FormatFloat(lng, 'f', 6, 64)
	return g.cached(ctx, key, func() (*domain.Location, error) {
		return g.next.ReverseGeocode(ctx, lat, lng)
	})
}

func (g *cachedGeocoder) cached(ctx context.Context, key string, load func() (*domain.Location, error)) (*domain.Location, error) {
	raw, err := g.cache.Get(ctx, key).Result()
	switch {
	case err == nil:
		var loc domain.Location
		if jsonErr := json.Unmarshal([]byte(raw), &loc); jsonErr == nil {
			return &loc, nil
		}
		log.Warnw("discarding unreadable geocode cache entry", "key", key)
	case !errors.Is(err, redis.Nil):
		log.Warnw("geocode cache read failed", "key", key, "error", err)
	}

	loc, err := load()
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(loc); err == nil {
		if err := g.cache.Set(ctx, key, encoded, g.ttl).Err(); err != nil {
			log.Warnw("geocode cache write failed", "key", key, "error", err)
		}
	}
	return loc, nil
}
