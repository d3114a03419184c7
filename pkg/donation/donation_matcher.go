package donation

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"mealbridge/domain"
	"mealbridge/entities"
	"mealbridge/pkg/geo"
)

const DefaultMaxDistanceKm = 10.0

type Match struct {
	Donation   *entities.Donation
	DistanceKm float64
}

// ProximityMatcher scans the pending candidate set and keeps what lies within
// the radius. The scan is linear in the number of pending donations; a
// spatial index can replace FindPendingWithCoordinates without changing
// FindNearby's contract.
type ProximityMatcher struct {
	repo DonationRepository
	now  func() time.Time
}

func NewProximityMatcher(repo DonationRepository) *ProximityMatcher {
	return &ProximityMatcher{repo: repo, now: time.Now}
}

// FindNearby returns pending, unexpired donations within maxDistanceKm of
// (lat, lon), nearest first. A nil maxDistanceKm means DefaultMaxDistanceKm.
func (m *ProximityMatcher) FindNearby(ctx context.Context, lat, lon, maxDistanceKm *float64) ([]Match, error) {
	if lat == nil || lon == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, domain.ErrInvalidCoordinates)
	}

	maxDistance := DefaultMaxDistanceKm
	if maxDistanceKm != nil {
		maxDistance = *maxDistanceKm
	}
	if math.IsNaN(maxDistance) || maxDistance <= 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, domain.ErrInvalidDistance)
	}

	now := m.now()
	candidates, err := m.repo.FindPendingWithCoordinates(ctx, now)
	if err != nil {
		return nil, err
	}

	matches := make([]Match, 0)
	for _, d := range candidates {
		// The store already filters these; re-check so a stale snapshot
		// never surfaces an overdue record.
		if d.Status != entities.DonationStatusPending || d.IsPastExpiry(now) || !d.HasCoordinates() {
			continue
		}
		distance := geo.DistanceKm(*lat, *lon, *d.Latitude, *d.Longitude)
		if math.IsNaN(distance) || distance > maxDistance {
			continue
		}
		matches = append(matches, Match{Donation: d, DistanceKm: distance})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].DistanceKm < matches[j].DistanceKm
	})
	return matches, nil
}
