package donation

import (
	"context"
	"math"
	"testing"
	"time"

	"mealbridge/domain"
	"mealbridge/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createAt(t *testing.T, repo DonationRepository, lat, lon *float64, expiry time.Time) uuid.UUID {
	t.Helper()
	d := newDonation(uuid.New(), expiry)
	d.Latitude = lat
	d.Longitude = lon
	id, err := repo.Create(context.Background(), d)
	require.NoError(t, err)
	return id
}

func matchIDs(matches []Match) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.Donation.ID)
	}
	return ids
}

func TestProximityMatcher_FindNearbyRadius(t *testing.T) {
	repo := NewInMemoryDonationRepository()
	matcher := NewProximityMatcher(repo)
	ctx := context.Background()

	id := createAt(t, repo, float64Ptr(18.52), float64Ptr(73.85), time.Now().Add(24*time.Hour))

	matches, err := matcher.FindNearby(ctx, float64Ptr(18.53), float64Ptr(73.86), float64Ptr(10))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, id, matches[0].Donation.ID)
	assert.InDelta(t, 1.5, matches[0].DistanceKm, 0.1)

	matches, err = matcher.FindNearby(ctx, float64Ptr(20.0), float64Ptr(75.0), float64Ptr(10))
	require.NoError(t, err)
	assert.Empty(t, matches)
	assert.NotNil(t, matches)
}

func TestProximityMatcher_MissingCoordinates(t *testing.T) {
	matcher := NewProximityMatcher(NewInMemoryDonationRepository())
	ctx := context.Background()

	_, err := matcher.FindNearby(ctx, nil, float64Ptr(73.85), nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = matcher.FindNearby(ctx, float64Ptr(18.52), nil, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestProximityMatcher_ZeroIsAValidCoordinate(t *testing.T) {
	repo := NewInMemoryDonationRepository()
	matcher := NewProximityMatcher(repo)

	id := createAt(t, repo, float64Ptr(0.01), float64Ptr(0.01), time.Now().Add(time.Hour))

	matches, err := matcher.FindNearby(context.Background(), float64Ptr(0), float64Ptr(0), nil)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{id}, matchIDs(matches))
}

func TestProximityMatcher_DefaultMaxDistance(t *testing.T) {
	repo := NewInMemoryDonationRepository()
	matcher := NewProximityMatcher(repo)
	expiry := time.Now().Add(time.Hour)

	// About 5.6 km and 16.7 km north of the query point.
	inside := createAt(t, repo, float64Ptr(18.57), float64Ptr(73.85), expiry)
	createAt(t, repo, float64Ptr(18.67), float64Ptr(73.85), expiry)

	matches, err := matcher.FindNearby(context.Background(), float64Ptr(18.52), float64Ptr(73.85), nil)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{inside}, matchIDs(matches))
}

func TestProximityMatcher_InvalidMaxDistance(t *testing.T) {
	matcher := NewProximityMatcher(NewInMemoryDonationRepository())
	ctx := context.Background()

	for _, v := range []float64{0, -1, math.NaN()} {
		_, err := matcher.FindNearby(ctx, float64Ptr(18.52), float64Ptr(73.85), float64Ptr(v))
		assert.ErrorIs(t, err, domain.ErrValidation, "max distance %v", v)
	}
}

func TestProximityMatcher_SkipsDonationsWithoutCoordinates(t *testing.T) {
	repo := NewInMemoryDonationRepository()
	matcher := NewProximityMatcher(repo)
	expiry := time.Now().Add(time.Hour)

	createAt(t, repo, nil, nil, expiry)
	createAt(t, repo, float64Ptr(18.52), nil, expiry)

	for _, q := range [][2]float64{{18.52, 73.85}, {0, 0}, {-33.86, 151.2}} {
		matches, err := matcher.FindNearby(context.Background(), float64Ptr(q[0]), float64Ptr(q[1]), float64Ptr(20000))
		require.NoError(t, err)
		assert.Empty(t, matches)
	}
}

func TestProximityMatcher_ExcludesExpiredAndAccepted(t *testing.T) {
	repo := NewInMemoryDonationRepository()
	matcher := NewProximityMatcher(repo)
	ctx := context.Background()
	now := time.Now()

	createAt(t, repo, float64Ptr(18.52), float64Ptr(73.85), now.Add(-time.Hour))
	soon := createAt(t, repo, float64Ptr(18.52), float64Ptr(73.85), now.Add(time.Minute))
	accepted := createAt(t, repo, float64Ptr(18.52), float64Ptr(73.85), now.Add(time.Hour))

	receiver := uuid.New()
	ok, err := repo.CompareAndSetStatus(ctx, accepted.String(),
		entities.DonationStatusPending, entities.DonationStatusAccepted, &receiver, now)
	require.NoError(t, err)
	require.True(t, ok)

	matches, err := matcher.FindNearby(ctx, float64Ptr(18.52), float64Ptr(73.85), nil)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{soon}, matchIDs(matches))

	matcher.now = func() time.Time { return now.Add(2 * time.Minute) }
	matches, err = matcher.FindNearby(ctx, float64Ptr(18.52), float64Ptr(73.85), nil)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestProximityMatcher_SortsNearestFirst(t *testing.T) {
	repo := NewInMemoryDonationRepository()
	matcher := NewProximityMatcher(repo)
	expiry := time.Now().Add(time.Hour)

	far := createAt(t, repo, float64Ptr(18.58), float64Ptr(73.85), expiry)
	near := createAt(t, repo, float64Ptr(18.521), float64Ptr(73.85), expiry)
	mid := createAt(t, repo, float64Ptr(18.55), float64Ptr(73.85), expiry)

	matches, err := matcher.FindNearby(context.Background(), float64Ptr(18.52), float64Ptr(73.85), nil)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{near, mid, far}, matchIDs(matches))
	for i := 1; i < len(matches); i++ {
		assert.LessOrEqual(t, matches[i-1].DistanceKm, matches[i].DistanceKm)
	}
}
