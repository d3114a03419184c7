package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDonation_Expire(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name        string
		status      string
		expiry      time.Time
		wantChanged bool
		wantStatus  string
	}{
		{"pending past deadline", DonationStatusPending, now.Add(-time.Minute), true, DonationStatusExpired},
		{"pending at deadline", DonationStatusPending, now, false, DonationStatusPending},
		{"pending before deadline", DonationStatusPending, now.Add(time.Minute), false, DonationStatusPending},
		{"accepted past deadline", DonationStatusAccepted, now.Add(-time.Minute), false, DonationStatusAccepted},
		{"completed past deadline", DonationStatusCompleted, now.Add(-time.Minute), false, DonationStatusCompleted},
		{"expired past deadline", DonationStatusExpired, now.Add(-time.Minute), false, DonationStatusExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Donation{Status: tt.status, ExpiryDate: tt.expiry}

			assert.Equal(t, tt.wantChanged, d.Expire(now))
			assert.Equal(t, tt.wantStatus, d.Status)

			// a second pass never changes anything
			assert.False(t, d.Expire(now))
			assert.Equal(t, tt.wantStatus, d.Status)
		})
	}
}

func TestDonation_BeforeSave(t *testing.T) {
	overdue := &Donation{Status: DonationStatusPending, ExpiryDate: time.Now().Add(-time.Hour)}
	require.NoError(t, overdue.BeforeSave(nil))
	assert.Equal(t, DonationStatusExpired, overdue.Status)

	live := &Donation{Status: DonationStatusPending, ExpiryDate: time.Now().Add(time.Hour)}
	require.NoError(t, live.BeforeSave(nil))
	assert.Equal(t, DonationStatusPending, live.Status)

	accepted := &Donation{Status: DonationStatusAccepted, ExpiryDate: time.Now().Add(-time.Hour)}
	require.NoError(t, accepted.BeforeSave(nil))
	assert.Equal(t, DonationStatusAccepted, accepted.Status)
}

func TestDonation_CloneIsDeep(t *testing.T) {
	lat, lng := 18.52, 73.85
	d := &Donation{Latitude: &lat, Longitude: &lng}

	c := d.Clone()
	*c.Latitude = 0
	assert.Equal(t, 18.52, *d.Latitude)
	assert.Nil(t, (*Donation)(nil).Clone())
}
