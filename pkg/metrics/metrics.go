package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	AcceptResultAccepted     = "accepted"
	AcceptResultInvalidState = "invalid_state"
	AcceptResultExpired      = "expired"
	AcceptResultNotFound     = "not_found"
	AcceptResultError        = "error"
)

// Metrics holds the donation lifecycle counters. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	DonationsCreated prometheus.Counter
	DonationAccepts  *prometheus.CounterVec
	DonationsExpired prometheus.Counter
	NearbySearches   prometheus.Histogram
}

// New registers the counters on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		DonationsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "mealbridge_donations_created_total",
			Help: "Total number of donations created",
		}),
		DonationAccepts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mealbridge_donation_accepts_total",
			Help: "Accept attempts by outcome",
		}, []string{"result"}),
		DonationsExpired: factory.NewCounter(prometheus.CounterOpts{
			Name: "mealbridge_donations_expired_total",
			Help: "Donations moved to expired, including those created past their deadline",
		}),
		NearbySearches: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "mealbridge_nearby_results",
			Help:    "Number of donations returned by proximity searches",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
		}),
	}
}

func (m *Metrics) IncrementDonationsCreated() {
	if m == nil {
		return
	}
	m.DonationsCreated.Inc()
}

func (m *Metrics) ObserveAccept(result string) {
	if m == nil {
		return
	}
	m.DonationAccepts.WithLabelValues(result).Inc()
}

func (m *Metrics) IncrementDonationsExpired() {
	if m == nil {
		return
	}
	m.DonationsExpired.Inc()
}

func (m *Metrics) AddDonationsExpired(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.DonationsExpired.Add(float64(n))
}

func (m *Metrics) ObserveNearbyResults(n int) {
	if m == nil {
		return
	}
	m.NearbySearches.Observe(float64(n))
}
