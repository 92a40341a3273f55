package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service's prometheus collectors. The duplicate-booking
// counters are the telemetry half of the advisory booking probes: duplicates
// are counted here, never rejected.
type Metrics struct {
	BookingsTotal          *prometheus.CounterVec
	DuplicateBookingsTotal *prometheus.CounterVec
	TokenOperationsTotal   *prometheus.CounterVec
}

// New registers the collectors with reg. Tests pass a fresh
// prometheus.NewRegistry so runs never collide.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		BookingsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "assessment_bookings_total",
			Help: "Booking attempts by outcome.",
		}, []string{"outcome"}),
		DuplicateBookingsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "assessment_duplicate_bookings_total",
			Help: "Advisory duplicate-booking detections by kind.",
		}, []string{"kind"}),
		TokenOperationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "assessment_token_operations_total",
			Help: "Organization token lifecycle operations by op and outcome.",
		}, []string{"op", "outcome"}),
	}
}
