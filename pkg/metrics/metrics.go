package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Booking outcomes recorded by BookingsTotal.
const (
	OutcomeConfirmed = "confirmed"
	OutcomeConflict  = "conflict"
	OutcomeInvalid   = "invalid"
	OutcomeNotFound  = "not_found"
	OutcomeTimeout   = "timeout"
	OutcomeError     = "error"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movie_booking_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "code", "method"},
	)

	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movie_booking_bookings_total",
			Help: "Booking attempts by outcome",
		},
		[]string{"outcome"},
	)

	BookingTxDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "movie_booking_booking_tx_seconds",
			Help:    "Duration of booking transactions",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func ObserveBooking(outcome string) {
	BookingsTotal.WithLabelValues(outcome).Inc()
}

// ObserveBookingTx records how long one booking transaction ran,
// committed or rolled back.
func ObserveBookingTx(elapsed time.Duration) {
	BookingTxDuration.Observe(elapsed.Seconds())
}
