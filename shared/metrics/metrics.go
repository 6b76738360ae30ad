package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "cowork"

const (
	OperationReservationCreate = "create"
	OperationReservationUpdate = "update"

	OutcomeAccepted = "accepted"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	reservationOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservation_outcomes_total",
			Help:      "Booking attempts by operation and outcome (accepted or the rejection reason).",
		},
		[]string{"operation", "outcome"},
	)

	reservationEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservation_events_consumed_total",
			Help:      "Reservation lifecycle events read from the event stream by type.",
		},
		[]string{"type"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, reservationOutcomes, reservationEvents)
	})
}

// ObserveHTTP records one served request.
func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveReservation increments the outcome counter of a booking attempt.
func ObserveReservation(operation, outcome string) {
	reservationOutcomes.WithLabelValues(operation, outcome).Inc()
}

// ObserveReservationEvent counts one consumed lifecycle event.
func ObserveReservationEvent(eventType string) {
	reservationEvents.WithLabelValues(eventType).Inc()
}

// ReservationEvents exposes the consumed event counter.
func ReservationEvents() *prometheus.CounterVec {
	return reservationEvents
}

// ReservationOutcomes exposes the counter for tests and admin tooling.
func ReservationOutcomes() *prometheus.CounterVec {
	return reservationOutcomes
}
