package metrics_test

import (
	"net/http"
	"testing"
	"time"

	"cowork/shared/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRegister_Idempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		metrics.Register()
		metrics.Register()
	})
}

func TestObserveReservation(t *testing.T) {
	counter := metrics.ReservationOutcomes().WithLabelValues(metrics.OperationReservationCreate, "conflict")
	before := testutil.ToFloat64(counter)

	metrics.ObserveReservation(metrics.OperationReservationCreate, "conflict")
	metrics.ObserveReservation(metrics.OperationReservationCreate, "conflict")

	assert.InDelta(t, before+2, testutil.ToFloat64(counter), 0.0001)
}

func TestObserveHTTP(t *testing.T) {
	assert.NotPanics(t, func() {
		metrics.ObserveHTTP(http.MethodGet, "/v1/meetingrooms", http.StatusOK, 15*time.Millisecond)
	})
}
