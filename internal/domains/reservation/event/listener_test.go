package event_test

import (
	"context"
	"testing"

	kafkaMocks "cowork/infras/kafka/mocks"
	"cowork/internal/domains/reservation/event"
	"cowork/shared/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestListener_Handle(t *testing.T) {
	listener := event.NewListener(nil, "cowork", "reservation-events")
	counter := metrics.ReservationEvents().WithLabelValues("reservation.created")
	before := testutil.ToFloat64(counter)

	err := listener.Handle(context.Background(), kafkaGo.Message{
		Key:   []byte("room-1"),
		Value: []byte(`{"type":"reservation.created","reservationId":"r-1","meetingRoomId":"room-1"}`),
	})

	assert.NoError(t, err)
	assert.InDelta(t, before+1, testutil.ToFloat64(counter), 0.0001)

	err = listener.Handle(context.Background(), kafkaGo.Message{Value: []byte("not json")})
	assert.Error(t, err)
}

func TestListener_Run(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := kafkaMocks.NewMockClient(ctrl)

	client.EXPECT().Consume(gomock.Any(), "cowork", "reservation-events", gomock.Any())

	event.NewListener(client, "cowork", "reservation-events").Run(context.Background())
}
