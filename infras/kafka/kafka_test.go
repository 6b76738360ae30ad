package kafka_test

import (
	"testing"

	"cowork/infras/kafka"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	ReservationID string `json:"reservationId"`
}

func TestMessage_RoundTrip(t *testing.T) {
	message := kafka.Message{Key: "r-1", Value: payload{ReservationID: "r-1"}}

	msg, err := message.ToKafkaMessage()
	require.NoError(t, err)
	assert.Equal(t, []byte("r-1"), msg.Key)
	assert.JSONEq(t, `{"reservationId":"r-1"}`, string(msg.Value))

	decoded, err := kafka.Decode[payload](msg)
	require.NoError(t, err)
	assert.Equal(t, "r-1", decoded.ReservationID)
}

func TestDecode_InvalidPayload(t *testing.T) {
	_, err := kafka.Decode[payload](kafkaGo.Message{Value: []byte("{")})
	assert.Error(t, err)

	_, err = (&kafka.Message{Value: make(chan int)}).ToKafkaMessage()
	assert.Error(t, err)
}
