// Package event consumes the reservation lifecycle stream.
package event

import (
	"context"
	"fmt"

	"cowork/config"
	"cowork/infras/kafka"
	"cowork/internal/domains/reservation/model/dto"
	"cowork/shared/metrics"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

type Listener struct {
	client kafka.Client
	group  string
	topic  string
}

func NewListener(client kafka.Client, group, topic string) *Listener {
	return &Listener{
		client: client,
		group:  group,
		topic:  topic,
	}
}

// New builds the listener for the configured consumer group and reservation topic.
func New(client kafka.Client, cfg *config.Config) *Listener {
	return NewListener(client, cfg.Kafka.ConsumerGroup, cfg.Kafka.Topic.Reservation)
}

// Run blocks until ctx is cancelled.
func (l *Listener) Run(ctx context.Context) {
	log.Info().Str("topic", l.topic).Str("group", l.group).Msg("reservation event listener started")

	l.client.Consume(ctx, l.group, l.topic, l.Handle)
}

// Handle records one reservation event in the audit log.
func (l *Listener) Handle(_ context.Context, msg kafkaGo.Message) error {
	event, err := kafka.Decode[dto.Event](msg)
	if err != nil {
		return fmt.Errorf("failed to decode reservation event: %w", err)
	}

	metrics.ObserveReservationEvent(event.Type)

	log.Info().
		Str("type", event.Type).
		Str("reservationID", event.ReservationID).
		Str("meetingRoomID", event.MeetingRoomID).
		Str("userID", event.UserID).
		Str("start", event.ReserveDateStart).
		Str("end", event.ReserveDateEnd).
		Msg("reservation event")

	return nil
}
