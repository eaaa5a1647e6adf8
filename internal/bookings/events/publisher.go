package events

import (
	"context"

	"fixhub/pkg/kafka"
	"fixhub/pkg/logger"
	"fixhub/pkg/middleware"
	"fixhub/pkg/model"
)

// Publisher emits booking lifecycle events. Implemented over Kafka in
// production; tests substitute a func-backed fake.
type Publisher interface {
	Publish(ctx context.Context, event model.BookingEvent) error
}

const source = "bookings"

type kafkaPublisher struct {
	producer *kafka.Producer
	log      *logger.Logger
}

func NewKafkaPublisher(producer *kafka.Producer, log *logger.Logger) Publisher {
	return &kafkaPublisher{
		producer: producer,
		log:      log,
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, event model.BookingEvent) error {
	msg := kafka.NewMessage().
		WithKey(event.BookingID).
		WithValue(event).
		WithEventType(event.Type).
		WithCorrelationID(middleware.RequestID(ctx)).
		WithSource(source).
		Build()

	return p.producer.Publish(ctx, msg)
}
