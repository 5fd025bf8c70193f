package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/quickstay/backend-hotel/internal/domain"
	"github.com/quickstay/backend-hotel/pkg/kafka"
	"github.com/quickstay/backend-hotel/pkg/logger"
)

// EventPublisher publishes booking lifecycle events
type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, event *domain.BookingEvent) error
}

// KafkaEventPublisher publishes booking events to a Kafka topic keyed by
// booking ID, so events for one booking stay ordered within a partition.
type KafkaEventPublisher struct {
	producer *kafka.Producer
	topic    string
}

// NewKafkaEventPublisher creates a Kafka-backed event publisher
func NewKafkaEventPublisher(producer *kafka.Producer, topic string) *KafkaEventPublisher {
	return &KafkaEventPublisher{
		producer: producer,
		topic:    topic,
	}
}

func (p *KafkaEventPublisher) PublishBookingEvent(ctx context.Context, event *domain.BookingEvent) error {
	headers := map[string]string{
		"event_type": event.EventType,
	}
	return p.producer.ProduceJSON(ctx, p.topic, event.BookingID, event, headers)
}

// NoOpEventPublisher drops events. Used when Kafka is unreachable so the
// API keeps serving bookings without event delivery.
type NoOpEventPublisher struct{}

func (p *NoOpEventPublisher) PublishBookingEvent(ctx context.Context, event *domain.BookingEvent) error {
	logger.Get().Debug("event publishing disabled, dropping event",
		zap.String("event_type", event.EventType),
		zap.String("booking_id", event.BookingID),
	)
	return nil
}
