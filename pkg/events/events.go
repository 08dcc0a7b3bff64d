// Package events carries domain events between services over Kafka.
// Publishers never fail the request that produced an event: when Kafka is
// disabled a NopPublisher is used, and publish errors are only logged.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ginhawa/pkg/kafka"
	kafka_config "ginhawa/pkg/kafka/config"
	kafka_middleware "ginhawa/pkg/kafka/middleware"
	"ginhawa/pkg/logger"
)

const (
	BookingConfirmed      = "booking.confirmed"
	BookingCancelled      = "booking.cancelled"
	BookingCheckedIn      = "booking.checked_in"
	BookingCheckedOut     = "booking.checked_out"
	OrderPlaced           = "order.placed"
	OrderServed           = "order.served"
	HousekeepingRequested = "housekeeping.requested"
)

const SchemaVersion = "1"

// Event is a domain event. Key is the partition key, normally the
// reference code of the entity, so events for one booking stay ordered.
type Event struct {
	Type          string
	Key           string
	Payload       any
	CorrelationID string
}

type Publisher interface {
	Publish(ctx context.Context, event Event)
	Close() error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) {}

func (NopPublisher) Close() error { return nil }

type KafkaPublisher struct {
	producer *kafka.Producer
	source   string
	timeout  time.Duration
	log      *logger.Logger
}

func NewKafkaPublisher(producer *kafka.Producer, source string, log *logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		producer: producer,
		source:   source,
		timeout:  5 * time.Second,
		log:      log,
	}
}

// Publish writes the event. It detaches from the request deadline so a
// client disconnect after a committed write does not drop the event.
func (p *KafkaPublisher) Publish(ctx context.Context, event Event) {
	msg, err := kafka.NewMessage().
		WithKey(event.Key).
		WithValue(event.Payload).
		WithEventType(event.Type).
		WithSchemaVersion(SchemaVersion).
		WithSource(p.source).
		WithCorrelationID(event.CorrelationID).
		Build()
	if err != nil {
		p.log.Error("Failed to encode event", "event_type", event.Type, "key", event.Key, "error", err)
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	if err := p.producer.Publish(pubCtx, msg); err != nil {
		p.log.Warn("Failed to publish event",
			"event_type", event.Type,
			"key", event.Key,
			"event_id", msg.GetEventID(),
			"error", err,
		)
	}
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// NewPublisher returns a Kafka-backed publisher when enabled, otherwise a
// NopPublisher.
func NewPublisher(enabled bool, topic, dlqTopic, source string, metrics *kafka_middleware.Metrics, log *logger.Logger) (Publisher, error) {
	if !enabled {
		log.Info("Kafka disabled, domain events will not be published")
		return NopPublisher{}, nil
	}

	kcfg, err := kafka_config.Load()
	if err != nil {
		return nil, err
	}
	kcfg.LogConfiguration(log)

	producer, err := kafka.NewProducer(kcfg, topic, dlqTopic, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	if kcfg.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware(log))
		if metrics != nil {
			producer.Use(metrics.ProducerMiddleware())
		}
	}
	return NewKafkaPublisher(producer, source, log), nil
}

// Handler processes one decoded event.
type Handler func(ctx context.Context, eventType string, payload json.RawMessage) error

// Router dispatches consumed messages by event type. Unrouted types are
// acknowledged and skipped.
type Router struct {
	handlers map[string]Handler
	log      *logger.Logger
}

func NewRouter(log *logger.Logger) *Router {
	return &Router{handlers: make(map[string]Handler), log: log}
}

func (r *Router) On(eventType string, h Handler) *Router {
	r.handlers[eventType] = h
	return r
}

// Handle implements kafka.MessageHandler.
func (r *Router) Handle(ctx context.Context, msg kafka.Message) error {
	eventType := msg.GetEventType()
	h, ok := r.handlers[eventType]
	if !ok {
		r.log.Debug("Skipping unrouted event", "event_type", eventType, "key", msg.Key)
		return nil
	}
	if len(msg.Value) == 0 || !json.Valid(msg.Value) {
		return kafka.NewPermanentError("deserialization failed", fmt.Errorf("event %s has invalid payload", eventType))
	}
	return h(ctx, eventType, json.RawMessage(msg.Value))
}
