// Package consumer turns booking and order events into invoices.
package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"ginhawa/internal/billing/service"
	"ginhawa/pkg/config"
	apperrors "ginhawa/pkg/errors"
	"ginhawa/pkg/events"
	"ginhawa/pkg/kafka"
	kafka_config "ginhawa/pkg/kafka/config"
	kafka_middleware "ginhawa/pkg/kafka/middleware"
	"ginhawa/pkg/logger"
	"ginhawa/pkg/model"
)

const WorkerName = "billing-events"

// NewRouter routes checked-out bookings and served orders to the billing
// service. Malformed or rejected events are not retried.
func NewRouter(billing service.BillingService, log *logger.Logger) *events.Router {
	return events.NewRouter(log).
		On(events.BookingCheckedOut, func(ctx context.Context, eventType string, payload json.RawMessage) error {
			var booking model.Booking
			if err := json.Unmarshal(payload, &booking); err != nil {
				return kafka.NewPermanentError("invalid booking payload", err)
			}
			invoice, err := billing.RaiseForBooking(ctx, &booking)
			return outcome(log, eventType, booking.Reference, invoice, err)
		}).
		On(events.OrderServed, func(ctx context.Context, eventType string, payload json.RawMessage) error {
			var order model.Order
			if err := json.Unmarshal(payload, &order); err != nil {
				return kafka.NewPermanentError("invalid order payload", err)
			}
			invoice, err := billing.RaiseForOrder(ctx, &order)
			return outcome(log, eventType, order.Reference, invoice, err)
		})
}

func outcome(log *logger.Logger, eventType, reference string, invoice *model.Invoice, err error) error {
	if err == nil {
		if invoice != nil {
			log.Debug("Invoice raised from event", "event_type", eventType, "source_reference", reference, "reference", invoice.Reference)
		}
		return nil
	}
	if appErr := apperrors.AsAppError(err); appErr != nil && appErr.StatusCode() < 500 {
		return kafka.NewBusinessError(fmt.Sprintf("%s %s rejected", eventType, reference), err)
	}
	return kafka.NewTransientError(fmt.Sprintf("%s %s failed", eventType, reference), err)
}

// Worker runs the billing consumer inside an Application.
type Worker struct {
	consumer *kafka.Consumer
}

func (w *Worker) Name() string { return WorkerName }

func (w *Worker) Start(ctx context.Context) error { return w.consumer.Start(ctx) }

func (w *Worker) Close() error { return w.consumer.Close() }

// NewWorker connects a consumer group to the events topic. It returns nil
// when Kafka is disabled.
func NewWorker(cfg *config.Config, router *events.Router, metrics *kafka_middleware.Metrics) (*Worker, error) {
	if !cfg.KafkaEnabled {
		cfg.Log.Warn("Kafka disabled, invoices will not be raised from events")
		return nil, nil
	}

	kcfg, err := kafka_config.Load()
	if err != nil {
		return nil, err
	}

	c, err := kafka.NewConsumer(kcfg, cfg.EventsTopic, cfg.ConsumerGroup, cfg.EventsDLQTopic, router.Handle, cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka consumer: %w", err)
	}
	if kcfg.EnableMiddleware {
		c.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))
		if metrics != nil {
			c.Use(metrics.ConsumerMiddleware())
		}
	}
	return &Worker{consumer: c}, nil
}
