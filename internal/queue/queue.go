// Package queue moves payment-outcome events from the webhook handler to the
// reconciler over RabbitMQ. A single consumer with prefetch 1 keeps events
// for the same booking in order.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/quickshow/booking-api/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
)

const paymentOutcomeQueue = "payment.outcome"

type Publisher struct {
	conn   *amqp.Connection
	logger *slog.Logger
}

func NewPublisher(url string, logger *slog.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(paymentOutcomeQueue, true, false, false, false, nil)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp queue declare: %w", err)
	}

	return &Publisher{
		conn:   conn,
		logger: logger,
	}, nil
}

func (p *Publisher) Publish(ctx context.Context, event domain.PaymentOutcomeEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal payment outcome: %w", err)
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("amqp channel: %w", err)
	}
	defer ch.Close()

	err = ch.PublishWithContext(ctx, "", paymentOutcomeQueue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("amqp publish: %w", err)
	}

	return nil
}

func (p *Publisher) Close() error {
	return p.conn.Close()
}

// OutcomeHandler is implemented by the payment reconciler. Returning an error
// requeues the event once; a second failure drops it to avoid tight loops.
type OutcomeHandler interface {
	HandlePaymentOutcome(ctx context.Context, event domain.PaymentOutcomeEvent) error
}

type Consumer struct {
	url     string
	handler OutcomeHandler
	logger  *slog.Logger
}

func NewConsumer(url string, handler OutcomeHandler, logger *slog.Logger) *Consumer {
	return &Consumer{
		url:     url,
		handler: handler,
		logger:  logger,
	}
}

// Run consumes payment-outcome events until the context is cancelled. It
// reconnects with exponential backoff when the broker connection drops.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second

	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.logger.Error("payment consumer failed to dial broker", "error", err, "retry_in", backoff)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}

			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consumeLoop(ctx, conn)
		conn.Close()

		if ctx.Err() != nil {
			return ctx.Err()
		}

		c.logger.Error("payment consumer loop ended, reconnecting", "error", err)
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("amqp channel: %w", err)
	}
	defer ch.Close()

	// Prefetch 1 serializes delivery, which is what preserves per-booking
	// event order.
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("amqp qos: %w", err)
	}

	_, err = ch.QueueDeclare(paymentOutcomeQueue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("amqp queue declare: %w", err)
	}

	deliveries, err := ch.Consume(paymentOutcomeQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("amqp consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("deliveries channel closed")
			}

			c.handleDelivery(ctx, d)
		}
	}
}

func (c *Consumer) handleDelivery(ctx context.Context, d amqp.Delivery) {
	var event domain.PaymentOutcomeEvent

	if err := json.Unmarshal(d.Body, &event); err != nil {
		c.logger.Error("dropping malformed payment outcome event", "error", err)
		d.Nack(false, false)
		return
	}

	if err := c.handler.HandlePaymentOutcome(ctx, event); err != nil {
		c.logger.Error(
			"failed to handle payment outcome",
			"booking_reference", event.BookingReference,
			"outcome", event.Outcome,
			"error", err,
		)

		// One redelivery attempt, then drop.
		d.Nack(false, !d.Redelivered)
		return
	}

	d.Ack(false)
}
