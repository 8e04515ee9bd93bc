// Package amqpingest feeds job events from an AMQP queue into an ingestion
// service.
//
// Each delivery is acknowledged once its record is stored. Invalid events
// and records the store refuses are rejected without requeue; only an
// unreachable store requeues the delivery for another attempt. A lost connection is re-established with backoff until the
// context is cancelled.
package amqpingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xraph/batchwatch"
	"github.com/xraph/batchwatch/backoff"
	"github.com/xraph/batchwatch/ingest"
)

// Ingester is the part of ingest.Service the consumer depends on.
type Ingester interface {
	Ingest(ctx context.Context, payload []byte) (ingest.Receipt, error)
}

// DialFunc opens a broker connection.
type DialFunc func(url string) (*amqp.Connection, error)

// Option configures a Consumer.
type Option func(*Consumer)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Consumer) { c.logger = l }
}

// WithBackoff sets the reconnect delay strategy.
func WithBackoff(s backoff.Strategy) Option {
	return func(c *Consumer) { c.backoff = s }
}

// WithPrefetch sets the channel prefetch count.
func WithPrefetch(n int) Option {
	return func(c *Consumer) {
		if n > 0 {
			c.prefetch = n
		}
	}
}

// WithConsumerTag sets the consumer tag reported to the broker.
func WithConsumerTag(tag string) Option {
	return func(c *Consumer) { c.tag = tag }
}

// WithDialer replaces amqp.Dial.
func WithDialer(d DialFunc) Option {
	return func(c *Consumer) { c.dial = d }
}

// Consumer reads events from one durable queue.
type Consumer struct {
	url      string
	queue    string
	ingester Ingester
	logger   *slog.Logger
	backoff  backoff.Strategy
	prefetch int
	tag      string
	dial     DialFunc
}

// New creates a consumer for queue on the broker at url.
func New(url, queue string, in Ingester, opts ...Option) *Consumer {
	c := &Consumer{
		url:      url,
		queue:    queue,
		ingester: in,
		logger:   slog.Default(),
		backoff:  backoff.DefaultStrategy(),
		prefetch: 16,
		tag:      "batchwatch",
		dial:     amqp.Dial,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run consumes until ctx is cancelled. It returns nil on cancellation; any
// other failure triggers a reconnect.
func (c *Consumer) Run(ctx context.Context) error {
	attempt := 0
	for {
		delivered, err := c.consume(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if delivered {
			attempt = 0
		}
		attempt++
		c.logger.Warn("amqp consumer disconnected",
			slog.String("queue", c.queue),
			slog.Int("attempt", attempt),
			slog.String("error", errString(err)),
		)
		if err := backoff.Sleep(ctx, c.backoff, attempt); err != nil {
			return nil
		}
	}
}

// consume runs one connection until it fails. delivered reports whether
// at least one message was handled on it.
func (c *Consumer) consume(ctx context.Context) (delivered bool, err error) {
	conn, err := c.dial(c.url)
	if err != nil {
		return false, fmt.Errorf("amqp: dial: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return false, fmt.Errorf("amqp: open channel: %w", err)
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return false, fmt.Errorf("amqp: declare queue %s: %w", c.queue, err)
	}
	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		return false, fmt.Errorf("amqp: set qos: %w", err)
	}
	msgs, err := ch.Consume(c.queue, c.tag, false, false, false, false, nil)
	if err != nil {
		return false, fmt.Errorf("amqp: consume %s: %w", c.queue, err)
	}
	closed := conn.NotifyClose(make(chan *amqp.Error, 1))

	c.logger.Info("amqp consumer started", slog.String("queue", c.queue))

	// Deliveries are handled in order so later events for a job are
	// written last.
	for {
		select {
		case <-ctx.Done():
			return delivered, nil
		case amqpErr := <-closed:
			if amqpErr == nil {
				return delivered, errors.New("amqp: connection closed")
			}
			return delivered, amqpErr
		case d, ok := <-msgs:
			if !ok {
				return delivered, errors.New("amqp: delivery channel closed")
			}
			c.Handle(ctx, d)
			delivered = true
		}
	}
}

// Outcome is what Handle did with a delivery.
type Outcome string

const (
	OutcomeAcked     Outcome = "acked"
	OutcomeRejected  Outcome = "rejected"
	OutcomeRequeued  Outcome = "requeued"
	OutcomeAckFailed Outcome = "ack_failed"
)

// Handle ingests one delivery and settles it with the broker.
func (c *Consumer) Handle(ctx context.Context, d amqp.Delivery) Outcome {
	receipt, err := c.ingester.Ingest(ctx, d.Body)

	var (
		outcome Outcome
		ackErr  error
	)
	switch {
	case err == nil:
		outcome, ackErr = OutcomeAcked, d.Ack(false)
	case errors.Is(err, ingest.ErrInvalidEvent):
		c.logger.Warn("rejecting invalid event",
			slog.String("message_id", d.MessageId),
			slog.String("error", err.Error()),
		)
		outcome, ackErr = OutcomeRejected, d.Nack(false, false)
	case errors.Is(err, batchwatch.ErrConnectivity):
		c.logger.Error("requeueing event",
			slog.String("message_id", d.MessageId),
			slog.String("error", err.Error()),
		)
		outcome, ackErr = OutcomeRequeued, d.Nack(false, true)
	default:
		c.logger.Error("dropping event that cannot be stored",
			slog.String("message_id", d.MessageId),
			slog.String("error", err.Error()),
		)
		outcome, ackErr = OutcomeRejected, d.Nack(false, false)
	}

	if ackErr != nil {
		c.logger.Error("settle delivery failed",
			slog.String("message_id", d.MessageId),
			slog.String("outcome", string(outcome)),
			slog.String("error", ackErr.Error()),
		)
		return OutcomeAckFailed
	}
	if outcome == OutcomeAcked {
		c.logger.Debug("event consumed",
			slog.String("job_id", receipt.JobID),
			slog.String("receipt_id", receipt.ID.String()),
		)
	}
	return outcome
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
