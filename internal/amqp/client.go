package amqp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"

	applog "depenses/internal/log"
)

// Client publishes and consumes expense mutation events over a durable
// direct exchange.
type Client struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string
}

func NewClient(url, exchangeName, queueName string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		queueName:    queueName,
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = c.channel.QueueDeclare(
		c.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	// Routing key matches the queue name on a direct exchange.
	err = c.channel.QueueBind(c.queueName, c.queueName, c.exchangeName, false, nil)
	if err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

// PublishExpenseEvent publishes a mutation event. Callers treat failures as
// best-effort: the HTTP response is never held hostage by the broker.
func (c *Client) PublishExpenseEvent(ctx context.Context, eventType EventType, id int64) error {
	msg := NewExpenseEvent(eventType, id)
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = c.channel.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		c.queueName,    // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	slog.DebugContext(ctx, "Published expense event",
		applog.FieldEventType, eventType,
		applog.FieldExpenseID, id,
		"exchange", c.exchangeName,
		"queue", c.queueName)

	return nil
}

// ConsumeExpenseEvents delivers events to handler until ctx is done. Handler
// failures requeue the delivery; undecodable payloads are dropped.
func (c *Client) ConsumeExpenseEvents(ctx context.Context, handler func(*ExpenseEvent) error) error {
	msgs, err := c.channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack (we want manual ack)
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	slog.InfoContext(ctx, "Started consuming expense events", "queue", c.queueName)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping event consumption", "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}

			handleDelivery(ctx, delivery, handler)
		}
	}
}

// handleDelivery decodes one delivery and settles it: undecodable payloads
// are dropped, handler failures are requeued, successes acked.
func handleDelivery(ctx context.Context, delivery amqp091.Delivery, handler func(*ExpenseEvent) error) {
	ev, err := ExpenseEventFromJSON(delivery.Body)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to decode event", applog.FieldError, err)
		if nackErr := delivery.Nack(false, false); nackErr != nil {
			slog.ErrorContext(ctx, "Failed to nack delivery", applog.FieldError, nackErr)
		}
		return
	}

	if err := handler(ev); err != nil {
		slog.ErrorContext(ctx, "Failed to handle event",
			applog.FieldError, err,
			applog.FieldEventType, ev.Type,
			applog.FieldExpenseID, ev.ID)
		if nackErr := delivery.Nack(false, true); nackErr != nil {
			slog.ErrorContext(ctx, "Failed to nack delivery", applog.FieldError, nackErr)
		}
		return
	}

	if ackErr := delivery.Ack(false); ackErr != nil {
		slog.ErrorContext(ctx, "Failed to ack delivery", applog.FieldError, ackErr)
	}
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
