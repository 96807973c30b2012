package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"online-panthi/pkg/config"
	"online-panthi/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ModerationExchange  = "moderation"
	ModerationQueueName = "moderation_events"
)

type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *logger.Logger
}

func NewRabbitMQClient(cfg *config.Config, log *logger.Logger) (*Client, error) {
	url := fmt.Sprintf("amqp://%s:%s@%s:%s/",
		cfg.RabbitMQUser,
		cfg.RabbitMQPassword,
		cfg.RabbitMQHost,
		cfg.RabbitMQPort,
	)

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		ModerationExchange, // name
		"direct",           // type
		true,               // durable
		false,              // auto-deleted
		false,              // internal
		false,              // no-wait
		nil,                // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	// Removals outrank report notices
	_, err = channel.QueueDeclare(
		ModerationQueueName, // name
		true,                // durable
		false,               // delete when unused
		false,               // exclusive
		false,               // no-wait
		amqp.Table{
			"x-max-priority": 10,
		},
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	for _, key := range []EventType{EventPostReported, EventPostRemoved} {
		if err := channel.QueueBind(ModerationQueueName, string(key), ModerationExchange, false, nil); err != nil {
			channel.Close()
			conn.Close()
			return nil, fmt.Errorf("failed to bind queue for %s: %w", key, err)
		}
	}

	log.Info("Connected to RabbitMQ at %s:%s", cfg.RabbitMQHost, cfg.RabbitMQPort)

	return &Client{
		conn:    conn,
		channel: channel,
		logger:  log,
	}, nil
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

func priorityFor(t EventType) uint8 {
	if t == EventPostRemoved {
		return 8
	}
	return 3
}

func (c *Client) PublishModerationEvent(ctx context.Context, event ModerationEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = c.channel.PublishWithContext(ctx,
		ModerationExchange, // exchange
		string(event.Type), // routing key
		false,              // mandatory
		false,              // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			Priority:     priorityFor(event.Type),
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.OccurredAt,
		},
	)
	if err != nil {
		c.logger.Error("[RABBITMQ] Failed to publish to exchange=%s, routing_key=%s: %v", ModerationExchange, event.Type, err)
		return fmt.Errorf("failed to publish message: %w", err)
	}

	c.logger.Info("[RABBITMQ] Published %s for post %s", event.Type, event.PostID)
	return nil
}

// ConsumeModerationEvents delivers events to handler until ctx is done. A failed event is
// requeued once; if it fails again on redelivery it is dropped. Undecodable messages are dropped.
func (c *Client) ConsumeModerationEvents(ctx context.Context, handler func(ModerationEvent) error) error {
	msgs, err := c.channel.Consume(
		ModerationQueueName, // queue
		"",                  // consumer
		false,               // auto-ack
		false,               // exclusive
		false,               // no-local
		false,               // no-wait
		nil,                 // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("[RABBITMQ] Started consuming from queue: %s", ModerationQueueName)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				c.dispatch(msg, handler)
			}
		}
	}()

	return nil
}

func (c *Client) dispatch(msg amqp.Delivery, handler func(ModerationEvent) error) {
	var event ModerationEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		c.logger.Error("[RABBITMQ] Failed to unmarshal moderation event: %v, body=%s", err, string(msg.Body))
		msg.Nack(false, false)
		return
	}

	if err := handler(event); err != nil {
		if msg.Redelivered {
			c.logger.Error("[RABBITMQ] Dropping %s post=%s after retry: %v", event.Type, event.PostID, err)
			msg.Nack(false, false)
			return
		}
		c.logger.Warn("[RABBITMQ] Handler failed for %s post=%s, requeueing: %v", event.Type, event.PostID, err)
		msg.Nack(false, true)
		return
	}

	msg.Ack(false)
}
