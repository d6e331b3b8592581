package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"content_ingest/internal/domain"
	"content_ingest/internal/metrics"
)

// RabbitMQ is the draft pipeline's ingestion boundary: fetched items are
// published as persistent messages onto a durable queue for asynchronous
// style matching and draft generation. Delivery is at-least-once; the
// consumer dedupes by (source_id, external_id).
type RabbitMQ struct {
	conn       *amqp.Connection
	channel    *amqp.Channel
	exchange   string
	routingKey string
	logger     *slog.Logger
}

type Config struct {
	URL        string
	Exchange   string
	RoutingKey string
	QueueName  string
}

func NewRabbitMQ(cfg Config, logger *slog.Logger) (*RabbitMQ, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		cfg.Exchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	q, err := ch.QueueDeclare(
		cfg.QueueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	err = ch.QueueBind(
		q.Name,
		cfg.RoutingKey,
		cfg.Exchange,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("bind queue: %w", err)
	}

	logger.Info("connected to rabbitmq",
		"exchange", cfg.Exchange,
		"queue", cfg.QueueName,
		"routing_key", cfg.RoutingKey,
	)

	return &RabbitMQ{
		conn:       conn,
		channel:    ch,
		exchange:   cfg.Exchange,
		routingKey: cfg.RoutingKey,
		logger:     logger,
	}, nil
}

// DraftRequest is one unit of downstream work: a single content item to
// style-match and draft against the owner's profile.
type DraftRequest struct {
	SourceID   string             `json:"source_id"`
	OwnerID    string             `json:"owner_id"`
	Item       domain.ContentItem `json:"item"`
	EnqueuedAt time.Time          `json:"enqueued_at"`
}

// Ingest publishes one message per item. An error means some items may
// already be on the queue; the consumer's dedup makes the retry safe.
func (r *RabbitMQ) Ingest(ctx context.Context, sourceID, ownerID string, items []domain.ContentItem) error {
	for i := range items {
		msg := DraftRequest{
			SourceID:   sourceID,
			OwnerID:    ownerID,
			Item:       items[i],
			EnqueuedAt: time.Now().UTC(),
		}

		body, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("marshal message: %w", err)
		}

		err = r.channel.PublishWithContext(
			ctx,
			r.exchange,
			r.routingKey,
			false,
			false,
			amqp.Publishing{
				DeliveryMode: amqp.Persistent,
				ContentType:  "application/json",
				Body:         body,
				Timestamp:    time.Now(),
			},
		)
		if err != nil {
			metrics.MessagesPublished.WithLabelValues("error").Inc()
			return fmt.Errorf("publish message: %w", err)
		}
		metrics.MessagesPublished.WithLabelValues("ok").Inc()
	}

	r.logger.Debug("enqueued draft requests",
		"source_id", sourceID,
		"items", len(items),
	)

	return nil
}

func (r *RabbitMQ) Close() error {
	if r.channel != nil {
		r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
