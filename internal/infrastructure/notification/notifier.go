// Package notification delivers new-order notices to log, RabbitMQ or Redis.
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/b2bprocure/backend/internal/domain/trade"
	"github.com/b2bprocure/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Message is the wire form of a new-order notice
type Message struct {
	EventID    uuid.UUID `json:"event_id"`
	OrderID    uuid.UUID `json:"order_id"`
	UserID     uuid.UUID `json:"user_id"`
	ContactID  uuid.UUID `json:"contact_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewMessage builds the notice for event
func NewMessage(event *trade.OrderPlacedEvent) Message {
	return Message{
		EventID:    event.EventID(),
		OrderID:    event.OrderID,
		UserID:     event.UserID,
		ContactID:  event.ContactID,
		OccurredAt: event.OccurredAt(),
	}
}

func encode(event *trade.OrderPlacedEvent) ([]byte, error) {
	body, err := json.Marshal(NewMessage(event))
	if err != nil {
		return nil, fmt.Errorf("encode order notice: %w", err)
	}
	return body, nil
}

// New builds the notifier selected by cfg.Driver. The returned close
// function releases broker connections.
func New(cfg config.NotificationConfig, amqpCfg config.AMQPConfig, redisCfg config.RedisConfig, logger *zap.Logger) (trade.Notifier, func() error, error) {
	switch cfg.Driver {
	case config.NotifierAMQP:
		conn, err := amqp.Dial(amqpCfg.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect rabbitmq: %w", err)
		}
		ch, err := conn.Channel()
		if err != nil {
			_ = conn.Close()
			return nil, nil, fmt.Errorf("open rabbitmq channel: %w", err)
		}
		n, err := NewAMQPNotifier(ch, cfg.Channel, logger)
		if err != nil {
			_ = conn.Close()
			return nil, nil, err
		}
		return n, conn.Close, nil

	case config.NotifierRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     redisCfg.Addr(),
			Password: redisCfg.Password,
			DB:       redisCfg.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		return NewRedisNotifier(client, cfg.Channel, logger), client.Close, nil

	default:
		return NewLogNotifier(logger), func() error { return nil }, nil
	}
}
