package notification

import (
	"context"
	"fmt"

	"github.com/b2bprocure/backend/internal/domain/trade"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// redisPublisher is the part of *redis.Client the notifier uses
type redisPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisNotifier publishes notices on a Redis pub/sub channel
type RedisNotifier struct {
	client  redisPublisher
	channel string
	logger  *zap.Logger
}

// NewRedisNotifier creates a new RedisNotifier
func NewRedisNotifier(client redisPublisher, channel string, logger *zap.Logger) *RedisNotifier {
	return &RedisNotifier{client: client, channel: channel, logger: logger}
}

// NotifyOrderPlaced publishes the JSON notice
func (n *RedisNotifier) NotifyOrderPlaced(ctx context.Context, event *trade.OrderPlacedEvent) error {
	body, err := encode(event)
	if err != nil {
		return err
	}

	receivers, err := n.client.Publish(ctx, n.channel, body).Result()
	if err != nil {
		return fmt.Errorf("publish order notice: %w", err)
	}

	n.logger.Debug("Order notice published",
		zap.String("channel", n.channel),
		zap.Int64("receivers", receivers),
		zap.String("order_id", event.OrderID.String()),
	)
	return nil
}
