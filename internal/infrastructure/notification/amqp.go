package notification

import (
	"context"
	"fmt"

	"github.com/b2bprocure/backend/internal/domain/trade"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// amqpChannel is the part of *amqp.Channel the notifier uses
type amqpChannel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPNotifier publishes notices to a durable RabbitMQ queue
type AMQPNotifier struct {
	ch     amqpChannel
	queue  string
	logger *zap.Logger
}

// NewAMQPNotifier declares queue on ch and returns a notifier publishing to it
func NewAMQPNotifier(ch amqpChannel, queue string, logger *zap.Logger) (*AMQPNotifier, error) {
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}
	return &AMQPNotifier{ch: ch, queue: queue, logger: logger}, nil
}

// NotifyOrderPlaced publishes a persistent JSON message
func (n *AMQPNotifier) NotifyOrderPlaced(ctx context.Context, event *trade.OrderPlacedEvent) error {
	body, err := encode(event)
	if err != nil {
		return err
	}

	err = n.ch.PublishWithContext(ctx, "", n.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.EventID().String(),
		Timestamp:    event.OccurredAt(),
		Type:         event.EventType(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish order notice: %w", err)
	}

	n.logger.Debug("Order notice published",
		zap.String("queue", n.queue),
		zap.String("order_id", event.OrderID.String()),
	)
	return nil
}
