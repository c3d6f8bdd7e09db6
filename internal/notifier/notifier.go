// Package notifier publishes order lifecycle events to RabbitMQ. Delivery is
// best effort: the order lifecycle never fails because the broker is down,
// failures are only logged.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"restro_erp_backend/pkg/utils"

	"github.com/rabbitmq/amqp091-go"
)

const ordersExchange = "orders_topic"

const publishTimeout = 5 * time.Second

// Event routing keys.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventOrderSentToKitchen = "order.sent_to_kitchen"
	EventTableCompleted     = "order.table_completed"
)

// OrderEvent is the wire payload for an order lifecycle event.
type OrderEvent struct {
	Event      string    `json:"event"`
	OrderID    int64     `json:"order_id,omitempty"`
	TableLabel string    `json:"table_label,omitempty"`
	Status     string    `json:"status,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher emits order events on a topic exchange.
type Publisher struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

// NewPublisher dials the broker and declares the orders exchange.
func NewPublisher(amqpURL string) (*Publisher, error) {
	conn, err := amqp091.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if err := channel.ExchangeDeclare(ordersExchange, "topic", true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", ordersExchange, err)
	}
	return &Publisher{conn: conn, channel: channel}, nil
}

// PublishOrderEvent sends one event to the orders exchange. A nil Publisher is
// a no-op so the lifecycle service works without a broker configured.
func (p *Publisher) PublishOrderEvent(event OrderEvent) {
	if p == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	body, err := json.Marshal(event)
	if err != nil {
		utils.LogError(err, "Failed to marshal order event")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	err = p.channel.PublishWithContext(ctx, ordersExchange, event.Event, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now(),
	})
	if err != nil {
		utils.LogError(err, "Failed to publish order event "+event.Event)
		return
	}
	utils.LogDebug("Order event published", map[string]interface{}{
		"event":    event.Event,
		"order_id": event.OrderID,
	})
}

// Close shuts down the channel and connection.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}
