// Package events publishes domain events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dalemusser/menuhub/internal/domain/models"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// TypeOrderCreated is the event type for a newly placed order.
const TypeOrderCreated = "order.created"

// OrderCreated is the payload of an order.created event.
type OrderCreated struct {
	EventID     string      `json:"eventId"`
	Type        string      `json:"type"`
	OccurredAt  time.Time   `json:"occurredAt"`
	OrderID     string      `json:"orderId"`
	UserID      string      `json:"userId"`
	Status      string      `json:"status"`
	TotalAmount float64     `json:"totalAmount"`
	Items       []OrderLine `json:"items"`
}

// OrderLine is one line of an order.created event.
type OrderLine struct {
	MenuItemID string  `json:"menuItemId"`
	Name       string  `json:"name"`
	Category   string  `json:"category,omitempty"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
}

// NewOrderCreated builds the event for o with a fresh event id.
func NewOrderCreated(o models.Order) OrderCreated {
	lines := make([]OrderLine, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, OrderLine{
			MenuItemID: it.MenuItemID.Hex(),
			Name:       it.Name,
			Category:   it.Category,
			Price:      it.Price,
			Quantity:   it.Quantity,
		})
	}
	return OrderCreated{
		EventID:     uuid.NewString(),
		Type:        TypeOrderCreated,
		OccurredAt:  o.CreatedAt,
		OrderID:     o.ID.Hex(),
		UserID:      o.UserID.Hex(),
		Status:      o.Status,
		TotalAmount: o.TotalAmount,
		Items:       lines,
	}
}

// Publisher sends domain events. Implementations must be safe for
// concurrent use.
type Publisher interface {
	PublishOrderCreated(ctx context.Context, o models.Order) error
	Close() error
}

// MessageWriter is the subset of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events to a single topic. Messages are keyed by
// order id so all events for one order land on the same partition.
type KafkaPublisher struct {
	Writer MessageWriter
}

// NewKafkaPublisher returns a publisher writing to topic on brokers.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{Writer: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}}
}

// PublishOrderCreated writes an order.created event for o.
func (p *KafkaPublisher) PublishOrderCreated(ctx context.Context, o models.Order) error {
	msg, err := OrderCreatedMessage(NewOrderCreated(o))
	if err != nil {
		return err
	}
	if err := p.Writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s: %w", TypeOrderCreated, err)
	}
	return nil
}

// Close flushes pending writes.
func (p *KafkaPublisher) Close() error {
	return p.Writer.Close()
}

// OrderCreatedMessage encodes evt as a Kafka message.
func OrderCreatedMessage(evt OrderCreated) (kafka.Message, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode %s: %w", evt.Type, err)
	}
	return kafka.Message{
		Key:   []byte(evt.OrderID),
		Value: payload,
		Time:  evt.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(evt.Type)},
			{Key: "event-id", Value: []byte(evt.EventID)},
		},
	}, nil
}

// NopPublisher discards events. It is used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) PublishOrderCreated(context.Context, models.Order) error { return nil }
func (NopPublisher) Close() error                                           { return nil }
