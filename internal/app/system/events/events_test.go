package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/menuhub/internal/app/system/events"
	"github.com/dalemusser/menuhub/internal/domain/models"
	"github.com/segmentio/kafka-go"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func sampleOrder() models.Order {
	return models.Order{
		ID:     primitive.NewObjectID(),
		UserID: primitive.NewObjectID(),
		Items: []models.OrderLine{
			{MenuItemID: primitive.NewObjectID(), Name: "Soup", Price: 4.5, Category: "starters", Quantity: 2},
		},
		Status:      models.OrderPending,
		TotalAmount: 9,
		CreatedAt:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestKafkaPublisher_PublishOrderCreated(t *testing.T) {
	w := &fakeWriter{}
	p := &events.KafkaPublisher{Writer: w}
	o := sampleOrder()

	if err := p.PublishOrderCreated(context.Background(), o); err != nil {
		t.Fatalf("PublishOrderCreated: %v", err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(w.msgs))
	}

	msg := w.msgs[0]
	if string(msg.Key) != o.ID.Hex() {
		t.Errorf("key = %q, want order id", msg.Key)
	}

	var evt events.OrderCreated
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if evt.Type != events.TypeOrderCreated {
		t.Errorf("type = %q", evt.Type)
	}
	if evt.EventID == "" {
		t.Error("event id is empty")
	}
	if evt.UserID != o.UserID.Hex() || evt.TotalAmount != 9 {
		t.Errorf("unexpected payload: %+v", evt)
	}
	if len(evt.Items) != 1 || evt.Items[0].Quantity != 2 || evt.Items[0].Category != "starters" {
		t.Errorf("unexpected items: %+v", evt.Items)
	}
}

func TestKafkaPublisher_WriteErrorWrapped(t *testing.T) {
	boom := errors.New("broker down")
	p := &events.KafkaPublisher{Writer: &fakeWriter{err: boom}}

	err := p.PublishOrderCreated(context.Background(), sampleOrder())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped broker error, got %v", err)
	}
}

func TestKafkaPublisher_Close(t *testing.T) {
	w := &fakeWriter{}
	p := &events.KafkaPublisher{Writer: w}
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !w.closed {
		t.Error("writer was not closed")
	}
}

func TestOrderCreatedMessage_Headers(t *testing.T) {
	evt := events.NewOrderCreated(sampleOrder())
	msg, err := events.OrderCreatedMessage(evt)
	if err != nil {
		t.Fatalf("OrderCreatedMessage: %v", err)
	}
	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	if headers["event-type"] != events.TypeOrderCreated {
		t.Errorf("event-type header = %q", headers["event-type"])
	}
	if headers["event-id"] != evt.EventID {
		t.Errorf("event-id header = %q, want %q", headers["event-id"], evt.EventID)
	}
	if !msg.Time.Equal(evt.OccurredAt) {
		t.Errorf("message time = %v", msg.Time)
	}
}

func TestNopPublisher(t *testing.T) {
	var p events.Publisher = events.NopPublisher{}
	if err := p.PublishOrderCreated(context.Background(), sampleOrder()); err != nil {
		t.Fatal(err)
	}
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
}
