package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/tair/qr-order/internal/notifier"
)

// OrderEvent is the stream record of one live event. Order or Data of the
// source event is carried as Payload.
type OrderEvent struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	Channel   string          `json:"channel"`
	OrderID   string          `json:"order_id,omitempty"`
	TableID   string          `json:"table_id,omitempty"`
	Status    string          `json:"status,omitempty"`
	Message   string          `json:"message,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Kafka topics
const (
	TopicOrderEvents = "qrmenu.order-events"
)

// FromNotifierEvent converts a live event into its stream record
func FromNotifierEvent(e notifier.Event) (OrderEvent, error) {
	out := OrderEvent{
		EventID:   e.ID,
		EventType: e.Type,
		Channel:   e.Channel,
		OrderID:   e.OrderID,
		TableID:   e.TableID,
		Status:    e.Status,
		Message:   e.Message,
		Timestamp: e.Timestamp,
	}

	body := e.Order
	if body == nil {
		body = e.Data
	}
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return OrderEvent{}, fmt.Errorf("failed to marshal payload: %w", err)
		}
		out.Payload = raw
	}
	return out, nil
}

// Kind returns the "kind" field of a staff broadcast payload, if any
func (e OrderEvent) Kind() string {
	var body struct {
		Kind string `json:"kind"`
	}
	if len(e.Payload) == 0 || json.Unmarshal(e.Payload, &body) != nil {
		return ""
	}
	return body.Kind
}

// key keeps the events of one table on one partition
func (e OrderEvent) key() string {
	switch {
	case e.TableID != "":
		return "table_" + e.TableID
	case e.OrderID != "":
		return "order_" + e.OrderID
	default:
		return e.Channel
	}
}
