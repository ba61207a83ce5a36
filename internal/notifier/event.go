package notifier

import (
	"context"
	"time"
)

// Event types pushed to live clients
const (
	EventNewOrder          = "new-order"
	EventOrderUpdated      = "order-updated"
	EventOrderStatusUpdate = "order-status-update"
	EventStaffBroadcast    = "staff-broadcast"
)

// StaffChannel is shared by every connected staff client
const StaffChannel = "staff-broadcast"

const tableChannelPrefix = "table-"

// TableChannel names the channel of one table
func TableChannel(tableID string) string {
	return tableChannelPrefix + tableID
}

// Event is one live update. Order and Data are rendered as JSON as they are.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Channel   string      `json:"channel"`
	OrderID   string      `json:"orderId,omitempty"`
	TableID   string      `json:"tableId,omitempty"`
	Status    string      `json:"status,omitempty"`
	Message   string      `json:"message,omitempty"`
	Order     interface{} `json:"order,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Publisher is what the use cases need from the notifier
type Publisher interface {
	Publish(ctx context.Context, channel string, event Event) int
}

// Forwarder receives a copy of every published event, e.g. to mirror it to a stream
type Forwarder interface {
	Forward(ctx context.Context, event Event) error
}
