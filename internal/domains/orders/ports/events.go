package ports

import (
	"context"
	"time"
)

// Order event types.
const (
	EventOrderPlaced        = "orders.placed"
	EventOrderStatusChanged = "orders.status_changed"
	EventOrderDeleted       = "orders.deleted"
)

// Event is the JSON payload published for order lifecycle changes.
type Event struct {
	Type        string    `json:"type"`
	OrderID     string    `json:"orderId"`
	Status      string    `json:"status,omitempty"`
	TotalAmount int64     `json:"totalAmount,omitempty"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// EventPublisher delivers serialized events keyed by partitionKey.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload []byte, partitionKey string) error
}
