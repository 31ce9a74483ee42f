// Package events publishes order lifecycle events to a message broker so
// downstream consumers (kitchen printers, WhatsApp notifier) can react.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/flamedough/api/internal/enum"
)

// Event types.
const (
	OrderCreated       = "order.created"
	OrderStatusChanged = "order.status_changed"
)

// Event is one order lifecycle notification.
type Event struct {
	Type        string           `json:"type"`
	OrderID     string           `json:"orderId"`
	OrderNumber string           `json:"orderNumber"`
	Status      enum.OrderStatus `json:"status"`
	Previous    enum.OrderStatus `json:"previousStatus,omitempty"`
	Total       int64            `json:"total"`
	Phone       string           `json:"phone,omitempty"`
	At          time.Time        `json:"at"`
}

// Publisher sends events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Nop discards events.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

func encode(e Event) ([]byte, error) {
	return json.Marshal(e)
}
