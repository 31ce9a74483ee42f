// Package orders is the order lifecycle bridge: the shared order record
// store written by checkout (creation) and the dashboard (status).
package orders

import (
	"errors"
	"fmt"
	"time"

	"github.com/flamedough/api/internal/enum"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrInvalidStatus     = errors.New("invalid order status")
)

// Order is the dashboard-visible order record.
type Order struct {
	ID           string           `json:"id"`
	OrderNumber  string           `json:"orderNumber"`
	Status       enum.OrderStatus `json:"status"`
	CreatedAt    time.Time        `json:"createdAt"`
	Customer     Customer         `json:"customer"`
	DeliveryType enum.OrderMode   `json:"deliveryType"`
	Address      *Address         `json:"address"`
	Items        []Item           `json:"items"`
	Subtotal     int64            `json:"subtotal"`
	DeliveryFee  int64            `json:"deliveryFee"`
	Total        int64            `json:"total"`
	Note         string           `json:"note"`
}

type Customer struct {
	Name   string      `json:"name"`
	Phone  string      `json:"phone"`
	Source enum.Source `json:"source"`
}

type Address struct {
	AddressLine  string `json:"addressLine"`
	District     string `json:"district"`
	City         string `json:"city"`
	DeliveryNote string `json:"deliveryNote"`
}

type Item struct {
	ID                 string     `json:"id"`
	MenuItemID         string     `json:"menuItemId,omitempty"`
	Name               string     `json:"name"`
	Quantity           int        `json:"quantity"`
	UnitPrice          int64      `json:"unitPrice"`
	LineTotal          int64      `json:"lineTotal"`
	RemovedIngredients []string   `json:"removedIngredients"`
	Modifiers          []Modifier `json:"modifiers"`
}

// FormatOrderNumber renders the human order number, e.g. "#0042".
func FormatOrderNumber(n int64) string {
	return fmt.Sprintf("#%04d", n)
}

// allowedTransitions defines valid status transitions.
// delivered and cancelled are terminal.
var allowedTransitions = map[enum.OrderStatus][]enum.OrderStatus{
	enum.OrderStatusNew:       {enum.OrderStatusPreparing, enum.OrderStatusCancelled},
	enum.OrderStatusPreparing: {enum.OrderStatusOnTheWay},
	enum.OrderStatusOnTheWay:  {enum.OrderStatusDelivered},
}

// NextStatuses lists the statuses reachable from current in one step.
func NextStatuses(current enum.OrderStatus) []enum.OrderStatus {
	return append([]enum.OrderStatus(nil), allowedTransitions[current]...)
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s enum.OrderStatus) bool {
	switch s {
	case enum.OrderStatusNew, enum.OrderStatusPreparing, enum.OrderStatusOnTheWay,
		enum.OrderStatusDelivered, enum.OrderStatusCancelled:
		return true
	}
	return false
}

// validateStatusTransition checks if the transition from current to next is allowed.
func validateStatusTransition(current, next enum.OrderStatus) error {
	allowed, ok := allowedTransitions[current]
	if !ok {
		return fmt.Errorf("cannot transition from %s: %w", current, ErrIllegalTransition)
	}
	for _, s := range allowed {
		if s == next {
			return nil
		}
	}
	return fmt.Errorf("cannot transition from %s to %s: %w", current, next, ErrIllegalTransition)
}

// fromPayload converts a submitted payload into a new order record.
func fromPayload(id, number string, p Payload, newID func() string) Order {
	o := Order{
		ID:           id,
		OrderNumber:  number,
		Status:       enum.OrderStatusNew,
		CreatedAt:    p.CreatedAt,
		DeliveryType: p.Mode,
		Customer: Customer{
			Name:   p.Customer.FullName,
			Phone:  p.Customer.Phone,
			Source: p.Customer.Source,
		},
		Items:       make([]Item, 0, len(p.Items)),
		Subtotal:    p.Totals.Subtotal,
		DeliveryFee: p.Totals.DeliveryFee,
		Total:       p.Totals.Total,
	}
	if p.Delivery != nil {
		o.Address = &Address{
			AddressLine:  p.Delivery.AddressLine,
			District:     p.Delivery.District,
			City:         p.Delivery.City,
			DeliveryNote: p.Delivery.DeliveryNote,
		}
	}
	for _, it := range p.Items {
		o.Items = append(o.Items, Item{
			ID:                 newID(),
			MenuItemID:         it.MenuItemID,
			Name:               it.Name,
			Quantity:           it.Quantity,
			UnitPrice:          it.UnitPrice,
			LineTotal:          it.LineTotal,
			RemovedIngredients: it.RemovedIngredients,
			Modifiers:          it.Modifiers,
		})
	}
	return o
}
