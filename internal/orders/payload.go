package orders

import (
	"time"

	"github.com/flamedough/api/internal/enum"
)

// Payload is the normalized order handed to the submission transport and
// to PushOrder. It is built once per attempt and not modified afterwards.
type Payload struct {
	IdempotencyKey string           `json:"idempotencyKey"`
	CreatedAt      time.Time        `json:"createdAt"`
	Mode           enum.OrderMode   `json:"mode"`
	Customer       PayloadCustomer  `json:"customer"`
	Delivery       *PayloadDelivery `json:"delivery"`
	Items          []PayloadItem    `json:"items"`
	Totals         Totals           `json:"totals"`
}

type PayloadCustomer struct {
	FullName string      `json:"fullName"`
	Phone    string      `json:"phone"`
	Email    *string     `json:"email"`
	Source   enum.Source `json:"source"`
}

// PayloadDelivery is nil for pickup orders.
type PayloadDelivery struct {
	AddressLine  string  `json:"addressLine"`
	BuildingNo   string  `json:"buildingNo"`
	District     string  `json:"district"`
	City         string  `json:"city"`
	DeliveryNote string  `json:"deliveryNote"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
}

type PayloadItem struct {
	MenuItemID         string     `json:"menuItemId"`
	Name               string     `json:"name"`
	Quantity           int        `json:"quantity"`
	UnitPrice          int64      `json:"unitPrice"`
	LineTotal          int64      `json:"lineTotal"`
	RemovedIngredients []string   `json:"removedIngredients"`
	Modifiers          []Modifier `json:"modifiers"`
}

// Modifier is one group's selection as recorded on an order line.
type Modifier struct {
	GroupName       string           `json:"groupName"`
	Type            enum.GroupType   `json:"type"`
	SelectedOptions []SelectedOption `json:"selectedOptions"`
}

type SelectedOption struct {
	Name       string `json:"name"`
	PriceDelta int64  `json:"priceDelta"`
}

type Totals struct {
	Subtotal    int64  `json:"subtotal"`
	DeliveryFee int64  `json:"deliveryFee"`
	Total       int64  `json:"total"`
	Currency    string `json:"currency"`
}
