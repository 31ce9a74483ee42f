package service

import (
	"strings"
	"time"

	"github.com/flamedough/api/internal/cart"
	"github.com/flamedough/api/internal/checkout"
	"github.com/flamedough/api/internal/enum"
	"github.com/flamedough/api/internal/orders"
)

// BuildPayload normalizes a validated form and the cart lines into the
// order payload. Line totals are recomputed from unit price and quantity.
func BuildPayload(
	form checkout.Form,
	items []cart.Item,
	subtotal, deliveryFee, total int64,
	idempotencyKey string,
	whatsappSession bool,
	createdAt time.Time,
) orders.Payload {
	source := enum.SourceWeb
	if whatsappSession {
		source = enum.SourceWhatsApp
	}

	var email *string
	if e := strings.TrimSpace(form.Email); e != "" {
		email = &e
	}

	p := orders.Payload{
		IdempotencyKey: idempotencyKey,
		CreatedAt:      createdAt.UTC(),
		Mode:           form.Mode,
		Customer: orders.PayloadCustomer{
			FullName: strings.TrimSpace(form.FullName),
			Phone:    checkout.StripPhoneFormatting(form.Phone),
			Email:    email,
			Source:   source,
		},
		Items: make([]orders.PayloadItem, 0, len(items)),
		Totals: orders.Totals{
			Subtotal:    subtotal,
			DeliveryFee: deliveryFee,
			Total:       total,
			Currency:    enum.Currency,
		},
	}

	if form.Mode == enum.OrderModeDelivery {
		p.Delivery = &orders.PayloadDelivery{
			AddressLine:  strings.TrimSpace(form.AddressLine),
			BuildingNo:   strings.TrimSpace(form.BuildingNo),
			District:     form.District,
			City:         form.City,
			DeliveryNote: strings.TrimSpace(form.DeliveryNote),
			Lat:          form.PinLat,
			Lng:          form.PinLng,
		}
	}

	for _, it := range items {
		removed := it.RemovedIngredients
		if removed == nil {
			removed = []string{}
		}
		mods := make([]orders.Modifier, 0, len(it.SelectedModifiers))
		for _, m := range it.SelectedModifiers {
			opts := make([]orders.SelectedOption, 0, len(m.Options))
			for _, o := range m.Options {
				opts = append(opts, orders.SelectedOption{Name: o.Name, PriceDelta: o.PriceDelta})
			}
			mods = append(mods, orders.Modifier{
				GroupName:       m.GroupName,
				Type:            m.GroupType,
				SelectedOptions: opts,
			})
		}
		p.Items = append(p.Items, orders.PayloadItem{
			MenuItemID:         it.MenuItemID,
			Name:               it.Name,
			Quantity:           it.Quantity,
			UnitPrice:          it.UnitPrice,
			LineTotal:          it.UnitPrice * int64(it.Quantity),
			RemovedIngredients: removed,
			Modifiers:          mods,
		})
	}
	return p
}
