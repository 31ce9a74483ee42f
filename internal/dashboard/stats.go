package dashboard

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/flamedough/api/internal/enum"
	"github.com/flamedough/api/internal/orders"
)

// Stats is the overview card data.
type Stats struct {
	TodayOrders       int             `json:"todayOrders"`
	TodayRevenue      int64           `json:"todayRevenue"`
	AverageOrderValue int64           `json:"averageOrderValue"`
	PendingCount      int             `json:"pendingCount"`
	VATIncluded       decimal.Decimal `json:"vatIncluded"`
}

// TaxRates maps menu item ids to their tax rate percentage.
func TaxRates(m Menu) map[string]int {
	rates := make(map[string]int)
	for _, c := range m.Categories {
		for _, it := range c.Items {
			rates[it.ID] = it.TaxRate
		}
	}
	return rates
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// includedVAT is the tax portion of a tax-inclusive gross amount.
func includedVAT(gross int64, rate int) decimal.Decimal {
	r := decimal.NewFromInt(int64(rate))
	return decimal.NewFromInt(gross).Mul(r).Div(r.Add(decimal.NewFromInt(100)))
}

// ComputeStats summarises today's orders in now's location. Cancelled orders
// count towards today's orders but not revenue. Pending counts every order
// still in new, whatever its day.
func ComputeStats(list []orders.Order, rates map[string]int, now time.Time) Stats {
	var st Stats
	vat := decimal.Zero
	valid := 0
	for _, o := range list {
		if o.Status == enum.OrderStatusNew {
			st.PendingCount++
		}
		if !sameDay(o.CreatedAt.In(now.Location()), now) {
			continue
		}
		st.TodayOrders++
		if o.Status == enum.OrderStatusCancelled {
			continue
		}
		valid++
		st.TodayRevenue += o.Total
		for _, it := range o.Items {
			rate, ok := rates[it.MenuItemID]
			if !ok {
				rate = DefaultTaxRate
			}
			vat = vat.Add(includedVAT(it.LineTotal, rate))
		}
		vat = vat.Add(includedVAT(o.DeliveryFee, DefaultTaxRate))
	}
	if valid > 0 {
		st.AverageOrderValue = decimal.NewFromInt(st.TodayRevenue).
			Div(decimal.NewFromInt(int64(valid))).Round(0).IntPart()
	}
	st.VATIncluded = vat.Round(2)
	return st
}
