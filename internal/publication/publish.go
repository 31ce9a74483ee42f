// Package publication projects the dashboard's editable menu and settings
// into the read-only catalog customers see.
package publication

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/flamedough/api/internal/catalog"
	"github.com/flamedough/api/internal/checkout"
	"github.com/flamedough/api/internal/dashboard"
	"github.com/flamedough/api/internal/enum"
)

// Fallback artwork when the profile has none.
const (
	DefaultCoverImage = "https://images.unsplash.com/photo-1517248135467-4c7edcad34c4?w=1200&h=675&fit=crop"
	DefaultLogo       = "https://images.unsplash.com/photo-1565299624946-b28f40a0ae38?w=200&h=200&fit=crop"
)

// Districts served for delivery.
var Districts = []string{
	"Kadıköy", "Üsküdar", "Ataşehir", "Maltepe", "Beşiktaş",
	"Şişli", "Beyoğlu", "Bakırköy", "Fatih", "Kartal",
}

// dayKeys is indexed by time.Weekday.
var dayKeys = [7]string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}

func byDisplayOrder[T any](list []T, order func(T) int) []T {
	out := slices.Clone(list)
	slices.SortStableFunc(out, func(a, b T) int { return cmp.Compare(order(a), order(b)) })
	return out
}

// orderable reports whether a modifier option may be chosen.
func orderable(o dashboard.ModifierOption) bool {
	return o.StockStatus != enum.StockSoldOut && o.StockStatus != enum.StockHidden
}

func convertGroup(g dashboard.ModifierGroup) (catalog.ModifierGroup, error) {
	if g.Type == enum.GroupRemoval {
		ingredients := make([]string, 0, len(g.Options))
		for _, o := range g.Options {
			ingredients = append(ingredients, o.Name)
		}
		return catalog.RemovalGroup{Name: g.Name, Ingredients: ingredients}, nil
	}

	var options []catalog.ModifierOption
	defaultID := ""
	for _, o := range g.Options {
		if !orderable(o) {
			continue
		}
		options = append(options, catalog.ModifierOption{ID: o.ID, Name: o.Name, PriceDelta: o.PriceDelta})
		if o.IsDefault && defaultID == "" {
			defaultID = o.ID
		}
	}
	if options == nil {
		options = []catalog.ModifierOption{}
	}

	switch g.Type {
	case enum.GroupSingle:
		return catalog.SingleSelectGroup{
			Name:            g.Name,
			Required:        g.Required,
			Options:         options,
			DefaultOptionID: defaultID,
		}, nil
	case enum.GroupMulti:
		return catalog.MultiSelectGroup{
			Name:          g.Name,
			MinSelections: g.MinSelections,
			MaxSelections: g.MaxSelections,
			Options:       options,
		}, nil
	}
	return nil, fmt.Errorf("group %s: unknown type %q", g.Name, g.Type)
}

func convertItem(it dashboard.MenuItem) (catalog.MenuItem, error) {
	out := catalog.MenuItem{
		ID:             it.ID,
		Name:           it.Name,
		Description:    it.Description,
		Price:          it.BasePrice,
		Image:          it.ImageURL,
		Tags:           slices.Clone(it.Tags),
		SoldOut:        it.StockStatus == enum.StockSoldOut,
		MaxQuantity:    catalog.DefaultMaxQuantity,
		ModifierGroups: catalog.ModifierGroups{},
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	groups := byDisplayOrder(it.ModifierGroups, func(g dashboard.ModifierGroup) int { return g.DisplayOrder })
	for _, g := range groups {
		cg, err := convertGroup(g)
		if err != nil {
			return catalog.MenuItem{}, err
		}
		out.ModifierGroups = append(out.ModifierGroups, cg)
	}
	return out, out.Validate()
}

// Categories returns the customer-visible categories of m, or nil when the
// menu is not live. Hidden items are dropped, sold-out items are flagged, and
// categories left without items are omitted.
func Categories(m dashboard.Menu) []catalog.Category {
	if m.Status != enum.MenuStatusLive {
		return nil
	}
	out := []catalog.Category{}
	cats := byDisplayOrder(m.Categories, func(c dashboard.Category) int { return c.DisplayOrder })
	for _, c := range cats {
		items := byDisplayOrder(c.Items, func(it dashboard.MenuItem) int { return it.DisplayOrder })
		pc := catalog.Category{ID: c.ID, Name: c.Name, Description: c.Description, Items: []catalog.MenuItem{}}
		for _, it := range items {
			if it.StockStatus == enum.StockHidden {
				continue
			}
			ci, err := convertItem(it)
			if err != nil {
				log.Warn().Err(err).Str("item_id", it.ID).Msg("skip unpublishable item")
				continue
			}
			pc.Items = append(pc.Items, ci)
		}
		if len(pc.Items) > 0 {
			out = append(out, pc)
		}
	}
	return out
}

// OpenStatus reports whether the restaurant is open at now and, if not, when
// it next opens. opensOn names the day when that is not today.
func OpenStatus(hours []dashboard.WorkingHours, now time.Time) (isOpen bool, opensAt, opensOn string) {
	byKey := make(map[string]dashboard.WorkingHours, len(hours))
	for _, wh := range hours {
		byKey[wh.DayKey] = wh
	}

	today, ok := byKey[dayKeys[now.Weekday()]]
	if ok && today.IsOpen {
		open, err1 := dashboard.ParseClock(today.OpenTime)
		closing, err2 := dashboard.ParseClock(today.CloseTime)
		if err1 == nil && err2 == nil {
			minutes := now.Hour()*60 + now.Minute()
			if minutes >= open && minutes < closing {
				return true, "", ""
			}
			if minutes < open {
				return false, today.OpenTime, ""
			}
		}
	}

	for i := 1; i <= 7; i++ {
		wh, ok := byKey[dayKeys[(int(now.Weekday())+i)%7]]
		if !ok || !wh.IsOpen {
			continue
		}
		if _, err := dashboard.ParseClock(wh.OpenTime); err != nil {
			continue
		}
		return false, wh.OpenTime, wh.Day
	}
	return false, "", ""
}

// Restaurant builds the storefront header from settings at now.
func Restaurant(s dashboard.Settings, now time.Time) catalog.Restaurant {
	isOpen, opensAt, opensOn := OpenStatus(s.WorkingHours, now)
	r := catalog.Restaurant{
		Name:              s.Profile.Name,
		CoverImage:        cmp.Or(s.Profile.CoverImageURL, DefaultCoverImage),
		Logo:              cmp.Or(s.Profile.LogoURL, DefaultLogo),
		IsOpen:            isOpen,
		OpensAt:           opensAt,
		OpensOn:           opensOn,
		PrepTime:          fmt.Sprintf("%d dk", s.Delivery.AvgPrepTime),
		MinOrder:          s.Delivery.MinOrderAmount,
		DeliveryFee:       s.Delivery.DeliveryFee,
		DeliveryAvailable: s.Delivery.DeliveryEnabled,
		PickupAvailable:   s.Delivery.PickupEnabled,
		Location: catalog.Location{
			Address: s.Profile.Address,
			Lat:     checkout.DefaultPinLat,
			Lng:     checkout.DefaultPinLng,
		},
		Districts: slices.Clone(Districts),
	}
	return r
}
