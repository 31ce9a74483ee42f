// Package dashboard holds the merchant-editable menu and settings
// documents and the operations the dashboard performs on them.
package dashboard

import (
	"errors"
	"fmt"

	"github.com/flamedough/api/internal/enum"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrItemNotFound     = errors.New("menu item not found")
	ErrGroupNotFound    = errors.New("modifier group not found")
	ErrOptionNotFound   = errors.New("modifier option not found")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidIndex     = errors.New("index out of range")
	ErrInvalidGroupType = errors.New("invalid modifier group type")
)

// Names given to new and duplicated entities.
const (
	NewItemName    = "Yeni Ürün"
	CopySuffix     = " (Kopya)"
	DefaultTaxRate = 10
)

type ModifierOption struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	PriceDelta  int64            `json:"priceDelta"`
	IsDefault   bool             `json:"isDefault"`
	StockStatus enum.StockStatus `json:"stockStatus"`
}

type ModifierGroup struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Type          enum.GroupType   `json:"type"`
	Required      bool             `json:"required"`
	MinSelections int              `json:"minSelections"`
	MaxSelections int              `json:"maxSelections"`
	DisplayOrder  int              `json:"displayOrder"`
	Options       []ModifierOption `json:"options"`
}

type MenuItem struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	ImageURL       string           `json:"imageUrl"`
	BasePrice      int64            `json:"basePrice"`
	TaxRate        int              `json:"taxRate"`
	Tags           []string         `json:"tags"`
	StockStatus    enum.StockStatus `json:"stockStatus"`
	DisplayOrder   int              `json:"displayOrder"`
	ModifierGroups []ModifierGroup  `json:"modifierGroups"`
}

type Category struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	ImageURL     string     `json:"imageUrl"`
	DisplayOrder int        `json:"displayOrder"`
	Items        []MenuItem `json:"items"`
}

// Menu is the dashboard's editable menu document.
type Menu struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Status     enum.MenuStatus `json:"status"`
	Categories []Category      `json:"categories"`
}

func validMenuStatus(s enum.MenuStatus) bool {
	return s == enum.MenuStatusDraft || s == enum.MenuStatusLive || s == enum.MenuStatusScheduled
}

func validGroupType(t enum.GroupType) bool {
	return t == enum.GroupRemoval || t == enum.GroupSingle || t == enum.GroupMulti
}

func validStock(s enum.StockStatus) bool {
	return s == enum.StockAvailable || s == enum.StockSoldOut || s == enum.StockHidden
}

// --- Lookup ---

func (m *Menu) category(id string) (*Category, error) {
	for i := range m.Categories {
		if m.Categories[i].ID == id {
			return &m.Categories[i], nil
		}
	}
	return nil, fmt.Errorf("%s: %w", id, ErrCategoryNotFound)
}

// item finds an item anywhere in the menu.
func (m *Menu) item(id string) (*MenuItem, error) {
	for ci := range m.Categories {
		for ii := range m.Categories[ci].Items {
			if m.Categories[ci].Items[ii].ID == id {
				return &m.Categories[ci].Items[ii], nil
			}
		}
	}
	return nil, fmt.Errorf("%s: %w", id, ErrItemNotFound)
}

func (it *MenuItem) group(id string) (*ModifierGroup, error) {
	for i := range it.ModifierGroups {
		if it.ModifierGroups[i].ID == id {
			return &it.ModifierGroups[i], nil
		}
	}
	return nil, fmt.Errorf("%s: %w", id, ErrGroupNotFound)
}

func (g *ModifierGroup) option(id string) (*ModifierOption, error) {
	for i := range g.Options {
		if g.Options[i].ID == id {
			return &g.Options[i], nil
		}
	}
	return nil, fmt.Errorf("%s: %w", id, ErrOptionNotFound)
}

// --- Copies ---

// cloneItem deep-copies it, giving the item, its groups and options new ids.
func cloneItem(it MenuItem, newID func() string) MenuItem {
	out := it
	out.ID = newID()
	out.Tags = append([]string(nil), it.Tags...)
	out.ModifierGroups = make([]ModifierGroup, len(it.ModifierGroups))
	for i, g := range it.ModifierGroups {
		ng := g
		ng.ID = newID()
		ng.Options = make([]ModifierOption, len(g.Options))
		for j, o := range g.Options {
			o.ID = newID()
			ng.Options[j] = o
		}
		out.ModifierGroups[i] = ng
	}
	return out
}

func moveIndex[T any](list []T, from, to int) ([]T, error) {
	if from < 0 || from >= len(list) || to < 0 || to >= len(list) {
		return nil, fmt.Errorf("move %d -> %d of %d: %w", from, to, len(list), ErrInvalidIndex)
	}
	out := make([]T, 0, len(list))
	out = append(out, list[:from]...)
	out = append(out, list[from+1:]...)
	moved := list[from]
	out = append(out[:to], append([]T{moved}, out[to:]...)...)
	return out, nil
}
