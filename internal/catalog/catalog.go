// Package catalog holds the customer-facing, read-only menu model.
package catalog

import (
	"errors"
	"fmt"
)

// Errors returned by catalog validation.
var (
	ErrDuplicateOption = errors.New("duplicate option id in modifier group")
	ErrDuplicateGroup  = errors.New("duplicate modifier group name")
	ErrSelectionBounds = errors.New("invalid selection bounds")
)

// DefaultMaxQuantity is the per-line quantity cap for published items.
const DefaultMaxQuantity = 10

type Category struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Items       []MenuItem `json:"items"`
}

type MenuItem struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	Price          int64          `json:"price"`
	Image          string         `json:"image"`
	Tags           []string       `json:"tags"`
	SoldOut        bool           `json:"soldOut"`
	MaxQuantity    int            `json:"maxQuantity"`
	ModifierGroups ModifierGroups `json:"modifierGroups"`
}

type ModifierOption struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceDelta int64  `json:"priceDelta"`
}

// Validate checks the structural invariants of an item: option ids unique
// within a group, group names unique within the item, sane multi-select bounds.
func (m MenuItem) Validate() error {
	names := make(map[string]bool, len(m.ModifierGroups))
	for _, g := range m.ModifierGroups {
		if names[g.GroupName()] {
			return fmt.Errorf("%s: %w", g.GroupName(), ErrDuplicateGroup)
		}
		names[g.GroupName()] = true

		switch g := g.(type) {
		case SingleSelectGroup:
			if err := uniqueOptions(g.Options); err != nil {
				return fmt.Errorf("%s: %w", g.Name, err)
			}
		case MultiSelectGroup:
			if err := uniqueOptions(g.Options); err != nil {
				return fmt.Errorf("%s: %w", g.Name, err)
			}
			if g.MinSelections < 0 || g.MaxSelections < g.MinSelections {
				return fmt.Errorf("%s: %w", g.Name, ErrSelectionBounds)
			}
		}
	}
	return nil
}

// Group returns the modifier group with the given name.
func (m MenuItem) Group(name string) (ModifierGroup, bool) {
	for _, g := range m.ModifierGroups {
		if g.GroupName() == name {
			return g, true
		}
	}
	return nil, false
}

// FindItem looks an item up by id across categories.
func FindItem(categories []Category, id string) (MenuItem, bool) {
	for _, c := range categories {
		for _, it := range c.Items {
			if it.ID == id {
				return it, true
			}
		}
	}
	return MenuItem{}, false
}

func uniqueOptions(opts []ModifierOption) error {
	seen := make(map[string]bool, len(opts))
	for _, o := range opts {
		if seen[o.ID] {
			return fmt.Errorf("%q: %w", o.ID, ErrDuplicateOption)
		}
		seen[o.ID] = true
	}
	return nil
}

// OptionByID returns the option with the given id.
func OptionByID(opts []ModifierOption, id string) (ModifierOption, bool) {
	for _, o := range opts {
		if o.ID == id {
			return o, true
		}
	}
	return ModifierOption{}, false
}
