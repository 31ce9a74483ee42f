// Package configurator turns a menu item plus the customer's modifier
// selections into a validated, priced cart line.
package configurator

import (
	"errors"
	"fmt"

	"github.com/flamedough/api/internal/catalog"
	"github.com/flamedough/api/internal/enum"
)

// Errors returned by Check and BuildLine.
var (
	ErrUnknownGroup   = errors.New("unknown modifier group")
	ErrUnknownOption  = errors.New("unknown modifier option")
	ErrGroupMismatch  = errors.New("selection does not match group type")
	ErrTooManyOptions = errors.New("too many options selected")
	ErrQuantityRange  = errors.New("quantity out of range")
	ErrItemSoldOut    = errors.New("item is sold out")
)

// RequiredGroupError names the first group whose requirement is unmet.
type RequiredGroupError struct {
	Group string
}

func (e *RequiredGroupError) Error() string {
	return fmt.Sprintf("required modifier group %q is unmet", e.Group)
}

// Configuration is the ephemeral state of one add-to-cart interaction.
type Configuration struct {
	RemovedIngredients map[string]bool            `json:"removedIngredients"`
	SingleSelections   map[string]string          `json:"singleSelections"`
	MultiSelections    map[string]map[string]bool `json:"multiSelections"`
	Quantity           int                        `json:"quantity"`
}

// New returns the initial configuration for item: single-select defaults
// pre-selected, empty multi-selections, nothing removed, quantity 1.
func New(item catalog.MenuItem) Configuration {
	c := Configuration{
		RemovedIngredients: make(map[string]bool),
		SingleSelections:   make(map[string]string),
		MultiSelections:    make(map[string]map[string]bool),
		Quantity:           1,
	}
	for _, g := range item.ModifierGroups {
		switch g := g.(type) {
		case catalog.SingleSelectGroup:
			if g.DefaultOptionID != "" {
				if _, ok := catalog.OptionByID(g.Options, g.DefaultOptionID); ok {
					c.SingleSelections[g.Name] = g.DefaultOptionID
				}
			}
		case catalog.MultiSelectGroup:
			c.MultiSelections[g.Name] = make(map[string]bool)
		}
	}
	return c
}

// ToggleIngredient removes the ingredient if present, or restores it.
func (c *Configuration) ToggleIngredient(ingredient string) {
	if c.RemovedIngredients == nil {
		c.RemovedIngredients = make(map[string]bool)
	}
	if c.RemovedIngredients[ingredient] {
		delete(c.RemovedIngredients, ingredient)
		return
	}
	c.RemovedIngredients[ingredient] = true
}

// SelectSingle chooses optionID for a single-select group, replacing any
// previous choice.
func (c *Configuration) SelectSingle(group, optionID string) {
	if c.SingleSelections == nil {
		c.SingleSelections = make(map[string]string)
	}
	c.SingleSelections[group] = optionID
}

// ToggleMulti removes optionID if selected; otherwise adds it unless the
// group is already at MaxSelections, in which case nothing changes.
func (c *Configuration) ToggleMulti(g catalog.MultiSelectGroup, optionID string) {
	if c.MultiSelections == nil {
		c.MultiSelections = make(map[string]map[string]bool)
	}
	current := c.MultiSelections[g.Name]
	if current == nil {
		current = make(map[string]bool)
		c.MultiSelections[g.Name] = current
	}
	if current[optionID] {
		delete(current, optionID)
		return
	}
	if len(current) < g.MaxSelections {
		current[optionID] = true
	}
}

// SetQuantity clamps q into 1..max.
func (c *Configuration) SetQuantity(q, max int) {
	if max < 1 {
		max = catalog.DefaultMaxQuantity
	}
	switch {
	case q < 1:
		c.Quantity = 1
	case q > max:
		c.Quantity = max
	default:
		c.Quantity = q
	}
}

// UnitPrice is base price plus the deltas of every selected single- and
// multi-select option. Removals never affect price; unknown ids are ignored.
func UnitPrice(item catalog.MenuItem, c Configuration) int64 {
	price := item.Price
	for _, g := range item.ModifierGroups {
		switch g := g.(type) {
		case catalog.SingleSelectGroup:
			if id, ok := c.SingleSelections[g.Name]; ok {
				if opt, ok := catalog.OptionByID(g.Options, id); ok {
					price += opt.PriceDelta
				}
			}
		case catalog.MultiSelectGroup:
			for id := range c.MultiSelections[g.Name] {
				if opt, ok := catalog.OptionByID(g.Options, id); ok {
					price += opt.PriceDelta
				}
			}
		case catalog.RemovalGroup:
		}
	}
	return price
}

// UnmetGroup scans groups in declaration order and returns the name of the
// first required group that is not satisfied.
func UnmetGroup(item catalog.MenuItem, c Configuration) (string, bool) {
	for _, g := range item.ModifierGroups {
		switch g := g.(type) {
		case catalog.SingleSelectGroup:
			if g.Required && c.SingleSelections[g.Name] == "" {
				return g.Name, true
			}
		case catalog.MultiSelectGroup:
			if len(c.MultiSelections[g.Name]) < g.MinSelections {
				return g.Name, true
			}
		case catalog.RemovalGroup:
		}
	}
	return "", false
}

// Check validates a configuration received from outside the process:
// every referenced group and option must exist, multi-select counts must
// respect MaxSelections, quantity must be in range and required groups met.
func Check(item catalog.MenuItem, c Configuration) error {
	if item.SoldOut {
		return ErrItemSoldOut
	}
	max := item.MaxQuantity
	if max < 1 {
		max = catalog.DefaultMaxQuantity
	}
	if c.Quantity < 1 || c.Quantity > max {
		return fmt.Errorf("%d not in 1..%d: %w", c.Quantity, max, ErrQuantityRange)
	}

	for ingredient := range c.RemovedIngredients {
		if !hasIngredient(item, ingredient) {
			return fmt.Errorf("ingredient %q: %w", ingredient, ErrUnknownOption)
		}
	}
	for name, id := range c.SingleSelections {
		g, ok := item.Group(name)
		if !ok {
			return fmt.Errorf("%q: %w", name, ErrUnknownGroup)
		}
		sg, ok := g.(catalog.SingleSelectGroup)
		if !ok {
			return fmt.Errorf("%q: %w", name, ErrGroupMismatch)
		}
		if id == "" {
			continue
		}
		if _, ok := catalog.OptionByID(sg.Options, id); !ok {
			return fmt.Errorf("%q/%q: %w", name, id, ErrUnknownOption)
		}
	}
	for name, ids := range c.MultiSelections {
		g, ok := item.Group(name)
		if !ok {
			return fmt.Errorf("%q: %w", name, ErrUnknownGroup)
		}
		mg, ok := g.(catalog.MultiSelectGroup)
		if !ok {
			return fmt.Errorf("%q: %w", name, ErrGroupMismatch)
		}
		if len(ids) > mg.MaxSelections {
			return fmt.Errorf("%q: %w", name, ErrTooManyOptions)
		}
		for id := range ids {
			if _, ok := catalog.OptionByID(mg.Options, id); !ok {
				return fmt.Errorf("%q/%q: %w", name, id, ErrUnknownOption)
			}
		}
	}

	if name, unmet := UnmetGroup(item, c); unmet {
		return &RequiredGroupError{Group: name}
	}
	return nil
}

func hasIngredient(item catalog.MenuItem, ingredient string) bool {
	for _, g := range item.ModifierGroups {
		rg, ok := g.(catalog.RemovalGroup)
		if !ok {
			continue
		}
		for _, ing := range rg.Ingredients {
			if ing == ingredient {
				return true
			}
		}
	}
	return false
}

// SelectedModifier records the options actually chosen in one group.
type SelectedModifier struct {
	GroupName string                   `json:"groupName"`
	GroupType enum.GroupType           `json:"groupType"`
	Options   []catalog.ModifierOption `json:"options"`
}

// Line is a configured item ready to be appended to a cart. UnitPrice is
// frozen here and never recomputed from the live catalog.
type Line struct {
	MenuItemID         string             `json:"menuItemId"`
	Name               string             `json:"name"`
	Image              string             `json:"image"`
	BasePrice          int64              `json:"basePrice"`
	Quantity           int                `json:"quantity"`
	UnitPrice          int64              `json:"unitPrice"`
	RemovedIngredients []string           `json:"removedIngredients"`
	SelectedModifiers  []SelectedModifier `json:"selectedModifiers"`
}

// BuildLine checks c against item and snapshots the result. Removed
// ingredients and options are listed in declaration order so the line does
// not depend on selection order.
func BuildLine(item catalog.MenuItem, c Configuration) (Line, error) {
	if err := Check(item, c); err != nil {
		return Line{}, err
	}

	line := Line{
		MenuItemID:         item.ID,
		Name:               item.Name,
		Image:              item.Image,
		BasePrice:          item.Price,
		Quantity:           c.Quantity,
		UnitPrice:          UnitPrice(item, c),
		RemovedIngredients: []string{},
		SelectedModifiers:  []SelectedModifier{},
	}

	for _, g := range item.ModifierGroups {
		switch g := g.(type) {
		case catalog.RemovalGroup:
			for _, ing := range g.Ingredients {
				if c.RemovedIngredients[ing] {
					line.RemovedIngredients = append(line.RemovedIngredients, ing)
				}
			}
		case catalog.SingleSelectGroup:
			if opt, ok := catalog.OptionByID(g.Options, c.SingleSelections[g.Name]); ok {
				line.SelectedModifiers = append(line.SelectedModifiers, SelectedModifier{
					GroupName: g.Name,
					GroupType: enum.GroupSingle,
					Options:   []catalog.ModifierOption{opt},
				})
			}
		case catalog.MultiSelectGroup:
			var chosen []catalog.ModifierOption
			for _, opt := range g.Options {
				if c.MultiSelections[g.Name][opt.ID] {
					chosen = append(chosen, opt)
				}
			}
			if len(chosen) > 0 {
				line.SelectedModifiers = append(line.SelectedModifiers, SelectedModifier{
					GroupName: g.Name,
					GroupType: enum.GroupMulti,
					Options:   chosen,
				})
			}
		}
	}
	return line, nil
}
