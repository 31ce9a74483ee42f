package dashboard

import (
	"fmt"

	"github.com/flamedough/api/internal/enum"
)

// CategoryPatch holds the category fields to change; nil means unchanged.
type CategoryPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ImageURL    *string `json:"imageUrl"`
}

// ItemPatch holds the item fields to change; nil means unchanged.
type ItemPatch struct {
	Name        *string           `json:"name"`
	Description *string           `json:"description"`
	ImageURL    *string           `json:"imageUrl"`
	BasePrice   *int64            `json:"basePrice"`
	TaxRate     *int              `json:"taxRate"`
	Tags        *[]string         `json:"tags"`
	StockStatus *enum.StockStatus `json:"stockStatus"`
}

// GroupInput describes a new modifier group.
type GroupInput struct {
	Name          string           `json:"name"`
	Type          enum.GroupType   `json:"type"`
	Required      bool             `json:"required"`
	MinSelections int              `json:"minSelections"`
	MaxSelections int              `json:"maxSelections"`
	Options       []ModifierOption `json:"options"`
}

// GroupPatch holds the group fields to change; nil means unchanged.
type GroupPatch struct {
	Name          *string         `json:"name"`
	Type          *enum.GroupType `json:"type"`
	Required      *bool           `json:"required"`
	MinSelections *int            `json:"minSelections"`
	MaxSelections *int            `json:"maxSelections"`
}

// OptionPatch holds the option fields to change; nil means unchanged.
type OptionPatch struct {
	Name        *string           `json:"name"`
	PriceDelta  *int64            `json:"priceDelta"`
	IsDefault   *bool             `json:"isDefault"`
	StockStatus *enum.StockStatus `json:"stockStatus"`
}

func (m *Menu) SetStatus(s enum.MenuStatus) error {
	if !validMenuStatus(s) {
		return fmt.Errorf("%q: %w", s, ErrInvalidStatus)
	}
	m.Status = s
	return nil
}

// --- Categories ---

func (m *Menu) AddCategory(name, description string, newID func() string) Category {
	c := Category{
		ID:           newID(),
		Name:         name,
		Description:  description,
		DisplayOrder: len(m.Categories),
		Items:        []MenuItem{},
	}
	m.Categories = append(m.Categories, c)
	return c
}

func (m *Menu) UpdateCategory(id string, p CategoryPatch) error {
	c, err := m.category(id)
	if err != nil {
		return err
	}
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.ImageURL != nil {
		c.ImageURL = *p.ImageURL
	}
	return nil
}

func (m *Menu) DeleteCategory(id string) error {
	for i := range m.Categories {
		if m.Categories[i].ID == id {
			m.Categories = append(m.Categories[:i:i], m.Categories[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%s: %w", id, ErrCategoryNotFound)
}

// DuplicateCategory appends a deep copy named "<name> (Kopya)" with fresh ids.
func (m *Menu) DuplicateCategory(id string, newID func() string) (Category, error) {
	src, err := m.category(id)
	if err != nil {
		return Category{}, err
	}
	c := *src
	c.ID = newID()
	c.Name = src.Name + CopySuffix
	c.DisplayOrder = len(m.Categories)
	c.Items = make([]MenuItem, len(src.Items))
	for i, it := range src.Items {
		c.Items[i] = cloneItem(it, newID)
	}
	m.Categories = append(m.Categories, c)
	return c, nil
}

// ReorderCategories moves a category and renumbers DisplayOrder by position.
func (m *Menu) ReorderCategories(from, to int) error {
	cats, err := moveIndex(m.Categories, from, to)
	if err != nil {
		return err
	}
	for i := range cats {
		cats[i].DisplayOrder = i
	}
	m.Categories = cats
	return nil
}

// --- Items ---

// AddItem appends a placeholder item to the category.
func (m *Menu) AddItem(categoryID string, newID func() string) (MenuItem, error) {
	c, err := m.category(categoryID)
	if err != nil {
		return MenuItem{}, err
	}
	it := MenuItem{
		ID:             newID(),
		Name:           NewItemName,
		TaxRate:        DefaultTaxRate,
		Tags:           []string{},
		StockStatus:    enum.StockAvailable,
		DisplayOrder:   len(c.Items),
		ModifierGroups: []ModifierGroup{},
	}
	c.Items = append(c.Items, it)
	return it, nil
}

func (m *Menu) UpdateItem(itemID string, p ItemPatch) error {
	it, err := m.item(itemID)
	if err != nil {
		return err
	}
	if p.StockStatus != nil && !validStock(*p.StockStatus) {
		return fmt.Errorf("%q: %w", *p.StockStatus, ErrInvalidStatus)
	}
	if p.Name != nil {
		it.Name = *p.Name
	}
	if p.Description != nil {
		it.Description = *p.Description
	}
	if p.ImageURL != nil {
		it.ImageURL = *p.ImageURL
	}
	if p.BasePrice != nil {
		it.BasePrice = *p.BasePrice
	}
	if p.TaxRate != nil {
		it.TaxRate = *p.TaxRate
	}
	if p.Tags != nil {
		it.Tags = append([]string{}, (*p.Tags)...)
	}
	if p.StockStatus != nil {
		it.StockStatus = *p.StockStatus
	}
	return nil
}

func (m *Menu) DeleteItem(categoryID, itemID string) error {
	c, err := m.category(categoryID)
	if err != nil {
		return err
	}
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items = append(c.Items[:i:i], c.Items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%s: %w", itemID, ErrItemNotFound)
}

// DuplicateItem appends a deep copy of the item to its category.
func (m *Menu) DuplicateItem(categoryID, itemID string, newID func() string) (MenuItem, error) {
	c, err := m.category(categoryID)
	if err != nil {
		return MenuItem{}, err
	}
	for _, src := range c.Items {
		if src.ID != itemID {
			continue
		}
		it := cloneItem(src, newID)
		it.Name = src.Name + CopySuffix
		it.DisplayOrder = len(c.Items)
		c.Items = append(c.Items, it)
		return it, nil
	}
	return MenuItem{}, fmt.Errorf("%s: %w", itemID, ErrItemNotFound)
}

// ToggleItemStock flips available and sold_out. Any other status becomes
// available.
func (m *Menu) ToggleItemStock(categoryID, itemID string) (enum.StockStatus, error) {
	c, err := m.category(categoryID)
	if err != nil {
		return "", err
	}
	for i := range c.Items {
		if c.Items[i].ID != itemID {
			continue
		}
		if c.Items[i].StockStatus == enum.StockAvailable {
			c.Items[i].StockStatus = enum.StockSoldOut
		} else {
			c.Items[i].StockStatus = enum.StockAvailable
		}
		return c.Items[i].StockStatus, nil
	}
	return "", fmt.Errorf("%s: %w", itemID, ErrItemNotFound)
}

// --- Modifier groups ---

func (m *Menu) AddModifierGroup(itemID string, in GroupInput, newID func() string) (ModifierGroup, error) {
	if !validGroupType(in.Type) {
		return ModifierGroup{}, fmt.Errorf("%q: %w", in.Type, ErrInvalidGroupType)
	}
	it, err := m.item(itemID)
	if err != nil {
		return ModifierGroup{}, err
	}
	g := ModifierGroup{
		ID:            newID(),
		Name:          in.Name,
		Type:          in.Type,
		Required:      in.Required,
		MinSelections: in.MinSelections,
		MaxSelections: in.MaxSelections,
		DisplayOrder:  len(it.ModifierGroups),
		Options:       make([]ModifierOption, 0, len(in.Options)),
	}
	for _, o := range in.Options {
		o.ID = newID()
		if o.StockStatus == "" {
			o.StockStatus = enum.StockAvailable
		}
		g.Options = append(g.Options, o)
	}
	it.ModifierGroups = append(it.ModifierGroups, g)
	return g, nil
}

func (m *Menu) UpdateModifierGroup(itemID, groupID string, p GroupPatch) error {
	it, err := m.item(itemID)
	if err != nil {
		return err
	}
	g, err := it.group(groupID)
	if err != nil {
		return err
	}
	if p.Type != nil && !validGroupType(*p.Type) {
		return fmt.Errorf("%q: %w", *p.Type, ErrInvalidGroupType)
	}
	if p.Name != nil {
		g.Name = *p.Name
	}
	if p.Type != nil {
		g.Type = *p.Type
	}
	if p.Required != nil {
		g.Required = *p.Required
	}
	if p.MinSelections != nil {
		g.MinSelections = *p.MinSelections
	}
	if p.MaxSelections != nil {
		g.MaxSelections = *p.MaxSelections
	}
	return nil
}

func (m *Menu) DeleteModifierGroup(itemID, groupID string) error {
	it, err := m.item(itemID)
	if err != nil {
		return err
	}
	for i := range it.ModifierGroups {
		if it.ModifierGroups[i].ID == groupID {
			it.ModifierGroups = append(it.ModifierGroups[:i:i], it.ModifierGroups[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%s: %w", groupID, ErrGroupNotFound)
}

// --- Modifier options ---

func (m *Menu) AddModifierOption(itemID, groupID string, o ModifierOption, newID func() string) (ModifierOption, error) {
	it, err := m.item(itemID)
	if err != nil {
		return ModifierOption{}, err
	}
	g, err := it.group(groupID)
	if err != nil {
		return ModifierOption{}, err
	}
	o.ID = newID()
	if o.StockStatus == "" {
		o.StockStatus = enum.StockAvailable
	}
	g.Options = append(g.Options, o)
	return o, nil
}

func (m *Menu) UpdateModifierOption(itemID, groupID, optionID string, p OptionPatch) error {
	it, err := m.item(itemID)
	if err != nil {
		return err
	}
	g, err := it.group(groupID)
	if err != nil {
		return err
	}
	o, err := g.option(optionID)
	if err != nil {
		return err
	}
	if p.StockStatus != nil && !validStock(*p.StockStatus) {
		return fmt.Errorf("%q: %w", *p.StockStatus, ErrInvalidStatus)
	}
	if p.Name != nil {
		o.Name = *p.Name
	}
	if p.PriceDelta != nil {
		o.PriceDelta = *p.PriceDelta
	}
	if p.IsDefault != nil {
		o.IsDefault = *p.IsDefault
	}
	if p.StockStatus != nil {
		o.StockStatus = *p.StockStatus
	}
	return nil
}

func (m *Menu) DeleteModifierOption(itemID, groupID, optionID string) error {
	it, err := m.item(itemID)
	if err != nil {
		return err
	}
	g, err := it.group(groupID)
	if err != nil {
		return err
	}
	for i := range g.Options {
		if g.Options[i].ID == optionID {
			g.Options = append(g.Options[:i:i], g.Options[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%s: %w", optionID, ErrOptionNotFound)
}
