package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/flamedough/api/internal/enum"
)

// ModifierGroup is a closed sum type: RemovalGroup, SingleSelectGroup or
// MultiSelectGroup. The unexported method keeps other packages from adding
// variants, so a type switch over the three cases is exhaustive.
type ModifierGroup interface {
	GroupName() string
	GroupType() enum.GroupType
	sealed()
}

// RemovalGroup lists ingredients the customer may leave out. Free of charge.
type RemovalGroup struct {
	Name        string   `json:"name"`
	Ingredients []string `json:"ingredients"`
}

// SingleSelectGroup allows zero or one option; exactly one when Required.
type SingleSelectGroup struct {
	Name            string           `json:"name"`
	Required        bool             `json:"required"`
	Options         []ModifierOption `json:"options"`
	DefaultOptionID string           `json:"defaultOptionId,omitempty"`
}

// MultiSelectGroup allows MinSelections..MaxSelections options, inclusive.
type MultiSelectGroup struct {
	Name          string           `json:"name"`
	MinSelections int              `json:"minSelections"`
	MaxSelections int              `json:"maxSelections"`
	Options       []ModifierOption `json:"options"`
}

func (g RemovalGroup) GroupName() string      { return g.Name }
func (g SingleSelectGroup) GroupName() string { return g.Name }
func (g MultiSelectGroup) GroupName() string  { return g.Name }

func (RemovalGroup) GroupType() enum.GroupType      { return enum.GroupRemoval }
func (SingleSelectGroup) GroupType() enum.GroupType { return enum.GroupSingle }
func (MultiSelectGroup) GroupType() enum.GroupType  { return enum.GroupMulti }

func (RemovalGroup) sealed()      {}
func (SingleSelectGroup) sealed() {}
func (MultiSelectGroup) sealed()  {}

// ModifierGroups is the ordered group list of an item. It carries the wire
// discriminator ("type") so decoding happens once, here.
type ModifierGroups []ModifierGroup

type taggedGroup struct {
	Type enum.GroupType `json:"type"`
}

func (gs ModifierGroups) MarshalJSON() ([]byte, error) {
	out := make([]json.RawMessage, 0, len(gs))
	for _, g := range gs {
		var (
			raw []byte
			err error
		)
		switch g := g.(type) {
		case RemovalGroup:
			raw, err = json.Marshal(struct {
				Type enum.GroupType `json:"type"`
				RemovalGroup
			}{g.GroupType(), g})
		case SingleSelectGroup:
			raw, err = json.Marshal(struct {
				Type enum.GroupType `json:"type"`
				SingleSelectGroup
			}{g.GroupType(), g})
		case MultiSelectGroup:
			raw, err = json.Marshal(struct {
				Type enum.GroupType `json:"type"`
				MultiSelectGroup
			}{g.GroupType(), g})
		default:
			return nil, fmt.Errorf("unknown modifier group %T", g)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	return json.Marshal(out)
}

func (gs *ModifierGroups) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	groups := make(ModifierGroups, 0, len(raws))
	for i, raw := range raws {
		var tag taggedGroup
		if err := json.Unmarshal(raw, &tag); err != nil {
			return fmt.Errorf("modifierGroups[%d]: %w", i, err)
		}
		var (
			g   ModifierGroup
			err error
		)
		switch tag.Type {
		case enum.GroupRemoval:
			var rg RemovalGroup
			err = json.Unmarshal(raw, &rg)
			g = rg
		case enum.GroupSingle:
			var sg SingleSelectGroup
			err = json.Unmarshal(raw, &sg)
			g = sg
		case enum.GroupMulti:
			var mg MultiSelectGroup
			err = json.Unmarshal(raw, &mg)
			g = mg
		default:
			return fmt.Errorf("modifierGroups[%d]: unknown type %q", i, tag.Type)
		}
		if err != nil {
			return fmt.Errorf("modifierGroups[%d]: %w", i, err)
		}
		groups = append(groups, g)
	}
	*gs = groups
	return nil
}
