package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleItem() MenuItem {
	return MenuItem{
		ID:          "adana",
		Name:        "Adana Kebap",
		Price:       180,
		MaxQuantity: DefaultMaxQuantity,
		ModifierGroups: ModifierGroups{
			RemovalGroup{Name: "Malzemeler", Ingredients: []string{"Soğan", "Maydanoz"}},
			SingleSelectGroup{
				Name:            "Porsiyon",
				Required:        true,
				DefaultOptionID: "p1",
				Options: []ModifierOption{
					{ID: "p1", Name: "1 Porsiyon"},
					{ID: "p15", Name: "1.5 Porsiyon", PriceDelta: 60},
				},
			},
			MultiSelectGroup{
				Name:          "Ekstralar",
				MaxSelections: 2,
				Options: []ModifierOption{
					{ID: "x1", Name: "Ayran", PriceDelta: 20},
					{ID: "x2", Name: "Közlenmiş Biber", PriceDelta: 10},
				},
			},
		},
	}
}

func TestModifierGroups_JSONRoundTripKeepsVariants(t *testing.T) {
	item := sampleItem()

	data, err := json.Marshal(item)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"removal"`)
	assert.Contains(t, string(data), `"type":"single"`)
	assert.Contains(t, string(data), `"type":"multi"`)

	var got MenuItem
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got.ModifierGroups, 3)
	assert.IsType(t, RemovalGroup{}, got.ModifierGroups[0])
	assert.IsType(t, SingleSelectGroup{}, got.ModifierGroups[1])
	assert.IsType(t, MultiSelectGroup{}, got.ModifierGroups[2])
	assert.Equal(t, item, got)
}

func TestModifierGroups_UnknownTypeRejected(t *testing.T) {
	var gs ModifierGroups
	err := json.Unmarshal([]byte(`[{"type":"combo","name":"x"}]`), &gs)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, sampleItem().Validate())

	dupOption := sampleItem()
	dupOption.ModifierGroups[1] = SingleSelectGroup{
		Name:    "Porsiyon",
		Options: []ModifierOption{{ID: "a"}, {ID: "a"}},
	}
	assert.ErrorIs(t, dupOption.Validate(), ErrDuplicateOption)

	dupGroup := sampleItem()
	dupGroup.ModifierGroups = append(dupGroup.ModifierGroups, RemovalGroup{Name: "Porsiyon"})
	assert.ErrorIs(t, dupGroup.Validate(), ErrDuplicateGroup)

	badBounds := sampleItem()
	badBounds.ModifierGroups[2] = MultiSelectGroup{Name: "Ekstralar", MinSelections: 3, MaxSelections: 1}
	assert.ErrorIs(t, badBounds.Validate(), ErrSelectionBounds)
}

func TestFindItem(t *testing.T) {
	cats := []Category{{ID: "c1", Items: []MenuItem{sampleItem()}}}

	got, ok := FindItem(cats, "adana")
	require.True(t, ok)
	assert.Equal(t, "Adana Kebap", got.Name)

	_, ok = FindItem(cats, "missing")
	assert.False(t, ok)
}
