package configurator

import (
	"testing"

	"github.com/flamedough/api/internal/catalog"
	"github.com/flamedough/api/internal/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	sauce = catalog.SingleSelectGroup{
		Name:     "Sos",
		Required: true,
		Options: []catalog.ModifierOption{
			{ID: "acili", Name: "Acılı", PriceDelta: 5},
			{ID: "sade", Name: "Sade"},
		},
	}
	extras = catalog.MultiSelectGroup{
		Name:          "Ekstralar",
		MinSelections: 0,
		MaxSelections: 3,
		Options: []catalog.ModifierOption{
			{ID: "a", Name: "Ayran", PriceDelta: 20},
			{ID: "b", Name: "Cacık", PriceDelta: 15},
			{ID: "c", Name: "Ezme", PriceDelta: 10},
			{ID: "d", Name: "Lavaş", PriceDelta: 5},
		},
	}
	onions = catalog.RemovalGroup{Name: "Malzemeler", Ingredients: []string{"Soğan", "Domates"}}
)

func testItem() catalog.MenuItem {
	return catalog.MenuItem{
		ID:             "durum",
		Name:           "Tavuk Dürüm",
		Price:          150,
		MaxQuantity:    10,
		ModifierGroups: catalog.ModifierGroups{onions, sauce, extras},
	}
}

func TestUnitPrice_SumsSelectedDeltas(t *testing.T) {
	item := testItem()

	c1 := New(item)
	c1.SelectSingle("Sos", "acili")
	c1.ToggleMulti(extras, "a")
	c1.ToggleMulti(extras, "b")

	c2 := New(item)
	c2.ToggleMulti(extras, "b")
	c2.ToggleMulti(extras, "a")
	c2.SelectSingle("Sos", "acili")

	assert.Equal(t, int64(150+5+20+15), UnitPrice(item, c1))
	assert.Equal(t, UnitPrice(item, c1), UnitPrice(item, c2))
}

func TestUnitPrice_RemovalsAreFree(t *testing.T) {
	item := testItem()
	c := New(item)
	c.ToggleIngredient("Soğan")
	c.ToggleIngredient("Domates")

	assert.Equal(t, item.Price, UnitPrice(item, c))
}

func TestUnmetGroup_RequiredSingleWithoutDefault(t *testing.T) {
	item := testItem()
	c := New(item)

	name, unmet := UnmetGroup(item, c)
	require.True(t, unmet)
	assert.Equal(t, "Sos", name)

	c.SelectSingle("Sos", "sade")
	_, unmet = UnmetGroup(item, c)
	assert.False(t, unmet)
}

func TestUnmetGroup_FirstInDeclarationOrder(t *testing.T) {
	item := testItem()
	strict := extras
	strict.Name = "Yan Ürün"
	strict.MinSelections = 1
	item.ModifierGroups = catalog.ModifierGroups{strict, sauce}

	name, unmet := UnmetGroup(item, New(item))
	require.True(t, unmet)
	assert.Equal(t, "Yan Ürün", name)
}

func TestNew_PreselectsDefault(t *testing.T) {
	item := testItem()
	withDefault := sauce
	withDefault.DefaultOptionID = "sade"
	item.ModifierGroups = catalog.ModifierGroups{withDefault}

	c := New(item)
	assert.Equal(t, "sade", c.SingleSelections["Sos"])
	assert.Equal(t, 1, c.Quantity)
	_, unmet := UnmetGroup(item, c)
	assert.False(t, unmet)
}

func TestToggleMulti_MaxSelections(t *testing.T) {
	c := New(testItem())
	c.ToggleMulti(extras, "a")
	c.ToggleMulti(extras, "b")
	c.ToggleMulti(extras, "c")

	c.ToggleMulti(extras, "d")
	assert.Len(t, c.MultiSelections["Ekstralar"], 3)
	assert.False(t, c.MultiSelections["Ekstralar"]["d"])

	c.ToggleMulti(extras, "b")
	assert.Len(t, c.MultiSelections["Ekstralar"], 2)
	assert.False(t, c.MultiSelections["Ekstralar"]["b"])
}

func TestSetQuantity_Clamps(t *testing.T) {
	c := New(testItem())
	c.SetQuantity(0, 10)
	assert.Equal(t, 1, c.Quantity)
	c.SetQuantity(42, 10)
	assert.Equal(t, 10, c.Quantity)
	c.SetQuantity(4, 10)
	assert.Equal(t, 4, c.Quantity)
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Configuration)
		item   func(*catalog.MenuItem)
		want   error
	}{
		{name: "unknown single option", mutate: func(c *Configuration) { c.SingleSelections["Sos"] = "nope" }, want: ErrUnknownOption},
		{name: "unknown group", mutate: func(c *Configuration) { c.SingleSelections["Yok"] = "x" }, want: ErrUnknownGroup},
		{name: "type mismatch", mutate: func(c *Configuration) { c.SingleSelections["Ekstralar"] = "a" }, want: ErrGroupMismatch},
		{name: "unknown ingredient", mutate: func(c *Configuration) { c.RemovedIngredients["Kaju"] = true }, want: ErrUnknownOption},
		{name: "quantity", mutate: func(c *Configuration) { c.Quantity = 11 }, want: ErrQuantityRange},
		{
			name: "too many",
			mutate: func(c *Configuration) {
				c.MultiSelections["Ekstralar"] = map[string]bool{"a": true, "b": true, "c": true, "d": true}
			},
			want: ErrTooManyOptions,
		},
		{name: "sold out", item: func(it *catalog.MenuItem) { it.SoldOut = true }, want: ErrItemSoldOut},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := testItem()
			if tt.item != nil {
				tt.item(&item)
			}
			c := New(item)
			c.SelectSingle("Sos", "sade")
			if tt.mutate != nil {
				tt.mutate(&c)
			}
			assert.ErrorIs(t, Check(item, c), tt.want)
		})
	}
}

func TestCheck_RequiredGroupError(t *testing.T) {
	item := testItem()
	err := Check(item, New(item))

	var rg *RequiredGroupError
	require.ErrorAs(t, err, &rg)
	assert.Equal(t, "Sos", rg.Group)
}

func TestBuildLine_SnapshotsInDeclarationOrder(t *testing.T) {
	item := testItem()
	c := New(item)
	c.SelectSingle("Sos", "acili")
	c.ToggleMulti(extras, "c")
	c.ToggleMulti(extras, "a")
	c.ToggleIngredient("Domates")
	c.ToggleIngredient("Soğan")
	c.SetQuantity(2, item.MaxQuantity)

	line, err := BuildLine(item, c)
	require.NoError(t, err)

	assert.Equal(t, "durum", line.MenuItemID)
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, int64(150+5+20+10), line.UnitPrice)
	assert.Equal(t, []string{"Soğan", "Domates"}, line.RemovedIngredients)
	require.Len(t, line.SelectedModifiers, 2)
	assert.Equal(t, enum.GroupSingle, line.SelectedModifiers[0].GroupType)
	assert.Equal(t, "Ekstralar", line.SelectedModifiers[1].GroupName)
	assert.Equal(t, "a", line.SelectedModifiers[1].Options[0].ID)
	assert.Equal(t, "c", line.SelectedModifiers[1].Options[1].ID)
}
