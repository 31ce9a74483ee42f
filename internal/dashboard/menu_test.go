package dashboard

import (
	"fmt"
	"testing"

	"github.com/flamedough/api/internal/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func ptr[T any](v T) *T { return &v }

func TestSetStatus(t *testing.T) {
	m := DefaultMenu()
	require.NoError(t, m.SetStatus(enum.MenuStatusDraft))
	assert.Equal(t, enum.MenuStatusDraft, m.Status)

	err := m.SetStatus("archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Equal(t, enum.MenuStatusDraft, m.Status)
}

func TestCategoryLifecycle(t *testing.T) {
	m := DefaultMenu()
	ids := seqIDs()

	c := m.AddCategory("Tatlılar", "Ev yapımı", ids)
	assert.Equal(t, 3, c.DisplayOrder)
	assert.Empty(t, c.Items)
	require.Len(t, m.Categories, 4)

	require.NoError(t, m.UpdateCategory(c.ID, CategoryPatch{Name: ptr("Tatlı")}))
	assert.Equal(t, "Tatlı", m.Categories[3].Name)
	assert.Equal(t, "Ev yapımı", m.Categories[3].Description)

	require.NoError(t, m.DeleteCategory(c.ID))
	assert.Len(t, m.Categories, 3)
	assert.ErrorIs(t, m.DeleteCategory(c.ID), ErrCategoryNotFound)
	assert.ErrorIs(t, m.UpdateCategory("nope", CategoryPatch{}), ErrCategoryNotFound)
}

func TestDuplicateCategory_FreshIDs(t *testing.T) {
	m := DefaultMenu()
	dup, err := m.DuplicateCategory("cat-kebaplar", seqIDs())
	require.NoError(t, err)

	assert.Equal(t, "Kebaplar (Kopya)", dup.Name)
	assert.Equal(t, 3, dup.DisplayOrder)
	require.Len(t, dup.Items, 3)
	assert.NotEqual(t, "item-adana", dup.Items[0].ID)
	assert.NotEqual(t, "mg-porsiyon", dup.Items[0].ModifierGroups[0].ID)
	assert.NotEqual(t, "opt-tek", dup.Items[0].ModifierGroups[0].Options[0].ID)

	// the copy is independent of the source
	m.Categories[3].Items[0].Tags[0] = "Değişti"
	assert.Equal(t, "Acılı", m.Categories[0].Items[0].Tags[0])
}

func TestReorderCategories(t *testing.T) {
	m := DefaultMenu()
	require.NoError(t, m.ReorderCategories(2, 0))

	var names []string
	for i, c := range m.Categories {
		names = append(names, c.Name)
		assert.Equal(t, i, c.DisplayOrder)
	}
	assert.Equal(t, []string{"İçecekler", "Kebaplar", "Pideler"}, names)

	assert.ErrorIs(t, m.ReorderCategories(0, 3), ErrInvalidIndex)
	assert.ErrorIs(t, m.ReorderCategories(-1, 0), ErrInvalidIndex)
}

func TestAddItem_Placeholder(t *testing.T) {
	m := DefaultMenu()
	it, err := m.AddItem("cat-pideler", seqIDs())
	require.NoError(t, err)

	assert.Equal(t, NewItemName, it.Name)
	assert.Zero(t, it.BasePrice)
	assert.Equal(t, DefaultTaxRate, it.TaxRate)
	assert.Equal(t, enum.StockAvailable, it.StockStatus)
	assert.Equal(t, 3, it.DisplayOrder)

	_, err = m.AddItem("nope", seqIDs())
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestUpdateItem(t *testing.T) {
	m := DefaultMenu()
	require.NoError(t, m.UpdateItem("item-ayran", ItemPatch{
		BasePrice: ptr(int64(25)),
		Tags:      ptr([]string{"Soğuk"}),
	}))
	it, err := m.item("item-ayran")
	require.NoError(t, err)
	assert.Equal(t, int64(25), it.BasePrice)
	assert.Equal(t, []string{"Soğuk"}, it.Tags)
	assert.Equal(t, "Ayran", it.Name)

	bad := enum.StockStatus("gone")
	assert.ErrorIs(t, m.UpdateItem("item-ayran", ItemPatch{StockStatus: &bad}), ErrInvalidStatus)
	assert.ErrorIs(t, m.UpdateItem("nope", ItemPatch{}), ErrItemNotFound)
}

func TestDeleteAndDuplicateItem(t *testing.T) {
	m := DefaultMenu()
	dup, err := m.DuplicateItem("cat-icecekler", "item-kola", seqIDs())
	require.NoError(t, err)
	assert.Equal(t, "Kola (Kopya)", dup.Name)
	assert.Equal(t, 3, dup.DisplayOrder)

	require.NoError(t, m.DeleteItem("cat-icecekler", "item-kola"))
	assert.Len(t, m.Categories[2].Items, 3)
	assert.ErrorIs(t, m.DeleteItem("cat-icecekler", "item-kola"), ErrItemNotFound)
	_, err = m.DuplicateItem("cat-icecekler", "item-kola", seqIDs())
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestToggleItemStock(t *testing.T) {
	m := DefaultMenu()

	s, err := m.ToggleItemStock("cat-kebaplar", "item-kusbasi")
	require.NoError(t, err)
	assert.Equal(t, enum.StockAvailable, s)

	s, err = m.ToggleItemStock("cat-kebaplar", "item-kusbasi")
	require.NoError(t, err)
	assert.Equal(t, enum.StockSoldOut, s)

	hidden := enum.StockHidden
	require.NoError(t, m.UpdateItem("item-urfa", ItemPatch{StockStatus: &hidden}))
	s, err = m.ToggleItemStock("cat-kebaplar", "item-urfa")
	require.NoError(t, err)
	assert.Equal(t, enum.StockAvailable, s)
}

func TestModifierGroupsAndOptions(t *testing.T) {
	m := DefaultMenu()
	ids := seqIDs()

	g, err := m.AddModifierGroup("item-kiymali", GroupInput{
		Name:          "Soslar",
		Type:          enum.GroupMulti,
		MaxSelections: 2,
		Options:       []ModifierOption{{Name: "Acı", PriceDelta: 5}},
	}, ids)
	require.NoError(t, err)
	assert.Equal(t, 0, g.DisplayOrder)
	require.Len(t, g.Options, 1)
	assert.NotEmpty(t, g.Options[0].ID)
	assert.Equal(t, enum.StockAvailable, g.Options[0].StockStatus)

	_, err = m.AddModifierGroup("item-kiymali", GroupInput{Name: "x", Type: "combo"}, ids)
	assert.ErrorIs(t, err, ErrInvalidGroupType)

	require.NoError(t, m.UpdateModifierGroup("item-kiymali", g.ID, GroupPatch{MaxSelections: ptr(3)}))

	o, err := m.AddModifierOption("item-kiymali", g.ID, ModifierOption{Name: "Sarımsaklı", PriceDelta: 5}, ids)
	require.NoError(t, err)
	require.NoError(t, m.UpdateModifierOption("item-kiymali", g.ID, o.ID, OptionPatch{PriceDelta: ptr(int64(7))}))

	it, err := m.item("item-kiymali")
	require.NoError(t, err)
	require.Len(t, it.ModifierGroups, 1)
	assert.Equal(t, 3, it.ModifierGroups[0].MaxSelections)
	assert.Equal(t, int64(7), it.ModifierGroups[0].Options[1].PriceDelta)

	require.NoError(t, m.DeleteModifierOption("item-kiymali", g.ID, o.ID))
	assert.ErrorIs(t, m.DeleteModifierOption("item-kiymali", g.ID, o.ID), ErrOptionNotFound)

	require.NoError(t, m.DeleteModifierGroup("item-kiymali", g.ID))
	assert.ErrorIs(t, m.DeleteModifierGroup("item-kiymali", g.ID), ErrGroupNotFound)
}
