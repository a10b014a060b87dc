package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-checkout/internal/pricing"
)

func sampleHierarchy() *Hierarchy {
	return NewHierarchy([]Category{
		{Name: "Apple", Parent: "Fruit"},
		{Name: "Fruit", Parent: "Food"},
		{Name: "Food"},
		{Name: "Adidas", Parent: "Shoes"},
		{Name: "Shoes"},
	})
}

func TestLineageWalksAncestorsNearestFirst(t *testing.T) {
	h := sampleHierarchy()

	path, err := h.Lineage("Apple")
	require.NoError(t, err)
	require.Equal(t, []string{"Apple", "Fruit", "Food"}, path)

	path, err = h.Lineage("Food")
	require.NoError(t, err)
	require.Equal(t, []string{"Food"}, path)
}

func TestLineageUnknownCategory(t *testing.T) {
	path, err := sampleHierarchy().Lineage("Computer")
	require.NoError(t, err)
	require.Empty(t, path)

	var nilHierarchy *Hierarchy
	path, err = nilHierarchy.Lineage("Food")
	require.NoError(t, err)
	require.Empty(t, path)
}

func TestLineageStopsAtMissingParent(t *testing.T) {
	h := NewHierarchy([]Category{{Name: "Phone", Parent: "Electronics"}})
	path, err := h.Lineage("Phone")
	require.NoError(t, err)
	require.Equal(t, []string{"Phone"}, path)
}

func TestLineageDetectsCycle(t *testing.T) {
	h := NewHierarchy([]Category{
		{Name: "A", Parent: "B"},
		{Name: "B", Parent: "C"},
		{Name: "C", Parent: "A"},
	})
	_, err := h.Lineage("A")
	require.ErrorIs(t, err, ErrCyclicCategoryHierarchy)

	self := NewHierarchy([]Category{{Name: "Loop", Parent: "Loop"}})
	_, err = self.Lineage("Loop")
	require.ErrorIs(t, err, ErrCyclicCategoryHierarchy)
}

func TestNewHierarchyKeepsFirstDefinition(t *testing.T) {
	h := NewHierarchy([]Category{{Name: "Fruit", Parent: "Food"}, {Name: "Fruit"}, {Name: " "}})
	parent, ok := h.Parent("Fruit")
	require.True(t, ok)
	require.Equal(t, "Food", parent)
	require.Len(t, h.Categories(), 1)
}

func TestNewHierarchyMatchesNamesExactly(t *testing.T) {
	h := NewHierarchy([]Category{{Name: " Fruit", Parent: "Food "}, {Name: "Food"}})
	require.True(t, h.Contains(" Fruit"))
	require.False(t, h.Contains("Fruit"))

	path, err := h.Lineage(" Fruit")
	require.NoError(t, err)
	require.Equal(t, []string{" Fruit"}, path, "a padded parent is a different category")
}

func TestCartItemAmount(t *testing.T) {
	apple := &Product{Title: "Green Apple", Category: "Fruit", Price: pricing.MustParse("2.5")}
	require.True(t, CartItem{Product: apple, Quantity: 4}.Amount().Equal(pricing.MustParse("10")))
	require.True(t, CartItem{Quantity: 4}.Amount().IsZero())
	require.Equal(t, "Fruit", CartItem{Product: apple}.CategoryName())
}
