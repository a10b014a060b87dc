package cart

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-checkout/internal/catalog"
	"github.com/noah-isme/toko-checkout/internal/pricing"
)

func product(title, category, price string) *catalog.Product {
	return &catalog.Product{Title: title, Category: category, Price: pricing.MustParse(price)}
}

func TestGroupByCategoryKeepsFirstSeenOrder(t *testing.T) {
	items := []catalog.CartItem{
		{Product: product("Dell Notebook", "Computer", "300"), Quantity: 1},
		{Product: product("Green Apple", "Fruit", "2"), Quantity: 25},
		{Product: product("Orange", "Fruit", "3"), Quantity: 10},
	}
	g := GroupByCategory(items)

	require.True(t, g.HasTotals())
	require.Len(t, g.Groups, 2)
	require.Equal(t, "Computer", g.Groups[0].Category)
	require.Equal(t, "Fruit", g.Groups[1].Category)

	fruit := g.Groups[1]
	require.Equal(t, 35, fruit.Quantity)
	require.True(t, fruit.Amount.Equal(pricing.MustParse("80")))
	require.Len(t, fruit.Lines, 2)
	require.True(t, fruit.Lines[0].Amount.Equal(pricing.MustParse("50")))

	require.Equal(t, 36, g.TotalQuantity)
	require.True(t, g.TotalAmount.Equal(pricing.MustParse("380")))
}

func TestGroupByCategoryEmpty(t *testing.T) {
	for _, items := range [][]catalog.CartItem{nil, {}} {
		g := GroupByCategory(items)
		require.False(t, g.HasTotals())
		require.Empty(t, g.Groups)
		require.Zero(t, g.TotalQuantity)
		require.True(t, g.TotalAmount.IsZero())
	}
}
