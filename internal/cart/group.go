package cart

import (
	"github.com/noah-isme/toko-checkout/internal/catalog"
	"github.com/noah-isme/toko-checkout/internal/pricing"
)

// Line is a cart item together with its extended amount.
type Line struct {
	Item   catalog.CartItem
	Amount pricing.Money
}

// Group collects the lines of one category.
type Group struct {
	Category string
	Lines    []Line
	Quantity int
	Amount   pricing.Money
}

// Grouping is the per-category view of a cart. Groups keep the order in which
// their category first appears in the cart.
type Grouping struct {
	Groups        []Group
	TotalAmount   pricing.Money
	TotalQuantity int
}

// HasTotals reports whether the cart holds any quantity to discount.
func (g Grouping) HasTotals() bool {
	return g.TotalQuantity > 0
}

// GroupByCategory buckets the items by product category.
func GroupByCategory(items []catalog.CartItem) Grouping {
	out := Grouping{TotalAmount: pricing.Zero}
	index := make(map[string]int)
	for _, item := range items {
		name := item.CategoryName()
		pos, ok := index[name]
		if !ok {
			pos = len(out.Groups)
			index[name] = pos
			out.Groups = append(out.Groups, Group{Category: name, Amount: pricing.Zero})
		}
		amount := item.Amount()
		g := &out.Groups[pos]
		g.Lines = append(g.Lines, Line{Item: item, Amount: amount})
		g.Quantity += item.Quantity
		g.Amount = g.Amount.Add(amount)

		out.TotalQuantity += item.Quantity
		out.TotalAmount = out.TotalAmount.Add(amount)
	}
	return out
}
